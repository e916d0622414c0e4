package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/akhaled/eduterm/internal/api"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Register a new EduMaster account",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		reader := bufio.NewReader(os.Stdin)
		prompt := func(label string) (string, error) {
			fmt.Print(label + ": ")
			line, err := reader.ReadString('\n')
			if err != nil {
				return "", err
			}
			return strings.TrimSpace(line), nil
		}

		in := api.SignupInput{}
		fields := []struct {
			label string
			dst   *string
		}{
			{"Full name", &in.FullName},
			{"Email", &in.Email},
			{"Phone number", &in.PhoneNumber},
			{"Class level", &in.ClassLevel},
		}
		for _, f := range fields {
			v, err := prompt(f.label)
			if err != nil {
				return err
			}
			*f.dst = v
		}

		fmt.Print("Password: ")
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		fmt.Print("Confirm password: ")
		confirm, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		if string(password) != string(confirm) {
			return fmt.Errorf("passwords do not match")
		}
		in.Password = string(password)
		in.ConfirmPass = string(confirm)

		user, err := d.svc.Signup(cmd.Context(), in)
		if err != nil {
			return fmt.Errorf("signup failed: %w", err)
		}

		name := in.FullName
		if user != nil && user.FullName != "" {
			name = user.FullName
		}
		fmt.Printf("Account created for %s. Sign in with: eduterm login %s\n", name, in.Email)
		return nil
	},
}
