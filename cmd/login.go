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

var loginCmd = &cobra.Command{
	Use:   "login [email]",
	Short: "Sign in and store the session token",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		ctx := cmd.Context()

		var email string
		if len(args) == 1 {
			email = args[0]
		} else {
			fmt.Print("Email: ")
			reader := bufio.NewReader(os.Stdin)
			line, err := reader.ReadString('\n')
			if err != nil {
				return err
			}
			email = strings.TrimSpace(line)
		}

		fmt.Print("Password: ")
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}

		token, err := d.svc.Login(ctx, api.LoginInput{Email: email, Password: string(password)})
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		if err := d.authCtx.SetToken(ctx, token); err != nil {
			return fmt.Errorf("store token: %w", err)
		}

		if user, err := d.svc.CurrentUser(ctx); err == nil {
			fmt.Printf("Signed in as %s (%s)\n", user.FullName, user.Email)
		} else {
			fmt.Println("Signed in.")
		}
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored token",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		if !d.authCtx.LoggedIn() {
			fmt.Println("Not signed in.")
			return nil
		}
		if err := d.authCtx.Clear(cmd.Context()); err != nil {
			return fmt.Errorf("clear token: %w", err)
		}
		fmt.Println("Signed out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		user, err := d.svc.CurrentUser(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("%s <%s>\n", user.FullName, user.Email)
		fmt.Printf("class level: %s  role: %s  verified: %t\n", user.ClassLevel, user.Role, user.IsVerified)
		return nil
	},
}
