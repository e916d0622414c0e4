package cmd

import (
	"fmt"
	"strings"

	"github.com/akhaled/eduterm/internal/api"
	"github.com/akhaled/eduterm/internal/app"
	"github.com/akhaled/eduterm/internal/screens/examsession"
	"github.com/spf13/cobra"
)

var takeCmd = &cobra.Command{
	Use:   "take <exam id or title>",
	Short: "Jump straight into an exam",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		if !d.authCtx.LoggedIn() {
			return fmt.Errorf("not signed in; run: eduterm login")
		}

		exams, err := d.svc.Exams(cmd.Context())
		if err != nil {
			return err
		}
		exam, err := matchExam(exams, args[0])
		if err != nil {
			return err
		}

		return app.Run(app.Options{
			API:     d.svc,
			Auth:    d.authCtx,
			Events:  d.store.EventRepo(),
			Initial: examsession.New(d.svc, d.store.EventRepo(), exam),
		})
	},
}

// matchExam resolves the argument as an exact id or a unique
// case-insensitive title prefix.
func matchExam(exams []api.Exam, arg string) (api.Exam, error) {
	for _, e := range exams {
		if e.ID == arg {
			return e, nil
		}
	}

	needle := strings.ToLower(arg)
	var matches []api.Exam
	for _, e := range exams {
		if strings.HasPrefix(strings.ToLower(e.Title), needle) {
			matches = append(matches, e)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return api.Exam{}, fmt.Errorf("no exam matches %q; run: eduterm exams", arg)
	default:
		titles := make([]string, len(matches))
		for i, e := range matches {
			titles[i] = e.Title
		}
		return api.Exam{}, fmt.Errorf("%q is ambiguous: %s", arg, strings.Join(titles, ", "))
	}
}
