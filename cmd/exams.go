package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/akhaled/eduterm/internal/api"
	"github.com/spf13/cobra"
)

var examsCmd = &cobra.Command{
	Use:   "exams",
	Short: "List available exams and their status",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		ctx := cmd.Context()
		exams, err := d.svc.Exams(ctx)
		if err != nil {
			return err
		}
		if len(exams) == 0 {
			fmt.Println("No exams available.")
			return nil
		}

		now := time.Now()
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TITLE\tDURATION\tQUESTIONS\tSTATUS")
		for _, e := range exams {
			status := "open"
			if st, err := d.svc.ScoreStatus(ctx, e.ID); err == nil && st.Submitted {
				status = fmt.Sprintf("scored %d", st.Score)
			} else if !e.OpenAt(now) {
				status = "closed"
			}
			fmt.Fprintf(w, "%s\t%d min\t%d\t%s\n", e.Title, e.Duration, len(e.Questions), status)
		}
		return w.Flush()
	},
}

var lessonsCmd = &cobra.Command{
	Use:   "lessons",
	Short: "List lessons for your class level",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		page, _ := cmd.Flags().GetInt("page")

		lessons, pagination, err := d.svc.Lessons(cmd.Context(), api.LessonQuery{
			Page:      page,
			Limit:     20,
			SortBy:    "createdAt",
			SortOrder: "desc",
		})
		if err != nil {
			return err
		}
		if len(lessons) == 0 {
			fmt.Println("No lessons available.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TITLE\tCLASS\tACCESS")
		for _, l := range lessons {
			access := "free"
			if l.IsPaid {
				access = fmt.Sprintf("paid (%d)", l.Price)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", l.Title, l.ClassLevel, access)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		if pagination.Pages > 1 {
			fmt.Printf("page %d/%d\n", pagination.Page, pagination.Pages)
		}
		return nil
	},
}

func init() {
	lessonsCmd.Flags().Int("page", 1, "Page to list")
}
