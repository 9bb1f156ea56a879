package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/studyplan/internal/cli/formatter"
	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/progress"
)

func newProgressCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "progress",
		Aliases: []string{"ilerleme"},
		Short:   "Show progress for today's week, month and subjects",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSummary(app.Store.Summary(app.Store.Today())))
			return nil
		},
	}

	cmd.AddCommand(
		newProgressWeekCmd(app),
		newProgressMonthCmd(app),
		newProgressSubjectsCmd(app),
	)

	return cmd
}

func newProgressWeekCmd(app *App) *cobra.Command {
	var dateFlag string

	cmd := &cobra.Command{
		Use:   "week [WEEK-ID]",
		Short: "Task completion of a plan week (default: the week containing --date)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			weekID := ""
			if len(args) == 1 {
				weekID = args[0]
			} else {
				day, err := resolveDate(dateFlag, app.Store.Today())
				if err != nil {
					return err
				}
				weekID = app.Store.Plan().WeekFor(day).ID()
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatWeekly(app.Store.GetWeeklyProgress(weekID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Any day of the week (default today)")

	return cmd
}

func newProgressMonthCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "month [MONTH [YEAR]]",
		Short: "Question counts of a plan month (default: the current plan month)",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := app.Store.Plan().WeekFor(app.Store.Today())
			month, year := ref.Month, ref.Year
			if len(args) >= 1 {
				m, err := domain.ParseMonth(args[0])
				if err != nil {
					return err
				}
				month = m
			}
			if len(args) == 2 {
				y, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("invalid year %q", args[1])
				}
				year = y
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMonthly(app.Store.GetMonthlyProgress(month, year)))
			return nil
		},
	}
}

func newProgressSubjectsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "subjects",
		Short: "Topic completion per subject",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			today := app.Store.Today()
			subjects := make([]progress.SubjectProgress, 0, len(domain.Subjects))
			for _, s := range domain.Subjects {
				subjects = append(subjects, app.Store.SubjectProgress(s, today))
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSubjects(subjects))
			return nil
		},
	}
}

func newTopicsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "topics SUBJECT",
		Short: "List the plan topics of a subject",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			subject, err := domain.ParseSubject(args[0])
			if err != nil {
				return err
			}
			p := app.Store.Plan()
			topics := p.SubjectTopics(subject)
			snap := app.Store.Snapshot()
			done := make(map[string]bool, len(topics))
			for _, t := range topics {
				id := t.StudyTaskID()
				if d, ok := snap.Daily[id.Date]; ok && p.Completions(d)[id.String()].Completed {
					done[t.ID] = true
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTopics(subject, topics, done, app.Store.Today()))
			return nil
		},
	}
}
