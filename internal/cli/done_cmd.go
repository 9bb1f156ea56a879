package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/studyplan/internal/cli/formatter"
	"github.com/alexanderramin/studyplan/internal/domain"
)

func newDoneCmd(app *App) *cobra.Command {
	return newCompletionCmd(app, "done TASK", "Mark a task completed", true)
}

func newUndoCmd(app *App) *cobra.Command {
	return newCompletionCmd(app, "undo TASK", "Mark a task not completed", false)
}

func newCompletionCmd(app *App, use, short string, completed bool) *cobra.Command {
	var dateFlag string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long: short + `.

TASK is the number shown by "today", a routine kind (paragraph, problem,
speed, karma), a subject (tarih, cografya, matematik, turkce, vatandaslik)
or a full task id.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := resolveDate(dateFlag, app.Store.Today())
			if err != nil {
				return err
			}
			tasks := app.Store.DailyTasks(day)
			id, err := resolveTaskRef(args[0], tasks)
			if err != nil {
				return err
			}
			if id.IsPlanDerived() && !id.Date.IsZero() {
				day = id.Date
			}

			ctx := cmd.Context()
			if completed {
				err = app.Store.CompleteTask(ctx, id, day)
			} else {
				err = app.Store.UncompleteTask(ctx, id, day)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n",
				formatter.CheckMark(completed), id, formatter.Dim(day.String()))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Day of the task (YYYY-MM-DD, today, yesterday, tomorrow)")

	return cmd
}

// dayFlag parses an optional --date filter.
func dayFlag(flag string, today domain.Day) (*domain.Day, error) {
	if flag == "" {
		return nil, nil
	}
	d, err := resolveDate(flag, today)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
