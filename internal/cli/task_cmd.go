package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/studyplan/internal/cli/formatter"
	"github.com/alexanderramin/studyplan/internal/domain"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"tasks"},
		Short:   "Manage custom tasks",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskListCmd(app),
		newTaskRemoveCmd(app),
	)

	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	var f customTaskFields

	cmd := &cobra.Command{
		Use:   "add [TITLE]",
		Short: "Add a custom task",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				f.Title = args[0]
			}
			if f.Title == "" {
				if !app.interactive() {
					return fmt.Errorf("a title is required")
				}
				if f.Type == "" {
					f.Type = string(domain.TaskStudy)
				}
				if err := customTaskForm(&f).Run(); err != nil {
					return err
				}
			}

			in, err := f.build(app.Store.Today())
			if err != nil {
				return err
			}
			task, err := app.Store.AddCustomTask(cmd.Context(), in)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Eklendi: %s %s %s\n",
				formatter.SubjectBadge(task.Subject), task.Title, formatter.Dim(task.ID.String()))
			return nil
		},
	}

	cmd.Flags().StringVar(&f.Title, "title", "", "Task title")
	cmd.Flags().StringVarP(&f.Subject, "subject", "s", "", "Subject (tarih, cografya, matematik, turkce, vatandaslik)")
	cmd.Flags().StringVar(&f.Date, "date", "", "Day of the task (default today)")
	cmd.Flags().StringVarP(&f.Description, "description", "d", "", "Description")
	cmd.Flags().StringVar(&f.Start, "start", "", "Start time HH:mm")
	cmd.Flags().StringVar(&f.End, "end", "", "End time HH:mm")
	cmd.Flags().StringVar(&f.Type, "type", "", "Task type: study, speed, routine, exam")

	return cmd
}

func (f customTaskFields) build(today domain.Day) (domain.NewCustomTask, error) {
	day, err := resolveDate(f.Date, today)
	if err != nil {
		return domain.NewCustomTask{}, err
	}
	subject, err := domain.ParseSubject(f.Subject)
	if err != nil {
		return domain.NewCustomTask{}, err
	}
	in := domain.NewCustomTask{
		Title:       f.Title,
		Subject:     subject,
		Description: f.Description,
		Date:        day,
		Type:        domain.TaskType(strings.ToLower(f.Type)),
	}
	if f.Start != "" || f.End != "" {
		in.TimeSlot = &domain.TimeSlot{Start: f.Start, End: f.End}
	}
	return in, nil
}

func newTaskListCmd(app *App) *cobra.Command {
	var dateFlag string
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List custom tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			today := app.Store.Today()
			if dateFlag == "" && !all {
				dateFlag = "today"
			}
			date, err := dayFlag(dateFlag, today)
			if err != nil {
				return err
			}

			tasks := app.Store.GetCustomTasks(date)
			out := cmd.OutOrStdout()
			if len(tasks) == 0 {
				fmt.Fprintln(out, formatter.Dim("Özel görev yok."))
				return nil
			}

			headers := []string{"", "ID", "TARİH", "DERS", "BAŞLIK", "SAAT"}
			rows := make([][]string, 0, len(tasks))
			for _, t := range tasks {
				slot := formatter.Dim("--")
				if t.TimeSlot != nil {
					slot = t.TimeSlot.Start + "-" + t.TimeSlot.End
				}
				rows = append(rows, []string{
					formatter.CheckMark(t.Completed),
					formatter.Dim(t.ID.String()),
					t.Date.String(),
					formatter.SubjectBadge(t.Subject),
					formatter.Truncate(t.Title, 40),
					slot,
				})
			}
			fmt.Fprint(out, formatter.RenderTable(headers, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Only tasks of this day (default today)")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "List tasks of every day")

	return cmd
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove"},
		Short:   "Delete a custom task and its completion history",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && app.interactive() {
				ok := false
				if err := confirmForm(fmt.Sprintf("%s silinsin mi?", args[0]), &ok).Run(); err != nil {
					return err
				}
				if !ok {
					return nil
				}
			}
			if err := app.Store.DeleteCustomTask(cmd.Context(), domain.ParseTaskID(args[0])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Silindi: %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")

	return cmd
}
