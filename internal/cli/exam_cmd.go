package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/studyplan/internal/cli/formatter"
	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/progress"
)

func newExamCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "exam",
		Aliases: []string{"exams", "deneme"},
		Short:   "Manage practice exams",
	}

	cmd.AddCommand(
		newExamAddCmd(app),
		newExamListCmd(app),
		newExamShowCmd(app),
		newExamUpdateCmd(app),
		newExamDoneCmd(app),
		newExamRemoveCmd(app),
		newExamStatsCmd(app),
	)

	return cmd
}

const resultFlagHelp = "Result as key=correct/wrong[/empty]; key is a subject slug or total (repeatable)"

// parseResults reads --result values such as "tarih=20/4/3" or "total=80/20".
func parseResults(values []string) (domain.ExamResults, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make(domain.ExamResults, len(values))
	for _, v := range values {
		name, counts, ok := strings.Cut(v, "=")
		if !ok {
			return nil, fmt.Errorf("invalid result %q: want key=correct/wrong[/empty]", v)
		}
		k := domain.ExamKey(strings.ToLower(strings.TrimSpace(name)))
		if s, err := domain.ParseSubject(strings.TrimSpace(name)); err == nil {
			k = domain.ResultKeyFor(s)
		}
		if !k.Valid() {
			return nil, fmt.Errorf("unknown result key %q", name)
		}

		parts := strings.Split(counts, "/")
		if len(parts) < 2 || len(parts) > 3 {
			return nil, fmt.Errorf("invalid result %q: want key=correct/wrong[/empty]", v)
		}
		nums := make([]int, 3)
		for i, p := range parts {
			p = strings.TrimSpace(p)
			if err := validateNonNegativeInt(p); err != nil || p == "" {
				return nil, fmt.Errorf("invalid count %q in %q", p, v)
			}
			nums[i], _ = strconv.Atoi(p)
		}
		out[k] = domain.ExamResult{Correct: nums[0], Wrong: nums[1], Empty: nums[2]}
	}
	return out, nil
}

func newExamAddCmd(app *App) *cobra.Command {
	var f examFields
	var results []string

	cmd := &cobra.Command{
		Use:   "add [TITLE]",
		Short: "Schedule or record a practice exam",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				f.Title = args[0]
			}
			if f.Type == "" && app.interactive() {
				f.Type = string(domain.ExamGeneral)
				if err := examForm(&f).Run(); err != nil {
					return err
				}
			}
			if f.Type == "" {
				f.Type = string(domain.ExamGeneral)
			}

			in, err := f.build(app.Store.Today())
			if err != nil {
				return err
			}
			if in.Results, err = parseResults(results); err != nil {
				return err
			}

			exam, err := app.Store.AddExam(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatExamDetail(exam))
			return nil
		},
	}

	cmd.Flags().StringVar(&f.Type, "type", "", "Exam type: general, branch, tg")
	cmd.Flags().StringVarP(&f.Subject, "subject", "s", "", "Subject of a branch exam")
	cmd.Flags().StringVar(&f.Date, "date", "", "Exam day (default today)")
	cmd.Flags().StringArrayVarP(&results, "result", "r", nil, resultFlagHelp)

	return cmd
}

func (f examFields) build(today domain.Day) (domain.NewExam, error) {
	day, err := resolveDate(f.Date, today)
	if err != nil {
		return domain.NewExam{}, err
	}
	in := domain.NewExam{
		Title: strings.TrimSpace(f.Title),
		Type:  domain.ExamType(strings.ToLower(f.Type)),
		Date:  day,
	}
	if f.Subject != "" {
		s, err := domain.ParseSubject(f.Subject)
		if err != nil {
			return domain.NewExam{}, err
		}
		in.Subject = &s
	}
	if in.Title == "" {
		in.Title = domain.DefaultExamTitle(in.Type, in.Subject)
	}
	return in, nil
}

func newExamListCmd(app *App) *cobra.Command {
	var dateFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List practice exams",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			today := app.Store.Today()
			date, err := dayFlag(dateFlag, today)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatExamList(app.Store.GetExams(date), today))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Only exams of this day")

	return cmd
}

func findExam(app *App, id domain.TaskID) (domain.Exam, bool) {
	for _, e := range app.Store.GetExams(nil) {
		if e.ID.Equal(id) {
			return e, true
		}
	}
	return domain.Exam{}, false
}

func newExamShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show an exam with its results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, ok := findExam(app, domain.ParseTaskID(args[0]))
			if !ok {
				return fmt.Errorf("exam %s not found", args[0])
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatExamDetail(e))
			return nil
		},
	}
}

func newExamUpdateCmd(app *App) *cobra.Command {
	var results []string
	var completed string

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Record results or change completion of an exam",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch domain.ExamPatch
			var err error
			if patch.Results, err = parseResults(results); err != nil {
				return err
			}
			if completed != "" {
				v, err := strconv.ParseBool(completed)
				if err != nil {
					return fmt.Errorf("--completed: %w", err)
				}
				patch.Completed = &v
			}
			if patch.Completed == nil && len(patch.Results) == 0 {
				return fmt.Errorf("nothing to update: pass --result or --completed")
			}

			e, err := app.Store.UpdateExam(cmd.Context(), domain.ParseTaskID(args[0]), patch)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatExamDetail(e))
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&results, "result", "r", nil, resultFlagHelp)
	cmd.Flags().StringVar(&completed, "completed", "", "Set completion (true or false)")

	return cmd
}

func newExamDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done ID",
		Short: "Mark an exam completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := app.Store.CompleteExam(cmd.Context(), domain.ParseTaskID(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", formatter.CheckMark(true), e.Title)
			return nil
		},
	}
}

func newExamRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove"},
		Short:   "Delete an exam",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Store.DeleteExam(cmd.Context(), domain.ParseTaskID(args[0])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Silindi: %s\n", args[0])
			return nil
		},
	}
}

func newExamStatsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show net statistics over scored exams",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatExamStats(progress.Exams(app.Store.GetExams(nil))))
			return nil
		},
	}
}
