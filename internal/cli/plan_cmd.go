package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/studyplan/internal/cli/formatter"
)

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Inspect the study calendar",
	}

	cmd.AddCommand(newPlanShowCmd(app))

	return cmd
}

func newPlanShowCmd(app *App) *cobra.Command {
	var dateFlag string

	cmd := &cobra.Command{
		Use:   "show [WEEK-ID]",
		Short: "Show the quotas and topics of a plan week",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := app.Store.Plan()
			if len(args) == 1 {
				ref, ok := p.WeekByID(args[0])
				if !ok {
					return fmt.Errorf("unknown week %q", args[0])
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatWeekPlan(ref))
				return nil
			}
			day, err := resolveDate(dateFlag, app.Store.Today())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatWeekPlan(p.WeekFor(day)))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Any day of the week (default today)")

	return cmd
}
