package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/studyplan/internal/cli/formatter"
)

func newTodayCmd(app *App) *cobra.Command {
	var dateFlag string
	var interactive bool

	cmd := &cobra.Command{
		Use:     "today",
		Aliases: []string{"bugun"},
		Short:   "Show the routine and study tasks of a day",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToday(cmd, app, dateFlag, interactive)
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Day to show (YYYY-MM-DD, today, yesterday, tomorrow)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Open the interactive checklist")

	return cmd
}

func runToday(cmd *cobra.Command, app *App, dateFlag string, interactive bool) error {
	today := app.Store.Today()
	day, err := resolveDate(dateFlag, today)
	if err != nil {
		return err
	}

	if interactive {
		if !app.interactive() {
			return fmt.Errorf("--interactive needs a terminal")
		}
		p := tea.NewProgram(newTodayModel(app.Store, day),
			tea.WithInput(cmd.InOrStdin()), tea.WithOutput(cmd.OutOrStdout()))
		_, err := p.Run()
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatToday(app.Store.DailyTasks(day), today))
	return nil
}
