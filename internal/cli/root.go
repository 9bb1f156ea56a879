package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/studyplan/internal/persistence"
	"github.com/alexanderramin/studyplan/internal/service"
)

// SyncService exposes the persistence adapter's remote controls.
type SyncService interface {
	Push(ctx context.Context) (persistence.PushStats, error)
	Status(ctx context.Context) persistence.SyncStatus
}

// App holds references to the services used by CLI commands.
type App struct {
	Store service.ProgressService
	Sync  SyncService

	// IsInteractive reports whether forms and the today view may take
	// over the terminal. Nil means never.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "studyplan" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "studyplan",
		Short:         "KPSS study plan and progress tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToday(cmd, app, "", false)
		},
	}

	// Read by main before the App is built; declared here so cobra accepts them.
	root.PersistentFlags().String("config", "", "Config file (default ./config/config.yaml or the user config dir)")
	root.PersistentFlags().BoolP("verbose", "v", false, "Log debug output to stderr")

	root.AddCommand(
		newTodayCmd(app),
		newDoneCmd(app),
		newUndoCmd(app),
		newTaskCmd(app),
		newExamCmd(app),
		newNoteCmd(app),
		newProgressCmd(app),
		newTopicsCmd(app),
		newPlanCmd(app),
		newStatusCmd(app),
		newSyncCmd(app),
	)

	return root
}
