package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/studyplan/internal/cli/formatter"
)

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the storage mode and pending remote writes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Sync == nil {
				return fmt.Errorf("sync is not configured")
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSyncStatus(app.Sync.Status(cmd.Context())))
			return nil
		},
	}
}

func newSyncCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Synchronise local progress with the remote service",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "push",
		Short: "Upload the full local snapshot to the remote service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Sync == nil {
				return fmt.Errorf("sync is not configured")
			}
			stats, err := app.Sync.Push(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPushStats(stats))
			return nil
		},
	})

	return cmd
}
