package cli

import (
	"context"

	"github.com/spf13/cobra"

	"shco.dev/cli/internal/application/services"
)

// NewWatchCommand creates the watch command
func NewWatchCommand(state *commandState) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Sync whenever the configuration file changes",
		Long: `Run a sync, then keep watching the configuration directory and sync again
each time the configuration file is written. Stops on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, state.container)
		},
	}
}

func runWatch(cmd *cobra.Command, container *CLIContainer) error {
	if err := syncOnce(cmd.Context(), cmd, container); err != nil {
		return err
	}

	return container.Watcher.Run(cmd.Context(), func(ctx context.Context) {
		if err := syncOnce(ctx, cmd, container); err != nil {
			container.Logger.Error("watch sync failed", "error", err)
		}
	})
}

func syncOnce(ctx context.Context, cmd *cobra.Command, container *CLIContainer) error {
	report, err := container.Sync.Sync(ctx, services.SyncRequest{})
	if err != nil {
		return err
	}
	printSyncReport(cmd, container, report)
	return nil
}
