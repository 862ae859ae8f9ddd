package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"shco.dev/cli/internal/application/services"
)

// SyncFlags holds the command-line flags for the sync command
type SyncFlags struct {
	Force bool
}

// NewSyncCommand creates the sync command
func NewSyncCommand(state *commandState) *cobra.Command {
	flags := &SyncFlags{}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Install configured plugins when the configuration changed",
		Long: `Compare the configuration with the fingerprint recorded by the last sync
and, when it changed, clone every configured plugin that is not installed yet.
Running shells are signalled to reload their plugins afterwards.

Failures of individual plugins are reported but do not fail the command.`,
		Example: `  # Sync after editing rc.json
  shco sync

  # Retry failed installs without changing the configuration
  shco sync --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, state.container, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.Force, "force", "f", false, "Reconcile even if the configuration is unchanged")

	return cmd
}

func runSync(cmd *cobra.Command, container *CLIContainer, flags *SyncFlags) error {
	report, err := container.Sync.Sync(cmd.Context(), services.SyncRequest{Force: flags.Force})
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	printSyncReport(cmd, container, report)
	return nil
}

func printSyncReport(cmd *cobra.Command, container *CLIContainer, report *services.SyncReport) {
	out := cmd.OutOrStdout()

	switch report.State {
	case services.StateNoConfig:
		fmt.Fprintf(out, "no usable configuration in %s\n", container.Paths.ConfigDir)
	case services.StateUnchanged:
		fmt.Fprintln(out, "up to date")
	default:
		fmt.Fprintf(out, "synced: %d installed, %d present, %d failed\n",
			len(report.Installed), len(report.Present), len(report.Failed))
		for _, failure := range report.Failed {
			fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", failure.Error())
		}
	}
}
