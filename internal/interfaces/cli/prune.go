package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// PruneFlags holds the command-line flags for the prune command
type PruneFlags struct {
	DryRun bool
}

// NewPruneCommand creates the prune command
func NewPruneCommand(state *commandState) *cobra.Command {
	flags := &PruneFlags{}

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove installed plugins that are no longer configured",
		Long: `Remove every plugin in the store whose owner/name does not appear in the
configuration. Sync never removes plugins; this is the only command that does.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrune(cmd, state.container, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.DryRun, "dry-run", "n", false, "Only list what would be removed")

	return cmd
}

func runPrune(cmd *cobra.Command, container *CLIContainer, flags *PruneFlags) error {
	orphans, err := container.Query.Prune(cmd.Context(), flags.DryRun)

	verb := "removed"
	if flags.DryRun {
		verb = "would remove"
	}
	for _, id := range orphans {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, id)
	}
	if err != nil {
		return err
	}

	if len(orphans) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "nothing to prune")
	}
	return nil
}
