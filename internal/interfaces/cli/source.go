package cli

import (
	"github.com/spf13/cobra"
)

// NewSourceCommand creates the source command
func NewSourceCommand(state *commandState) *cobra.Command {
	return &cobra.Command{
		Use:   "source",
		Short: "Print load commands for installed plugins",
		Long: `Print one load command per installed plugin, in configured order. The
output is meant to be evaluated by the shell and is empty when there is no
configuration. This command never installs anything.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := state.container.shell()
			if err != nil {
				return err
			}
			return state.container.Source.Source(cmd.Context(), kind, cmd.OutOrStdout())
		},
	}
}
