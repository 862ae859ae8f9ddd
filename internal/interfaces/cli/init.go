package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewInitCommand creates the init command
func NewInitCommand(state *commandState) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Print the shell hookup script",
		Long: `Print the script that hooks shco into your shell. Evaluate it from your
shell's rc file:

  # ~/.zshrc
  eval "$(shco init --shell zsh)"

  # ~/.bashrc
  eval "$(shco init --shell bash)"

The script sources installed plugins, runs 'shco sync' in the background
before each prompt and reloads plugins when a sync signals the shell.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, state.container)
		},
	}
}

func runInit(cmd *cobra.Command, container *CLIContainer) error {
	kind, err := container.shell()
	if err != nil {
		return err
	}

	script, err := kind.InitScript(container.Executable)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), script)
	return err
}
