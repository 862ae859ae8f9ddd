package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"shco.dev/cli/internal/application/services"
	"shco.dev/cli/internal/config"
	shelldomain "shco.dev/cli/internal/core/domain/shell"
	"shco.dev/cli/internal/infrastructure/watcher"
)

var (
	Version   = "dev"     // Overridden by ldflags
	BuildTime = "unknown" // Overridden by ldflags
)

// Options are the persistent flags every command shares
type Options struct {
	Debug    bool
	LogLevel string
	// Shell overrides the shell detected from $SHELL
	Shell string
}

// CLIContainer holds all the dependencies for CLI commands
type CLIContainer struct {
	Paths      config.Paths
	Logger     hclog.Logger
	Executable string

	// Shell is only meaningful when ShellErr is nil
	Shell    shelldomain.Kind
	ShellErr error

	Sync    *services.SyncService
	Source  *services.SourceService
	Query   *services.PluginQueryService
	Watcher *watcher.ConfigWatcher

	// Closer releases the log file
	Closer io.Closer
}

// Close releases resources held by the container
func (c *CLIContainer) Close() error {
	if c == nil || c.Closer == nil {
		return nil
	}
	return c.Closer.Close()
}

// shell returns the detected shell or the reason none could be used
func (c *CLIContainer) shell() (shelldomain.Kind, error) {
	if c.ShellErr != nil {
		return 0, c.ShellErr
	}
	return c.Shell, nil
}

// ContainerFactory builds the container once flags are parsed
type ContainerFactory func(opts Options) (*CLIContainer, error)

// commandState carries the container from the root's pre-run hook to the
// subcommand that runs
type commandState struct {
	opts      Options
	factory   ContainerFactory
	container *CLIContainer
}

func (s *commandState) setup(cmd *cobra.Command, args []string) error {
	if s.container != nil {
		return nil
	}

	container, err := s.factory(s.opts)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	s.container = container
	return nil
}

func (s *commandState) close() {
	if err := s.container.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
	}
}

// NewRootCommand represents the base command when called without any subcommands
func NewRootCommand(factory ContainerFactory) *cobra.Command {
	cmd, _ := newRootCommand(factory)
	return cmd
}

func newRootCommand(factory ContainerFactory) (*cobra.Command, *commandState) {
	state := &commandState{factory: factory}

	rootCmd := &cobra.Command{
		Use:   "shco",
		Short: "shco - declarative shell plugin manager",
		Long: `shco keeps the shell plugins listed in your configuration installed and
loaded in every open shell.

Plugins are listed in $XDG_CONFIG_HOME/shco/rc.json as git sources:

  {"plugins": ["zsh-users/zsh-autosuggestions", "https://github.com/owner/name.git"]}

Hook shco into your shell once with 'eval "$(shco init)"'. After that every
prompt runs a background sync, and shells reload their plugins when a sync
installs something new.`,
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: state.setup,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} version {{.Version}}\nBuild time: %s\nGo version: %s\nPlatform: %s/%s\n",
		BuildTime, goVersion(), runtime.GOOS, runtime.GOARCH))

	rootCmd.PersistentFlags().BoolVar(&state.opts.Debug, "debug", false, "Mirror debug logs to stderr")
	rootCmd.PersistentFlags().StringVar(&state.opts.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&state.opts.Shell, "shell", "", "Shell to target (zsh, bash); defaults to $SHELL")

	rootCmd.AddCommand(NewInitCommand(state))
	rootCmd.AddCommand(NewSyncCommand(state))
	rootCmd.AddCommand(NewSourceCommand(state))
	rootCmd.AddCommand(NewListCommand(state))
	rootCmd.AddCommand(NewPruneCommand(state))
	rootCmd.AddCommand(NewWatchCommand(state))

	return rootCmd, state
}

// goVersion returns the Go version used to build the binary
func goVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.GoVersion
	}
	return "unknown"
}

// Execute runs the root command and exits non-zero on failure
func Execute(ctx context.Context, factory ContainerFactory) {
	rootCmd, state := newRootCommand(factory)
	err := rootCmd.ExecuteContext(ctx)
	state.close()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
