package di

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"

	"shco.dev/cli/internal/application/services"
	"shco.dev/cli/internal/config"
	shelldomain "shco.dev/cli/internal/core/domain/shell"
	pluginports "shco.dev/cli/internal/core/ports/plugin"
	"shco.dev/cli/internal/infrastructure/git"
	"shco.dev/cli/internal/infrastructure/logging"
	plugininfra "shco.dev/cli/internal/infrastructure/plugin"
	"shco.dev/cli/internal/infrastructure/process"
	"shco.dev/cli/internal/infrastructure/watcher"
	"shco.dev/cli/internal/interfaces/cli"
)

// Container holds all application dependencies
type Container struct {
	// Configuration
	Paths    config.Paths
	Settings config.Settings

	// Infrastructure
	Logger   hclog.Logger
	Executor *process.Executor
	Cloner   pluginports.Cloner
	Store    *plugininfra.Store
	Notifier *process.Notifier
	Watcher  *watcher.ConfigWatcher

	// Application services
	SyncService   *services.SyncService
	SourceService *services.SourceService
	QueryService  *services.PluginQueryService

	Shell    shelldomain.Kind
	ShellErr error

	// CLI
	CLIContainer *cli.CLIContainer

	logCloser io.Closer
}

// NewContainer creates and configures the dependency injection container
func NewContainer(opts cli.Options) (*Container, error) {
	paths, err := config.ResolvePaths()
	if err != nil {
		return nil, err
	}

	settings := config.LoadSettings()
	if opts.LogLevel != "" {
		settings.LogLevel = opts.LogLevel
	}

	logger, closer, err := logging.New(logging.Options{
		Path:  paths.LogFile(),
		Level: settings.LogLevel,
		Debug: opts.Debug,
	})
	if err != nil {
		return nil, err
	}

	c := &Container{
		Paths:     paths,
		Settings:  settings,
		Logger:    logger,
		logCloser: closer,
	}
	c.initializeComponents(opts)

	return c, nil
}

// NewCLIContainer is the cli.ContainerFactory used by main
func NewCLIContainer(opts cli.Options) (*cli.CLIContainer, error) {
	c, err := NewContainer(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize components: %w", err)
	}
	return c.GetCLIContainer(), nil
}

// initializeComponents initializes all components with proper dependencies
func (c *Container) initializeComponents(opts cli.Options) {
	// 1. Detect the target shell; only commands that need it fail without it
	shellName := opts.Shell
	if shellName == "" {
		shellName = os.Getenv("SHELL")
	}
	c.Shell, c.ShellErr = shelldomain.Parse(shellName)
	if c.ShellErr != nil {
		c.Logger.Debug("no supported shell detected", "shell", shellName, "error", c.ShellErr)
	}

	// 2. Infrastructure
	c.Executor = process.NewExecutor()
	c.Cloner = git.NewCloner(c.Executor, git.Options{Binary: c.Settings.Git, Host: c.Settings.GitHost}, c.Logger)
	c.Store = plugininfra.NewStore(c.Paths.StoreDir(), c.Cloner, c.Logger)
	c.Notifier = process.NewNotifier(process.DefaultLister(), c.Logger)
	c.Watcher = watcher.NewConfigWatcher(c.Paths.ConfigDir, config.FileNames, watcher.DefaultDebounce, c.Logger)

	// 3. Application services
	c.SyncService = services.NewSyncService(services.SyncConfig{
		ConfigDir: c.Paths.ConfigDir,
		LockPath:  c.Paths.LockFile(),
		Jobs:      c.Settings.Jobs,
		Shell:     c.Shell,
	}, c.Store, c.Notifier, c.Logger)
	c.SourceService = services.NewSourceService(c.Paths.ConfigDir, c.Store, c.Logger)
	c.QueryService = services.NewPluginQueryService(c.Paths.ConfigDir, c.Store, c.Logger)

	// 4. CLI
	c.CLIContainer = &cli.CLIContainer{
		Paths:      c.Paths,
		Logger:     c.Logger,
		Executable: executable(c.Logger),
		Shell:      c.Shell,
		ShellErr:   c.ShellErr,
		Sync:       c.SyncService,
		Source:     c.SourceService,
		Query:      c.QueryService,
		Watcher:    c.Watcher,
		Closer:     c.logCloser,
	}
}

// GetCLIContainer returns the CLI container
func (c *Container) GetCLIContainer() *cli.CLIContainer {
	return c.CLIContainer
}

// executable returns the absolute path the init script should call back
func executable(logger hclog.Logger) string {
	exe, err := os.Executable()
	if err != nil {
		logger.Warn("cannot resolve executable path, falling back to PATH lookup", "error", err)
		return config.AppName
	}
	return exe
}
