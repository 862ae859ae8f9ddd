package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"

	plugindomain "shco.dev/cli/internal/core/domain/plugin"
	pluginports "shco.dev/cli/internal/core/ports/plugin"
	"shco.dev/cli/internal/infrastructure/process"
)

// Options configures the git client invocation
type Options struct {
	// Binary is the git executable, looked up in PATH when not absolute
	Binary string

	// Host expands "owner/name" shorthands
	Host string
}

// Cloner installs plugins with `git clone`
type Cloner struct {
	executor *process.Executor
	opts     Options
	logger   hclog.Logger
}

// NewCloner creates a git-backed cloner
func NewCloner(executor *process.Executor, opts Options, logger hclog.Logger) *Cloner {
	if opts.Binary == "" {
		opts.Binary = "git"
	}
	if opts.Host == "" {
		opts.Host = plugindomain.DefaultHost
	}

	return &Cloner{
		executor: executor,
		opts:     opts,
		logger:   logger.Named("git"),
	}
}

// Clone performs a shallow clone of source, including submodules, into dest
func (c *Cloner) Clone(ctx context.Context, source plugindomain.Source, dest string) error {
	url, err := expandHome(plugindomain.CloneURL(source, c.opts.Host))
	if err != nil {
		return err
	}
	args := cloneArgs(url, dest)

	c.logger.Debug("cloning", "url", url, "dest", dest)
	// never prompt for credentials: stdout of the calling shell is being eval'd
	env := []string{"GIT_TERMINAL_PROMPT=0"}
	if _, err := c.executor.Run(ctx, env, c.opts.Binary, args...); err != nil {
		return fmt.Errorf("git clone %s: %w", url, err)
	}

	return nil
}

// expandHome resolves a leading "~/" that a shell would have expanded; git
// is executed directly and treats it literally
func expandHome(url string) (string, error) {
	rest, ok := strings.CutPrefix(url, "~/")
	if !ok {
		return url, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand %s: %w", url, err)
	}
	return filepath.Join(home, rest), nil
}

func cloneArgs(url, dest string) []string {
	return []string{
		"clone",
		"--quiet",
		"--depth", "1",
		"--recurse-submodules",
		"--shallow-submodules",
		"--",
		url,
		dest,
	}
}

var _ pluginports.Cloner = (*Cloner)(nil)
