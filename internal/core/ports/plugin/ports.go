package pluginports

import (
	"context"

	plugindomain "shco.dev/cli/internal/core/domain/plugin"
	shelldomain "shco.dev/cli/internal/core/domain/shell"
)

// Cloner fetches a plugin repository into a destination directory
type Cloner interface {
	// Clone copies the repository behind source into dest. dest must not exist.
	Clone(ctx context.Context, source plugindomain.Source, dest string) error
}

// PluginStore manages the on-disk plugin tree keyed by identity
type PluginStore interface {
	// EnsureRoot creates the store root and its parents
	EnsureRoot() error

	// Dir returns the directory a plugin lives in, installed or not
	Dir(id plugindomain.Identity) string

	// IsInstalled reports whether the repository marker for id exists
	IsInstalled(id plugindomain.Identity) bool

	// Install clones source into the directory of id
	Install(ctx context.Context, source plugindomain.Source, id plugindomain.Identity) error

	// Installed lists every installed plugin, sorted by owner and name
	Installed() ([]plugindomain.Identity, error)

	// Remove deletes the directory of id
	Remove(id plugindomain.Identity) error
}

// ShellNotifier asks running shells of a kind to reload their plugins.
// Failures are informational only.
type ShellNotifier interface {
	Notify(ctx context.Context, kind shelldomain.Kind) error
}
