package plugininfra

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/hashicorp/go-hclog"

	plugindomain "shco.dev/cli/internal/core/domain/plugin"
	pluginports "shco.dev/cli/internal/core/ports/plugin"
)

// MarkerName is the repository metadata whose presence marks a plugin as installed
const MarkerName = ".git"

// ErrInstall wraps every failure to install a plugin
var ErrInstall = errors.New("plugin install failed")

// Store keeps cloned plugin repositories under root/<owner>/<name>
type Store struct {
	root   string
	cloner pluginports.Cloner
	logger hclog.Logger
}

// NewStore creates a plugin store rooted at root
func NewStore(root string, cloner pluginports.Cloner, logger hclog.Logger) *Store {
	return &Store{
		root:   root,
		cloner: cloner,
		logger: logger.Named("store"),
	}
}

// EnsureRoot creates the store directory and its parents
func (s *Store) EnsureRoot() error {
	if err := os.MkdirAll(s.root, 0755); err != nil {
		return fmt.Errorf("failed to create plugins directory: %w", err)
	}
	return nil
}

// Dir returns the directory of a plugin
func (s *Store) Dir(id plugindomain.Identity) string {
	return filepath.Join(s.root, id.Owner, id.Name)
}

// IsInstalled reports whether the repository marker of id exists
func (s *Store) IsInstalled(id plugindomain.Identity) bool {
	_, err := os.Stat(filepath.Join(s.Dir(id), MarkerName))
	return err == nil
}

// Install clones source into the directory of id. Leftovers of an earlier
// interrupted clone are removed first, and a failed clone leaves nothing
// behind.
func (s *Store) Install(ctx context.Context, source plugindomain.Source, id plugindomain.Identity) error {
	dest := s.Dir(id)

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("%w: %s: failed to create owner directory: %w", ErrInstall, id, err)
	}
	if err := os.RemoveAll(dest); err != nil {
		return fmt.Errorf("%w: %s: failed to clear destination: %w", ErrInstall, id, err)
	}

	if err := s.cloner.Clone(ctx, source, dest); err != nil {
		if rmErr := os.RemoveAll(dest); rmErr != nil {
			s.logger.Warn("failed to clean up after clone", "plugin", id.String(), "error", rmErr)
		}
		return fmt.Errorf("%w: %s: %w", ErrInstall, id, err)
	}

	if !s.IsInstalled(id) {
		return fmt.Errorf("%w: %s: clone finished without %s", ErrInstall, id, MarkerName)
	}

	s.logger.Info("installed plugin", "plugin", id.String(), "dir", dest)
	return nil
}

// Installed walks the store and returns every installed plugin sorted by
// owner and name. A missing store is empty.
func (s *Store) Installed() ([]plugindomain.Identity, error) {
	owners, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read plugins directory: %w", err)
	}

	var installed []plugindomain.Identity
	for _, owner := range owners {
		if !owner.IsDir() {
			continue
		}

		names, err := os.ReadDir(filepath.Join(s.root, owner.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read owner directory %s: %w", owner.Name(), err)
		}
		for _, name := range names {
			if !name.IsDir() {
				continue
			}
			id := plugindomain.Identity{Owner: owner.Name(), Name: name.Name()}
			if s.IsInstalled(id) {
				installed = append(installed, id)
			}
		}
	}

	sort.Slice(installed, func(i, j int) bool {
		if installed[i].Owner != installed[j].Owner {
			return installed[i].Owner < installed[j].Owner
		}
		return installed[i].Name < installed[j].Name
	})
	return installed, nil
}

// Remove deletes a plugin directory, and its owner directory once empty
func (s *Store) Remove(id plugindomain.Identity) error {
	if err := os.RemoveAll(s.Dir(id)); err != nil {
		return fmt.Errorf("failed to remove plugin %s: %w", id, err)
	}

	// fails while other plugins of the owner remain
	_ = os.Remove(filepath.Join(s.root, id.Owner))

	s.logger.Info("removed plugin", "plugin", id.String())
	return nil
}

var _ pluginports.PluginStore = (*Store)(nil)
