package services

import (
	"context"
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"

	"shco.dev/cli/internal/config"
	plugindomain "shco.dev/cli/internal/core/domain/plugin"
	shelldomain "shco.dev/cli/internal/core/domain/shell"
	pluginports "shco.dev/cli/internal/core/ports/plugin"
)

// SourceService emits load commands for installed, configured plugins.
// It never writes to the store or the lock.
type SourceService struct {
	configDir string
	store     pluginports.PluginStore
	logger    hclog.Logger
}

// NewSourceService creates a new source service
func NewSourceService(configDir string, store pluginports.PluginStore, logger hclog.Logger) *SourceService {
	return &SourceService{
		configDir: configDir,
		store:     store,
		logger:    logger.Named("source"),
	}
}

// Source writes one load command per installed plugin to w, in configured
// order. Missing configuration produces no output.
func (s *SourceService) Source(ctx context.Context, kind shelldomain.Kind, w io.Writer) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %s", shelldomain.ErrUnsupportedShell, kind)
	}

	_, cfg, err := config.Load(s.configDir)
	if err != nil {
		s.logger.Info("nothing to source", "reason", err)
		return nil
	}

	emitted := 0
	for _, entry := range resolveEntries(cfg.Plugins) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.Err != nil {
			s.logger.Debug("skipping unresolvable plugin", "source", string(entry.Source), "error", entry.Err)
			continue
		}
		if entry.Duplicate {
			continue
		}
		if !s.store.IsInstalled(entry.Identity) {
			s.logger.Debug("skipping plugin that is not installed", "plugin", entry.Identity.String())
			continue
		}

		if _, err := fmt.Fprintln(w, kind.LoadCommand(s.store.Dir(entry.Identity))); err != nil {
			return fmt.Errorf("failed to write load command: %w", err)
		}
		emitted++
	}

	s.logger.Debug("emitted load commands", "count", emitted)
	return nil
}

// configuredEntry is one configured source with its resolved identity
type configuredEntry struct {
	Source    plugindomain.Source
	Identity  plugindomain.Identity
	Err       error
	Duplicate bool
}

// resolveEntries resolves sources in order, flagging every repeat of an
// identity after its first occurrence
func resolveEntries(sources []plugindomain.Source) []configuredEntry {
	entries := make([]configuredEntry, 0, len(sources))
	seen := make(map[plugindomain.Identity]bool, len(sources))

	for _, source := range sources {
		entry := configuredEntry{Source: source}
		entry.Identity, entry.Err = plugindomain.Resolve(source)
		if entry.Err == nil {
			entry.Duplicate = seen[entry.Identity]
			seen[entry.Identity] = true
		}
		entries = append(entries, entry)
	}

	return entries
}
