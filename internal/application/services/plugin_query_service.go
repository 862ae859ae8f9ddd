package services

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"shco.dev/cli/internal/config"
	plugindomain "shco.dev/cli/internal/core/domain/plugin"
	pluginports "shco.dev/cli/internal/core/ports/plugin"
)

// PluginStatus is the state of a configured plugin in the store
type PluginStatus string

const (
	StatusInstalled PluginStatus = "installed"
	StatusMissing   PluginStatus = "missing"
	StatusInvalid   PluginStatus = "invalid"
	StatusDuplicate PluginStatus = "duplicate"
)

// PluginInfo describes one configured plugin
type PluginInfo struct {
	Source   plugindomain.Source
	Identity plugindomain.Identity
	Dir      string
	Status   PluginStatus
	Err      error
}

// PluginQueryService answers questions about configured and installed
// plugins for the list and prune commands
type PluginQueryService struct {
	configDir string
	store     pluginports.PluginStore
	logger    hclog.Logger
}

// NewPluginQueryService creates a new query service
func NewPluginQueryService(configDir string, store pluginports.PluginStore, logger hclog.Logger) *PluginQueryService {
	return &PluginQueryService{
		configDir: configDir,
		store:     store,
		logger:    logger.Named("plugins"),
	}
}

// List returns every configured plugin in configured order. Unlike sync and
// source, a missing configuration is reported to the caller.
func (s *PluginQueryService) List(ctx context.Context) ([]PluginInfo, error) {
	_, cfg, err := config.Load(s.configDir)
	if err != nil {
		return nil, err
	}

	infos := make([]PluginInfo, 0, len(cfg.Plugins))
	for _, entry := range resolveEntries(cfg.Plugins) {
		info := PluginInfo{Source: entry.Source, Identity: entry.Identity}

		switch {
		case entry.Err != nil:
			info.Status = StatusInvalid
			info.Err = entry.Err
		case entry.Duplicate:
			info.Status = StatusDuplicate
			info.Dir = s.store.Dir(entry.Identity)
		case s.store.IsInstalled(entry.Identity):
			info.Status = StatusInstalled
			info.Dir = s.store.Dir(entry.Identity)
		default:
			info.Status = StatusMissing
			info.Dir = s.store.Dir(entry.Identity)
		}

		infos = append(infos, info)
	}

	return infos, nil
}

// Prune removes installed plugins that are no longer configured and returns
// them. With dryRun nothing is removed. Sync never prunes on its own.
func (s *PluginQueryService) Prune(ctx context.Context, dryRun bool) ([]plugindomain.Identity, error) {
	_, cfg, err := config.Load(s.configDir)
	if err != nil {
		return nil, fmt.Errorf("refusing to prune: %w", err)
	}

	configured := make(map[plugindomain.Identity]bool, len(cfg.Plugins))
	for _, entry := range resolveEntries(cfg.Plugins) {
		if entry.Err == nil {
			configured[entry.Identity] = true
		}
	}

	installed, err := s.store.Installed()
	if err != nil {
		return nil, err
	}

	var orphans []plugindomain.Identity
	for _, id := range installed {
		if err := ctx.Err(); err != nil {
			return orphans, err
		}
		if configured[id] {
			continue
		}

		orphans = append(orphans, id)
		if dryRun {
			s.logger.Info("would prune plugin", "plugin", id.String())
			continue
		}
		if err := s.store.Remove(id); err != nil {
			return orphans, err
		}
	}

	return orphans, nil
}
