package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"shco.dev/cli/internal/config"
	plugindomain "shco.dev/cli/internal/core/domain/plugin"
	shelldomain "shco.dev/cli/internal/core/domain/shell"
	pluginports "shco.dev/cli/internal/core/ports/plugin"
	"shco.dev/cli/internal/infrastructure/lockfile"
)

// SyncState is a step of the reconciliation state machine
type SyncState int

const (
	StateIdle SyncState = iota
	StateChecking
	// StateNoConfig is terminal: there was no usable configuration document
	StateNoConfig
	// StateUnchanged is terminal: the fingerprint matched the lock
	StateUnchanged
	StateSyncing
	// StateCommitted is terminal: every entry was installed or already present
	StateCommitted
	// StatePartiallyFailed is terminal: the lock was committed but some entries failed
	StatePartiallyFailed
)

func (s SyncState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateChecking:
		return "checking"
	case StateNoConfig:
		return "no-config"
	case StateUnchanged:
		return "unchanged"
	case StateSyncing:
		return "syncing"
	case StateCommitted:
		return "committed"
	case StatePartiallyFailed:
		return "partially-failed"
	default:
		return fmt.Sprintf("SyncState(%d)", int(s))
	}
}

// EntryError records a configured plugin that could not be reconciled
type EntryError struct {
	Index  int
	Source plugindomain.Source
	Err    error
}

func (e EntryError) Error() string {
	return fmt.Sprintf("plugin #%d %q: %v", e.Index+1, e.Source, e.Err)
}

func (e EntryError) Unwrap() error {
	return e.Err
}

// IsInvalidSource reports whether the entry failed identity resolution
func (e EntryError) IsInvalidSource() bool {
	return errors.Is(e.Err, plugindomain.ErrInvalidSource)
}

// SyncReport describes the outcome of one Sync call. Slices follow the
// configured plugin order.
type SyncReport struct {
	RunID       string
	State       SyncState
	Fingerprint plugindomain.Fingerprint
	Installed   []plugindomain.Identity
	Present     []plugindomain.Identity
	Failed      []EntryError
}

// SyncRequest tunes a single Sync call
type SyncRequest struct {
	// Force reconciles even when the fingerprint matches the lock
	Force bool
}

// SyncConfig locates the state the reconciler reads and writes
type SyncConfig struct {
	ConfigDir string
	LockPath  string
	Jobs      int
	Shell     shelldomain.Kind
}

// SyncService reconciles the plugin store with the configuration
type SyncService struct {
	cfg      SyncConfig
	store    pluginports.PluginStore
	notifier pluginports.ShellNotifier
	logger   hclog.Logger
}

// NewSyncService creates a new reconciler
func NewSyncService(
	cfg SyncConfig,
	store pluginports.PluginStore,
	notifier pluginports.ShellNotifier,
	logger hclog.Logger,
) *SyncService {
	if cfg.Jobs <= 0 {
		cfg.Jobs = 1
	}

	return &SyncService{
		cfg:      cfg,
		store:    store,
		notifier: notifier,
		logger:   logger.Named("sync"),
	}
}

// Sync runs the state machine once. Per-plugin failures are reported in
// the returned SyncReport; only environment failures (store or lock not
// writable) are returned as errors, in which case the lock is untouched.
//
// The fingerprint is committed after every entry has been processed, even
// when some failed: the lock records the configuration last processed, not
// the set of plugins successfully installed. Use SyncRequest.Force to retry.
func (s *SyncService) Sync(ctx context.Context, req SyncRequest) (*SyncReport, error) {
	report := &SyncReport{RunID: uuid.NewString(), State: StateIdle}
	logger := s.logger.With("run", report.RunID)

	report.State = StateChecking
	doc, err := config.Read(s.cfg.ConfigDir)
	if err != nil {
		logger.Info("nothing to sync", "reason", err)
		report.State = StateNoConfig
		return report, nil
	}

	report.Fingerprint = plugindomain.FingerprintOf(doc.Raw)
	if previous, ok := lockfile.Load(s.cfg.LockPath); ok && previous == report.Fingerprint && !req.Force {
		logger.Debug("configuration unchanged", "fingerprint", report.Fingerprint.String())
		report.State = StateUnchanged
		return report, nil
	}

	report.State = StateSyncing
	cfg, err := doc.Parse()
	if err != nil {
		logger.Error("cannot sync", "error", err)
		report.State = StateNoConfig
		return report, nil
	}
	logger.Info("configuration changed", "path", doc.Path, "plugins", len(cfg.Plugins), "force", req.Force)

	if err := s.store.EnsureRoot(); err != nil {
		return report, err
	}

	s.reconcile(ctx, logger, cfg.Plugins, report)
	if err := ctx.Err(); err != nil {
		logger.Warn("sync interrupted, lock left untouched", "error", err)
		return report, err
	}

	if err := lockfile.Commit(s.cfg.LockPath, report.Fingerprint); err != nil {
		return report, err
	}

	report.State = StateCommitted
	if len(report.Failed) > 0 {
		report.State = StatePartiallyFailed
	}
	logger.Info("sync finished",
		"state", report.State.String(),
		"installed", len(report.Installed),
		"present", len(report.Present),
		"failed", len(report.Failed),
	)

	s.notify(ctx, logger)
	return report, nil
}

type entryOutcome struct {
	id        plugindomain.Identity
	installed bool
	present   bool
	err       error
}

// reconcile resolves entries in order and installs missing ones
// concurrently. Goroutines never return an error so that one failure does
// not cancel its siblings; every install is awaited before returning.
func (s *SyncService) reconcile(ctx context.Context, logger hclog.Logger, sources []plugindomain.Source, report *SyncReport) {
	outcomes := make([]entryOutcome, len(sources))

	var g errgroup.Group
	g.SetLimit(s.cfg.Jobs)

	for i, entry := range resolveEntries(sources) {
		source, id := entry.Source, entry.Identity
		if entry.Err != nil {
			logger.Warn("skipping plugin", "source", string(source), "error", entry.Err)
			outcomes[i].err = entry.Err
			continue
		}
		if entry.Duplicate {
			logger.Warn("skipping duplicate plugin", "source", string(source), "plugin", id.String())
			continue
		}
		outcomes[i].id = id

		if s.store.IsInstalled(id) {
			logger.Trace("already installed", "plugin", id.String())
			outcomes[i].present = true
			continue
		}

		i := i
		g.Go(func() error {
			logger.Debug("installing", "plugin", id.String(), "source", string(source))
			if err := s.store.Install(ctx, source, id); err != nil {
				logger.Warn("install failed", "plugin", id.String(), "error", err)
				outcomes[i].err = err
				return nil
			}
			outcomes[i].installed = true
			return nil
		})
	}
	_ = g.Wait()

	for i, outcome := range outcomes {
		switch {
		case outcome.err != nil:
			report.Failed = append(report.Failed, EntryError{Index: i, Source: sources[i], Err: outcome.err})
		case outcome.installed:
			report.Installed = append(report.Installed, outcome.id)
		case outcome.present:
			report.Present = append(report.Present, outcome.id)
		}
	}
}

func (s *SyncService) notify(ctx context.Context, logger hclog.Logger) {
	if s.notifier == nil || !s.cfg.Shell.Valid() {
		logger.Debug("no shell to notify")
		return
	}

	if err := s.notifier.Notify(ctx, s.cfg.Shell); err != nil {
		logger.Warn("reload notification incomplete", "error", err)
	}
}
