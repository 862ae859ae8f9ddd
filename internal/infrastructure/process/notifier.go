package process

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"

	shelldomain "shco.dev/cli/internal/core/domain/shell"
	pluginports "shco.dev/cli/internal/core/ports/plugin"
)

// ErrSignalsUnsupported is returned on hosts without SIGWINCH
var ErrSignalsUnsupported = errors.New("reload signals are not supported on this platform")

// Notifier delivers a window-change signal to every running shell of the
// current user so the init hook re-evaluates its plugin list.
type Notifier struct {
	lister Lister
	signal func(pid int) error
	self   int
	uid    int
	logger hclog.Logger
}

// NewNotifier creates a notifier that signals processes found by lister
func NewNotifier(lister Lister, logger hclog.Logger) *Notifier {
	return &Notifier{
		lister: lister,
		signal: sendReload,
		self:   os.Getpid(),
		uid:    os.Getuid(),
		logger: logger.Named("notifier"),
	}
}

// Notify signals each matching shell. Every failure is logged; the joined
// error is returned for callers that want to report it.
func (n *Notifier) Notify(ctx context.Context, kind shelldomain.Kind) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %s", shelldomain.ErrUnsupportedShell, kind)
	}
	if !reloadSupported {
		return ErrSignalsUnsupported
	}

	procs, err := n.lister.List(ctx)
	if err != nil {
		return err
	}

	var errs []error
	signalled := 0
	for _, p := range procs {
		if p.Name != kind.Name() || p.PID == n.self {
			continue
		}
		if n.uid >= 0 && p.UID != n.uid {
			continue
		}

		if err := n.signal(p.PID); err != nil {
			n.logger.Warn("failed to signal shell", "pid", p.PID, "error", err)
			errs = append(errs, fmt.Errorf("pid %d: %w", p.PID, err))
			continue
		}
		signalled++
		n.logger.Trace("signalled shell", "pid", p.PID)
	}

	n.logger.Debug("reload signal delivered", "shell", kind.Name(), "count", signalled, "failed", len(errs))
	return errors.Join(errs...)
}

var _ pluginports.ShellNotifier = (*Notifier)(nil)
