package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-hclog"
)

// DefaultDebounce coalesces the burst of events editors emit on save
const DefaultDebounce = 250 * time.Millisecond

// ConfigWatcher invokes a callback whenever one of the watched files in a
// directory is written, created or replaced. The directory is watched
// rather than the files so that atomic saves (write + rename) are seen.
type ConfigWatcher struct {
	dir      string
	names    map[string]bool
	debounce time.Duration
	logger   hclog.Logger
}

// NewConfigWatcher watches the given file names inside dir
func NewConfigWatcher(dir string, names []string, debounce time.Duration, logger hclog.Logger) *ConfigWatcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}

	return &ConfigWatcher{
		dir:      dir,
		names:    set,
		debounce: debounce,
		logger:   logger.Named("watcher"),
	}
}

// Run blocks until ctx is done, calling onChange once per settled burst of
// changes. onChange runs on the watcher goroutine; events arriving while it
// runs are coalesced into the next call.
func (w *ConfigWatcher) Run(ctx context.Context, onChange func(ctx context.Context)) error {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	w.logger.Info("watching configuration", "dir", w.dir)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Trace("config event", "op", event.Op.String(), "path", event.Name)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			onChange(ctx)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

func (w *ConfigWatcher) relevant(event fsnotify.Event) bool {
	if !w.names[filepath.Base(event.Name)] {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
