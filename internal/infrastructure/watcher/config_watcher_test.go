package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, dir string) (*atomic.Int32, context.CancelFunc, <-chan error) {
	t.Helper()

	w := NewConfigWatcher(dir, []string{"rc.json"}, 20*time.Millisecond, hclog.NewNullLogger())
	ctx, cancel := context.WithCancel(context.Background())

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(context.Context) { calls.Add(1) })
	}()

	// give fsnotify time to register the directory
	time.Sleep(100 * time.Millisecond)
	return &calls, cancel, done
}

func TestConfigWatcher_TriggersOnWrite(t *testing.T) {
	dir := t.TempDir()
	calls, cancel, done := startWatcher(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "rc.json"), []byte(`{"plugins":[]}`), 0o644))

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop after cancellation")
	}
}

func TestConfigWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	calls, cancel, _ := startWatcher(t, dir)
	defer cancel()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o644))

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}

func TestConfigWatcher_CreatesMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "config", "shco")
	_, cancel, _ := startWatcher(t, dir)
	defer cancel()

	assert.DirExists(t, dir)
}
