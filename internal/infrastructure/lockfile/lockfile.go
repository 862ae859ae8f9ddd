package lockfile

import (
	"fmt"
	"os"
	"path/filepath"

	plugindomain "shco.dev/cli/internal/core/domain/plugin"
)

// Load returns the last committed fingerprint. A missing, unreadable or
// malformed lock reports ok=false, which callers treat as "never synced".
func Load(path string) (fp plugindomain.Fingerprint, ok bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fp, false
	}

	fp, err = plugindomain.ParseFingerprint(string(data))
	if err != nil {
		return fp, false
	}
	return fp, true
}

// Commit replaces the lock with fp. Readers see either the previous or the
// new value, and the new value is on disk before Commit returns.
func Commit(path string, fp plugindomain.Fingerprint) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	if err := writeAtomic(path, []byte(fp.String())); err != nil {
		return fmt.Errorf("failed to commit lock file: %w", err)
	}
	return nil
}
