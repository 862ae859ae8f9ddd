//go:build !windows

package lockfile

import "github.com/google/renameio/v2"

func writeAtomic(path string, data []byte) error {
	return renameio.WriteFile(path, data, 0644)
}
