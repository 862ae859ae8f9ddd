package process

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	psprocess "github.com/shirou/gopsutil/v4/process"
)

// Info identifies a running process
type Info struct {
	PID  int
	UID  int
	Name string
}

// Lister enumerates running processes
type Lister interface {
	List(ctx context.Context) ([]Info, error)
}

// SystemLister reads the host process table through gopsutil
type SystemLister struct{}

// DefaultLister returns the lister used outside tests
func DefaultLister() Lister {
	return SystemLister{}
}

// List implements Lister. Processes that exit or cannot be inspected while
// the table is read are skipped.
func (SystemLister) List(ctx context.Context) ([]Info, error) {
	procs, err := psprocess.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}

	infos := make([]Info, 0, len(procs))
	for _, p := range procs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		uids, err := p.UidsWithContext(ctx)
		if err != nil || len(uids) == 0 {
			continue
		}

		// uids are real, effective, saved, filesystem
		infos = append(infos, Info{PID: int(p.Pid), UID: int(uids[0]), Name: normalizeName(name)})
	}

	return infos, nil
}

// normalizeName strips paths and the login-shell dash, so "-zsh" and
// "/bin/zsh" both become "zsh"
func normalizeName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(name, "-")
	return filepath.Base(name)
}
