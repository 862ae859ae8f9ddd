//go:build unix

package process

import "golang.org/x/sys/unix"

const reloadSupported = true

func sendReload(pid int) error {
	return unix.Kill(pid, unix.SIGWINCH)
}
