//go:build !unix

package process

import "os/exec"

// killGroupOnCancel keeps the default behaviour of killing the direct child;
// WaitDelay still bounds the wait for inherited pipes.
func killGroupOnCancel(cmd *exec.Cmd) {}
