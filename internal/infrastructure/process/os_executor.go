package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// ErrStart is returned when a child process cannot be spawned
var ErrStart = errors.New("failed to start process")

// ExitError describes a child process that ran and exited non-zero
type ExitError struct {
	Name     string
	ExitCode int
	Stderr   string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", e.Name, e.ExitCode)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// Result captures the output of a finished child process
type Result struct {
	Stdout []byte
	Stderr []byte
}

// waitDelay bounds how long Run waits for output pipes after the child
// was killed
const waitDelay = 2 * time.Second

// Executor runs short-lived child processes to completion
type Executor struct {
	env []string
}

// NewExecutor creates a new process executor
func NewExecutor() *Executor {
	return &Executor{
		env: os.Environ(), // Use current environment
	}
}

// Run executes name with args and waits for it. Stdin is closed, so a child
// that prompts fails instead of blocking. extraEnv entries are KEY=VALUE.
// Cancelling ctx kills the child together with every process it spawned.
func (e *Executor) Run(ctx context.Context, extraEnv []string, name string, args ...string) (*Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = e.buildEnvironment(extraEnv)
	cmd.WaitDelay = waitDelay
	killGroupOnCancel(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrStart, name, err)
	}

	err := cmd.Wait()
	result := &Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err == nil {
		return result, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, fmt.Errorf("%s interrupted: %w", name, ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return result, &ExitError{
			Name:     name,
			ExitCode: exitErr.ExitCode(),
			Stderr:   strings.TrimSpace(stderr.String()),
		}
	}
	return result, fmt.Errorf("failed to wait for %s: %w", name, err)
}

// buildEnvironment combines the base environment with command-specific entries
func (e *Executor) buildEnvironment(extra []string) []string {
	env := append([]string(nil), e.env...) // Copy base environment
	return append(env, extra...)
}
