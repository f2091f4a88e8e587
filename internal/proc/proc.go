// Package proc abstracts the external processes procterm supervises.
// The terminal consumes the Handle interface; Cmd adapts os/exec to it.
package proc

import (
	"fmt"
	"io"
	"os/exec"
)

// Handle exposes one external process: its two output streams, a blocking
// exit wait, and a way to tear it down. Implementations must allow Stdout
// and Stderr to be read from different goroutines.
type Handle interface {
	// Stdout returns the process's standard output stream.
	Stdout() io.ReadCloser

	// Stderr returns the process's standard error stream.
	Stderr() io.ReadCloser

	// Wait blocks until the process exits and returns its exit error,
	// if any. Must be called exactly once, after both streams have been
	// drained or closed.
	Wait() error

	// Kill terminates the process. Closing the streams and killing the
	// process must unblock in-flight reads.
	Kill() error
}

// Cmd is a Handle over an exec.Cmd with pipes opened before start.
type Cmd struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr io.ReadCloser
}

// Start opens stdout/stderr pipes on cmd and starts it.
// The cmd must not have its Stdout or Stderr already set.
func Start(cmd *exec.Cmd) (*Cmd, error) {
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", cmd.Path, err)
	}

	return &Cmd{cmd: cmd, stdout: stdout, stderr: stderr}, nil
}

// Stdout returns the process's standard output pipe.
func (c *Cmd) Stdout() io.ReadCloser { return c.stdout }

// Stderr returns the process's standard error pipe.
func (c *Cmd) Stderr() io.ReadCloser { return c.stderr }

// Wait waits for the process to exit.
func (c *Cmd) Wait() error { return c.cmd.Wait() }

// Kill terminates the process if it is still running.
func (c *Cmd) Kill() error {
	if c.cmd.Process == nil {
		return nil
	}
	return c.cmd.Process.Kill()
}

// ExitStatus formats a Wait result the way the main pane reports it.
func ExitStatus(err error) string {
	if err == nil {
		return "ok"
	}
	return err.Error()
}
