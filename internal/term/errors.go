// Package term is procterm's core: the Terminal type, its request queue
// and the render loop that owns all pane state. Public methods translate
// to queued requests; the loop applies them one at a time, so buffers,
// focus and key bindings never need locks.
package term

import (
	"errors"
	"fmt"

	"github.com/dshills/procterm/internal/keybind"
)

// Terminal errors.
var (
	// ErrDuplicateProcessName indicates a live session already uses the name.
	ErrDuplicateProcessName = errors.New("duplicate process name")

	// ErrKeyBindingConflict indicates a requested key is already claimed.
	// It is the keybind package's conflict sentinel re-exported at the API
	// surface; errors.Is matches either name.
	ErrKeyBindingConflict = keybind.ErrConflict

	// ErrProcessNotFound indicates no live session has the given name.
	ErrProcessNotFound = errors.New("process not found")

	// ErrProcessTerminated indicates the searched process exited before a
	// matching line arrived.
	ErrProcessTerminated = errors.New("process terminated")

	// ErrTerminalNotRunning indicates the terminal has ended and accepts
	// no further operations.
	ErrTerminalNotRunning = errors.New("terminal not running")

	// ErrTerminalEnded indicates the terminal ended while the operation
	// was in flight.
	ErrTerminalEnded = errors.New("terminal ended")

	// ErrTooManyProcesses indicates no pane focus key ('1'..'9') is free.
	ErrTooManyProcesses = errors.New("too many processes")
)

// OpError wraps a failure of one terminal operation with the operation
// name and its target.
type OpError struct {
	Op     string // operation name ("add process", "search")
	Target string // process name, when the operation has one
	Err    error
}

func (e *OpError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Target, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// opErr wraps err unless it is nil.
func opErr(op, target string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Target: target, Err: err}
}
