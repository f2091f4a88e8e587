// Package session owns one supervised external process: its line buffer,
// display settings, scroll bindings, and the capture workers that read its
// streams. Sessions feed captured lines to a Sink (the terminal's event
// queue) and never touch terminal state directly.
package session

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/procterm/internal/buffer"
	"github.com/dshills/procterm/internal/input/key"
	"github.com/dshills/procterm/internal/proc"
)

// ScrollBinding is the pair of keys a pane claims for scroll navigation.
// Prev scrolls toward older lines, Next toward newer ones. The same keys
// with Shift move the horizontal scroll column.
type ScrollBinding struct {
	Prev key.Press
	Next key.Press
}

// Settings configures a session at creation.
type Settings struct {
	// Filter selects which streams are retained in the buffer.
	Filter buffer.Filter

	// Scroll optionally claims a key pair for this pane's scrolling.
	Scroll *ScrollBinding
}

// Sink receives capture events from a session's workers. Implementations
// must be safe for concurrent use and must not block indefinitely after
// the terminal has ended.
type Sink interface {
	// Line delivers one captured, escape-stripped line.
	Line(name string, kind buffer.StreamKind, text string)

	// Exited reports that the session's process has been reaped,
	// with a human-readable exit status.
	Exited(name string, status string)

	// CaptureFailure reports a stream read error. The stream is treated
	// as ended; the session is not torn down on behalf of the caller.
	CaptureFailure(name string, kind buffer.StreamKind, err error)
}

// Session is one supervised process. The buffer is mutated only by the
// render loop; the liveness flag uses atomic semantics so any thread may
// read it.
type Session struct {
	name     string
	handle   proc.Handle
	settings Settings
	buf      *buffer.Buffer

	live    atomic.Bool
	workers sync.WaitGroup
	reaped  chan struct{}
}

// New creates a session for the given process. Start must be called to
// begin capturing.
func New(name string, h proc.Handle, settings Settings) *Session {
	return &Session{
		name:     name,
		handle:   h,
		settings: settings,
		buf:      buffer.New(),
		reaped:   make(chan struct{}),
	}
}

// Name returns the session's unique name.
func (s *Session) Name() string { return s.name }

// Buffer returns the session's line buffer. Only the render loop may
// mutate it.
func (s *Session) Buffer() *buffer.Buffer { return s.buf }

// Settings returns the session's display settings.
func (s *Session) Settings() Settings { return s.settings }

// Live reports whether the session's process is still running.
func (s *Session) Live() bool { return s.live.Load() }

// Start launches one capture worker per stream plus a reaper that waits
// for both workers and the process, then reports the exit through the
// sink. Lines from streams the filter rejects are drained but never
// emitted, so the child cannot block on a full pipe.
func (s *Session) Start(sink Sink) {
	s.live.Store(true)

	s.workers.Add(2)
	go s.capture(s.handle.Stdout(), buffer.StreamOutput, sink)
	go s.capture(s.handle.Stderr(), buffer.StreamError, sink)

	go s.reap(sink)
}

// reap waits for both capture workers, then the process, marks the
// session dead and reports the exit status.
func (s *Session) reap(sink Sink) {
	defer close(s.reaped)

	s.workers.Wait()
	err := s.handle.Wait()

	s.live.Store(false)
	sink.Exited(s.name, proc.ExitStatus(err))
}

// Stop tears the process down: it kills the process and closes both
// streams, which unblocks any in-flight reads. Safe to call more than
// once and from any thread.
func (s *Session) Stop() {
	_ = s.handle.Kill()
	_ = s.handle.Stdout().Close()
	_ = s.handle.Stderr().Close()
}

// Join waits for the reaper to finish, up to timeout. Returns false if
// the session had to be detached still running.
func (s *Session) Join(timeout time.Duration) bool {
	select {
	case <-s.reaped:
		return true
	case <-time.After(timeout):
		return false
	}
}
