package term

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/procterm/internal/buffer"
	"github.com/dshills/procterm/internal/config"
	"github.com/dshills/procterm/internal/input/key"
	"github.com/dshills/procterm/internal/keybind"
	"github.com/dshills/procterm/internal/proc"
	"github.com/dshills/procterm/internal/render"
	"github.com/dshills/procterm/internal/render/backend"
	"github.com/dshills/procterm/internal/session"
)

// Terminal lifecycle states. The terminal starts uninitialized, moves to
// running on the first operation that needs the display, and ends exactly
// once. An ended terminal is not restartable.
const (
	stateUninitialized int32 = iota
	stateRunning
	stateEnded
)

// Terminal multiplexes the output of supervised processes into a
// split-pane display. All methods are safe for concurrent use.
//
// Construction does not touch the hosting terminal; the display takes
// over on the first AddProcess, Print or BlockSearchMessage call and is
// restored by End or the quit key.
type Terminal struct {
	cfg     config.Config
	logger  *Logger
	backend backend.Backend

	state  atomic.Int32
	events chan request
	done   chan struct{} // closed once when the terminal ends

	loopDone     chan struct{} // closed when the render loop has torn down
	loopDoneOnce sync.Once

	exitMu   sync.Mutex
	exitFns  []func()
	exitOnce sync.Once

	// Everything below is owned by the render loop after start; no other
	// goroutine touches it.
	renderer  *render.Renderer
	main      *buffer.Buffer
	sessions  []*session.Session
	byName    map[string]*session.Session
	keys      *keybind.Registry
	actions   map[key.Press]boundAction
	focusKeys map[string]key.Press
	focus     focus
	waiters   []*searchWaiter
}

// boundAction is one key's handler together with the owner that claimed
// the key, so a session's bindings can be dropped when it exits.
type boundAction struct {
	owner string
	fn    func()
}

// builtinOwner claims the keys the terminal itself handles.
const builtinOwner = "terminal"

// Option configures a Terminal at construction.
type Option func(*Terminal)

// WithConfig replaces the default configuration.
func WithConfig(cfg config.Config) Option {
	return func(t *Terminal) { t.cfg = cfg }
}

// WithBackend replaces the tcell display backend, used by tests to run
// without a TTY.
func WithBackend(b backend.Backend) Option {
	return func(t *Terminal) { t.backend = b }
}

// WithLogger replaces the default logger.
func WithLogger(l *Logger) Option {
	return func(t *Terminal) { t.logger = l }
}

// New creates a terminal. The display is not initialized until the first
// operation.
func New(opts ...Option) *Terminal {
	t := &Terminal{
		cfg:      config.Default(),
		done:     make(chan struct{}),
		loopDone: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(t)
	}

	if t.logger == nil {
		t.logger = NewLogger(LoggerConfig{
			Level:  ParseLogLevel(t.cfg.LogLevel),
			Output: os.Stderr,
			Prefix: "procterm",
		})
	}

	t.events = make(chan request, t.cfg.QueueSize)
	return t
}

// AddProcess registers a process under a unique name and starts capturing
// its output into a new pane. The pane's focus key is the lowest free
// digit '1'..'9'.
//
// Fails with ErrDuplicateProcessName if a live session already uses the
// name, ErrKeyBindingConflict if a requested scroll key is taken (in
// which case nothing is claimed), and ErrTooManyProcesses if no focus
// digit is free.
func (t *Terminal) AddProcess(name string, h proc.Handle, settings session.Settings) error {
	req := &addRequest{name: name, handle: h, settings: settings, reply: make(chan error, 1)}
	if err := t.enqueue(req); err != nil {
		return opErr("add process", name, err)
	}

	select {
	case err := <-req.reply:
		return opErr("add process", name, err)
	case <-t.loopDone:
		// The loop ended while the request was queued; teardown may have
		// answered it already.
		select {
		case err := <-req.reply:
			return opErr("add process", name, err)
		default:
			return opErr("add process", name, ErrTerminalEnded)
		}
	}
}

// Print appends text to the main pane. Embedded newlines split the text
// into multiple lines. Printing to an ended terminal is a no-op.
func (t *Terminal) Print(text string) {
	_ = t.enqueue(&printRequest{text: text})
}

// Printf formats and prints to the main pane.
func (t *Terminal) Printf(format string, args ...any) {
	t.Print(fmt.Sprintf(format, args...))
}

// BlockSearchMessage blocks until a line of the named process's pane
// contains substring, and returns that line. Buffered history is searched
// first, from the oldest line; if no buffered line matches, the call
// blocks until a matching line arrives.
//
// Fails with ErrProcessNotFound if no live session has the name,
// ErrProcessTerminated if the process exits before a match, and
// ErrTerminalEnded if the terminal ends while waiting.
func (t *Terminal) BlockSearchMessage(name, substring string) (string, error) {
	req := &searchRequest{name: name, substring: substring, reply: make(chan searchResult, 1)}
	if err := t.enqueue(req); err != nil {
		return "", opErr("search", name, err)
	}

	select {
	case res := <-req.reply:
		return res.text, opErr("search", name, res.err)
	case <-t.loopDone:
		select {
		case res := <-req.reply:
			return res.text, opErr("search", name, res.err)
		default:
			return "", opErr("search", name, ErrTerminalEnded)
		}
	}
}

// OnExit registers a callback to run once when the terminal ends, whether
// through End or the quit key. Callbacks registered after the terminal
// has ended never run.
func (t *Terminal) OnExit(fn func()) {
	t.exitMu.Lock()
	t.exitFns = append(t.exitFns, fn)
	t.exitMu.Unlock()
}

// End shuts the terminal down: stops all sessions, waits for their
// workers up to the configured shutdown timeout, restores the hosting
// terminal and runs the exit callbacks. Safe to call more than once and
// from any goroutine; later calls are no-ops.
func (t *Terminal) End() {
	wasRunning, did := t.signalEnd()
	if !did {
		return
	}

	if !wasRunning {
		// Never started: there is no loop to wait for.
		t.fireExit()
		t.closeLoopDone()
		return
	}

	select {
	case <-t.loopDone:
	case <-time.After(t.cfg.ShutdownTimeout + time.Second):
		// The loop is stuck; leave the process to its fate rather than
		// block the caller forever.
		t.logger.Error("render loop did not shut down in time")
	}
}

// signalEnd moves the terminal to the ended state and wakes the loop.
// Reports whether the loop was running and whether this call performed
// the transition.
func (t *Terminal) signalEnd() (wasRunning, did bool) {
	for {
		s := t.state.Load()
		if s == stateEnded {
			return false, false
		}
		if t.state.CompareAndSwap(s, stateEnded) {
			close(t.done)
			return s == stateRunning, true
		}
	}
}

// ensure initializes the display and starts the loop on first use.
func (t *Terminal) ensure() error {
	for {
		switch t.state.Load() {
		case stateEnded:
			return ErrTerminalNotRunning
		case stateRunning:
			return nil
		default:
			if !t.state.CompareAndSwap(stateUninitialized, stateRunning) {
				continue
			}
			if err := t.start(); err != nil {
				t.state.Store(stateEnded)
				t.closeLoopDone()
				return err
			}
			return nil
		}
	}
}

// start takes over the display and launches the input poller and render
// loop. Runs exactly once, on the goroutine that won the state change.
func (t *Terminal) start() error {
	if t.backend == nil {
		b, err := backend.NewTerminal()
		if err != nil {
			return fmt.Errorf("open display: %w", err)
		}
		t.backend = b
	}
	if err := t.backend.Init(); err != nil {
		return fmt.Errorf("init display: %w", err)
	}

	t.renderer = render.New(t.backend, t.cfg.MainPaneRatio)
	t.main = buffer.New()
	t.byName = make(map[string]*session.Session)
	t.keys = keybind.NewRegistry()
	t.actions = make(map[key.Press]boundAction)
	t.focusKeys = make(map[string]key.Press)
	t.bindBuiltins()

	// From here on the display owns the screen; logs go to the main pane.
	t.logger.SetOutput(&paneWriter{t: t})

	go t.pollInput()
	go t.run()
	return nil
}

// enqueue starts the terminal if needed and queues a request. Blocks when
// the queue is full; fails once the terminal has ended.
func (t *Terminal) enqueue(r request) error {
	if err := t.ensure(); err != nil {
		return err
	}

	select {
	case t.events <- r:
		return nil
	case <-t.done:
		return ErrTerminalEnded
	}
}

// post queues a request from a capture worker. Unlike enqueue it never
// starts the terminal and never fails; after the end it drops the
// request.
func (t *Terminal) post(r request) {
	select {
	case t.events <- r:
	case <-t.done:
	}
}

// fireExit runs the exit callbacks exactly once.
func (t *Terminal) fireExit() {
	t.exitOnce.Do(func() {
		t.exitMu.Lock()
		fns := t.exitFns
		t.exitMu.Unlock()

		for _, fn := range fns {
			fn()
		}
	})
}

func (t *Terminal) closeLoopDone() {
	t.loopDoneOnce.Do(func() { close(t.loopDone) })
}
