package term

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/dshills/procterm/internal/buffer"
	"github.com/dshills/procterm/internal/config"
	"github.com/dshills/procterm/internal/input/key"
	"github.com/dshills/procterm/internal/keybind"
	"github.com/dshills/procterm/internal/render/backend"
	"github.com/dshills/procterm/internal/session"
)

// fakeHandle is an in-memory proc.Handle backed by pipes.
type fakeHandle struct {
	outR, errR *io.PipeReader
	outW, errW *io.PipeWriter
	waitErr    error
	exited     chan struct{}
}

func newFakeHandle() *fakeHandle {
	outR, outW := io.Pipe()
	errR, errW := io.Pipe()
	return &fakeHandle{
		outR: outR, outW: outW,
		errR: errR, errW: errW,
		exited: make(chan struct{}),
	}
}

func (h *fakeHandle) Stdout() io.ReadCloser { return h.outR }
func (h *fakeHandle) Stderr() io.ReadCloser { return h.errR }

func (h *fakeHandle) Wait() error {
	<-h.exited
	return h.waitErr
}

func (h *fakeHandle) Kill() error {
	select {
	case <-h.exited:
	default:
		close(h.exited)
	}
	return nil
}

func (h *fakeHandle) exit() {
	h.outW.Close()
	h.errW.Close()
	select {
	case <-h.exited:
	default:
		close(h.exited)
	}
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.TickInterval = 5 * time.Millisecond
	cfg.ShutdownTimeout = 2 * time.Second
	return cfg
}

func newTestTerminal(t *testing.T) (*Terminal, *backend.NullBackend) {
	t.Helper()
	b := backend.NewNullBackend(80, 24)
	logger := NewLogger(LoggerConfig{Level: LogLevelError, Output: io.Discard})
	tm := New(WithBackend(b), WithConfig(testConfig()), WithLogger(logger))
	t.Cleanup(tm.End)
	return tm, b
}

func allSettings() session.Settings {
	return session.Settings{Filter: buffer.FilterAll}
}

// screenContains reports whether any screen row shows want.
func screenContains(b *backend.NullBackend, want string) bool {
	for y := 0; y < 24; y++ {
		if strings.Contains(b.Row(y), want) {
			return true
		}
	}
	return false
}

func waitFor(t *testing.T, desc string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", desc)
}

func TestAddProcessDuplicateName(t *testing.T) {
	tm, _ := newTestTerminal(t)

	if err := tm.AddProcess("worker", newFakeHandle(), allSettings()); err != nil {
		t.Fatalf("first add failed: %v", err)
	}

	err := tm.AddProcess("worker", newFakeHandle(), allSettings())
	if !errors.Is(err, ErrDuplicateProcessName) {
		t.Errorf("expected ErrDuplicateProcessName, got %v", err)
	}
}

func TestAddProcessScrollKeyConflict(t *testing.T) {
	tm, _ := newTestTerminal(t)

	scroll := &session.ScrollBinding{Prev: key.Rune('p'), Next: key.Rune('n')}
	first := allSettings()
	first.Scroll = scroll
	if err := tm.AddProcess("a", newFakeHandle(), first); err != nil {
		t.Fatalf("first add failed: %v", err)
	}

	second := allSettings()
	second.Scroll = scroll
	err := tm.AddProcess("b", newFakeHandle(), second)
	if !errors.Is(err, ErrKeyBindingConflict) {
		t.Fatalf("expected ErrKeyBindingConflict, got %v", err)
	}

	var conflict *keybind.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatal("expected a ConflictError in the chain")
	}
	if conflict.Owner != "a" {
		t.Errorf("expected conflict with owner a, got %q", conflict.Owner)
	}
}

func TestBuiltinKeysAreClaimed(t *testing.T) {
	tm, _ := newTestTerminal(t)

	settings := allSettings()
	settings.Scroll = &session.ScrollBinding{
		Prev: key.Special(key.KeyUp),
		Next: key.Special(key.KeyDown),
	}
	err := tm.AddProcess("greedy", newFakeHandle(), settings)
	if !errors.Is(err, ErrKeyBindingConflict) {
		t.Errorf("arrow keys belong to the main pane, expected conflict, got %v", err)
	}
}

func TestKeysReclaimableAfterExit(t *testing.T) {
	tm, _ := newTestTerminal(t)

	scroll := &session.ScrollBinding{Prev: key.Rune('p'), Next: key.Rune('n')}
	settings := allSettings()
	settings.Scroll = scroll

	h := newFakeHandle()
	if err := tm.AddProcess("a", h, settings); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	h.exit()

	// The exit is processed asynchronously; the keys free up once the
	// session is removed.
	waitFor(t, "keys to free up", func() bool {
		return tm.AddProcess("b", newFakeHandle(), settings) == nil
	})
}

func TestPrintShowsOnMainPane(t *testing.T) {
	tm, b := newTestTerminal(t)

	tm.Print("hello from host")

	waitFor(t, "printed line", func() bool {
		return screenContains(b, "hello from host")
	})
}

func TestBlockSearchFindsBufferedLine(t *testing.T) {
	tm, _ := newTestTerminal(t)

	h := newFakeHandle()
	if err := tm.AddProcess("worker", h, allSettings()); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	h.outW.Write([]byte("hello\nworld\n"))

	got, err := tm.BlockSearchMessage("worker", "llo")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if got != "hello" {
		t.Errorf("expected hello, got %q", got)
	}
}

func TestBlockSearchUnblocksOnAppend(t *testing.T) {
	tm, _ := newTestTerminal(t)

	h := newFakeHandle()
	if err := tm.AddProcess("worker", h, allSettings()); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	type result struct {
		text string
		err  error
	}
	results := make(chan result, 1)
	go func() {
		text, err := tm.BlockSearchMessage("worker", "oba")
		results <- result{text, err}
	}()

	time.Sleep(50 * time.Millisecond)
	h.outW.Write([]byte("foobar\n"))

	select {
	case res := <-results:
		if res.err != nil {
			t.Fatalf("search failed: %v", res.err)
		}
		if res.text != "foobar" {
			t.Errorf("expected foobar, got %q", res.text)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("search did not unblock on matching line")
	}
}

func TestSearchFailsWhenProcessTerminates(t *testing.T) {
	tm, _ := newTestTerminal(t)

	h := newFakeHandle()
	if err := tm.AddProcess("worker", h, allSettings()); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	errs := make(chan error, 1)
	go func() {
		_, err := tm.BlockSearchMessage("worker", "never-printed")
		errs <- err
	}()

	// Let the search park before the process goes away.
	time.Sleep(50 * time.Millisecond)
	h.exit()

	select {
	case err := <-errs:
		if !errors.Is(err, ErrProcessTerminated) {
			t.Errorf("expected ErrProcessTerminated, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("search did not fail on process exit")
	}
}

func TestSearchUnknownProcess(t *testing.T) {
	tm, _ := newTestTerminal(t)

	_, err := tm.BlockSearchMessage("ghost", "anything")
	if !errors.Is(err, ErrProcessNotFound) {
		t.Errorf("expected ErrProcessNotFound, got %v", err)
	}
}

func TestExitReportedOnMainPane(t *testing.T) {
	tm, b := newTestTerminal(t)

	h := newFakeHandle()
	if err := tm.AddProcess("worker", h, allSettings()); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	h.exit()

	waitFor(t, "exit report", func() bool {
		return screenContains(b, "process worker exited: ok")
	})
}

func TestFocusFullScreenAndBack(t *testing.T) {
	tm, b := newTestTerminal(t)

	if err := tm.AddProcess("worker", newFakeHandle(), allSettings()); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	waitFor(t, "split layout", func() bool {
		return screenContains(b, "full screen: '1'")
	})

	b.PostKey(key.Rune('1'))
	waitFor(t, "session full screen", func() bool {
		return screenContains(b, "Esc to exit") && !screenContains(b, "Main")
	})

	b.PostKey(key.Special(key.KeyEscape))
	waitFor(t, "split layout restored", func() bool {
		return screenContains(b, "Main") && !screenContains(b, "Esc to exit")
	})
}

func TestMainFullScreenHidesSessions(t *testing.T) {
	tm, b := newTestTerminal(t)

	if err := tm.AddProcess("worker", newFakeHandle(), allSettings()); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	waitFor(t, "split layout", func() bool {
		return screenContains(b, "worker")
	})

	b.PostKey(key.Rune('0'))
	waitFor(t, "main full screen", func() bool {
		return screenContains(b, "Esc to exit") && !screenContains(b, "worker")
	})
}

func TestFocusResetWhenFocusedSessionExits(t *testing.T) {
	tm, b := newTestTerminal(t)

	h := newFakeHandle()
	if err := tm.AddProcess("worker", h, allSettings()); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	waitFor(t, "split layout", func() bool {
		return screenContains(b, "full screen: '1'")
	})

	b.PostKey(key.Rune('1'))
	waitFor(t, "session full screen", func() bool {
		return screenContains(b, "Esc to exit")
	})

	h.exit()
	waitFor(t, "focus reset to normal", func() bool {
		return screenContains(b, "Main") && !screenContains(b, "Esc to exit")
	})
}

func TestEndRejectsFurtherOperations(t *testing.T) {
	tm, _ := newTestTerminal(t)

	tm.Print("starting up")
	tm.End()

	if err := tm.AddProcess("late", newFakeHandle(), allSettings()); !errors.Is(err, ErrTerminalNotRunning) {
		t.Errorf("expected ErrTerminalNotRunning from AddProcess, got %v", err)
	}
	if _, err := tm.BlockSearchMessage("late", "x"); !errors.Is(err, ErrTerminalNotRunning) {
		t.Errorf("expected ErrTerminalNotRunning from search, got %v", err)
	}

	// Further End calls and prints are no-ops.
	tm.End()
	tm.Print("dropped")
}

func TestOnExitRunsOnce(t *testing.T) {
	tm, _ := newTestTerminal(t)

	calls := 0
	tm.OnExit(func() { calls++ })

	tm.Print("starting up")
	tm.End()
	tm.End()

	if calls != 1 {
		t.Errorf("expected exactly one exit callback call, got %d", calls)
	}
}

func TestQuitKeyEndsTerminal(t *testing.T) {
	tm, b := newTestTerminal(t)

	exited := make(chan struct{})
	tm.OnExit(func() { close(exited) })

	tm.Print("starting up")
	b.PostKey(key.Special(key.KeyCtrlC))

	select {
	case <-exited:
	case <-time.After(2 * time.Second):
		t.Fatal("quit key did not end the terminal")
	}

	waitFor(t, "operations to be rejected", func() bool {
		err := tm.AddProcess("late", newFakeHandle(), allSettings())
		return errors.Is(err, ErrTerminalNotRunning)
	})
}

func TestTooManyProcesses(t *testing.T) {
	tm, _ := newTestTerminal(t)

	for i := 0; i < 9; i++ {
		name := string(rune('a' + i))
		if err := tm.AddProcess(name, newFakeHandle(), allSettings()); err != nil {
			t.Fatalf("add %s failed: %v", name, err)
		}
	}

	err := tm.AddProcess("tenth", newFakeHandle(), allSettings())
	if !errors.Is(err, ErrTooManyProcesses) {
		t.Errorf("expected ErrTooManyProcesses, got %v", err)
	}
}

func TestEndFailsParkedSearches(t *testing.T) {
	tm, _ := newTestTerminal(t)

	h := newFakeHandle()
	if err := tm.AddProcess("worker", h, allSettings()); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	errs := make(chan error, 1)
	go func() {
		_, err := tm.BlockSearchMessage("worker", "never-printed")
		errs <- err
	}()

	time.Sleep(50 * time.Millisecond)
	tm.End()

	select {
	case err := <-errs:
		if !errors.Is(err, ErrTerminalEnded) {
			t.Errorf("expected ErrTerminalEnded, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("parked search did not fail on End")
	}
}

func TestStderrLinesReachThePane(t *testing.T) {
	tm, b := newTestTerminal(t)

	h := newFakeHandle()
	if err := tm.AddProcess("worker", h, allSettings()); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	h.errW.Write([]byte("boom\n"))

	waitFor(t, "stderr line", func() bool {
		return screenContains(b, "boom")
	})
}
