package term

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dshills/procterm/internal/buffer"
	"github.com/dshills/procterm/internal/input/key"
	"github.com/dshills/procterm/internal/render"
	"github.com/dshills/procterm/internal/render/backend"
	"github.com/dshills/procterm/internal/session"
)

// run is the render loop. It alone applies requests and draws frames;
// every redraw happens here, either after a burst of requests or on the
// tick.
func (t *Terminal) run() {
	ticker := time.NewTicker(t.cfg.TickInterval)
	defer ticker.Stop()

	t.draw()

	for {
		select {
		case <-t.done:
			t.teardown()
			return
		case req := <-t.events:
			t.apply(req)
			t.drainQueue()
			t.draw()
		case <-ticker.C:
			t.draw()
		}
	}
}

// drainQueue applies everything already queued, so a burst of output is
// drawn in one frame.
func (t *Terminal) drainQueue() {
	for {
		select {
		case req := <-t.events:
			t.apply(req)
		default:
			return
		}
	}
}

// pollInput forwards backend events to the queue. It exits when the
// backend shuts down. Key and resize events are dropped rather than
// blocking on a full queue; a later event supersedes them anyway.
func (t *Terminal) pollInput() {
	for {
		ev := t.backend.PollEvent()
		switch ev.Type {
		case backend.EventClosed:
			return
		case backend.EventKey:
			select {
			case t.events <- &keyRequest{press: ev.Press}:
			default:
			}
		case backend.EventResize:
			select {
			case t.events <- &resizeRequest{width: ev.Width, height: ev.Height}:
			default:
			}
		}
	}
}

// apply dispatches one request.
func (t *Terminal) apply(req request) {
	switch r := req.(type) {
	case *printRequest:
		t.applyPrint(r.text)
	case *lineRequest:
		t.applyLine(r)
	case *exitedRequest:
		t.applyExited(r)
	case *captureFailureRequest:
		t.logger.Warn("capture %s/%s: %v", r.name, r.kind, r.err)
	case *addRequest:
		r.reply <- t.applyAdd(r)
	case *searchRequest:
		t.applySearch(r)
	case *keyRequest:
		if a, ok := t.actions[r.press]; ok {
			a.fn()
		}
	case *resizeRequest:
		t.renderer.Resize(r.width, r.height)
	}
}

// applyPrint appends host text to the main pane, one line per newline.
func (t *Terminal) applyPrint(text string) {
	for _, line := range strings.Split(text, "\n") {
		t.main.Append(line, buffer.StreamOutput)
	}
}

// applyLine appends a captured line and wakes any searches it satisfies.
func (t *Terminal) applyLine(r *lineRequest) {
	s := t.byName[r.name]
	if s == nil {
		// The session was removed while the line was in flight.
		return
	}

	line := s.Buffer().Append(r.text, r.kind)
	t.resolveWaiters(r.name, line)
}

// applyExited reports the exit on the main pane and removes the session:
// its pane disappears, its keys are released for reuse, its pending
// searches fail and, if it held the full-screen focus, the layout
// returns to normal.
func (t *Terminal) applyExited(r *exitedRequest) {
	t.main.Append(fmt.Sprintf("process %s exited: %s", r.name, r.status), buffer.StreamOutput)

	s := t.byName[r.name]
	if s == nil {
		return
	}

	delete(t.byName, r.name)
	delete(t.focusKeys, r.name)
	for i, have := range t.sessions {
		if have == s {
			t.sessions = append(t.sessions[:i], t.sessions[i+1:]...)
			break
		}
	}

	t.keys.Release(r.name)
	for p, a := range t.actions {
		if a.owner == r.name {
			delete(t.actions, p)
		}
	}

	t.failWaiters(r.name, ErrProcessTerminated)

	if t.focus.full && t.focus.target == r.name {
		t.focus = focusNormal()
	}
}

// applyAdd validates and registers a new session. Key claims are
// all-or-nothing: on any conflict nothing stays claimed.
func (t *Terminal) applyAdd(r *addRequest) error {
	if _, exists := t.byName[r.name]; exists {
		return ErrDuplicateProcessName
	}

	focusKey := t.freeDigit()
	if focusKey.IsZero() {
		return ErrTooManyProcesses
	}

	claims := []key.Press{focusKey}
	if sb := r.settings.Scroll; sb != nil {
		claims = append(claims,
			sb.Prev, sb.Next,
			sb.Prev.WithMod(key.ModShift), sb.Next.WithMod(key.ModShift))
	}
	if err := t.keys.ClaimAll(r.name, claims...); err != nil {
		return err
	}

	s := session.New(r.name, r.handle, r.settings)
	t.sessions = append(t.sessions, s)
	t.byName[r.name] = s
	t.focusKeys[r.name] = focusKey

	name := r.name
	t.bind(name, focusKey, func() { t.focus = focusSession(name) })
	if sb := r.settings.Scroll; sb != nil {
		buf := s.Buffer()
		t.bind(name, sb.Prev, func() { buf.Scroll(-1) })
		t.bind(name, sb.Next, func() { buf.Scroll(1) })
		t.bind(name, sb.Prev.WithMod(key.ModShift), func() { buf.ScrollColumn(-1) })
		t.bind(name, sb.Next.WithMod(key.ModShift), func() { buf.ScrollColumn(1) })
	}

	s.Start(&captureSink{t: t})
	t.logger.Debug("supervising %s", name)
	return nil
}

// freeDigit returns the lowest unclaimed pane focus key '1'..'9', or the
// zero press when all are taken.
func (t *Terminal) freeDigit() key.Press {
	for d := '1'; d <= '9'; d++ {
		p := key.Rune(d)
		if _, taken := t.keys.Owner(p); !taken {
			return p
		}
	}
	return key.Press{}
}

// bind installs a key handler. The key must already be claimed for owner.
func (t *Terminal) bind(owner string, p key.Press, fn func()) {
	t.actions[p] = boundAction{owner: owner, fn: fn}
}

// bindBuiltins claims and installs the terminal's own keys: arrow keys
// scroll the main pane, '0' expands it, Esc leaves full-screen mode and
// Ctrl+C quits.
func (t *Terminal) bindBuiltins() {
	builtins := map[key.Press]func(){
		key.Special(key.KeyUp):     func() { t.main.Scroll(-1) },
		key.Special(key.KeyDown):   func() { t.main.Scroll(1) },
		key.Special(key.KeyLeft):   func() { t.main.ScrollColumn(-1) },
		key.Special(key.KeyRight):  func() { t.main.ScrollColumn(1) },
		key.Rune('0'):              func() { t.focus = focusMain() },
		key.Special(key.KeyEscape): func() { t.focus = focusNormal() },
		key.Special(key.KeyCtrlC):  func() { t.signalEnd() },
	}

	for p, fn := range builtins {
		// Cannot conflict: the registry is empty at this point.
		_ = t.keys.Claim(p, builtinOwner)
		t.bind(builtinOwner, p, fn)
	}
}

// teardown stops every session, fails everything still waiting and
// restores the hosting terminal. Runs on the loop goroutine as its last
// act.
func (t *Terminal) teardown() {
	for _, s := range t.sessions {
		s.Stop()
	}

	deadline := time.Now().Add(t.cfg.ShutdownTimeout)
	for _, s := range t.sessions {
		remaining := time.Until(deadline)
		if remaining < 0 {
			remaining = 0
		}
		if !s.Join(remaining) {
			t.logger.Warn("workers for %s did not stop, detaching", s.Name())
		}
	}

	t.failWaiters("", ErrTerminalEnded)
	t.failPending()

	t.logger.SetOutput(os.Stderr)
	t.backend.Shutdown()
	t.fireExit()
	t.closeLoopDone()
}

// failPending answers requests that reached the queue after the end was
// signalled, so no caller stays blocked.
func (t *Terminal) failPending() {
	for {
		select {
		case req := <-t.events:
			switch r := req.(type) {
			case *addRequest:
				r.reply <- ErrTerminalEnded
			case *searchRequest:
				r.reply <- searchResult{err: ErrTerminalEnded}
			}
		default:
			return
		}
	}
}

// draw composes the current frame and renders it.
func (t *Terminal) draw() {
	frame := render.Frame{Main: t.mainPane(false)}
	for _, s := range t.sessions {
		frame.Sessions = append(frame.Sessions, t.sessionPane(s, false))
	}

	if t.focus.full {
		var full render.Pane
		if t.focus.target == "" {
			full = t.mainPane(true)
		} else if s := t.byName[t.focus.target]; s != nil {
			full = t.sessionPane(s, true)
		}
		frame.Full = &full
	}

	t.renderer.Draw(frame)
}

// mainPane builds the main pane's render view.
func (t *Terminal) mainPane(full bool) render.Pane {
	return render.Pane{
		Tag:      "Main",
		TagColor: backend.ColorCyan,
		Buf:      t.main,
		Hint:     paneHint(full, "'0'"),
	}
}

// sessionPane builds one session pane's render view. The tag reflects
// which streams the pane's filter admits.
func (t *Terminal) sessionPane(s *session.Session, full bool) render.Pane {
	tag := "Out"
	color := backend.ColorGreen
	switch s.Settings().Filter {
	case buffer.FilterError:
		tag = "Err"
		color = backend.ColorRed
	case buffer.FilterAll:
		tag = "Out/Err"
	}

	hint := ""
	if fk, ok := t.focusKeys[s.Name()]; ok {
		hint = paneHint(full, "'"+fk.String()+"'")
	}

	return render.Pane{
		Title:    s.Name(),
		Tag:      tag,
		TagColor: color,
		Buf:      s.Buffer(),
		Hint:     hint,
	}
}

// paneHint is the top-border focus hint.
func paneHint(full bool, focusKey string) string {
	if full {
		return "Esc to exit"
	}
	return "full screen: " + focusKey
}
