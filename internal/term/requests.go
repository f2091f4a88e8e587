package term

import (
	"github.com/dshills/procterm/internal/buffer"
	"github.com/dshills/procterm/internal/input/key"
	"github.com/dshills/procterm/internal/proc"
	"github.com/dshills/procterm/internal/session"
)

// request is a message on the terminal's event queue. Every mutation of
// pane state arrives here and is applied by the render loop alone.
type request interface{}

// printRequest appends host-program text to the main pane.
type printRequest struct {
	text string
}

// lineRequest appends one captured line to a session's buffer.
type lineRequest struct {
	name string
	kind buffer.StreamKind
	text string
}

// exitedRequest reports a reaped process.
type exitedRequest struct {
	name   string
	status string
}

// captureFailureRequest reports a stream read error.
type captureFailureRequest struct {
	name string
	kind buffer.StreamKind
	err  error
}

// addRequest registers a new session. The caller blocks on reply.
type addRequest struct {
	name     string
	handle   proc.Handle
	settings session.Settings
	reply    chan error
}

// searchResult is the outcome of a search: the matching line or an error.
type searchResult struct {
	text string
	err  error
}

// searchRequest looks for a substring in a session's buffer. The caller
// blocks on reply until a match arrives or the search fails.
type searchRequest struct {
	name      string
	substring string
	reply     chan searchResult
}

// keyRequest is a key press from the input poller.
type keyRequest struct {
	press key.Press
}

// resizeRequest reports new terminal dimensions.
type resizeRequest struct {
	width, height int
}

// captureSink adapts the Terminal to session.Sink. Sessions report
// through it from their worker goroutines; every call becomes a queued
// request.
type captureSink struct {
	t *Terminal
}

func (s *captureSink) Line(name string, kind buffer.StreamKind, text string) {
	s.t.post(&lineRequest{name: name, kind: kind, text: text})
}

func (s *captureSink) Exited(name, status string) {
	s.t.post(&exitedRequest{name: name, status: status})
}

func (s *captureSink) CaptureFailure(name string, kind buffer.StreamKind, err error) {
	s.t.post(&captureFailureRequest{name: name, kind: kind, err: err})
}
