package session

import (
	"bufio"
	"io"

	"github.com/dshills/procterm/internal/buffer"
)

// capture reads one stream line by line until end-of-input. Each line is
// stripped of escape sequences and, if the session's filter admits the
// stream, handed to the sink. Read errors are reported once and treated
// as end-of-input.
func (s *Session) capture(stream io.ReadCloser, kind buffer.StreamKind, sink Sink) {
	defer s.workers.Done()

	admit := s.settings.Filter.Admits(kind)

	scanner := bufio.NewScanner(stream)
	for scanner.Scan() {
		if !admit {
			continue
		}
		sink.Line(s.name, kind, stripEscapes(scanner.Text()))
	}

	if err := scanner.Err(); err != nil {
		sink.CaptureFailure(s.name, kind, err)
	}
}
