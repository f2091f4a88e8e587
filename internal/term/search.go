package term

import (
	"strings"

	"github.com/dshills/procterm/internal/buffer"
)

// searchWaiter is one blocked BlockSearchMessage call. Waiters are
// independent: a line that matches several waiters resolves all of them,
// and resolving one never consumes the line for another.
type searchWaiter struct {
	name      string
	substring string
	reply     chan searchResult
}

// applySearch answers a search from buffered history, or parks a waiter
// until a matching line arrives.
func (t *Terminal) applySearch(r *searchRequest) {
	s := t.byName[r.name]
	if s == nil {
		r.reply <- searchResult{err: ErrProcessNotFound}
		return
	}

	buf := s.Buffer()
	for i := 0; i < buf.Len(); i++ {
		if line := buf.At(i); strings.Contains(line.Text, r.substring) {
			r.reply <- searchResult{text: line.Text}
			return
		}
	}

	t.waiters = append(t.waiters, &searchWaiter{
		name:      r.name,
		substring: r.substring,
		reply:     r.reply,
	})
}

// resolveWaiters answers every waiter on name whose substring the new
// line contains. Each waiter is answered exactly once.
func (t *Terminal) resolveWaiters(name string, line buffer.Line) {
	if len(t.waiters) == 0 {
		return
	}

	kept := t.waiters[:0]
	for _, w := range t.waiters {
		if w.name == name && strings.Contains(line.Text, w.substring) {
			w.reply <- searchResult{text: line.Text}
			continue
		}
		kept = append(kept, w)
	}
	t.waiters = kept
}

// failWaiters answers every waiter on name with err. An empty name fails
// all waiters, which happens at teardown.
func (t *Terminal) failWaiters(name string, err error) {
	kept := t.waiters[:0]
	for _, w := range t.waiters {
		if name == "" || w.name == name {
			w.reply <- searchResult{err: err}
			continue
		}
		kept = append(kept, w)
	}
	t.waiters = kept
}
