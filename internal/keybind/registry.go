// Package keybind tracks which pane owns which key. Every navigation key —
// built-in or requested through process settings — is claimed here first,
// so no two panes can silently steal each other's input.
package keybind

import (
	"errors"
	"fmt"

	"github.com/dshills/procterm/internal/input/key"
)

// ErrConflict indicates a key is already claimed by a different owner.
var ErrConflict = errors.New("key binding conflict")

// ConflictError reports which key collided and who holds it.
type ConflictError struct {
	Press key.Press
	Owner string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("key %s already bound by %q", e.Press, e.Owner)
}

// Is matches ErrConflict so callers can test with errors.Is.
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// Registry maps claimed keys to their owners. It is owned by the render
// loop and performs no locking.
type Registry struct {
	owners map[key.Press]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{owners: make(map[key.Press]string)}
}

// Claim registers a key for owner. Re-claiming a key by the same owner is
// idempotent; claiming a key held by a different owner fails with a
// ConflictError wrapping ErrConflict.
func (r *Registry) Claim(p key.Press, owner string) error {
	if held, ok := r.owners[p]; ok {
		if held == owner {
			return nil
		}
		return &ConflictError{Press: p, Owner: held}
	}

	r.owners[p] = owner
	return nil
}

// ClaimAll claims every key for owner, releasing the ones already claimed
// in this call if any later key conflicts. On failure nothing is left
// claimed.
func (r *Registry) ClaimAll(owner string, presses ...key.Press) error {
	claimed := make([]key.Press, 0, len(presses))

	for _, p := range presses {
		if err := r.Claim(p, owner); err != nil {
			for _, c := range claimed {
				delete(r.owners, c)
			}
			return err
		}
		claimed = append(claimed, p)
	}

	return nil
}

// Release frees all keys held by owner.
func (r *Registry) Release(owner string) {
	for p, held := range r.owners {
		if held == owner {
			delete(r.owners, p)
		}
	}
}

// Owner returns the owner of a key, if claimed.
func (r *Registry) Owner(p key.Press) (string, bool) {
	owner, ok := r.owners[p]
	return owner, ok
}
