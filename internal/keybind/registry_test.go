package keybind

import (
	"errors"
	"testing"

	"github.com/dshills/procterm/internal/input/key"
)

func TestClaimConflict(t *testing.T) {
	r := NewRegistry()

	if err := r.Claim(key.Special(key.KeyLeft), "foo"); err != nil {
		t.Fatalf("first claim failed: %v", err)
	}

	err := r.Claim(key.Special(key.KeyLeft), "bar")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatal("expected a ConflictError")
	}
	if conflict.Owner != "foo" {
		t.Errorf("expected conflicting owner foo, got %q", conflict.Owner)
	}
}

func TestClaimIdempotentForSameOwner(t *testing.T) {
	r := NewRegistry()

	p := key.Rune('j')
	if err := r.Claim(p, "foo"); err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if err := r.Claim(p, "foo"); err != nil {
		t.Errorf("re-claim by same owner should succeed, got %v", err)
	}
}

func TestReleaseFreesAllOwnerKeys(t *testing.T) {
	r := NewRegistry()

	left := key.Special(key.KeyLeft)
	right := key.Special(key.KeyRight)
	if err := r.ClaimAll("foo", left, right); err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	r.Release("foo")

	if err := r.Claim(left, "bar"); err != nil {
		t.Errorf("left should be claimable after release, got %v", err)
	}
	if err := r.Claim(right, "bar"); err != nil {
		t.Errorf("right should be claimable after release, got %v", err)
	}
}

func TestClaimAllRollsBackOnConflict(t *testing.T) {
	r := NewRegistry()

	up := key.Special(key.KeyUp)
	down := key.Special(key.KeyDown)
	if err := r.Claim(down, "main"); err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	err := r.ClaimAll("foo", up, down)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	// The earlier key in the same call must have been rolled back.
	if owner, ok := r.Owner(up); ok {
		t.Errorf("up should be unclaimed after rollback, owned by %q", owner)
	}
}
