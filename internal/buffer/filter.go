package buffer

// Filter selects which stream kinds a session retains at capture time.
// Filtered-out lines are never stored, not merely hidden.
type Filter uint8

const (
	// FilterOutput retains stdout lines only.
	FilterOutput Filter = iota

	// FilterError retains stderr lines only.
	FilterError

	// FilterAll retains both streams.
	FilterAll
)

// Admits returns true if lines of the given kind are retained.
func (f Filter) Admits(k StreamKind) bool {
	switch f {
	case FilterOutput:
		return k == StreamOutput
	case FilterError:
		return k == StreamError
	case FilterAll:
		return true
	default:
		return false
	}
}

// String returns a human-readable name for the filter.
func (f Filter) String() string {
	switch f {
	case FilterOutput:
		return "output"
	case FilterError:
		return "error"
	case FilterAll:
		return "all"
	default:
		return "unknown"
	}
}
