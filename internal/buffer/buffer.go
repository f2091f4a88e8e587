// Package buffer provides the append-only line storage backing each pane.
// A Buffer is owned by the render loop; it performs no locking of its own.
package buffer

// StreamKind tags a captured line with the stream it arrived on.
type StreamKind uint8

const (
	// StreamOutput marks a line read from stdout (or issued by the host
	// program, for the main pane).
	StreamOutput StreamKind = iota

	// StreamError marks a line read from stderr.
	StreamError
)

// String returns a human-readable name for the stream kind.
func (k StreamKind) String() string {
	switch k {
	case StreamOutput:
		return "out"
	case StreamError:
		return "err"
	default:
		return "unknown"
	}
}

// Line is one captured line of output. Lines are immutable once appended.
type Line struct {
	// Text is the line content with trailing newline and escape
	// sequences already removed.
	Text string

	// Kind identifies the stream the line arrived on.
	Kind StreamKind

	// Seq is the line's position in its buffer, assigned on append.
	// The first line of a buffer has Seq 0.
	Seq uint64
}

// Buffer is an append-only ordered sequence of lines with a scroll offset.
//
// The offset is the index of the bottom-most visible line and always stays
// in [0, max(0, Len()-1)]. An offset sitting at the tail follows new
// appends, so an unscrolled pane always shows the latest output.
type Buffer struct {
	lines  []Line
	offset int
	column int
}

// New creates an empty buffer.
func New() *Buffer {
	return &Buffer{}
}

// Len returns the number of lines appended so far.
func (b *Buffer) Len() int {
	return len(b.lines)
}

// At returns the line at index i. Panics if i is out of range, matching
// slice semantics; callers index within [0, Len()).
func (b *Buffer) At(i int) Line {
	return b.lines[i]
}

// Append adds a line to the tail and returns it with its sequence number
// assigned. If the offset was at the previous tail it advances to the new
// tail.
func (b *Buffer) Append(text string, kind StreamKind) Line {
	line := Line{Text: text, Kind: kind, Seq: uint64(len(b.lines))}

	atTail := len(b.lines) == 0 || b.offset == len(b.lines)-1
	b.lines = append(b.lines, line)
	if atTail {
		b.offset = len(b.lines) - 1
	}

	return line
}

// Offset returns the current scroll offset.
func (b *Buffer) Offset() int {
	return b.offset
}

// Column returns the current horizontal scroll column.
func (b *Buffer) Column() int {
	return b.column
}

// Scroll moves the offset by delta lines, clamped to [0, Len()-1].
// A no-op on an empty buffer or at either end.
func (b *Buffer) Scroll(delta int) {
	if len(b.lines) == 0 {
		return
	}

	b.offset += delta
	if b.offset < 0 {
		b.offset = 0
	}
	if b.offset > len(b.lines)-1 {
		b.offset = len(b.lines) - 1
	}
}

// ScrollColumn moves the horizontal scroll column by delta, clamped at 0.
func (b *Buffer) ScrollColumn(delta int) {
	b.column += delta
	if b.column < 0 {
		b.column = 0
	}
}

// AtTail reports whether the offset is following the newest line.
func (b *Buffer) AtTail() bool {
	return len(b.lines) == 0 || b.offset == len(b.lines)-1
}

// VisibleWindow returns the slice of lines ending at the offset, sized to
// fit height rows. Returns nil for an empty buffer or non-positive height.
// The returned slice is a view; it must not be retained across appends.
func (b *Buffer) VisibleWindow(height int) []Line {
	if len(b.lines) == 0 || height <= 0 {
		return nil
	}

	end := b.offset + 1
	start := end - height
	if start < 0 {
		start = 0
	}

	return b.lines[start:end]
}
