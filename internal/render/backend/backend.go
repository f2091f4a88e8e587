// Package backend provides the terminal display abstraction for the
// renderer: a cell grid, a blocking event poll, and a tcell-backed
// implementation. A NullBackend drives tests without a TTY.
package backend

import (
	"sync"

	"github.com/dshills/procterm/internal/input/key"
)

// Color is a pane accent color. The renderer only needs the handful of
// named colors the pane chrome uses.
type Color uint8

const (
	ColorDefault Color = iota
	ColorWhite
	ColorGray
	ColorDarkGray
	ColorCyan
	ColorGreen
	ColorRed
)

// Style describes how a cell is drawn.
type Style struct {
	Fg     Color
	Bold   bool
	Italic bool
}

// Cell is one screen cell: a rune and its style.
type Cell struct {
	Rune  rune
	Style Style
}

// EmptyCell returns a blank cell with default style.
func EmptyCell() Cell {
	return Cell{Rune: ' '}
}

// EventType identifies the type of terminal event.
type EventType int

const (
	// EventNone is delivered for events the backend does not translate.
	EventNone EventType = iota

	// EventKey is a key press; Press carries the key.
	EventKey

	// EventResize reports new terminal dimensions.
	EventResize

	// EventClosed reports that the backend has shut down and no further
	// events will be delivered.
	EventClosed
)

// Event is a terminal event.
type Event struct {
	Type EventType

	// Key event field
	Press key.Press

	// Resize event fields
	Width, Height int
}

// Backend is the display surface the renderer draws on.
// Implementations handle actual drawing to the terminal.
type Backend interface {
	// Init initializes the backend for use.
	// Must be called before any other methods.
	Init() error

	// Shutdown releases backend resources and restores the hosting
	// terminal to its prior mode. Unblocks a pending PollEvent.
	Shutdown()

	// Size returns the current terminal dimensions.
	Size() (width, height int)

	// SetCell sets a single cell at the given position.
	// Positions outside the terminal are silently ignored.
	SetCell(x, y int, cell Cell)

	// Clear clears the entire screen with the default style.
	Clear()

	// Show synchronizes the internal buffer with the actual display.
	Show()

	// PollEvent waits for and returns the next terminal event.
	// Returns an EventClosed event after Shutdown.
	PollEvent() Event
}

// NullBackend is an in-memory backend for tests. Key events are injected
// with PostKey; drawn cells can be inspected with Row. Unlike the tcell
// backend it is fully synchronized so tests may inspect cells while the
// render loop draws.
type NullBackend struct {
	mu            sync.Mutex
	width, height int
	cells         [][]Cell
	events        chan Event
	closed        chan struct{}
}

// NewNullBackend creates a null backend with the given dimensions.
func NewNullBackend(width, height int) *NullBackend {
	return &NullBackend{
		width:  width,
		height: height,
		events: make(chan Event, 100),
		closed: make(chan struct{}),
	}
}

func (b *NullBackend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cells = make([][]Cell, b.height)
	for i := range b.cells {
		b.cells[i] = make([]Cell, b.width)
		for j := range b.cells[i] {
			b.cells[i][j] = EmptyCell()
		}
	}
	return nil
}

func (b *NullBackend) Shutdown() {
	select {
	case <-b.closed:
	default:
		close(b.closed)
	}
}

func (b *NullBackend) Size() (int, int) {
	return b.width, b.height
}

func (b *NullBackend) SetCell(x, y int, cell Cell) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		b.cells[y][x] = cell
	}
}

func (b *NullBackend) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for y := range b.cells {
		for x := range b.cells[y] {
			b.cells[y][x] = EmptyCell()
		}
	}
}

func (b *NullBackend) Show() {}

func (b *NullBackend) PollEvent() Event {
	select {
	case ev := <-b.events:
		return ev
	case <-b.closed:
		return Event{Type: EventClosed}
	}
}

// PostKey injects a key press for tests.
func (b *NullBackend) PostKey(p key.Press) {
	select {
	case b.events <- Event{Type: EventKey, Press: p}:
	case <-b.closed:
	}
}

// Row returns the text content of screen row y, for assertions.
func (b *NullBackend) Row(y int) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if y < 0 || y >= b.height || b.cells == nil {
		return ""
	}
	runes := make([]rune, b.width)
	for x, c := range b.cells[y] {
		runes[x] = c.Rune
	}
	return string(runes)
}
