// Package render draws the pane layout onto a backend: the main pane on
// the left, session panes sharing the right column, or a single pane in
// full-screen mode. The render loop is the only caller.
package render

import (
	"github.com/dshills/procterm/internal/buffer"
	"github.com/dshills/procterm/internal/render/backend"
)

// Pane is the render-time view of one pane. Buf is read, never mutated.
type Pane struct {
	// Title is the pane's display name, centered on the top border.
	Title string

	// Tag labels the pane's stream kind ("Main", "Out", "Err", "Out/Err").
	Tag string

	// TagColor is the accent color for the tag.
	TagColor backend.Color

	// Buf supplies the visible line window and scroll column.
	Buf *buffer.Buffer

	// Hint is the right-aligned focus hint on the top border.
	Hint string
}

// Frame is everything drawn in one pass.
type Frame struct {
	Main     Pane
	Sessions []Pane

	// Full, when non-nil, is drawn alone at maximum size instead of the
	// split layout.
	Full *Pane
}

// rect is a screen region in cells.
type rect struct {
	x, y, w, h int
}

// Renderer lays out panes and draws their chrome and line windows.
type Renderer struct {
	backend       backend.Backend
	width, height int
	mainRatio     int
}

// New creates a renderer on the given backend. mainRatio is the percent
// of the width given to the main pane in the split layout.
func New(b backend.Backend, mainRatio int) *Renderer {
	w, h := b.Size()
	return &Renderer{backend: b, width: w, height: h, mainRatio: mainRatio}
}

// Resize updates the renderer's notion of the terminal size.
func (r *Renderer) Resize(width, height int) {
	r.width = width
	r.height = height
}

// Draw renders a frame and flushes it to the display.
func (r *Renderer) Draw(f Frame) {
	r.backend.Clear()

	if f.Full != nil {
		r.drawPane(rect{0, 0, r.width, r.height}, *f.Full)
		r.backend.Show()
		return
	}

	mainRect := rect{0, 0, r.width, r.height}
	if len(f.Sessions) > 0 {
		mainRect.w = r.width * r.mainRatio / 100
	}
	r.drawPane(mainRect, f.Main)

	if len(f.Sessions) > 0 {
		x := mainRect.w
		remaining := r.width - x
		each := remaining / len(f.Sessions)

		for i, pane := range f.Sessions {
			w := each
			if i == len(f.Sessions)-1 {
				// Last pane absorbs the division remainder.
				w = r.width - x
			}
			r.drawPane(rect{x, 0, w, r.height}, pane)
			x += w
		}
	}

	r.backend.Show()
}

// drawPane draws one pane's border, titles and visible lines into rc.
// Panes too small to hold a border are skipped.
func (r *Renderer) drawPane(rc rect, p Pane) {
	if rc.w < 3 || rc.h < 3 {
		return
	}

	r.drawBorder(rc)
	r.drawTitles(rc, p)

	if p.Buf == nil {
		return
	}

	innerW := rc.w - 2
	innerH := rc.h - 2
	column := p.Buf.Column()

	window := p.Buf.VisibleWindow(innerH)
	for i, line := range window {
		style := backend.Style{}
		if line.Kind == buffer.StreamError {
			style.Fg = backend.ColorRed
		}
		r.drawText(rc.x+1, rc.y+1+i, innerW, sliceColumn(line.Text, column), style)
	}
}

// drawBorder draws the box around a pane.
func (r *Renderer) drawBorder(rc rect) {
	style := backend.Style{Fg: backend.ColorGray}

	for x := rc.x + 1; x < rc.x+rc.w-1; x++ {
		r.backend.SetCell(x, rc.y, backend.Cell{Rune: '─', Style: style})
		r.backend.SetCell(x, rc.y+rc.h-1, backend.Cell{Rune: '─', Style: style})
	}
	for y := rc.y + 1; y < rc.y+rc.h-1; y++ {
		r.backend.SetCell(rc.x, y, backend.Cell{Rune: '│', Style: style})
		r.backend.SetCell(rc.x+rc.w-1, y, backend.Cell{Rune: '│', Style: style})
	}

	r.backend.SetCell(rc.x, rc.y, backend.Cell{Rune: '┌', Style: style})
	r.backend.SetCell(rc.x+rc.w-1, rc.y, backend.Cell{Rune: '┐', Style: style})
	r.backend.SetCell(rc.x, rc.y+rc.h-1, backend.Cell{Rune: '└', Style: style})
	r.backend.SetCell(rc.x+rc.w-1, rc.y+rc.h-1, backend.Cell{Rune: '┘', Style: style})
}

// drawTitles places the tag, centered title and right-aligned hint on the
// top border.
func (r *Renderer) drawTitles(rc rect, p Pane) {
	innerW := rc.w - 2

	if p.Tag != "" {
		tag := truncate(p.Tag, innerW)
		r.drawText(rc.x+1, rc.y, innerW, tag, backend.Style{Fg: p.TagColor, Bold: true})
	}

	if p.Title != "" {
		title := truncate(p.Title, innerW-len(p.Tag)-len(p.Hint)-2)
		x := rc.x + 1 + (innerW-len(title))/2
		r.drawText(x, rc.y, innerW, title, backend.Style{Fg: backend.ColorWhite, Bold: true})
	}

	if p.Hint != "" {
		hint := truncate(p.Hint, innerW-len(p.Tag)-1)
		x := rc.x + rc.w - 1 - len(hint)
		r.drawText(x, rc.y, len(hint), hint, backend.Style{Fg: backend.ColorDarkGray, Italic: true})
	}
}

// drawText writes s starting at (x, y), clipped to width cells.
func (r *Renderer) drawText(x, y, width int, s string, style backend.Style) {
	i := 0
	for _, ch := range s {
		if i >= width {
			return
		}
		r.backend.SetCell(x+i, y, backend.Cell{Rune: ch, Style: style})
		i++
	}
}

// sliceColumn drops the first column runes of s, for horizontal scroll.
func sliceColumn(s string, column int) string {
	if column <= 0 {
		return s
	}
	runes := []rune(s)
	if column >= len(runes) {
		return ""
	}
	return string(runes[column:])
}

// truncate limits s to max runes; non-positive max yields the empty string.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
