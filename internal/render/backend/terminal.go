package backend

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/procterm/internal/input/key"
)

// Terminal implements Backend using tcell for terminal output.
type Terminal struct {
	screen tcell.Screen
	mu     sync.Mutex
}

// NewTerminal creates a new terminal backend.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen}, nil
}

func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.HideCursor()
	return nil
}

func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	// Fini restores the terminal and unblocks a pending PollEvent.
	t.screen.Fini()
}

func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

func (t *Terminal) SetCell(x, y int, cell Cell) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.SetContent(x, y, cell.Rune, nil, convertStyle(cell.Style))
}

func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
}

func (t *Terminal) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Show()
}

func (t *Terminal) PollEvent() Event {
	ev := t.screen.PollEvent()
	return convertEvent(ev)
}

// convertStyle maps a backend style to a tcell style.
func convertStyle(s Style) tcell.Style {
	style := tcell.StyleDefault.Foreground(convertColor(s.Fg))
	if s.Bold {
		style = style.Bold(true)
	}
	if s.Italic {
		style = style.Italic(true)
	}
	return style
}

// convertColor maps a backend color to a tcell color.
func convertColor(c Color) tcell.Color {
	switch c {
	case ColorWhite:
		return tcell.ColorWhite
	case ColorGray:
		return tcell.ColorGray
	case ColorDarkGray:
		return tcell.ColorDarkGray
	case ColorCyan:
		return tcell.ColorAqua
	case ColorGreen:
		return tcell.ColorLime
	case ColorRed:
		return tcell.ColorRed
	default:
		return tcell.ColorDefault
	}
}

// convertEvent maps a tcell event to a backend event. A nil event means
// the screen has been finalized.
func convertEvent(ev tcell.Event) Event {
	switch tev := ev.(type) {
	case nil:
		return Event{Type: EventClosed}
	case *tcell.EventResize:
		w, h := tev.Size()
		return Event{Type: EventResize, Width: w, Height: h}
	case *tcell.EventKey:
		return Event{Type: EventKey, Press: convertKey(tev)}
	default:
		return Event{Type: EventNone}
	}
}

// convertKey maps a tcell key event to a key.Press.
func convertKey(ev *tcell.EventKey) key.Press {
	var mod key.Mod
	if ev.Modifiers()&tcell.ModShift != 0 {
		mod |= key.ModShift
	}
	if ev.Modifiers()&tcell.ModCtrl != 0 {
		mod |= key.ModCtrl
	}
	if ev.Modifiers()&tcell.ModAlt != 0 {
		mod |= key.ModAlt
	}

	switch ev.Key() {
	case tcell.KeyRune:
		return key.Press{Key: key.KeyRune, Rune: ev.Rune(), Mod: mod}
	case tcell.KeyEscape:
		return key.Press{Key: key.KeyEscape, Mod: mod}
	case tcell.KeyEnter:
		return key.Press{Key: key.KeyEnter, Mod: mod}
	case tcell.KeyTab:
		return key.Press{Key: key.KeyTab, Mod: mod}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return key.Press{Key: key.KeyBackspace, Mod: mod}
	case tcell.KeyDelete:
		return key.Press{Key: key.KeyDelete, Mod: mod}
	case tcell.KeyHome:
		return key.Press{Key: key.KeyHome, Mod: mod}
	case tcell.KeyEnd:
		return key.Press{Key: key.KeyEnd, Mod: mod}
	case tcell.KeyPgUp:
		return key.Press{Key: key.KeyPageUp, Mod: mod}
	case tcell.KeyPgDn:
		return key.Press{Key: key.KeyPageDown, Mod: mod}
	case tcell.KeyUp:
		return key.Press{Key: key.KeyUp, Mod: mod}
	case tcell.KeyDown:
		return key.Press{Key: key.KeyDown, Mod: mod}
	case tcell.KeyLeft:
		return key.Press{Key: key.KeyLeft, Mod: mod}
	case tcell.KeyRight:
		return key.Press{Key: key.KeyRight, Mod: mod}
	case tcell.KeyCtrlC:
		return key.Press{Key: key.KeyCtrlC}
	default:
		return key.Press{}
	}
}
