// Package key defines the keyboard surface procterm recognizes: a small
// set of special keys, printable runes, and modifier state. Presses are
// comparable values so they can serve as binding-table keys.
package key

import "fmt"

// Key identifies a keyboard key. Character keys use KeyRune with the
// character in Press.Rune.
type Key uint16

const (
	// KeyNone represents no key.
	KeyNone Key = iota

	// KeyRune is used for character keys; the character is in Press.Rune.
	KeyRune

	// Special keys
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown

	// Arrow keys
	KeyUp
	KeyDown
	KeyLeft
	KeyRight

	// KeyCtrlC is the interrupt chord, kept distinct from KeyRune+ModCtrl
	// because terminals report it as a single key.
	KeyCtrlC
)

// String returns a human-readable name for the key.
func (k Key) String() string {
	switch k {
	case KeyNone:
		return "None"
	case KeyRune:
		return "Rune"
	case KeyEscape:
		return "Escape"
	case KeyEnter:
		return "Enter"
	case KeyTab:
		return "Tab"
	case KeyBackspace:
		return "Backspace"
	case KeyDelete:
		return "Delete"
	case KeyHome:
		return "Home"
	case KeyEnd:
		return "End"
	case KeyPageUp:
		return "PageUp"
	case KeyPageDown:
		return "PageDown"
	case KeyUp:
		return "Up"
	case KeyDown:
		return "Down"
	case KeyLeft:
		return "Left"
	case KeyRight:
		return "Right"
	case KeyCtrlC:
		return "Ctrl+C"
	default:
		return fmt.Sprintf("Key(%d)", uint16(k))
	}
}

// Mod represents modifier key state.
type Mod uint8

const (
	ModNone  Mod = 0
	ModShift Mod = 1 << iota
	ModCtrl
	ModAlt
)

// Has returns true if the mask contains the given modifier.
func (m Mod) Has(mod Mod) bool {
	return m&mod != 0
}
