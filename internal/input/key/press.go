package key

// Press is a single key press: the key, its character for rune keys, and
// the active modifiers. Press values are comparable and are used directly
// as binding-table keys.
type Press struct {
	Key  Key
	Rune rune
	Mod  Mod
}

// Rune creates a press for a printable character with no modifiers.
func Rune(r rune) Press {
	return Press{Key: KeyRune, Rune: r}
}

// Special creates a press for a non-character key with no modifiers.
func Special(k Key) Press {
	return Press{Key: k}
}

// WithMod returns a copy of the press with the given modifiers added.
func (p Press) WithMod(m Mod) Press {
	p.Mod |= m
	return p
}

// IsZero reports whether the press is the zero value (no key).
func (p Press) IsZero() bool {
	return p.Key == KeyNone && p.Rune == 0 && p.Mod == ModNone
}

// String returns a canonical representation such as "a", "Shift+Up" or
// "Ctrl+x".
func (p Press) String() string {
	var prefix string
	if p.Mod.Has(ModCtrl) {
		prefix += "Ctrl+"
	}
	if p.Mod.Has(ModAlt) {
		prefix += "Alt+"
	}
	if p.Mod.Has(ModShift) {
		prefix += "Shift+"
	}

	if p.Key == KeyRune {
		return prefix + string(p.Rune)
	}
	return prefix + p.Key.String()
}
