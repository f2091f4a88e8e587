package term

// focus is the display focus state: the normal split layout, or one pane
// expanded to full screen. An empty target in full-screen mode means the
// main pane; otherwise the target names a live session. Sessions that
// exit while focused force the state back to normal.
type focus struct {
	full   bool
	target string
}

// focusNormal is the split layout.
func focusNormal() focus {
	return focus{}
}

// focusMain expands the main pane.
func focusMain() focus {
	return focus{full: true}
}

// focusSession expands the named session's pane.
func focusSession(name string) focus {
	return focus{full: true, target: name}
}
