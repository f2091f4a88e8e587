package session

import "regexp"

// csiPattern matches CSI escape sequences: ESC [ followed by parameter,
// intermediate, and final bytes.
var csiPattern = regexp.MustCompile(`\x1b\[[\x30-\x3f]*[\x20-\x2f]*[\x40-\x7e]`)

// stripEscapes removes CSI escape sequences from a captured line, so color
// and cursor codes emitted by the child never reach a buffer.
func stripEscapes(line string) string {
	return csiPattern.ReplaceAllString(line, "")
}
