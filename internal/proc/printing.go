package proc

import (
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// StartPrinting spawns a shell loop that echoes the given messages in
// order, sleeping interval between each, until roughly total has elapsed.
// It exists for demos and manual testing of the terminal.
func StartPrinting(messages []string, interval, total time.Duration) (*Cmd, error) {
	script := printingScript(messages, interval, total)
	return Start(exec.Command("sh", "-c", script))
}

// printingScript builds the sh script StartPrinting runs. The repetition
// count is derived so the script runs for about total.
func printingScript(messages []string, interval, total time.Duration) string {
	secs := interval.Seconds()

	var b strings.Builder
	fmt.Fprintf(&b, "sleep %g", secs)

	if len(messages) == 0 || secs <= 0 {
		return b.String()
	}

	rounds := int(total.Seconds() / secs / float64(len(messages)))
	for i := 0; i < rounds; i++ {
		for _, msg := range messages {
			fmt.Fprintf(&b, " && echo %s && sleep %g", msg, secs)
		}
	}

	return b.String()
}
