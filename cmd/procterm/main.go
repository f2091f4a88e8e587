// Command procterm demonstrates the terminal: it supervises a couple of
// external processes and multiplexes their output into panes.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "procterm:", err)
		os.Exit(1)
	}
}
