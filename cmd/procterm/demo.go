package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/procterm/internal/buffer"
	"github.com/dshills/procterm/internal/input/key"
	"github.com/dshills/procterm/internal/proc"
	"github.com/dshills/procterm/internal/session"
	"github.com/dshills/procterm/internal/term"
)

func newDemoCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Supervise two sample printing processes",
		Long: `Starts two shell loops that print messages on an interval and shows
their output in separate panes. Digit keys expand a pane to full screen,
Esc goes back, Ctrl+C quits.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			tm := term.New(term.WithConfig(cfg))
			done := make(chan struct{})
			tm.OnExit(func() { close(done) })

			fast, err := proc.StartPrinting([]string{"hello", "world"}, 500*time.Millisecond, 30*time.Second)
			if err != nil {
				return err
			}
			if err := tm.AddProcess("fast", fast, session.Settings{
				Filter: buffer.FilterAll,
				Scroll: &session.ScrollBinding{Prev: key.Rune('u'), Next: key.Rune('d')},
			}); err != nil {
				tm.End()
				return err
			}

			slow, err := proc.StartPrinting([]string{"tick", "tock"}, 2*time.Second, 30*time.Second)
			if err != nil {
				tm.End()
				return err
			}
			if err := tm.AddProcess("slow", slow, session.Settings{
				Filter: buffer.FilterOutput,
				Scroll: &session.ScrollBinding{Prev: key.Rune('j'), Next: key.Rune('k')},
			}); err != nil {
				tm.End()
				return err
			}

			tm.Print("supervising fast and slow")
			tm.Print("press '1' or '2' for full screen, Esc to go back, Ctrl+C to quit")

			// Demonstrate a blocking search: waits for the fast loop's
			// first "world" line.
			go func() {
				line, err := tm.BlockSearchMessage("fast", "world")
				if err != nil {
					return
				}
				tm.Printf("search matched: %q", line)
			}()

			<-done
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	return cmd
}
