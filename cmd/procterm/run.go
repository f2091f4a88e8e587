package main

import (
	"fmt"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/dshills/procterm/internal/buffer"
	"github.com/dshills/procterm/internal/config"
	"github.com/dshills/procterm/internal/proc"
	"github.com/dshills/procterm/internal/session"
	"github.com/dshills/procterm/internal/term"
)

func newRunCmd() *cobra.Command {
	var (
		configPath string
		name       string
		filterName string
	)

	cmd := &cobra.Command{
		Use:   "run [flags] -- command [args...]",
		Short: "Supervise one command in a pane",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := parseFilter(filterName)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			if name == "" {
				name = args[0]
			}

			tm := term.New(term.WithConfig(cfg))
			done := make(chan struct{})
			tm.OnExit(func() { close(done) })

			h, err := proc.Start(exec.Command(args[0], args[1:]...))
			if err != nil {
				return err
			}
			if err := tm.AddProcess(name, h, session.Settings{Filter: filter}); err != nil {
				tm.End()
				return err
			}

			tm.Printf("supervising %s, Ctrl+C to quit", name)
			<-done
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	cmd.Flags().StringVarP(&name, "name", "n", "", "pane name (defaults to the command)")
	cmd.Flags().StringVarP(&filterName, "filter", "f", "all", "streams to show: out, err or all")
	return cmd
}

// parseFilter maps the --filter flag to a stream filter.
func parseFilter(s string) (buffer.Filter, error) {
	switch s {
	case "out":
		return buffer.FilterOutput, nil
	case "err":
		return buffer.FilterError, nil
	case "all":
		return buffer.FilterAll, nil
	default:
		return 0, fmt.Errorf("unknown filter %q (want out, err or all)", s)
	}
}

// loadConfig loads the layered configuration and reports ignored values
// before the display takes over the screen.
func loadConfig(path string) (config.Config, error) {
	cfg, warnings, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	for _, w := range warnings {
		fmt.Printf("config: ignored invalid %s, using default\n", w)
	}
	return cfg, nil
}
