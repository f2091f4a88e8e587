package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "procterm",
		Short:         "Split-pane terminal for supervising process output",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.AddCommand(newDemoCmd())
	root.AddCommand(newRunCmd())

	return root
}
