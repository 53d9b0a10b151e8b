// Command nimbledump inspects nimble files from the command line: their
// footer metadata, schema tree, stripe table, per-stream byte layout, and
// (for a requested column) decoded row content.
//
// Exit codes: 0 on success and 1 on any error a subcommand returns,
// invalid arguments included; main does not recover panics.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "nimbledump:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "nimbledump <file>",
		Short:         "Inspect a nimble file",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newInfoCmd(),
		newSchemaCmd(),
		newStripesCmd(),
		newStreamsCmd(),
		newHistogramCmd(),
		newContentCmd(),
		newBinaryCmd(),
		newLayoutCmd(),
	)

	return root
}
