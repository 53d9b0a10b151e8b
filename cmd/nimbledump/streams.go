package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStreamsCmd() *cobra.Command {
	var stripeIdx int

	cmd := &cobra.Command{
		Use:   "streams <file>",
		Short: "List one stripe's per-stream byte offsets and sizes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tab, err := openTablet(args[0])
			if err != nil {
				return err
			}
			if stripeIdx < 0 || stripeIdx >= tab.StripeCount() {
				return fmt.Errorf("stripe %d out of range [0,%d)", stripeIdx, tab.StripeCount())
			}

			offsets := tab.StreamOffsets(stripeIdx)
			sizes := tab.StreamSizes(stripeIdx)
			w := cmd.OutOrStdout()
			for id := range offsets {
				fmt.Fprintf(w, "stream %d: offset=%d size=%d\n", id, offsets[id], sizes[id])
			}

			return nil
		},
	}
	cmd.Flags().IntVar(&stripeIdx, "stripe", 0, "stripe index to inspect")

	return cmd
}
