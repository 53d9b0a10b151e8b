package main

import (
	"encoding/hex"
	"fmt"

	"github.com/nimblefmt/nimble/schema"
	"github.com/spf13/cobra"
)

func newBinaryCmd() *cobra.Command {
	var stripeIdx, streamIdx int

	cmd := &cobra.Command{
		Use:   "binary <file>",
		Short: "Hex-dump one stream's raw framed chunk bytes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tab, err := openTablet(args[0])
			if err != nil {
				return err
			}

			sizes := tab.StreamSizes(stripeIdx)
			if streamIdx < 0 || streamIdx >= len(sizes) {
				return fmt.Errorf("stream %d out of range [0,%d) for stripe %d", streamIdx, len(sizes), stripeIdx)
			}
			if sizes[streamIdx] == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "(stream absent from this stripe)")

				return nil
			}

			handles, err := tab.Load(stripeIdx, []schema.StreamID{schema.StreamID(streamIdx)})
			if err != nil {
				return err
			}
			if handles[0] == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "(stream absent from this stripe)")

				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), hex.Dump(handles[0].Bytes))

			return nil
		},
	}
	cmd.Flags().IntVar(&stripeIdx, "stripe", 0, "stripe index")
	cmd.Flags().IntVar(&streamIdx, "stream", 0, "stream id within the stripe")

	return cmd
}
