package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStripesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stripes <file>",
		Short: "List each stripe's byte offset, row count, and stream count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tab, err := openTablet(args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for i := 0; i < tab.StripeCount(); i++ {
				fmt.Fprintf(w, "stripe %d: offset=%d rows=%d streams=%d\n",
					i, tab.StripeOffset(i), tab.StripeRowCount(i), tab.StreamCount(i))
			}

			return nil
		},
	}
}
