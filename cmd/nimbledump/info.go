package main

import (
	"fmt"

	"github.com/nimblefmt/nimble/stripe"
	"github.com/spf13/cobra"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Print a one-line summary of a file's stripe and row counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tab, err := openTablet(args[0])
			if err != nil {
				return err
			}
			if err := stripe.Verify(tab); err != nil {
				return fmt.Errorf("footer invariant violated: %w", err)
			}

			var rows int64
			for i := 0; i < tab.StripeCount(); i++ {
				rows += tab.StripeRowCount(i)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "stripes=%d rows=%d metadata_keys=%d\n",
				tab.StripeCount(), rows, len(tab.Metadata()))

			return nil
		},
	}
}
