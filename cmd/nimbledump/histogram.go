package main

import (
	"fmt"
	"sort"

	"github.com/nimblefmt/nimble/encoding"
	"github.com/nimblefmt/nimble/schema"
	"github.com/nimblefmt/nimble/stream"
	"github.com/spf13/cobra"
)

func newHistogramCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "histogram <file>",
		Short: "Count how many chunks use each encoding kind across the whole file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tab, err := openTablet(args[0])
			if err != nil {
				return err
			}

			ids := schema.StreamIDs(tab.Schema())
			counts := map[string]int{}
			for stripeIdx := 0; stripeIdx < tab.StripeCount(); stripeIdx++ {
				handles, err := tab.Load(stripeIdx, ids)
				if err != nil {
					return err
				}
				for _, h := range handles {
					if h == nil {
						continue
					}
					cr := stream.NewChunkReader(h.Bytes)
					for {
						ok, err := cr.Next()
						if err != nil {
							return err
						}
						if !ok {
							break
						}
						hdr, _, err := encoding.ParseHeader(cr.Payload())
						if err != nil {
							return err
						}
						counts[hdr.Kind.String()]++
					}
				}
			}

			keys := make([]string, 0, len(counts))
			for k := range counts {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			w := cmd.OutOrStdout()
			for _, k := range keys {
				fmt.Fprintf(w, "%-16s %d\n", k, counts[k])
			}

			return nil
		},
	}
}
