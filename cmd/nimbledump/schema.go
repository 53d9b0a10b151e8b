package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/nimblefmt/nimble/schema"
	"github.com/spf13/cobra"
)

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema <file>",
		Short: "Print the file's logical type tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tab, err := openTablet(args[0])
			if err != nil {
				return err
			}

			printNode(cmd.OutOrStdout(), tab.Schema(), 0)

			return nil
		},
	}
}

func printNode(w io.Writer, n *schema.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch n.Kind {
	case schema.KindScalar:
		fmt.Fprintf(w, "%s%s: %s (values=%d)\n", indent, n.Name, n.Scalar.DataType(), n.ValuesID)
	case schema.KindFlatMap:
		fmt.Fprintf(w, "%s%s: flatmap<%d features> (nulls=%d)\n", indent, n.Name, len(n.FeatureKeys), n.NullsID)
		for i, k := range n.FeatureKeys {
			fmt.Fprintf(w, "%s  [%q] (in_map=%d)\n", indent, k, n.InMapIDs[i])
			printNode(w, n.FeatureNodes[i], depth+2)
		}
	case schema.KindRow:
		fmt.Fprintf(w, "%s%s: row<%d fields> (nulls=%d)\n", indent, n.Name, len(n.Children), n.NullsID)
		for _, c := range n.Children {
			printNode(w, c, depth+1)
		}
	case schema.KindArray:
		fmt.Fprintf(w, "%s%s: array (lengths=%d)\n", indent, n.Name, n.LengthsID)
		printNode(w, n.Elements, depth+1)
	case schema.KindArrayWithOffsets:
		fmt.Fprintf(w, "%s%s: array_with_offsets (offsets=%d lengths=%d)\n", indent, n.Name, n.OffsetsID, n.LengthsID)
		printNode(w, n.Elements, depth+1)
	case schema.KindMap:
		fmt.Fprintf(w, "%s%s: map (lengths=%d)\n", indent, n.Name, n.LengthsID)
		fmt.Fprintf(w, "%s  keys:\n", indent)
		printNode(w, n.Keys, depth+2)
		fmt.Fprintf(w, "%s  values:\n", indent)
		printNode(w, n.Values_, depth+2)
	case schema.KindSlidingWindowMap:
		fmt.Fprintf(w, "%s%s: sliding_window_map (lengths=%d window_lengths=%d)\n", indent, n.Name, n.LengthsID, n.WindowLengths)
		fmt.Fprintf(w, "%s  keys:\n", indent)
		printNode(w, n.Keys, depth+2)
		fmt.Fprintf(w, "%s  values:\n", indent)
		printNode(w, n.Values_, depth+2)
	default:
		fmt.Fprintf(w, "%s%s: %s\n", indent, n.Name, n.Kind)
	}
}
