package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/nimblefmt/nimble/layout"
	"github.com/nimblefmt/nimble/schema"
	"github.com/spf13/cobra"
)

func newLayoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "layout <file>",
		Short: "Print the file's encoding layout tree, if one was recorded",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tab, err := openTablet(args[0])
			if err != nil {
				return err
			}

			blob := tab.LayoutTree()
			if len(blob) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "(no layout tree recorded)")

				return nil
			}

			tree, err := layout.Decode(blob)
			if err != nil {
				return err
			}

			printLayoutTree(cmd.OutOrStdout(), tree, 0)

			return nil
		},
	}
}

func printLayoutTree(w io.Writer, t *layout.Tree, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(w, "%s%s\n", indent, t.Name)

	ids := make([]schema.StreamID, 0, len(t.Streams))
	for id := range t.Streams {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		l := t.Streams[id]
		fmt.Fprintf(w, "%s  stream %d: %s/%s\n", indent, id, l.Encoding, l.Compression)
	}
	for _, c := range t.Children {
		printLayoutTree(w, c, depth+1)
	}
}
