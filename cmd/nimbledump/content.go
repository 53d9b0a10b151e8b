package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/nimblefmt/nimble/reader"
	"github.com/spf13/cobra"
)

func newContentCmd() *cobra.Command {
	var column string
	var limit int

	cmd := &cobra.Command{
		Use:   "content <file>",
		Short: "Decode and print up to --limit rows of --column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if column == "" {
				return fmt.Errorf("--column is required")
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			path := strings.Split(column, ".")
			r, err := reader.Open(data, reader.Options{
				Columns: []reader.RequestedColumn{{Path: path}},
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			printed := 0
			for printed < limit {
				batch, err := r.Next(limit - printed)
				if err != nil {
					return err
				}
				if batch.Len == 0 {
					break
				}
				fmt.Fprintf(w, "%v\n", batch.Columns[column])
				printed += batch.Len
			}

			return nil
		},
	}
	cmd.Flags().StringVar(&column, "column", "", "dotted path of the column to decode")
	cmd.Flags().IntVar(&limit, "limit", 100, "maximum number of rows to print")

	return cmd
}
