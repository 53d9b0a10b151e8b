// Package nimble provides a columnar file format for storing structured,
// possibly sparse, tabular data.
//
// Nimble lays out each column (and, for nested types, each sub-column) as
// an independent stream of dense-numbered chunks, each chunk carrying its
// own encoding chosen from the column's observed value distribution. This
// gives good compression and lets readers skip straight to the streams a
// query actually needs, including individual feature columns of a sparse
// flat-map.
//
// # Core Features
//
//   - A nested logical type tree (scalar, array, map, row, flat-map,
//     array-with-offsets, sliding-window-map) with dense stream numbering
//   - Per-stream encoding selection (trivial, RLE, dictionary,
//     mainly-constant, sparse-bool, nullable) driven by observed stats
//   - Stripe/tablet file layout with a checksummed trailer and
//     byte-range-restricted reads
//   - Flat-map columns: sparse per-feature streams that are never read
//     unless a query selects that feature
//   - Pluggable flush policies (raw stripe size, row count)
//
// # Basic Usage
//
// Writing a simple row-shaped file:
//
//	root := schema.NewRow("root", schema.NewScalar("a", schema.ScalarInt32))
//	schema.Allocate(root)
//
//	w := writer.New(root, writer.Options{Compression: format.CompressionZstd})
//	_ = w.Write([]writer.ColumnBatch{{Path: []string{"a"}, Values: []int32{1, 2, 3}}})
//	file, _ := w.Close()
//
// Reading it back:
//
//	r, _ := reader.Open(file, reader.Options{
//	    Columns: []reader.RequestedColumn{{Path: []string{"a"}}},
//	})
//	batch, _ := r.Next(1000)
//	fmt.Println(batch.Columns["a"])
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the schema,
// writer, reader, and stripe packages, covering the most common use
// cases. For advanced usage (layout hints, flat-map projection, custom
// flush policies, range reads) use those packages directly.
package nimble

import (
	"github.com/nimblefmt/nimble/format"
	"github.com/nimblefmt/nimble/layout"
	"github.com/nimblefmt/nimble/reader"
	"github.com/nimblefmt/nimble/schema"
	"github.com/nimblefmt/nimble/stripe"
	"github.com/nimblefmt/nimble/writer"
)

// NewWriter creates a writer for root's schema with opts.
//
// Parameters:
//   - root: the logical type tree, already passed through schema.Allocate.
//   - opts: writer.Options controlling compression, checksum kind, flush
//     policy, metadata, and per-stream layout hints.
//
// Returns the created *writer.Writer.
func NewWriter(root *schema.Node, opts writer.Options) *writer.Writer {
	return writer.New(root, opts)
}

// NewDefaultWriter creates a writer with recommended default settings:
// zstd-compressed streams, an xxHash64 footer checksum, and a 64 MiB raw
// stripe size flush policy.
func NewDefaultWriter(root *schema.Node) *writer.Writer {
	return writer.New(root, writer.Options{
		Compression:  format.CompressionZstd,
		ChecksumKind: format.ChecksumXxHash64,
	})
}

// OpenReader opens a file for reading, restricted to opts' byte range and
// materializing only opts.Columns.
//
// Parameters:
//   - file: the complete file bytes (not a streaming reader; the footer
//     is read from the tail before any stripe is touched).
//   - opts: reader.Options controlling the byte range, requested columns,
//     and flat-map feature selectors.
func OpenReader(file []byte, opts reader.Options) (*reader.Reader, error) {
	return reader.Open(file, opts)
}

// Inspect opens a file's tablet and returns its decoded footer view
// without preparing any column decoders, for tooling that only needs
// schema, stripe, or metadata information.
func Inspect(file []byte) (*stripe.Tablet, error) {
	return stripe.Open(file)
}

// AllocateSchema walks root's logical type tree and assigns every stream
// a dense StreamID, returning the total stream count. It must be called
// once before root is used by a writer or encoded into a footer.
func AllocateSchema(root *schema.Node) int {
	return schema.Allocate(root)
}

// PlanFlatMapLayout computes the stream order a reader should request
// for the flat-map feature orderings in orderings (§4.5's layout
// planner), for tooling that wants to pre-warm or pre-fetch streams in
// the same order the on-disk layout favors.
func PlanFlatMapLayout(root *schema.Node, orderings []layout.FeatureOrdering) ([]schema.StreamID, error) {
	return layout.Plan(root, orderings)
}
