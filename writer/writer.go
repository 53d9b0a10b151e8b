// Package writer implements the write-side orchestration of §5/§6: a
// single-threaded state machine that accumulates batches of column
// values, runs the encoding selector per stream, and flushes stripes
// according to a flush.Policy.
package writer

import (
	"fmt"
	"time"

	"github.com/nimblefmt/nimble/encoding"
	"github.com/nimblefmt/nimble/errs"
	"github.com/nimblefmt/nimble/flush"
	"github.com/nimblefmt/nimble/format"
	"github.com/nimblefmt/nimble/schema"
	"github.com/nimblefmt/nimble/stream"
	"github.com/nimblefmt/nimble/stripe"
)

// Options configures a Writer (§6's writer options).
type Options struct {
	// FlatMapColumns restricts which dotted paths Write accepts FlatMap
	// batches for; empty means every FlatMap column in the schema is
	// accepted.
	FlatMapColumns map[string]bool
	// DictionaryArrayColumns names Array/ArrayWithOffsets columns (dotted
	// path) whose scalar element stream should always use
	// format.EncodingDictionary instead of the stats-driven choice.
	DictionaryArrayColumns map[string]bool
	Metadata               map[string]string
	Compression            format.CompressionKind
	ChecksumKind           format.ChecksumKind
	FlushPolicy            flush.Policy
	LayoutHints            map[schema.StreamID]*encoding.LayoutHint
}

// ColumnBatch is one batch of values for one column, addressed by its
// dotted schema path. For a Scalar column, Values is a []T slice matching
// the column's stored ScalarKind. For a nested column it is the matching
// container batch type (RowBatch, FlatMapBatch, ArrayBatch,
// ArrayWithOffsetsBatch, MapBatch, SlidingWindowMapBatch); Present is
// unused for those kinds, which carry their own presence masks internally.
type ColumnBatch struct {
	Path    []string
	Values  any
	Present []bool // nil: no nulls in this batch; Scalar columns only
}

// Writer accumulates batches for the open stripe and flushes according to
// its flush.Policy (§4.7). It is a single-threaded state machine per
// instance (§5); callers wanting parallel encoding provide their own
// executor above this type.
type Writer struct {
	root    *schema.Node
	opts    Options
	policy  flush.Policy
	opened  time.Time
	rows    int
	rawSize int64

	streams     map[schema.StreamID]*streamState
	stripes     *stripe.Writer
	forcedHints map[schema.StreamID]*encoding.LayoutHint
}

type streamState struct {
	pending *stream.Writer
	scalar  schema.ScalarKind
}

// New creates a Writer for root's schema.
func New(root *schema.Node, opts Options) *Writer {
	if opts.FlushPolicy == nil {
		opts.FlushPolicy = flush.NewRawStripeSizeFlushPolicy(64 << 20)
	}

	w := &Writer{
		root:        root,
		opts:        opts,
		policy:      opts.FlushPolicy,
		opened:      time.Now(),
		streams:     make(map[schema.StreamID]*streamState),
		stripes:     stripe.NewWriter(root, opts.ChecksumKind, opts.Compression),
		forcedHints: computeForcedHints(root, opts.DictionaryArrayColumns),
	}
	for _, md := range flattenMetadata(opts.Metadata) {
		w.stripes.SetMetadata(md[0], md[1])
	}

	return w
}

func flattenMetadata(m map[string]string) [][2]string {
	out := make([][2]string, 0, len(m))
	for k, v := range m {
		out = append(out, [2]string{k, v})
	}

	return out
}

// Write appends one batch of column values to the open stripe, running
// the selector for each column's chunk and appending it to that stream's
// pending chunk sequence.
func (w *Writer) Write(batches []ColumnBatch) error {
	maxRows := 0
	for _, b := range batches {
		node, ok := schema.Find(w.root, b.Path)
		if !ok {
			return fmt.Errorf("%w: column %v not found", errs.ErrSchemaMismatch, b.Path)
		}

		n, err := w.writeNode(node, b.Path, b.Values, b.Present)
		if err != nil {
			return err
		}
		if n > maxRows {
			maxRows = n
		}
	}
	w.rows += maxRows

	decision := w.policy.ShouldFlush(flush.Progress{
		RawStripeSize: w.rawSize,
		RowCount:      w.rows,
		TimeSinceOpen: time.Since(w.opened),
	})
	if decision == flush.Stripe {
		return w.flushStripe()
	}

	return nil
}

func (w *Writer) stateFor(id schema.StreamID, kind schema.ScalarKind) *streamState {
	st, ok := w.streams[id]
	if !ok {
		st = &streamState{pending: stream.NewWriter(w.opts.Compression), scalar: kind}
		w.streams[id] = st
	}

	return st
}

func (w *Writer) hintFor(id schema.StreamID) *encoding.LayoutHint {
	if h, ok := w.forcedHints[id]; ok {
		return h
	}
	if w.opts.LayoutHints == nil {
		return nil
	}

	return w.opts.LayoutHints[id]
}

// Flush closes the current stripe, if any rows are pending, without
// closing the writer.
func (w *Writer) Flush() error {
	if w.rows == 0 {
		return nil
	}

	return w.flushStripe()
}

func (w *Writer) flushStripe() error {
	ids := schema.StreamIDs(w.root)
	streamCount := 0
	for _, id := range ids {
		if int(id)+1 > streamCount {
			streamCount = int(id) + 1
		}
	}

	bytesMap := make(map[schema.StreamID][]byte, len(w.streams))
	compMap := make(map[schema.StreamID]format.CompressionKind, len(w.streams))
	for id, st := range w.streams {
		bytesMap[id] = st.pending.Bytes()
		compMap[id] = w.opts.Compression
	}

	w.stripes.WriteStripe(stripe.StripeStreams{
		Bytes:       bytesMap,
		Compression: compMap,
		StreamCount: streamCount,
		RowCount:    int64(w.rows),
	})

	w.streams = make(map[schema.StreamID]*streamState)
	w.rows = 0
	w.rawSize = 0
	w.opened = time.Now()

	return nil
}

// Close flushes any pending stripe and finalizes the file, returning its
// complete bytes.
func (w *Writer) Close() ([]byte, error) {
	if err := w.Flush(); err != nil {
		return nil, err
	}
	w.policy.OnClose()

	return w.stripes.Close()
}

func valueLen(values any) int {
	switch v := values.(type) {
	case []int8:
		return len(v)
	case []uint8:
		return len(v)
	case []int16:
		return len(v)
	case []uint16:
		return len(v)
	case []int32:
		return len(v)
	case []uint32:
		return len(v)
	case []int64:
		return len(v)
	case []uint64:
		return len(v)
	case []float32:
		return len(v)
	case []float64:
		return len(v)
	case []bool:
		return len(v)
	case []string:
		return len(v)
	case [][]byte:
		return len(v)
	default:
		return 0
	}
}
