package writer

import (
	"fmt"
	"strings"

	"github.com/nimblefmt/nimble/encoding"
	"github.com/nimblefmt/nimble/errs"
	"github.com/nimblefmt/nimble/format"
	"github.com/nimblefmt/nimble/schema"
)

// FieldBatch is one nested subtree's worth of batch values, used wherever a
// container batch recurses into a child node (Row field, Array/Map element
// subtree, FlatMap feature value subtree).
type FieldBatch struct {
	Values  any
	Present []bool // nil: no nulls in this batch
}

// RowBatch supplies one batch of values for a Row column: a presence mask
// (nil defaults to all rows present) plus one FieldBatch per child the
// caller has values for this batch. A child absent from Fields is simply
// not written this batch, matching the §4.7 per-stripe chunk cadence.
type RowBatch struct {
	Present []bool
	Fields  map[string]FieldBatch
}

// FlatMapFeatureBatch supplies one flat-map feature's in-map mask (length
// equal to the column's row count) and its sparse value subtree (length
// equal to popcount(InMap), §9's sparsity contract).
type FlatMapFeatureBatch struct {
	InMap  []bool
	Values FieldBatch
}

// FlatMapBatch supplies one batch of values for a FlatMap column: a
// row-level presence mask for the column itself, plus one
// FlatMapFeatureBatch per materialized key the caller has values for.
type FlatMapBatch struct {
	Present  []bool
	Features map[string]FlatMapFeatureBatch
}

// ArrayBatch supplies one batch of values for an Array column: one length
// per row, plus the flattened element subtree (sum(Lengths) entries).
type ArrayBatch struct {
	Lengths  []uint32
	Elements FieldBatch
}

// ArrayWithOffsetsBatch supplies one batch of values for an
// ArrayWithOffsets column: explicit per-row offsets alongside lengths, plus
// the flattened element subtree.
type ArrayWithOffsetsBatch struct {
	Offsets  []uint32
	Lengths  []uint32
	Elements FieldBatch
}

// MapBatch supplies one batch of values for a Map column: one length per
// row, plus the flattened key and value subtrees.
type MapBatch struct {
	Lengths []uint32
	Keys    FieldBatch
	Values  FieldBatch
}

// SlidingWindowMapBatch supplies one batch of values for a SlidingWindowMap
// column: lengths and window-lengths per row, plus the flattened key and
// value subtrees.
type SlidingWindowMapBatch struct {
	Lengths       []uint32
	WindowLengths []uint32
	Keys          FieldBatch
	Values        FieldBatch
}

// writeNode writes one batch of values for node, addressed by path,
// dispatching on the node's kind. It returns the row count the batch
// covers.
func (w *Writer) writeNode(node *schema.Node, path []string, values any, present []bool) (int, error) {
	switch node.Kind {
	case schema.KindScalar:
		return w.writeScalar(node, path, values, present)
	case schema.KindRow:
		return w.writeRow(node, path, values)
	case schema.KindFlatMap:
		return w.writeFlatMap(node, path, values)
	case schema.KindArray:
		return w.writeArray(node, path, values)
	case schema.KindArrayWithOffsets:
		return w.writeArrayWithOffsets(node, path, values)
	case schema.KindMap:
		return w.writeMap(node, path, values)
	case schema.KindSlidingWindowMap:
		return w.writeSlidingWindowMap(node, path, values)
	default:
		return 0, fmt.Errorf("%w: schema kind %v has no writer path", errs.ErrUnsupportedDataType, node.Kind)
	}
}

func (w *Writer) writeScalar(node *schema.Node, path []string, values any, present []bool) (int, error) {
	payload, n, err := encodeColumn(node.Scalar, ColumnBatch{Path: path, Values: values, Present: present}, w.hintFor(node.ValuesID))
	if err != nil {
		return 0, err
	}

	st := w.stateFor(node.ValuesID, node.Scalar)
	if err := st.pending.WriteChunk(payload, n); err != nil {
		return 0, err
	}
	w.rawSize += int64(len(payload))

	return n, nil
}

func (w *Writer) writeRow(node *schema.Node, path []string, values any) (int, error) {
	rb, ok := values.(RowBatch)
	if !ok {
		return 0, fmt.Errorf("%w: column %v expects a writer.RowBatch", errs.ErrSchemaMismatch, path)
	}

	rows := batchRowCount(node, rb)
	present := rb.Present
	if present == nil {
		present = allTrue(rows)
	}
	if err := w.writePresenceStream(node.NullsID, present); err != nil {
		return 0, err
	}

	for _, c := range node.Children {
		fb, ok := rb.Fields[c.Name]
		if !ok {
			continue
		}
		if _, err := w.writeNode(c, childPath(path, c.Name), fb.Values, fb.Present); err != nil {
			return 0, err
		}
	}

	return rows, nil
}

func (w *Writer) writeFlatMap(node *schema.Node, path []string, values any) (int, error) {
	fb, ok := values.(FlatMapBatch)
	if !ok {
		return 0, fmt.Errorf("%w: column %v expects a writer.FlatMapBatch", errs.ErrSchemaMismatch, path)
	}
	if allowed := w.opts.FlatMapColumns; len(allowed) > 0 && !allowed[pathKey(path)] {
		return 0, fmt.Errorf("%w: column %v is not declared in Options.FlatMapColumns", errs.ErrSchemaMismatch, path)
	}

	rows := batchRowCount(node, fb)
	present := fb.Present
	if present == nil {
		present = allTrue(rows)
	}
	if err := w.writePresenceStream(node.NullsID, present); err != nil {
		return 0, err
	}

	for i, key := range node.FeatureKeys {
		feat, ok := fb.Features[key]
		if !ok {
			continue
		}
		inMap := feat.InMap
		if inMap == nil {
			inMap = allTrue(rows)
		}
		if err := w.writePresenceStream(node.InMapIDs[i], inMap); err != nil {
			return 0, err
		}
		if _, err := w.writeNode(node.FeatureNodes[i], childPath(path, key), feat.Values.Values, feat.Values.Present); err != nil {
			return 0, err
		}
	}

	return rows, nil
}

func (w *Writer) writeArray(node *schema.Node, path []string, values any) (int, error) {
	ab, ok := values.(ArrayBatch)
	if !ok {
		return 0, fmt.Errorf("%w: column %v expects a writer.ArrayBatch", errs.ErrSchemaMismatch, path)
	}
	if err := w.writeLengths(node.LengthsID, ab.Lengths); err != nil {
		return 0, err
	}
	if _, err := w.writeNode(node.Elements, childPath(path, "elements"), ab.Elements.Values, ab.Elements.Present); err != nil {
		return 0, err
	}

	return len(ab.Lengths), nil
}

func (w *Writer) writeArrayWithOffsets(node *schema.Node, path []string, values any) (int, error) {
	ab, ok := values.(ArrayWithOffsetsBatch)
	if !ok {
		return 0, fmt.Errorf("%w: column %v expects a writer.ArrayWithOffsetsBatch", errs.ErrSchemaMismatch, path)
	}
	if err := w.writeLengths(node.OffsetsID, ab.Offsets); err != nil {
		return 0, err
	}
	if err := w.writeLengths(node.LengthsID, ab.Lengths); err != nil {
		return 0, err
	}
	if _, err := w.writeNode(node.Elements, childPath(path, "elements"), ab.Elements.Values, ab.Elements.Present); err != nil {
		return 0, err
	}

	return len(ab.Lengths), nil
}

func (w *Writer) writeMap(node *schema.Node, path []string, values any) (int, error) {
	mb, ok := values.(MapBatch)
	if !ok {
		return 0, fmt.Errorf("%w: column %v expects a writer.MapBatch", errs.ErrSchemaMismatch, path)
	}
	if err := w.writeLengths(node.LengthsID, mb.Lengths); err != nil {
		return 0, err
	}
	if _, err := w.writeNode(node.Keys, childPath(path, "keys"), mb.Keys.Values, mb.Keys.Present); err != nil {
		return 0, err
	}
	if _, err := w.writeNode(node.Values_, childPath(path, "values"), mb.Values.Values, mb.Values.Present); err != nil {
		return 0, err
	}

	return len(mb.Lengths), nil
}

func (w *Writer) writeSlidingWindowMap(node *schema.Node, path []string, values any) (int, error) {
	mb, ok := values.(SlidingWindowMapBatch)
	if !ok {
		return 0, fmt.Errorf("%w: column %v expects a writer.SlidingWindowMapBatch", errs.ErrSchemaMismatch, path)
	}
	if err := w.writeLengths(node.LengthsID, mb.Lengths); err != nil {
		return 0, err
	}
	if err := w.writeLengths(node.WindowLengths, mb.WindowLengths); err != nil {
		return 0, err
	}
	if _, err := w.writeNode(node.Keys, childPath(path, "keys"), mb.Keys.Values, mb.Keys.Present); err != nil {
		return 0, err
	}
	if _, err := w.writeNode(node.Values_, childPath(path, "values"), mb.Values.Values, mb.Values.Present); err != nil {
		return 0, err
	}

	return len(mb.Lengths), nil
}

// writePresenceStream encodes a Row/FlatMap presence mask (§3: nulls,
// in-map) as a plain (non-nullable) bool stream.
func (w *Writer) writePresenceStream(id schema.StreamID, present []bool) error {
	payload, err := encoding.Select(present, w.hintFor(id))
	if err != nil {
		return err
	}
	st := w.stateFor(id, schema.ScalarBool)
	if err := st.pending.WriteChunk(payload, len(present)); err != nil {
		return err
	}
	w.rawSize += int64(len(payload))

	return nil
}

// writeLengths encodes an Array/Map/ArrayWithOffsets/SlidingWindowMap
// structural stream (lengths, offsets, window-lengths) as a plain u32
// stream; §3 lists no nulls descriptor for these kinds.
func (w *Writer) writeLengths(id schema.StreamID, values []uint32) error {
	payload, err := encoding.Select(values, w.hintFor(id))
	if err != nil {
		return err
	}
	st := w.stateFor(id, schema.ScalarUint32)
	if err := st.pending.WriteChunk(payload, len(values)); err != nil {
		return err
	}
	w.rawSize += int64(len(payload))

	return nil
}

// allTrue returns a presence mask with every row marked present, used when
// a batch omits an explicit nulls/in-map mask.
func allTrue(n int) []bool {
	out := make([]bool, n)
	for i := range out {
		out[i] = true
	}

	return out
}

func childPath(path []string, seg string) []string {
	out := make([]string, len(path)+1)
	copy(out, path)
	out[len(path)] = seg

	return out
}

func pathKey(path []string) string {
	return strings.Join(path, ".")
}

// batchRowCount infers how many rows a container batch covers, preferring
// an explicit presence/lengths stream and falling back to the widest child
// the caller supplied.
func batchRowCount(node *schema.Node, values any) int {
	switch node.Kind {
	case schema.KindScalar:
		return valueLen(values)

	case schema.KindRow:
		rb, ok := values.(RowBatch)
		if !ok {
			return 0
		}
		if rb.Present != nil {
			return len(rb.Present)
		}
		max := 0
		for _, c := range node.Children {
			if fb, ok := rb.Fields[c.Name]; ok {
				if n := batchRowCount(c, fb.Values); n > max {
					max = n
				}
			}
		}

		return max

	case schema.KindFlatMap:
		fb, ok := values.(FlatMapBatch)
		if !ok {
			return 0
		}
		if fb.Present != nil {
			return len(fb.Present)
		}
		max := 0
		for _, feat := range fb.Features {
			if n := len(feat.InMap); n > max {
				max = n
			}
		}

		return max

	case schema.KindArray:
		ab, ok := values.(ArrayBatch)
		if !ok {
			return 0
		}

		return len(ab.Lengths)

	case schema.KindArrayWithOffsets:
		ab, ok := values.(ArrayWithOffsetsBatch)
		if !ok {
			return 0
		}

		return len(ab.Lengths)

	case schema.KindMap:
		mb, ok := values.(MapBatch)
		if !ok {
			return 0
		}

		return len(mb.Lengths)

	case schema.KindSlidingWindowMap:
		mb, ok := values.(SlidingWindowMapBatch)
		if !ok {
			return 0
		}

		return len(mb.Lengths)

	default:
		return 0
	}
}

// computeForcedHints resolves Options.DictionaryArrayColumns into a
// StreamID-keyed override map, forcing the named Array/ArrayWithOffsets
// columns' scalar element streams through EncodingDictionary regardless of
// their observed statistics.
func computeForcedHints(root *schema.Node, names map[string]bool) map[schema.StreamID]*encoding.LayoutHint {
	if len(names) == 0 {
		return nil
	}

	out := make(map[schema.StreamID]*encoding.LayoutHint, len(names))
	for name := range names {
		node, ok := schema.Find(root, strings.Split(name, "."))
		if !ok {
			continue
		}

		var elements *schema.Node
		switch node.Kind {
		case schema.KindArray, schema.KindArrayWithOffsets:
			elements = node.Elements
		}
		if elements != nil && elements.Kind == schema.KindScalar {
			out[elements.ValuesID] = &encoding.LayoutHint{Kind: format.EncodingDictionary}
		}
	}

	return out
}
