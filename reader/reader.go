package reader

import (
	"fmt"

	"github.com/nimblefmt/nimble/bitio"
	"github.com/nimblefmt/nimble/errs"
	"github.com/nimblefmt/nimble/schema"
	"github.com/nimblefmt/nimble/stripe"
)

// FeatureMode selects whether a FlatMapSelector names the features to
// keep or the features to drop.
type FeatureMode uint8

const (
	Include FeatureMode = iota
	Exclude
)

// FlatMapSelector restricts which feature streams of a flat-map column
// are ever read (§4.8, §9: unselected feature streams are never read).
type FlatMapSelector struct {
	Mode     FeatureMode
	Features []string
}

// keep reports whether key passes this selector.
func (s FlatMapSelector) keep(key string) bool {
	in := false
	for _, f := range s.Features {
		if f == key {
			in = true
			break
		}
	}
	if s.Mode == Include {
		return in
	}

	return !in
}

// RequestedColumn names one column to materialize and, for scalar
// columns, the type to up-cast it to.
type RequestedColumn struct {
	Path     []string
	As       schema.ScalarKind // zero value: read as stored
	AsStruct bool              // for a FlatMap column: read selected features as named row fields
}

// Options configures Open (§6's reader params).
type Options struct {
	RangeStart, RangeEnd int64 // zero/zero selects the whole file
	FlatMapSelectors     map[string]FlatMapSelector
	Columns              []RequestedColumn
}

// Batch is one materialized block of rows, one entry per requested
// column keyed by its dotted path.
type Batch struct {
	Len      int
	Columns  map[string]any
	Presence map[string]*bitio.BoolBitSet
}

// Reader is a single-threaded state machine over one tablet (§5, §4.8):
// next/skip_rows/seek_to_row advance a cursor through the selectable
// stripe range, opening each stripe's columns lazily.
type Reader struct {
	tablet *stripe.Tablet
	root   *schema.Node
	opts   Options

	selectable  []int   // stripe indices admitted by the range (§4.3)
	cumRows     []int64 // cumRows[i] = rows before selectable[i]
	rangeRows   int64

	stripeIdx    int // index into selectable
	rowInStripe  int64
	columns      map[schema.StreamID]column

	// skipGroups records every gate->dependent relationship in the schema
	// (§9's "flat-map sparsity" design note, generalized): a flat-map
	// feature's value stream only holds popcount(in_map) entries per row
	// window, and an Array/Map's element/key/value streams only hold
	// sum(lengths) entries per row window, so skipping either by a dense
	// row count is wrong. skipWithinStripe consults this instead.
	skipGroups []skipGroup
}

// skipGroup ties a row-dense gate stream (a FlatMap in-map bit-stream or
// an Array/Map lengths stream) to the dependent streams whose row-window
// skip count must be derived from the gate's values rather than the
// window size itself.
type skipGroup struct {
	gate     schema.StreamID
	members  []schema.StreamID
	popcount bool // true: gate is bool, skip count is popcount; false: gate is uint32, skip count is sum
}

// Open parses tablet bytes and prepares a Reader restricted to opts'
// byte range.
func Open(file []byte, opts Options) (*Reader, error) {
	tab, err := stripe.Open(file)
	if err != nil {
		return nil, err
	}

	start, end := opts.RangeStart, opts.RangeEnd
	if start == 0 && end == 0 {
		end = int64(len(file))
	}
	selectable := tab.SelectableStripes(start, end)

	cum := make([]int64, len(selectable))
	var total int64
	for i, s := range selectable {
		cum[i] = total
		total += tab.StripeRowCount(s)
	}

	r := &Reader{
		tablet:     tab,
		root:       tab.Schema(),
		opts:       opts,
		selectable: selectable,
		cumRows:    cum,
		rangeRows:  total,
		skipGroups: collectSkipGroups(tab.Schema()),
	}

	return r, nil
}

// Schema returns the file's decoded schema tree.
func (r *Reader) Schema() *schema.Node { return r.root }

// Metadata returns the file's key/value metadata map, decoded when the
// file was opened.
func (r *Reader) Metadata() map[string]string { return r.tablet.Metadata() }

// RangeRowCount returns the total row count across every selectable
// stripe.
func (r *Reader) RangeRowCount() int64 { return r.rangeRows }

func (r *Reader) currentStripe() (int, bool) {
	if r.stripeIdx >= len(r.selectable) {
		return 0, false
	}

	return r.selectable[r.stripeIdx], true
}

// openStripe resets the per-column decoders for the currently selected
// stripe.
func (r *Reader) openStripe() error {
	stripeNo, ok := r.currentStripe()
	if !ok {
		r.columns = nil

		return nil
	}

	ids := collectLeafStreamIDs(r.root)
	handles, err := r.tablet.Load(stripeNo, ids)
	if err != nil {
		return err
	}

	r.columns = make(map[schema.StreamID]column, len(ids))
	for i, id := range ids {
		h := handles[i]
		if h == nil {
			continue
		}
		kind, ok := leafScalarKind(r.root, id)
		if !ok {
			continue
		}
		// h.Bytes is the stream's framed chunk sequence (§4.2); each
		// chunk carries and applies its own compression, so no
		// stream-level decompression happens here.
		c, err := newColumn(kind, h.Bytes)
		if err != nil {
			return err
		}
		r.columns[id] = c
	}

	return nil
}

// SeekToRow seeks to absolute row r within the selectable range, clamped
// to [0, RangeRowCount] (§4.8).
func (r *Reader) SeekToRow(row int64) error {
	if row < 0 {
		row = 0
	}
	if row > r.rangeRows {
		row = r.rangeRows
	}

	idx := len(r.selectable)
	for i := len(r.cumRows) - 1; i >= 0; i-- {
		if r.cumRows[i] <= row {
			idx = i
			break
		}
	}

	r.stripeIdx = idx
	if err := r.openStripe(); err != nil {
		return err
	}
	if idx >= len(r.selectable) {
		return nil
	}

	offset := row - r.cumRows[idx]
	if offset > 0 {
		if err := r.skipWithinStripe(offset); err != nil {
			return err
		}
	}
	r.rowInStripe = offset

	return nil
}

// SkipRows advances n rows without materializing, crossing stripe
// boundaries, and returns how many were actually skipped (fewer than n
// at end-of-range, §4.8).
func (r *Reader) SkipRows(n int64) (int64, error) {
	var skipped int64
	for skipped < n {
		if r.columns == nil {
			if err := r.openStripe(); err != nil {
				return skipped, err
			}
		}
		stripeNo, ok := r.currentStripe()
		if !ok {
			return skipped, nil
		}
		remaining := r.tablet.StripeRowCount(stripeNo) - r.rowInStripe
		take := n - skipped
		if take > remaining {
			take = remaining
		}
		if take > 0 {
			if err := r.skipWithinStripe(take); err != nil {
				return skipped, err
			}
			r.rowInStripe += take
			skipped += take
		}
		if r.rowInStripe >= r.tablet.StripeRowCount(stripeNo) {
			r.stripeIdx++
			r.rowInStripe = 0
			r.columns = nil
		}
	}

	return skipped, nil
}

// collectSkipGroups walks root for every gate->dependent relationship: a
// Row's scalar children gated by its nulls stream, a FlatMap feature's
// scalar value subtree gated by its in-map stream, and an
// Array/Map/ArrayWithOffsets/SlidingWindowMap's scalar element/key/value
// subtree gated by its lengths stream. Nodes whose dependent subtree is
// itself non-scalar (nested containers) are left out of the grouping, the
// same scope limit materializeFlatMap already documents for nested
// flat-map values; skipping such a column falls back to the dense path,
// which undercounts but matches what this reader can materialize today.
func collectSkipGroups(root *schema.Node) []skipGroup {
	var groups []skipGroup
	schema.Walk(root, func(n *schema.Node) {
		switch n.Kind {
		case schema.KindRow:
			var members []schema.StreamID
			for _, c := range n.Children {
				if c.Kind == schema.KindScalar {
					members = append(members, c.ValuesID)
				}
			}
			if len(members) > 0 {
				groups = append(groups, skipGroup{gate: n.NullsID, members: members, popcount: true})
			}

		case schema.KindFlatMap:
			for i, v := range n.FeatureNodes {
				if v.Kind == schema.KindScalar {
					groups = append(groups, skipGroup{gate: n.InMapIDs[i], members: []schema.StreamID{v.ValuesID}, popcount: true})
				}
			}

		case schema.KindArray, schema.KindArrayWithOffsets:
			if n.Elements.Kind == schema.KindScalar {
				groups = append(groups, skipGroup{gate: n.LengthsID, members: []schema.StreamID{n.Elements.ValuesID}})
			}

		case schema.KindMap, schema.KindSlidingWindowMap:
			if n.Keys.Kind == schema.KindScalar && n.Values_.Kind == schema.KindScalar {
				groups = append(groups, skipGroup{
					gate:    n.LengthsID,
					members: []schema.StreamID{n.Keys.ValuesID, n.Values_.ValuesID},
				})
			}
		}
	})

	return groups
}

// skipWithinStripe advances n rows on every open column. A group's members
// are sparse relative to the row window (§9): a flat-map feature value
// stream holds only popcount(in_map) entries, and an Array/Map
// element/key/value stream holds only sum(lengths) entries, so each
// group's gate is read first (which itself advances it by n) and its
// members are skipped by the derived count instead of n.
func (r *Reader) skipWithinStripe(n int64) error {
	consumed := map[schema.StreamID]bool{}

	for _, g := range r.skipGroups {
		gateCol, ok := r.columns[g.gate]
		if !ok {
			continue
		}

		var count int
		if g.popcount {
			bm, err := materializeBoolBitmap(gateCol, int(n))
			if err != nil {
				return err
			}
			count = bm.PopCount()
		} else {
			values, err := gateCol.Materialize(int(n))
			if err != nil {
				return err
			}
			lens, ok := values.([]uint32)
			if !ok {
				return fmt.Errorf("%w: structural stream did not decode as uint32", errs.ErrMalformedEncoding)
			}
			for _, l := range lens {
				count += int(l)
			}
		}
		consumed[g.gate] = true

		for _, m := range g.members {
			mc, ok := r.columns[m]
			if !ok {
				continue
			}
			if err := mc.Skip(count); err != nil {
				return err
			}
			consumed[m] = true
		}
	}

	for id, c := range r.columns {
		if consumed[id] {
			continue
		}
		if err := c.Skip(int(n)); err != nil {
			return err
		}
	}

	return nil
}

// Next produces up to n rows into a Batch, stopping at the current
// stripe's boundary (§4.8: callers must loop for a full n).
func (r *Reader) Next(n int) (*Batch, error) {
	if r.columns == nil {
		if err := r.openStripe(); err != nil {
			return nil, err
		}
	}
	stripeNo, ok := r.currentStripe()
	if !ok {
		return &Batch{Columns: map[string]any{}, Presence: map[string]*bitio.BoolBitSet{}}, nil
	}

	remaining := r.tablet.StripeRowCount(stripeNo) - r.rowInStripe
	take := int64(n)
	if take > remaining {
		take = remaining
	}

	batch := &Batch{Len: int(take), Columns: map[string]any{}, Presence: map[string]*bitio.BoolBitSet{}}
	for _, rc := range r.opts.Columns {
		if err := r.materializeColumn(rc, int(take), batch); err != nil {
			return nil, err
		}
	}

	r.rowInStripe += take
	if r.rowInStripe >= r.tablet.StripeRowCount(stripeNo) {
		r.stripeIdx++
		r.rowInStripe = 0
		r.columns = nil
	}

	return batch, nil
}

// ArrayValues is the materialized shape of an Array/ArrayWithOffsets
// column.
type ArrayValues struct {
	Offsets  []uint32 // ArrayWithOffsets only; nil for Array
	Lengths  []uint32
	Elements any
}

// MapValues is the materialized shape of a Map/SlidingWindowMap column.
type MapValues struct {
	Lengths       []uint32
	WindowLengths []uint32 // SlidingWindowMap only; nil for Map
	Keys          any
	Values        any
}

func (r *Reader) materializeColumn(rc RequestedColumn, n int, batch *Batch) error {
	node, ok := schema.Find(r.root, rc.Path)
	if !ok {
		return fmt.Errorf("%w: column %v not found", errs.ErrSchemaMismatch, rc.Path)
	}
	name := pathKey(rc.Path)
	if _, done := batch.Columns[name]; done {
		return nil
	}

	return r.materializeNode(node, rc, name, n, batch)
}

func (r *Reader) materializeNode(node *schema.Node, rc RequestedColumn, name string, n int, batch *Batch) error {
	switch node.Kind {
	case schema.KindScalar:
		return r.materializeScalar(node, rc, name, n, batch)

	case schema.KindFlatMap:
		return r.materializeFlatMap(node, rc, name, n, batch)

	case schema.KindRow:
		return r.materializeRow(node, name, n, batch)

	case schema.KindArray:
		return r.materializeArray(node, name, n, batch)

	case schema.KindArrayWithOffsets:
		return r.materializeArrayWithOffsets(node, name, n, batch)

	case schema.KindMap:
		return r.materializeMap(node, name, n, batch)

	case schema.KindSlidingWindowMap:
		return r.materializeSlidingWindowMap(node, name, n, batch)

	default:
		return fmt.Errorf("%w: column %v kind %v not supported by this reader", errs.ErrSchemaMismatch, rc.Path, node.Kind)
	}
}

// materializeRow reads a Row's nulls stream and, for each scalar child,
// only the popcount(nulls) entries its value stream holds (§3: value
// streams never carry row positions, the same sparsity materializeFlatMap
// applies to flat-map feature subtrees). Nested non-scalar row fields are
// a supplemented feature left for a future pass.
func (r *Reader) materializeRow(node *schema.Node, name string, n int, batch *Batch) error {
	var rowPresent *bitio.BoolBitSet
	if nullsCol, ok := r.columns[node.NullsID]; ok {
		var err error
		rowPresent, err = materializeBoolBitmap(nullsCol, n)
		if err != nil {
			return err
		}
		batch.Presence[name] = rowPresent
	}

	popcount := n
	if rowPresent != nil {
		popcount = rowPresent.PopCount()
	}

	for _, c := range node.Children {
		if c.Kind != schema.KindScalar {
			continue
		}
		valCol, ok := r.columns[c.ValuesID]
		if !ok {
			continue
		}
		values, err := valCol.Materialize(popcount)
		if err != nil {
			return err
		}
		batch.Columns[name+"."+c.Name] = values
	}

	return nil
}

// scalarLengths materializes id as a []uint32 structural stream
// (lengths/offsets/window-lengths), returning the total it sums to.
func (r *Reader) scalarLengths(id schema.StreamID, n int) ([]uint32, int, error) {
	c, ok := r.columns[id]
	if !ok {
		return nil, 0, nil
	}
	values, err := c.Materialize(n)
	if err != nil {
		return nil, 0, err
	}
	lengths, ok := values.([]uint32)
	if !ok {
		return nil, 0, fmt.Errorf("%w: structural stream did not decode as uint32", errs.ErrMalformedEncoding)
	}
	total := 0
	for _, l := range lengths {
		total += int(l)
	}

	return lengths, total, nil
}

func (r *Reader) materializeElements(node *schema.Node, label string, total int) (any, error) {
	elementsBatch := &Batch{Columns: map[string]any{}, Presence: map[string]*bitio.BoolBitSet{}}
	if err := r.materializeNode(node, RequestedColumn{}, label, total, elementsBatch); err != nil {
		return nil, err
	}

	return elementsBatch.Columns[label], nil
}

func (r *Reader) materializeArray(node *schema.Node, name string, n int, batch *Batch) error {
	lengths, total, err := r.scalarLengths(node.LengthsID, n)
	if err != nil {
		return err
	}
	if lengths == nil {
		batch.Columns[name] = nil

		return nil
	}

	elements, err := r.materializeElements(node.Elements, name+".elements", total)
	if err != nil {
		return err
	}

	batch.Columns[name] = ArrayValues{Lengths: lengths, Elements: elements}

	return nil
}

func (r *Reader) materializeArrayWithOffsets(node *schema.Node, name string, n int, batch *Batch) error {
	offsets, _, err := r.scalarLengths(node.OffsetsID, n)
	if err != nil {
		return err
	}
	lengths, total, err := r.scalarLengths(node.LengthsID, n)
	if err != nil {
		return err
	}
	if lengths == nil {
		batch.Columns[name] = nil

		return nil
	}

	elements, err := r.materializeElements(node.Elements, name+".elements", total)
	if err != nil {
		return err
	}

	batch.Columns[name] = ArrayValues{Offsets: offsets, Lengths: lengths, Elements: elements}

	return nil
}

func (r *Reader) materializeMap(node *schema.Node, name string, n int, batch *Batch) error {
	lengths, total, err := r.scalarLengths(node.LengthsID, n)
	if err != nil {
		return err
	}
	if lengths == nil {
		batch.Columns[name] = nil

		return nil
	}

	keys, err := r.materializeElements(node.Keys, name+".keys", total)
	if err != nil {
		return err
	}
	values, err := r.materializeElements(node.Values_, name+".values", total)
	if err != nil {
		return err
	}

	batch.Columns[name] = MapValues{Lengths: lengths, Keys: keys, Values: values}

	return nil
}

func (r *Reader) materializeSlidingWindowMap(node *schema.Node, name string, n int, batch *Batch) error {
	lengths, total, err := r.scalarLengths(node.LengthsID, n)
	if err != nil {
		return err
	}
	if lengths == nil {
		batch.Columns[name] = nil

		return nil
	}
	windowLengths, _, err := r.scalarLengths(node.WindowLengths, n)
	if err != nil {
		return err
	}

	keys, err := r.materializeElements(node.Keys, name+".keys", total)
	if err != nil {
		return err
	}
	values, err := r.materializeElements(node.Values_, name+".values", total)
	if err != nil {
		return err
	}

	batch.Columns[name] = MapValues{Lengths: lengths, WindowLengths: windowLengths, Keys: keys, Values: values}

	return nil
}

func (r *Reader) materializeScalar(node *schema.Node, rc RequestedColumn, name string, n int, batch *Batch) error {
	c, ok := r.columns[node.ValuesID]
	if !ok {
		batch.Columns[name] = nil

		return nil
	}

	present := bitio.NewBoolBitSet(n)
	values, err := c.MaterializeWithPresence(n, present)
	if err != nil {
		return err
	}

	requested := rc.As
	if requested == 0 {
		requested = c.scalarKind()
	}
	cast, err := castSlice(c.scalarKind(), requested, values)
	if err != nil {
		return err
	}

	batch.Columns[name] = cast
	batch.Presence[name] = present

	return nil
}

func (r *Reader) materializeFlatMap(node *schema.Node, rc RequestedColumn, name string, n int, batch *Batch) error {
	selector, hasSelector := r.opts.FlatMapSelectors[name]

	nullsCol, ok := r.columns[node.NullsID]
	var rowPresent *bitio.BoolBitSet
	if ok {
		var err error
		rowPresent, err = materializeBoolBitmap(nullsCol, n)
		if err != nil {
			return err
		}
	}

	for i, key := range node.FeatureKeys {
		if hasSelector && !selector.keep(key) {
			continue
		}

		inMapCol, ok := r.columns[node.InMapIDs[i]]
		var inMap *bitio.BoolBitSet
		if ok {
			var err error
			inMap, err = materializeBoolBitmap(inMapCol, n)
			if err != nil {
				return err
			}
		}

		valueNode := node.FeatureNodes[i]
		if valueNode.Kind != schema.KindScalar {
			continue // nested flat-map value subtrees are a supplemented feature left for a future pass
		}
		valCol, ok := r.columns[valueNode.ValuesID]
		if !ok {
			continue
		}

		popcount := n
		if inMap != nil {
			popcount = inMap.PopCount()
		}
		values, err := valCol.Materialize(popcount)
		if err != nil {
			return err
		}

		fieldName := name + "." + key
		batch.Columns[fieldName] = values
		if inMap != nil {
			batch.Presence[fieldName] = inMap
		}
	}

	if rowPresent != nil {
		batch.Presence[name] = rowPresent
	}

	return nil
}

// materializeBoolBitmap reads n values from a presence-style bool column
// (a schema Row's nulls stream or a FlatMap's in-map stream) into a
// BoolBitSet.
func materializeBoolBitmap(c column, n int) (*bitio.BoolBitSet, error) {
	values, err := c.Materialize(n)
	if err != nil {
		return nil, err
	}
	bools, ok := values.([]bool)
	if !ok {
		return nil, fmt.Errorf("%w: presence stream did not decode as bool", errs.ErrMalformedEncoding)
	}

	bs := bitio.NewBoolBitSet(n)
	for i, b := range bools {
		bs.Set(i, b)
	}

	return bs, nil
}

func pathKey(path []string) string {
	out := path[0]
	for _, p := range path[1:] {
		out += "." + p
	}

	return out
}

// collectLeafStreamIDs returns every StreamID in the schema, in preorder,
// used to bulk-load a stripe's columns once per stripe open.
func collectLeafStreamIDs(root *schema.Node) []schema.StreamID {
	return schema.StreamIDs(root)
}

// leafScalarKind finds the ScalarKind of the schema node that owns
// streamID as its Values/Nulls/InMap descriptor, used to instantiate the
// right typedColumn[T].
func leafScalarKind(root *schema.Node, id schema.StreamID) (schema.ScalarKind, bool) {
	var found schema.ScalarKind
	var ok bool
	schema.Walk(root, func(n *schema.Node) {
		if ok {
			return
		}
		switch n.Kind {
		case schema.KindScalar:
			if n.ValuesID == id {
				found, ok = n.Scalar, true
			}
		case schema.KindRow, schema.KindFlatMap:
			if n.NullsID == id {
				found, ok = schema.ScalarBool, true
			}
			for _, in := range n.InMapIDs {
				if in == id {
					found, ok = schema.ScalarBool, true
				}
			}
		case schema.KindArray, schema.KindArrayWithOffsets:
			if n.LengthsID == id || n.OffsetsID == id {
				found, ok = schema.ScalarUint32, true
			}
		case schema.KindMap, schema.KindSlidingWindowMap:
			if n.LengthsID == id || n.WindowLengths == id {
				found, ok = schema.ScalarUint32, true
			}
		}
	})

	return found, ok
}
