package writer

import (
	"testing"

	"github.com/nimblefmt/nimble/format"
	"github.com/nimblefmt/nimble/reader"
	"github.com/nimblefmt/nimble/schema"
	"github.com/stretchr/testify/require"
)

func TestWriter_RowWithNulls(t *testing.T) {
	root := schema.NewRow("root",
		schema.NewScalar("a", schema.ScalarInt32),
		schema.NewRow("r", schema.NewScalar("x", schema.ScalarInt32)),
	)
	schema.Allocate(root)

	w := New(root, Options{Compression: format.CompressionUncompressed})
	require.NoError(t, w.Write([]ColumnBatch{
		{Path: []string{"a"}, Values: []int32{1, 2, 3}},
		{Path: []string{"r"}, Values: RowBatch{
			Present: []bool{true, false, true},
			Fields: map[string]FieldBatch{
				"x": {Values: []int32{10, 30}},
			},
		}},
	}))

	file, err := w.Close()
	require.NoError(t, err)

	r, err := reader.Open(file, reader.Options{Columns: []reader.RequestedColumn{
		{Path: []string{"r"}},
		{Path: []string{"r", "x"}},
	}})
	require.NoError(t, err)

	batch, err := r.Next(3)
	require.NoError(t, err)
	require.True(t, batch.Presence["r"].Get(0))
	require.False(t, batch.Presence["r"].Get(1))
	require.True(t, batch.Presence["r"].Get(2))
	require.Equal(t, []int32{10, 30}, batch.Columns["r.x"])
}

func TestWriter_FlatMapThroughWriter(t *testing.T) {
	m := schema.NewFlatMap("m")
	m.AddFeature("x", schema.NewScalar("m.x", schema.ScalarInt32))
	m.AddFeature("y", schema.NewScalar("m.y", schema.ScalarInt32))
	root := schema.NewRow("root", m)
	schema.Allocate(root)

	w := New(root, Options{
		Compression:    format.CompressionUncompressed,
		FlatMapColumns: map[string]bool{"m": true},
	})

	require.NoError(t, w.Write([]ColumnBatch{
		{Path: []string{"m"}, Values: FlatMapBatch{
			Features: map[string]FlatMapFeatureBatch{
				"x": {
					InMap:  []bool{true, false, true, false, true, false},
					Values: FieldBatch{Values: []int32{0, 2, 4}},
				},
				"y": {
					Values: FieldBatch{Values: []int32{10, 20, 30, 40, 50, 60}},
				},
			},
		}},
	}))

	file, err := w.Close()
	require.NoError(t, err)

	r, err := reader.Open(file, reader.Options{Columns: []reader.RequestedColumn{
		{Path: []string{"m"}},
	}})
	require.NoError(t, err)

	skipped, err := r.SkipRows(4)
	require.NoError(t, err)
	require.Equal(t, int64(4), skipped)

	batch, err := r.Next(2)
	require.NoError(t, err)
	require.Equal(t, []int32{4}, batch.Columns["m.x"])
	require.Equal(t, []int32{50, 60}, batch.Columns["m.y"])
}

func TestWriter_FlatMapColumnsRejectsUndeclared(t *testing.T) {
	m := schema.NewFlatMap("m")
	m.AddFeature("x", schema.NewScalar("m.x", schema.ScalarInt32))
	root := schema.NewRow("root", m)
	schema.Allocate(root)

	w := New(root, Options{
		Compression:    format.CompressionUncompressed,
		FlatMapColumns: map[string]bool{"other": true},
	})

	err := w.Write([]ColumnBatch{
		{Path: []string{"m"}, Values: FlatMapBatch{
			Features: map[string]FlatMapFeatureBatch{
				"x": {Values: FieldBatch{Values: []int32{1}}},
			},
		}},
	})
	require.Error(t, err)
}

func TestWriter_ArrayThroughWriter(t *testing.T) {
	root := schema.NewRow("root",
		schema.NewArray("tags", schema.NewScalar("tags.elements", schema.ScalarInt32)),
	)
	schema.Allocate(root)

	w := New(root, Options{Compression: format.CompressionUncompressed})
	require.NoError(t, w.Write([]ColumnBatch{
		{Path: []string{"tags"}, Values: ArrayBatch{
			Lengths:  []uint32{2, 0, 3},
			Elements: FieldBatch{Values: []int32{1, 2, 10, 20, 30}},
		}},
	}))

	file, err := w.Close()
	require.NoError(t, err)

	r, err := reader.Open(file, reader.Options{Columns: []reader.RequestedColumn{{Path: []string{"tags"}}}})
	require.NoError(t, err)

	batch, err := r.Next(3)
	require.NoError(t, err)
	av, ok := batch.Columns["tags"].(reader.ArrayValues)
	require.True(t, ok)
	require.Equal(t, []uint32{2, 0, 3}, av.Lengths)
	require.Equal(t, []int32{1, 2, 10, 20, 30}, av.Elements)
}

func TestWriter_ArraySkipRespectsLengths(t *testing.T) {
	root := schema.NewRow("root",
		schema.NewArray("tags", schema.NewScalar("tags.elements", schema.ScalarInt32)),
	)
	schema.Allocate(root)

	w := New(root, Options{Compression: format.CompressionUncompressed})
	require.NoError(t, w.Write([]ColumnBatch{
		{Path: []string{"tags"}, Values: ArrayBatch{
			Lengths:  []uint32{2, 1, 3, 0},
			Elements: FieldBatch{Values: []int32{1, 2, 3, 10, 20, 30}},
		}},
	}))

	file, err := w.Close()
	require.NoError(t, err)

	r, err := reader.Open(file, reader.Options{Columns: []reader.RequestedColumn{{Path: []string{"tags"}}}})
	require.NoError(t, err)

	skipped, err := r.SkipRows(2)
	require.NoError(t, err)
	require.Equal(t, int64(2), skipped)

	batch, err := r.Next(2)
	require.NoError(t, err)
	av, ok := batch.Columns["tags"].(reader.ArrayValues)
	require.True(t, ok)
	require.Equal(t, []uint32{3, 0}, av.Lengths)
	require.Equal(t, []int32{10, 20, 30}, av.Elements)
}

func TestWriter_MapThroughWriter(t *testing.T) {
	root := schema.NewRow("root",
		schema.NewMap("attrs", schema.NewScalar("attrs.keys", schema.ScalarString), schema.NewScalar("attrs.values", schema.ScalarInt32)),
	)
	schema.Allocate(root)

	w := New(root, Options{Compression: format.CompressionUncompressed})
	require.NoError(t, w.Write([]ColumnBatch{
		{Path: []string{"attrs"}, Values: MapBatch{
			Lengths: []uint32{1, 2},
			Keys:    FieldBatch{Values: []string{"a", "b", "c"}},
			Values:  FieldBatch{Values: []int32{1, 2, 3}},
		}},
	}))

	file, err := w.Close()
	require.NoError(t, err)

	r, err := reader.Open(file, reader.Options{Columns: []reader.RequestedColumn{{Path: []string{"attrs"}}}})
	require.NoError(t, err)

	batch, err := r.Next(2)
	require.NoError(t, err)
	mv, ok := batch.Columns["attrs"].(reader.MapValues)
	require.True(t, ok)
	require.Equal(t, []uint32{1, 2}, mv.Lengths)
	require.Equal(t, []string{"a", "b", "c"}, mv.Keys)
	require.Equal(t, []int32{1, 2, 3}, mv.Values)
}

func TestWriter_ArrayWithOffsetsThroughWriter(t *testing.T) {
	root := schema.NewRow("root",
		schema.NewArrayWithOffsets("hist", schema.NewScalar("hist.elements", schema.ScalarFloat64)),
	)
	schema.Allocate(root)

	w := New(root, Options{Compression: format.CompressionUncompressed})
	require.NoError(t, w.Write([]ColumnBatch{
		{Path: []string{"hist"}, Values: ArrayWithOffsetsBatch{
			Offsets:  []uint32{0, 2},
			Lengths:  []uint32{2, 1},
			Elements: FieldBatch{Values: []float64{1.5, 2.5, 3.5}},
		}},
	}))

	file, err := w.Close()
	require.NoError(t, err)

	r, err := reader.Open(file, reader.Options{Columns: []reader.RequestedColumn{{Path: []string{"hist"}}}})
	require.NoError(t, err)

	batch, err := r.Next(2)
	require.NoError(t, err)
	av, ok := batch.Columns["hist"].(reader.ArrayValues)
	require.True(t, ok)
	require.Equal(t, []uint32{0, 2}, av.Offsets)
	require.Equal(t, []uint32{2, 1}, av.Lengths)
	require.Equal(t, []float64{1.5, 2.5, 3.5}, av.Elements)
}

func TestWriter_DictionaryArrayColumnsForcesDictionaryEncoding(t *testing.T) {
	root := schema.NewRow("root",
		schema.NewArray("tags", schema.NewScalar("tags.elements", schema.ScalarInt32)),
	)
	schema.Allocate(root)

	arr, ok := root.FindChild("tags")
	require.True(t, ok)

	w := New(root, Options{
		Compression:            format.CompressionUncompressed,
		DictionaryArrayColumns: map[string]bool{"tags": true},
	})
	require.Equal(t, format.EncodingDictionary, w.hintFor(arr.Elements.ValuesID).Kind)
}
