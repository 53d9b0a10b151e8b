package writer

import (
	"testing"

	"github.com/nimblefmt/nimble/flush"
	"github.com/nimblefmt/nimble/format"
	"github.com/nimblefmt/nimble/reader"
	"github.com/nimblefmt/nimble/schema"
	"github.com/stretchr/testify/require"
)

func buildRootSchema() *schema.Node {
	root := schema.NewRow("root", schema.NewScalar("a", schema.ScalarInt32))
	schema.Allocate(root)

	return root
}

func TestWriter_RoundTripThroughReader(t *testing.T) {
	root := buildRootSchema()

	w := New(root, Options{
		Compression:  format.CompressionUncompressed,
		ChecksumKind: format.ChecksumXxHash64,
		FlushPolicy:  flush.NewRowCountFlushPolicy(1<<30, 5),
	})

	require.NoError(t, w.Write([]ColumnBatch{
		{Path: []string{"a"}, Values: []int32{1, 2, 3, 4, 5}},
	}))
	require.NoError(t, w.Write([]ColumnBatch{
		{Path: []string{"a"}, Values: []int32{6, 7, 8}},
	}))

	file, err := w.Close()
	require.NoError(t, err)

	r, err := reader.Open(file, reader.Options{Columns: []reader.RequestedColumn{{Path: []string{"a"}}}})
	require.NoError(t, err)
	require.Equal(t, int64(8), r.RangeRowCount())

	batch, err := r.Next(100)
	require.NoError(t, err)
	require.Equal(t, 5, batch.Len)
	require.Equal(t, []int32{1, 2, 3, 4, 5}, batch.Columns["a"])

	batch, err = r.Next(100)
	require.NoError(t, err)
	require.Equal(t, 3, batch.Len)
	require.Equal(t, []int32{6, 7, 8}, batch.Columns["a"])
}

func TestWriter_NullableColumn(t *testing.T) {
	root := buildRootSchema()
	w := New(root, Options{Compression: format.CompressionUncompressed})

	require.NoError(t, w.Write([]ColumnBatch{
		{Path: []string{"a"}, Values: []int32{1, 0, 3}, Present: []bool{true, false, true}},
	}))

	file, err := w.Close()
	require.NoError(t, err)

	r, err := reader.Open(file, reader.Options{Columns: []reader.RequestedColumn{{Path: []string{"a"}}}})
	require.NoError(t, err)

	batch, err := r.Next(3)
	require.NoError(t, err)
	require.Equal(t, []int32{1, 0, 3}, batch.Columns["a"])
	require.True(t, batch.Presence["a"].Get(0))
	require.False(t, batch.Presence["a"].Get(1))
	require.True(t, batch.Presence["a"].Get(2))
}
