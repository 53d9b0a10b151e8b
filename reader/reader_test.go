package reader

import (
	"testing"

	"github.com/nimblefmt/nimble/encoding"
	"github.com/nimblefmt/nimble/format"
	"github.com/nimblefmt/nimble/schema"
	"github.com/nimblefmt/nimble/stream"
	"github.com/nimblefmt/nimble/stripe"
	"github.com/stretchr/testify/require"
)

func buildSimpleFile(t *testing.T, rowsPerStripe []int) []byte {
	root := schema.NewRow("root", schema.NewScalar("a", schema.ScalarInt8))
	schema.Allocate(root)

	w := stripe.NewWriter(root, format.ChecksumNone, format.CompressionUncompressed)
	for _, rc := range rowsPerStripe {
		values := make([]int8, rc)
		for i := range values {
			values[i] = int8(i)
		}

		nullsVals := make([]bool, rc)
		for i := range nullsVals {
			nullsVals[i] = true
		}
		nullsPayload, err := encoding.EncodeTrivialFixed(nullsVals)
		require.NoError(t, err)

		aPayload, err := encoding.EncodeTrivialFixed(values)
		require.NoError(t, err)

		sw0 := stream.NewWriter(format.CompressionUncompressed)
		require.NoError(t, sw0.WriteChunk(nullsPayload, rc))
		sw1 := stream.NewWriter(format.CompressionUncompressed)
		require.NoError(t, sw1.WriteChunk(aPayload, rc))

		w.WriteStripe(stripe.StripeStreams{
			Bytes: map[schema.StreamID][]byte{
				0: sw0.Bytes(),
				1: sw1.Bytes(),
			},
			Compression: map[schema.StreamID]format.CompressionKind{
				0: format.CompressionUncompressed,
				1: format.CompressionUncompressed,
			},
			StreamCount: 2,
			RowCount:    int64(rc),
		})
	}

	file, err := w.Close()
	require.NoError(t, err)

	return file
}

// buildFlatMapFile builds a single-stripe file with one flat-map column
// "m" holding two int32 features, "x" and "y". "x" is present on rows
// {0, 2, 4} (3 of rc rows) and "y" is present on every row, exercising the
// sparse value stream §9 describes: x's value stream holds only 3
// entries even though the stripe has rc rows.
func buildFlatMapFile(t *testing.T, rc int) (*schema.Node, []byte) {
	root := schema.NewRow("root",
		schema.NewFlatMap("m"))
	m := root.Children[0]
	m.AddFeature("x", schema.NewScalar("x", schema.ScalarInt32))
	m.AddFeature("y", schema.NewScalar("y", schema.ScalarInt32))
	schema.Allocate(root)

	rowNulls := make([]bool, rc)
	xInMap := make([]bool, rc)
	yInMap := make([]bool, rc)
	var xVals, yVals []int32
	for i := 0; i < rc; i++ {
		rowNulls[i] = true
		yInMap[i] = true
		yVals = append(yVals, int32(i*10))
		if i%2 == 0 {
			xInMap[i] = true
			xVals = append(xVals, int32(i))
		}
	}

	nullsPayload := encoding.EncodeTrivialBool(rowNulls)
	xInMapPayload := encoding.EncodeTrivialBool(xInMap)
	yInMapPayload := encoding.EncodeTrivialBool(yInMap)
	xValsPayload, err := encoding.EncodeTrivialFixed(xVals)
	require.NoError(t, err)
	yValsPayload, err := encoding.EncodeTrivialFixed(yVals)
	require.NoError(t, err)

	streamWriter := func(payload []byte, n int) []byte {
		sw := stream.NewWriter(format.CompressionUncompressed)
		require.NoError(t, sw.WriteChunk(payload, n))
		return sw.Bytes()
	}

	xValuesID := m.FeatureNodes[0].ValuesID
	yValuesID := m.FeatureNodes[1].ValuesID

	w := stripe.NewWriter(root, format.ChecksumNone, format.CompressionUncompressed)
	w.WriteStripe(stripe.StripeStreams{
		Bytes: map[schema.StreamID][]byte{
			m.NullsID:     streamWriter(nullsPayload, rc),
			m.InMapIDs[0]: streamWriter(xInMapPayload, rc),
			xValuesID:     streamWriter(xValsPayload, len(xVals)),
			m.InMapIDs[1]: streamWriter(yInMapPayload, rc),
			yValuesID:     streamWriter(yValsPayload, len(yVals)),
		},
		Compression: map[schema.StreamID]format.CompressionKind{
			m.NullsID:     format.CompressionUncompressed,
			m.InMapIDs[0]: format.CompressionUncompressed,
			xValuesID:     format.CompressionUncompressed,
			m.InMapIDs[1]: format.CompressionUncompressed,
			yValuesID:     format.CompressionUncompressed,
		},
		StreamCount: 6,
		RowCount:    int64(rc),
	})

	file, err := w.Close()
	require.NoError(t, err)

	return root, file
}

func TestReader_FlatMapSkipRespectsSparsity(t *testing.T) {
	const rc = 6
	_, file := buildFlatMapFile(t, rc)

	r, err := Open(file, Options{Columns: []RequestedColumn{{Path: []string{"m"}}}})
	require.NoError(t, err)

	// Skip the first 4 rows (x present on rows 0 and 2, 2 of 4; y present
	// on all 4). The remaining 2 rows are {4, 5}: x present only on 4.
	skipped, err := r.SkipRows(4)
	require.NoError(t, err)
	require.Equal(t, int64(4), skipped)

	batch, err := r.Next(2)
	require.NoError(t, err)
	require.Equal(t, 2, batch.Len)

	xVals, ok := batch.Columns["m.x"].([]int32)
	require.True(t, ok)
	require.Equal(t, []int32{4}, xVals)

	yVals, ok := batch.Columns["m.y"].([]int32)
	require.True(t, ok)
	require.Equal(t, []int32{40, 50}, yVals)
}

func TestReader_NextStopsAtStripeBoundary(t *testing.T) {
	file := buildSimpleFile(t, []int{10, 10, 10})

	r, err := Open(file, Options{Columns: []RequestedColumn{{Path: []string{"a"}}}})
	require.NoError(t, err)

	require.NoError(t, r.SeekToRow(15))
	batch, err := r.Next(10)
	require.NoError(t, err)
	require.Equal(t, 5, batch.Len)

	batch, err = r.Next(10)
	require.NoError(t, err)
	require.Equal(t, 10, batch.Len)

	skipped, err := r.SkipRows(100)
	require.NoError(t, err)
	require.Equal(t, int64(0), skipped)
}

func TestReader_RangeRead(t *testing.T) {
	file := buildSimpleFile(t, []int{10, 10, 10})

	// Use stripe 1's byte offset as the range end, so the range admits
	// only stripe 0.
	full, err := Open(file, Options{})
	require.NoError(t, err)
	_ = full

	tab, err := stripe.Open(file)
	require.NoError(t, err)
	end := tab.StripeOffset(1)

	r, err := Open(file, Options{RangeStart: 0, RangeEnd: end, Columns: []RequestedColumn{{Path: []string{"a"}}}})
	require.NoError(t, err)

	require.Equal(t, int64(10), r.RangeRowCount())

	require.NoError(t, r.SeekToRow(20))
	batch, err := r.Next(1000)
	require.NoError(t, err)
	require.Equal(t, 0, batch.Len)
}

func TestReader_UpCast(t *testing.T) {
	file := buildSimpleFile(t, []int{5})

	r, err := Open(file, Options{Columns: []RequestedColumn{{Path: []string{"a"}, As: schema.ScalarInt64}}})
	require.NoError(t, err)

	batch, err := r.Next(5)
	require.NoError(t, err)
	vals, ok := batch.Columns["a"].([]int64)
	require.True(t, ok)
	require.Equal(t, []int64{0, 1, 2, 3, 4}, vals)
}

func TestReader_InvalidUpCast(t *testing.T) {
	file := buildSimpleFile(t, []int{5})

	r, err := Open(file, Options{Columns: []RequestedColumn{{Path: []string{"a"}, As: schema.ScalarString}}})
	require.NoError(t, err)

	_, err = r.Next(5)
	require.Error(t, err)
}
