package stream

import (
	"testing"

	"github.com/nimblefmt/nimble/bitio"
	"github.com/nimblefmt/nimble/encoding"
	"github.com/nimblefmt/nimble/format"
	"github.com/stretchr/testify/require"
)

func TestChunkWriterReader_RoundTrip(t *testing.T) {
	w := NewChunkWriter(format.CompressionUncompressed)

	payload1, err := encoding.EncodeTrivialFixed([]int32{1, 2, 3})
	require.NoError(t, err)
	payload2, err := encoding.EncodeTrivialFixed([]int32{4, 5})
	require.NoError(t, err)

	require.NoError(t, w.AppendChunk(payload1))
	require.NoError(t, w.AppendChunk(payload2))
	require.Equal(t, 2, w.ChunkCount())

	r := NewChunkReader(w.Bytes())

	ok, err := r.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, payload1, r.Payload())

	ok, err = r.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, payload2, r.Payload())

	ok, err = r.Next()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestReader_MaterializeAcrossChunkBoundary(t *testing.T) {
	sw := NewWriter(format.CompressionUncompressed)

	p1, err := encoding.EncodeTrivialFixed([]int32{1, 2, 3})
	require.NoError(t, err)
	require.NoError(t, sw.WriteChunk(p1, 3))

	p2, err := encoding.EncodeTrivialFixed([]int32{4, 5})
	require.NoError(t, err)
	require.NoError(t, sw.WriteChunk(p2, 2))

	r := NewReader[int32](sw.Bytes())
	out := make([]int32, 5)
	require.NoError(t, r.Materialize(5, out))
	require.Equal(t, []int32{1, 2, 3, 4, 5}, out)
}

func TestReader_SkipAcrossChunkBoundary(t *testing.T) {
	sw := NewWriter(format.CompressionUncompressed)

	p1, err := encoding.EncodeTrivialFixed([]int32{1, 2, 3})
	require.NoError(t, err)
	require.NoError(t, sw.WriteChunk(p1, 3))

	p2, err := encoding.EncodeTrivialFixed([]int32{4, 5})
	require.NoError(t, err)
	require.NoError(t, sw.WriteChunk(p2, 2))

	r := NewReader[int32](sw.Bytes())
	require.NoError(t, r.Skip(4))
	out := make([]int32, 1)
	require.NoError(t, r.Materialize(1, out))
	require.Equal(t, []int32{5}, out)
}

func TestReader_ZstdCompressedChunk(t *testing.T) {
	sw := NewWriter(format.CompressionZstd)

	values := make([]int32, 500)
	for i := range values {
		values[i] = int32(i % 10)
	}
	p, err := encoding.EncodeTrivialFixed(values)
	require.NoError(t, err)
	require.NoError(t, sw.WriteChunk(p, len(values)))

	r := NewReader[int32](sw.Bytes())
	out := make([]int32, len(values))
	require.NoError(t, r.Materialize(len(values), out))
	require.Equal(t, values, out)
}

func TestReader_MaterializeWithPresence(t *testing.T) {
	sw := NewWriter(format.CompressionUncompressed)

	p, err := encoding.EncodeNullable([]int32{1, 0, 3}, []bool{true, false, true}, encoding.EncodeTrivialFixed[int32])
	require.NoError(t, err)
	require.NoError(t, sw.WriteChunk(p, 3))

	r := NewReader[int32](sw.Bytes())
	out := make([]int32, 3)
	present := bitio.NewBoolBitSet(3)
	require.NoError(t, r.MaterializeWithPresence(3, out, present))

	require.Equal(t, []int32{1, 0, 3}, out)
	require.True(t, present.Get(0))
	require.False(t, present.Get(1))
	require.True(t, present.Get(2))
}
