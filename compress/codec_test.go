package compress

import (
	"testing"

	"github.com/nimblefmt/nimble/format"
	"github.com/stretchr/testify/require"
)

func TestNoOpCompressor_RoundTrip(t *testing.T) {
	c := NewNoOpCompressor()
	data := []byte("some stream payload bytes")

	compressed, err := c.Compress(data)
	require.NoError(t, err)

	decompressed, err := c.Decompress(compressed)
	require.NoError(t, err)
	require.Equal(t, data, decompressed)
}

func TestZstdCompressor_RoundTrip(t *testing.T) {
	c := NewZstdCompressor()
	data := make([]byte, 4096)
	for i := range data {
		data[i] = byte(i % 7)
	}

	compressed, err := c.Compress(data)
	require.NoError(t, err)
	require.Less(t, len(compressed), len(data))

	decompressed, err := c.Decompress(compressed)
	require.NoError(t, err)
	require.Equal(t, data, decompressed)
}

func TestZstdCompressor_EmptyData(t *testing.T) {
	c := NewZstdCompressor()

	decompressed, err := c.Decompress(nil)
	require.NoError(t, err)
	require.Nil(t, decompressed)
}

func TestCreateCodec(t *testing.T) {
	codec, err := CreateCodec(format.CompressionUncompressed, "test-stream")
	require.NoError(t, err)
	require.IsType(t, NoOpCompressor{}, codec)

	codec, err = CreateCodec(format.CompressionZstd, "test-stream")
	require.NoError(t, err)
	require.IsType(t, ZstdCompressor{}, codec)

	_, err = CreateCodec(format.CompressionMetaInternal, "test-stream")
	require.Error(t, err)

	_, err = CreateCodec(format.CompressionKind(0xFF), "test-stream")
	require.Error(t, err)
}

func TestGetCodec(t *testing.T) {
	_, err := GetCodec(format.CompressionZstd)
	require.NoError(t, err)

	_, err = GetCodec(format.CompressionMetaInternal)
	require.Error(t, err)
}

func TestMetaInternalCodec_Unavailable(t *testing.T) {
	c := NewMetaInternalCodec()

	_, err := c.Compress([]byte("x"))
	require.ErrorIs(t, err, ErrMetaInternalUnavailable)

	_, err = c.Decompress([]byte("x"))
	require.ErrorIs(t, err, ErrMetaInternalUnavailable)
}

func TestCompressionStats(t *testing.T) {
	s := CompressionStats{OriginalSize: 1000, CompressedSize: 250}
	require.InDelta(t, 0.25, s.CompressionRatio(), 0.0001)
	require.InDelta(t, 75.0, s.SpaceSavings(), 0.0001)
}
