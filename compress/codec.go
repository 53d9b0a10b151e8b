package compress

import (
	"fmt"

	"github.com/nimblefmt/nimble/format"
)

// Compressor compresses a stream chunk's payload or the footer bytes
// before they are written to a tablet (§4.3, §6).
type Compressor interface {
	// Compress compresses data and returns the compressed result.
	// Implementations do not modify data; the result may share memory with
	// data (the no-op codec returns data itself).
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor. Implementations must validate that
// data was actually produced by their own algorithm and return an error
// otherwise rather than silently returning garbage.
type Decompressor interface {
	// Decompress decompresses data and returns the original bytes.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions of one compression algorithm.
type Codec interface {
	Compressor
	Decompressor
}

// CompressionStats describes one compression operation, useful for a CLI's
// `nimbledump content` report or a writer's flush-time bookkeeping.
type CompressionStats struct {
	Algorithm           format.CompressionKind
	OriginalSize        int64
	CompressedSize      int64
	CompressionTimeNs   int64
	DecompressionTimeNs int64
}

// CompressionRatio returns CompressedSize/OriginalSize; values below 1.0
// indicate the data shrank.
func (s CompressionStats) CompressionRatio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the space saved as a percentage (0-100).
func (s CompressionStats) SpaceSavings() float64 {
	return (1.0 - s.CompressionRatio()) * 100.0
}

// CreateCodec builds a Codec for the given CompressionKind. target names
// the caller's context (e.g. a stream identifier) for the error message.
func CreateCodec(kind format.CompressionKind, target string) (Codec, error) {
	switch kind {
	case format.CompressionUncompressed:
		return NewNoOpCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionMetaInternal:
		return nil, fmt.Errorf("%s: MetaInternal compression has no portable implementation", target)
	default:
		return nil, fmt.Errorf("%s: invalid compression kind %s", target, kind)
	}
}

var builtinCodecs = map[format.CompressionKind]Codec{
	format.CompressionUncompressed: NewNoOpCompressor(),
	format.CompressionZstd:         NewZstdCompressor(),
}

// GetCodec retrieves a built-in Codec for kind, one of the two portable
// compression kinds (MetaInternal is excluded: see CreateCodec).
func GetCodec(kind format.CompressionKind) (Codec, error) {
	if codec, ok := builtinCodecs[kind]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression kind: %s", kind)
}
