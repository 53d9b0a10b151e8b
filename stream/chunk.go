// Package stream implements the chunked stream abstraction of §4.2: a
// stream's byte span is a concatenation of self-describing chunks, each
// framed by a 4-byte length and a 2-byte chunk header, the payload itself
// being an encoding.Header-prefixed value encoding (§4.1). A ChunkWriter
// accumulates chunks for one stream during a stripe's write; a ChunkReader
// iterates them lazily on read, decoding only the current chunk.
package stream

import (
	"fmt"

	"github.com/nimblefmt/nimble/compress"
	"github.com/nimblefmt/nimble/endian"
	"github.com/nimblefmt/nimble/errs"
	"github.com/nimblefmt/nimble/format"
	"github.com/nimblefmt/nimble/internal/pool"
)

// FrameHeaderSize is the fixed per-chunk framing overhead: a u32 LE length
// followed by a 2-byte chunk header (compression kind + reserved flags).
const FrameHeaderSize = 6

// ChunkWriter accumulates one stream's chunks as they are flushed,
// compressing each payload independently before framing it (§4.2, §4.7:
// a stripe flush finalizes every stream's pending chunk). Its backing
// buffer is drawn from the shared memory pool (§5) so repeated stream
// writers reuse capacity instead of reallocating from scratch.
type ChunkWriter struct {
	compression format.CompressionKind
	buf         *pool.ByteBuffer
	chunkCount  int
}

// NewChunkWriter creates a ChunkWriter that compresses every chunk payload
// with the given compression kind.
func NewChunkWriter(compression format.CompressionKind) *ChunkWriter {
	return &ChunkWriter{compression: compression, buf: pool.Default().GetByteBuffer()}
}

// AppendChunk compresses payload (an already-encoded value stream, i.e.
// encoding.Header plus its body) and appends it as one framed chunk.
func (w *ChunkWriter) AppendChunk(payload []byte) error {
	codec, err := compress.CreateCodec(w.compression, "chunk")
	if err != nil {
		return err
	}

	compressed, err := codec.Compress(payload)
	if err != nil {
		return fmt.Errorf("%w: chunk compression failed: %v", errs.ErrIO, err)
	}

	var header [6]byte
	endian.GetLittleEndianEngine().PutUint32(header[:4], uint32(len(compressed)))
	header[4] = byte(w.compression)
	header[5] = 0

	w.buf.MustWrite(header[:])
	w.buf.MustWrite(compressed)
	w.chunkCount++

	return nil
}

// Bytes returns the concatenated framed chunks written so far.
func (w *ChunkWriter) Bytes() []byte { return w.buf.Bytes() }

// ChunkCount returns the number of chunks appended so far.
func (w *ChunkWriter) ChunkCount() int { return w.chunkCount }

// Reset clears the writer for reuse against a new stream.
func (w *ChunkWriter) Reset() {
	w.buf.Reset()
	w.chunkCount = 0
}

// chunkFrame is one parsed, still-compressed chunk within a stream's byte
// span.
type chunkFrame struct {
	compression format.CompressionKind
	payload     []byte
}

// ChunkReader iterates a stream's chunks lazily: it holds only the
// decompressed bytes of the current chunk, decoding the next one on
// demand as Next advances (§4.2).
type ChunkReader struct {
	raw []byte // remaining framed bytes not yet parsed into a frame
	cur chunkFrame
	ok  bool
}

// NewChunkReader creates a ChunkReader over a stream's raw framed bytes.
func NewChunkReader(raw []byte) *ChunkReader {
	return &ChunkReader{raw: raw}
}

// Next advances to the next chunk, decompressing its payload. It returns
// false once every chunk has been consumed.
func (r *ChunkReader) Next() (bool, error) {
	if len(r.raw) == 0 {
		r.ok = false
		return false, nil
	}
	if len(r.raw) < FrameHeaderSize {
		return false, fmt.Errorf("%w: chunk frame header truncated", errs.ErrMalformedFile)
	}

	length := endian.GetLittleEndianEngine().Uint32(r.raw[:4])
	if uint32(len(r.raw)-FrameHeaderSize) < length {
		return false, fmt.Errorf("%w: chunk frame payload truncated", errs.ErrMalformedFile)
	}
	compression := format.CompressionKind(r.raw[4])
	compressedPayload := r.raw[FrameHeaderSize : FrameHeaderSize+length]
	r.raw = r.raw[FrameHeaderSize+length:]

	codec, err := compress.CreateCodec(compression, "chunk")
	if err != nil {
		return false, err
	}
	payload, err := codec.Decompress(compressedPayload)
	if err != nil {
		return false, fmt.Errorf("%w: chunk decompression failed: %v", errs.ErrIO, err)
	}

	r.cur = chunkFrame{compression: compression, payload: payload}
	r.ok = true

	return true, nil
}

// Payload returns the current chunk's decompressed payload; valid only
// after a call to Next returned true.
func (r *ChunkReader) Payload() []byte { return r.cur.payload }

// Done reports whether the reader has no current chunk (either exhausted
// or never advanced).
func (r *ChunkReader) Done() bool { return !r.ok }
