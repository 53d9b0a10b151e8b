package stream

import "github.com/nimblefmt/nimble/format"

// Writer accumulates encoded value payloads for one schema stream as
// individual chunks, to be concatenated into the stream's byte span at
// stripe flush time (§4.2, §4.7).
type Writer struct {
	chunks *ChunkWriter
	rows   int
}

// NewWriter creates a Writer using the given chunk compression kind.
func NewWriter(compression format.CompressionKind) *Writer {
	return &Writer{chunks: NewChunkWriter(compression)}
}

// WriteChunk appends one already-encoded value payload (encoding.Header
// plus body) as a new chunk, recording its row count for bookkeeping.
func (w *Writer) WriteChunk(payload []byte, rowCount int) error {
	if err := w.chunks.AppendChunk(payload); err != nil {
		return err
	}
	w.rows += rowCount

	return nil
}

// Bytes returns the stream's full byte span: every written chunk, framed
// and concatenated in order.
func (w *Writer) Bytes() []byte { return w.chunks.Bytes() }

// RowCount returns the total number of rows written across every chunk.
func (w *Writer) RowCount() int { return w.rows }

// ChunkCount returns the number of chunks written so far.
func (w *Writer) ChunkCount() int { return w.chunks.ChunkCount() }

// Reset clears the writer for reuse against a new stripe.
func (w *Writer) Reset() {
	w.chunks.Reset()
	w.rows = 0
}
