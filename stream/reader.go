package stream

import (
	"github.com/nimblefmt/nimble/bitio"
	"github.com/nimblefmt/nimble/encoding"
	"github.com/nimblefmt/nimble/errs"
)

// Reader materializes and skips values across a stream's chunk sequence,
// decoding one chunk's encoding at a time and releasing it once exhausted
// (§4.2: chunks are the unit of partial materialization).
type Reader[T any] struct {
	raw     []byte
	chunks  *ChunkReader
	current encoding.Encoding[T]
	// remaining counts down how many values are left in the current
	// chunk's encoding, so Skip/Materialize know when to advance.
	remaining int
}

// NewReader creates a Reader over a stream's raw framed chunk bytes.
func NewReader[T any](raw []byte) *Reader[T] {
	return &Reader[T]{raw: raw, chunks: NewChunkReader(raw)}
}

// advance moves to the next non-empty chunk, decoding its encoding. It
// returns false once the stream is exhausted.
func (r *Reader[T]) advance() (bool, error) {
	for {
		ok, err := r.chunks.Next()
		if err != nil {
			return false, err
		}
		if !ok {
			r.current = nil
			r.remaining = 0
			return false, nil
		}

		payload := r.chunks.Payload()
		header, n, err := encoding.ParseHeader(payload)
		if err != nil {
			return false, err
		}
		enc, _, err := encoding.DecodeAny[T](header, payload[n:])
		if err != nil {
			return false, err
		}
		if header.RowCount == 0 {
			continue
		}

		r.current = enc
		r.remaining = int(header.RowCount)

		return true, nil
	}
}

// Materialize writes the next n logical values into out, crossing chunk
// boundaries transparently.
func (r *Reader[T]) Materialize(n int, out []T) error {
	off := 0
	for off < n {
		if r.remaining == 0 {
			ok, err := r.advance()
			if err != nil {
				return err
			}
			if !ok {
				return errs.ErrDecoderStateExhausted
			}
		}
		take := n - off
		if take > r.remaining {
			take = r.remaining
		}
		if err := r.current.Materialize(take, out[off:off+take]); err != nil {
			return err
		}
		off += take
		r.remaining -= take
	}

	return nil
}

// MaterializeNullable mirrors Materialize but only fills positions where
// present.Get(i) is true, crossing chunk boundaries transparently.
func (r *Reader[T]) MaterializeNullable(n int, out []T, present *bitio.BoolBitSet) error {
	off := 0
	for off < n {
		if r.remaining == 0 {
			ok, err := r.advance()
			if err != nil {
				return err
			}
			if !ok {
				return errs.ErrDecoderStateExhausted
			}
		}
		take := n - off
		if take > r.remaining {
			take = r.remaining
		}
		if err := r.current.MaterializeNullable(take, out[off:off+take], windowBitSet(present, off, take)); err != nil {
			return err
		}
		off += take
		r.remaining -= take
	}

	return nil
}

// MaterializeWithPresence materializes the next n values into out and
// records which were non-null into present, crossing chunk boundaries
// transparently. Encodings other than Nullable never produce nulls, so
// the corresponding bits of present come back all true.
func (r *Reader[T]) MaterializeWithPresence(n int, out []T, present *bitio.BoolBitSet) error {
	off := 0
	for off < n {
		if r.remaining == 0 {
			ok, err := r.advance()
			if err != nil {
				return err
			}
			if !ok {
				return errs.ErrDecoderStateExhausted
			}
		}
		take := n - off
		if take > r.remaining {
			take = r.remaining
		}
		sub := bitio.NewBoolBitSet(take)
		if err := encoding.MaterializeWithPresence(r.current, take, out[off:off+take], sub); err != nil {
			return err
		}
		for i := 0; i < take; i++ {
			present.Set(off+i, sub.Get(i))
		}
		off += take
		r.remaining -= take
	}

	return nil
}

// windowBitSet returns a BoolBitSet view over present's bits [off, off+n).
func windowBitSet(present *bitio.BoolBitSet, off, n int) *bitio.BoolBitSet {
	w := bitio.NewBoolBitSet(n)
	for i := 0; i < n; i++ {
		w.Set(i, present.Get(off+i))
	}

	return w
}

// Skip advances position by n values without materializing them, crossing
// chunk boundaries transparently.
func (r *Reader[T]) Skip(n int) error {
	off := 0
	for off < n {
		if r.remaining == 0 {
			ok, err := r.advance()
			if err != nil {
				return err
			}
			if !ok {
				return errs.ErrDecoderStateExhausted
			}
		}
		take := n - off
		if take > r.remaining {
			take = r.remaining
		}
		if err := r.current.Skip(take); err != nil {
			return err
		}
		off += take
		r.remaining -= take
	}

	return nil
}

// Reset returns the reader to the beginning of the stream's chunk
// sequence.
func (r *Reader[T]) Reset() {
	r.chunks = NewChunkReader(r.raw)
	r.current = nil
	r.remaining = 0
}
