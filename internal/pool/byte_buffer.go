package pool

import "io"

// ByteBuffer is a growable []byte wrapper whose growth is driven by a
// pluggable GrowthPolicy (§4.6) rather than a hard-coded rule, so the same
// buffer type backs both small per-chunk payloads and large stripe
// accumulation buffers.
type ByteBuffer struct {
	B      []byte
	policy GrowthPolicy
}

// NewByteBuffer creates a ByteBuffer with the given default size and growth
// policy. A nil policy falls back to DefaultBufferGrowthPolicy.
func NewByteBuffer(defaultSize int, policy GrowthPolicy) *ByteBuffer {
	if policy == nil {
		policy = DefaultBufferGrowthPolicy()
	}

	return &ByteBuffer{
		B:      make([]byte, 0, defaultSize),
		policy: policy,
	}
}

// Bytes returns the underlying byte slice. The slice is valid until the
// next Write/Grow/Reset call.
func (bb *ByteBuffer) Bytes() []byte { return bb.B }

// Reset empties the buffer but retains its capacity for reuse.
func (bb *ByteBuffer) Reset() { bb.B = bb.B[:0] }

// Len returns the number of bytes currently held.
func (bb *ByteBuffer) Len() int { return len(bb.B) }

// Cap returns the buffer's current capacity.
func (bb *ByteBuffer) Cap() int { return cap(bb.B) }

// MustWrite appends data, growing the buffer if necessary.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.Grow(len(data))
	bb.B = append(bb.B, data...)
}

// Slice returns B[start:end]. It panics on out-of-range indices.
func (bb *ByteBuffer) Slice(start, end int) []byte {
	if start < 0 || end < start || end > cap(bb.B) {
		panic("pool.ByteBuffer.Slice: invalid indices")
	}

	return bb.B[start:end]
}

// SetLength sets len(B) to n without reallocating; n must not exceed cap(B).
func (bb *ByteBuffer) SetLength(n int) {
	if n < 0 || n > cap(bb.B) {
		panic("pool.ByteBuffer.SetLength: invalid length")
	}
	bb.B = bb.B[:n]
}

// Extend grows len(B) by n bytes in place, returning false if there is not
// enough spare capacity to do so without reallocating.
func (bb *ByteBuffer) Extend(n int) bool {
	curLen := len(bb.B)
	if cap(bb.B)-curLen < n {
		return false
	}
	bb.B = bb.B[:curLen+n]

	return true
}

// ExtendOrGrow extends the buffer by n bytes, reallocating via the growth
// policy first if there is not enough spare capacity.
func (bb *ByteBuffer) ExtendOrGrow(n int) {
	if bb.Extend(n) {
		return
	}

	start := len(bb.B)
	bb.Grow(n)
	bb.B = bb.B[:start+n]
}

// Grow ensures the buffer can hold requiredBytes more bytes without a
// further reallocation, consulting the configured GrowthPolicy.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	available := cap(bb.B) - len(bb.B)
	if available >= requiredBytes {
		return
	}

	newCap := bb.policy.Grow(len(bb.B)+requiredBytes, cap(bb.B))
	newBuf := make([]byte, len(bb.B), newCap)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// Write implements io.Writer.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.MustWrite(data)
	return len(data), nil
}

// WriteTo implements io.WriterTo.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}
