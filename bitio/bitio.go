// Package bitio provides the bit/byte primitives nimble's encodings build
// on (§4, leaf component): little-endian fixed-width scalar I/O, a
// bit-packed array of k-bit values, bit-set iteration over a
// packed boolean array, and length-prefixed string I/O, generalized to
// support arbitrary bit widths.
package bitio

import (
	"math/bits"

	"github.com/nimblefmt/nimble/endian"
)

// BitsRequired returns ceil(log2(max+1)), the number of bits needed to
// represent every unsigned integer in [0, max] — the k used by
// FixedBitPacked (§4.1). BitsRequired(0) is 0: a column of all-zero values
// needs no bits at all.
func BitsRequired(max uint64) int {
	if max == 0 {
		return 0
	}

	return bits.Len64(max)
}

// PutString appends a u32-LE length prefix followed by s's bytes, the
// length-prefixed string format used by the Trivial string/binary encoding
// and metadata key/value pairs (§4.1, §6).
func PutString(buf []byte, s string) []byte {
	buf = endian.GetLittleEndianEngine().AppendUint32(buf, uint32(len(s)))
	return append(buf, s...)
}

// GetString reads a u32-LE length prefix followed by that many bytes,
// returning the string and the number of bytes consumed. It reports false
// if buf is too short to contain the declared length.
func GetString(buf []byte) (s string, n int, ok bool) {
	if len(buf) < 4 {
		return "", 0, false
	}
	length := int(endian.GetLittleEndianEngine().Uint32(buf[:4]))
	if len(buf) < 4+length {
		return "", 0, false
	}

	return string(buf[4 : 4+length]), 4 + length, true
}

// BitWriter packs fixed-width k-bit unsigned values into a byte slice,
// LSB-first within each byte. Flush pads the final byte with zero bits and
// does not pad to a machine word. This is the layout FixedBitPacked relies on.
type BitWriter struct {
	buf    []byte
	cur    uint64
	curLen int // bits currently buffered in cur, < 64
	width  int // bits per value
}

// NewBitWriter creates a BitWriter packing values of the given bit width.
// width must be in [0, 64]; width 0 is legal and simply packs nothing
// (used for an all-zero-max column where BitsRequired returned 0).
func NewBitWriter(width int) *BitWriter {
	return &BitWriter{width: width}
}

// Write packs one value, using only its low `width` bits.
func (w *BitWriter) Write(v uint64) {
	if w.width == 0 {
		return
	}

	w.cur |= (v & widthMask(w.width)) << w.curLen
	w.curLen += w.width

	for w.curLen >= 8 {
		w.buf = append(w.buf, byte(w.cur))
		w.cur >>= 8
		w.curLen -= 8
	}
}

// Flush pads any partially-filled trailing byte with zero bits and returns
// the packed buffer. The BitWriter must not be reused after Flush.
func (w *BitWriter) Flush() []byte {
	if w.curLen > 0 {
		w.buf = append(w.buf, byte(w.cur))
		w.cur = 0
		w.curLen = 0
	}

	return w.buf
}

// BitReader unpacks fixed-width k-bit unsigned values from a byte slice
// written by BitWriter.
type BitReader struct {
	buf    []byte
	pos    int // next byte to consume
	cur    uint64
	curLen int
	width  int
}

// NewBitReader creates a BitReader over buf for values of the given bit
// width.
func NewBitReader(buf []byte, width int) *BitReader {
	return &BitReader{buf: buf, width: width}
}

// Read unpacks the next value. It panics if the underlying buffer is
// exhausted; callers must track the declared row count themselves (every
// encoding header carries one, §4.1).
func (r *BitReader) Read() uint64 {
	if r.width == 0 {
		return 0
	}

	for r.curLen < r.width {
		r.cur |= uint64(r.buf[r.pos]) << r.curLen
		r.pos++
		r.curLen += 8
	}

	v := r.cur & widthMask(r.width)
	r.cur >>= r.width
	r.curLen -= r.width

	return v
}

// Skip advances n values without unpacking them.
func (r *BitReader) Skip(n int) {
	for i := 0; i < n; i++ {
		r.Read()
	}
}

func widthMask(width int) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}

	return (uint64(1) << width) - 1
}

// PackedByteLen returns the number of bytes needed to pack count values of
// the given bit width.
func PackedByteLen(count, width int) int {
	return (count*width + 7) / 8
}

// BoolBitSet wraps a packed, LSB-first bit array of booleans (one bit per
// row), the representation used for Trivial bool storage, Nullable's null
// bitmap, MainlyConstant's is-common bitmap, and flat-map in-map streams.
type BoolBitSet struct {
	buf []byte
	n   int
}

// NewBoolBitSet allocates a BoolBitSet able to hold n bits, all initially
// clear.
func NewBoolBitSet(n int) *BoolBitSet {
	return &BoolBitSet{buf: make([]byte, (n+7)/8), n: n}
}

// WrapBoolBitSet views an existing packed byte slice as a BoolBitSet of n
// bits without copying.
func WrapBoolBitSet(buf []byte, n int) *BoolBitSet {
	return &BoolBitSet{buf: buf, n: n}
}

// Len returns the number of bits in the set.
func (s *BoolBitSet) Len() int { return s.n }

// Bytes returns the underlying packed byte slice.
func (s *BoolBitSet) Bytes() []byte { return s.buf }

// Get returns the bit at index i.
func (s *BoolBitSet) Get(i int) bool {
	return s.buf[i/8]&(1<<(uint(i)%8)) != 0
}

// Set sets or clears the bit at index i.
func (s *BoolBitSet) Set(i int, v bool) {
	byteIdx, bitIdx := i/8, uint(i)%8
	if v {
		s.buf[byteIdx] |= 1 << bitIdx
	} else {
		s.buf[byteIdx] &^= 1 << bitIdx
	}
}

// PopCount returns the number of set bits in [0, n).
func (s *BoolBitSet) PopCount() int {
	count := 0
	fullBytes := s.n / 8
	for i := 0; i < fullBytes; i++ {
		count += bits.OnesCount8(s.buf[i])
	}
	for i := fullBytes * 8; i < s.n; i++ {
		if s.Get(i) {
			count++
		}
	}

	return count
}

// Each calls fn(i, bit) for every index in [0, n) in order. It is the
// primary iteration primitive used to compute value-stream skip counts
// from an in-map or null bitmap (§9, flat-map sparsity).
func (s *BoolBitSet) Each(fn func(i int, bit bool)) {
	for i := 0; i < s.n; i++ {
		fn(i, s.Get(i))
	}
}
