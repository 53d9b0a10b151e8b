package encoding

import (
	"fmt"

	"github.com/nimblefmt/nimble/bitio"
	"github.com/nimblefmt/nimble/endian"
	"github.com/nimblefmt/nimble/errs"
	"github.com/nimblefmt/nimble/format"
)

// intConv resolves T <-> int64 conversions for the integer scalar kinds
// FixedBitPacked supports, the same runtime-type-switch trick trivial.go
// uses for fixed-width byte packing.
type intConv[T any] struct {
	toInt64   func(T) int64
	fromInt64 func(int64) T
	dataType  format.DataType
}

func resolveIntConv[T any]() (intConv[T], bool) {
	var zero T
	switch any(zero).(type) {
	case int8:
		return intConv[T]{func(v T) int64 { return int64(any(v).(int8)) }, func(i int64) T { return any(int8(i)).(T) }, format.DataTypeInt8}, true
	case uint8:
		return intConv[T]{func(v T) int64 { return int64(any(v).(uint8)) }, func(i int64) T { return any(uint8(i)).(T) }, format.DataTypeUint8}, true
	case int16:
		return intConv[T]{func(v T) int64 { return int64(any(v).(int16)) }, func(i int64) T { return any(int16(i)).(T) }, format.DataTypeInt16}, true
	case uint16:
		return intConv[T]{func(v T) int64 { return int64(any(v).(uint16)) }, func(i int64) T { return any(uint16(i)).(T) }, format.DataTypeUint16}, true
	case int32:
		return intConv[T]{func(v T) int64 { return int64(any(v).(int32)) }, func(i int64) T { return any(int32(i)).(T) }, format.DataTypeInt32}, true
	case uint32:
		return intConv[T]{func(v T) int64 { return int64(any(v).(uint32)) }, func(i int64) T { return any(uint32(i)).(T) }, format.DataTypeUint32}, true
	case int64:
		return intConv[T]{func(v T) int64 { return any(v).(int64) }, func(i int64) T { return any(i).(T) }, format.DataTypeInt64}, true
	case uint64:
		return intConv[T]{func(v T) int64 { return int64(any(v).(uint64)) }, func(i int64) T { return any(uint64(i)).(T) }, format.DataTypeUint64}, true
	default:
		return intConv[T]{}, false
	}
}

// FixedBitPackedEncoding stores integers with k = ceil(log2(max+1)) bits
// per value, plus a base offset carried in the payload (§4.1). It is the
// recursion's base case for integer sub-streams alongside Trivial.
type FixedBitPackedEncoding[T any] struct {
	header Header
	conv   intConv[T]
	base   int64
	width  int
	reader *bitio.BitReader
	raw    []byte // retained so Reset can rebuild the reader
	pos    int
}

var _ Encoding[int32] = (*FixedBitPackedEncoding[int32])(nil)

// EncodeFixedBitPacked encodes values using the minimum bit width that
// covers max(values)-min(values), base-shifted to min(values).
func EncodeFixedBitPacked[T any](values []T) ([]byte, error) {
	conv, ok := resolveIntConv[T]()
	if !ok {
		return nil, fmt.Errorf("%w: FixedBitPacked requires an integer scalar type", errs.ErrUnsupportedDataType)
	}

	var base int64
	if len(values) > 0 {
		base = conv.toInt64(values[0])
		for _, v := range values[1:] {
			if iv := conv.toInt64(v); iv < base {
				base = iv
			}
		}
	}

	var maxDelta uint64
	for _, v := range values {
		d := uint64(conv.toInt64(v) - base)
		if d > maxDelta {
			maxDelta = d
		}
	}
	width := bitio.BitsRequired(maxDelta)

	w := bitio.NewBitWriter(width)
	for _, v := range values {
		w.Write(uint64(conv.toInt64(v) - base))
	}
	packed := w.Flush()

	out := AppendHeader(make([]byte, 0, HeaderSize+9+len(packed)), Header{
		Kind: format.EncodingFixedBitPacked, DataType: conv.dataType, RowCount: uint32(len(values)),
	})
	out = append(out, byte(width))
	out = appendInt64(out, base)
	out = append(out, packed...)

	return out, nil
}

func appendInt64(buf []byte, v int64) []byte {
	return endian.GetLittleEndianEngine().AppendUint64(buf, uint64(v))
}

// DecodeFixedBitPacked parses a FixedBitPacked payload, returning the
// encoding and the number of payload bytes it consumed.
func DecodeFixedBitPacked[T any](header Header, payload []byte) (*FixedBitPackedEncoding[T], int, error) {
	conv, ok := resolveIntConv[T]()
	if !ok {
		return nil, 0, fmt.Errorf("%w: FixedBitPacked requires an integer scalar type", errs.ErrUnsupportedDataType)
	}
	if len(payload) < 9 {
		return nil, 0, fmt.Errorf("%w: FixedBitPacked payload too short for k/base", errs.ErrMalformedEncoding)
	}

	width := int(payload[0])
	base := int64(endian.GetLittleEndianEngine().Uint64(payload[1:9]))

	expect := bitio.PackedByteLen(int(header.RowCount), width)
	if len(payload)-9 < expect {
		return nil, 0, fmt.Errorf("%w: FixedBitPacked packed payload too short", errs.ErrMalformedEncoding)
	}
	raw := payload[9 : 9+expect]

	return &FixedBitPackedEncoding[T]{
		header: header,
		conv:   conv,
		base:   base,
		width:  width,
		raw:    raw,
		reader: bitio.NewBitReader(raw, width),
	}, 9 + expect, nil
}

func (e *FixedBitPackedEncoding[T]) Header() Header { return e.header }

func (e *FixedBitPackedEncoding[T]) Materialize(n int, out []T) error {
	if e.pos+n > int(e.header.RowCount) {
		return errs.ErrDecoderStateExhausted
	}
	for i := 0; i < n; i++ {
		delta := int64(e.reader.Read())
		out[i] = e.conv.fromInt64(e.base + delta)
	}
	e.pos += n

	return nil
}

func (e *FixedBitPackedEncoding[T]) MaterializeNullable(n int, out []T, present *bitio.BoolBitSet) error {
	return materializeNullableDefault[T](e, n, out, present)
}

func (e *FixedBitPackedEncoding[T]) Skip(n int) error {
	if e.pos+n > int(e.header.RowCount) {
		return errs.ErrDecoderStateExhausted
	}
	e.reader.Skip(n)
	e.pos += n

	return nil
}

func (e *FixedBitPackedEncoding[T]) Reset() {
	e.reader = bitio.NewBitReader(e.raw, e.width)
	e.pos = 0
}
