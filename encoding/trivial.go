package encoding

import (
	"fmt"

	"github.com/nimblefmt/nimble/bitio"
	"github.com/nimblefmt/nimble/endian"
	"github.com/nimblefmt/nimble/errs"
	"github.com/nimblefmt/nimble/format"
)

// fixedCodec describes how a fixed-width scalar type is packed LE on the
// wire. It is resolved once, at construction, via a type switch on T's zero
// value — the one point in this package where a runtime type switch
// substitutes for a compile-time specialization Go generics cannot express
// (bit-pattern reinterpretation differs per numeric kind).
type fixedCodec[T any] struct {
	width int
	put   func(buf []byte, v T)
	get   func(buf []byte) T
}

func resolveFixedCodec[T any]() (fixedCodec[T], format.DataType, bool) {
	e := endian.GetLittleEndianEngine()
	var zero T

	switch any(zero).(type) {
	case int8:
		return fixedCodec[T]{1,
			func(b []byte, v T) { b[0] = byte(any(v).(int8)) },
			func(b []byte) T { return any(int8(b[0])).(T) },
		}, format.DataTypeInt8, true
	case uint8:
		return fixedCodec[T]{1,
			func(b []byte, v T) { b[0] = any(v).(uint8) },
			func(b []byte) T { return any(b[0]).(T) },
		}, format.DataTypeUint8, true
	case int16:
		return fixedCodec[T]{2,
			func(b []byte, v T) { e.PutUint16(b, uint16(any(v).(int16))) },
			func(b []byte) T { return any(int16(e.Uint16(b))).(T) },
		}, format.DataTypeInt16, true
	case uint16:
		return fixedCodec[T]{2,
			func(b []byte, v T) { e.PutUint16(b, any(v).(uint16)) },
			func(b []byte) T { return any(e.Uint16(b)).(T) },
		}, format.DataTypeUint16, true
	case int32:
		return fixedCodec[T]{4,
			func(b []byte, v T) { e.PutUint32(b, uint32(any(v).(int32))) },
			func(b []byte) T { return any(int32(e.Uint32(b))).(T) },
		}, format.DataTypeInt32, true
	case uint32:
		return fixedCodec[T]{4,
			func(b []byte, v T) { e.PutUint32(b, any(v).(uint32)) },
			func(b []byte) T { return any(e.Uint32(b)).(T) },
		}, format.DataTypeUint32, true
	case int64:
		return fixedCodec[T]{8,
			func(b []byte, v T) { e.PutUint64(b, uint64(any(v).(int64))) },
			func(b []byte) T { return any(int64(e.Uint64(b))).(T) },
		}, format.DataTypeInt64, true
	case uint64:
		return fixedCodec[T]{8,
			func(b []byte, v T) { e.PutUint64(b, any(v).(uint64)) },
			func(b []byte) T { return any(e.Uint64(b)).(T) },
		}, format.DataTypeUint64, true
	case float32:
		return fixedCodec[T]{4,
			func(b []byte, v T) { e.PutUint32(b, float32bits(any(v).(float32))) },
			func(b []byte) T { return any(float32frombits(e.Uint32(b))).(T) },
		}, format.DataTypeFloat32, true
	case float64:
		return fixedCodec[T]{8,
			func(b []byte, v T) { e.PutUint64(b, float64bits(any(v).(float64))) },
			func(b []byte) T { return any(float64frombits(e.Uint64(b))).(T) },
		}, format.DataTypeFloat64, true
	default:
		return fixedCodec[T]{}, 0, false
	}
}

// TrivialEncoding stores row_count values directly (§4.1): fixed-width
// scalars LE-packed, booleans bit-packed LSB-first, strings/binaries as a
// recursive u32 lengths encoding followed by concatenated bytes.
type TrivialEncoding[T any] struct {
	header Header
	pos    int

	// fixed-width path
	codec   fixedCodec[T]
	isFixed bool
	fixed   []byte

	// bool path
	isBool bool
	bits   *bitio.BoolBitSet

	// string/binary path
	isVar   bool
	lengths Encoding[uint32]
	blob    []byte
	offsets []int // cumulative byte offsets into blob, len = RowCount+1, built in DecodeTrivial
}

var _ Encoding[int32] = (*TrivialEncoding[int32])(nil)

// EncodeTrivialFixed encodes a slice of fixed-width scalar values; a
// []bool is encoded bit-packed, as EncodeTrivialBool does.
func EncodeTrivialFixed[T any](values []T) ([]byte, error) {
	if bs, ok := any(values).([]bool); ok {
		return EncodeTrivialBool(bs), nil
	}

	codec, dt, ok := resolveFixedCodec[T]()
	if !ok {
		return nil, fmt.Errorf("%w: type has no fixed-width trivial codec", errs.ErrUnsupportedDataType)
	}

	out := AppendHeader(make([]byte, 0, HeaderSize+len(values)*codec.width), Header{
		Kind: format.EncodingTrivial, DataType: dt, RowCount: uint32(len(values)),
	})
	start := len(out)
	out = append(out, make([]byte, len(values)*codec.width)...)
	for i, v := range values {
		codec.put(out[start+i*codec.width:], v)
	}

	return out, nil
}

// EncodeTrivialBool encodes a slice of bool values, LSB-first bit-packed.
func EncodeTrivialBool(values []bool) []byte {
	bs := bitio.NewBoolBitSet(len(values))
	for i, v := range values {
		bs.Set(i, v)
	}

	out := AppendHeader(make([]byte, 0, HeaderSize+len(bs.Bytes())), Header{
		Kind: format.EncodingTrivial, DataType: format.DataTypeBool, RowCount: uint32(len(values)),
	})

	return append(out, bs.Bytes()...)
}

// EncodeTrivialVar encodes a slice of strings or a slice of []byte as a
// recursive u32 lengths encoding followed by the concatenated payload
// bytes.
func EncodeTrivialVar(values [][]byte, binary bool) ([]byte, error) {
	lengths := make([]uint32, len(values))
	total := 0
	for i, v := range values {
		lengths[i] = uint32(len(v))
		total += len(v)
	}

	lenPayload, err := EncodeTrivialFixed(lengths)
	if err != nil {
		return nil, err
	}

	dt := format.DataTypeString
	if binary {
		dt = format.DataTypeBinary
	}

	out := AppendHeader(make([]byte, 0, HeaderSize+len(lenPayload)+total), Header{
		Kind: format.EncodingTrivial, DataType: dt, RowCount: uint32(len(values)),
	})
	out = append(out, lenPayload...)
	for _, v := range values {
		out = append(out, v...)
	}

	return out, nil
}

// DecodeTrivial parses a Trivial payload into a TrivialEncoding[T],
// returning the encoding and the number of payload bytes it consumed.
func DecodeTrivial[T any](header Header, payload []byte) (*TrivialEncoding[T], int, error) {
	e := &TrivialEncoding[T]{header: header}

	switch header.DataType {
	case format.DataTypeBool:
		expect := (int(header.RowCount) + 7) / 8
		if len(payload) < expect {
			return nil, 0, fmt.Errorf("%w: trivial bool payload too short", errs.ErrMalformedEncoding)
		}
		e.isBool = true
		e.bits = bitio.WrapBoolBitSet(payload[:expect], int(header.RowCount))

		return e, expect, nil

	case format.DataTypeString, format.DataTypeBinary:
		lh, n, err := ParseHeader(payload)
		if err != nil {
			return nil, 0, err
		}
		lengths, lenN, err := DecodeTrivial[uint32](lh, payload[n:])
		if err != nil {
			return nil, 0, err
		}
		lenPayloadSize := n + lenN

		allLens := make([]uint32, header.RowCount)
		if err := lengths.Materialize(int(header.RowCount), allLens); err != nil {
			return nil, 0, err
		}
		lengths.Reset()

		offsets := make([]int, header.RowCount+1)
		for i, l := range allLens {
			offsets[i+1] = offsets[i] + int(l)
		}
		blobLen := offsets[len(offsets)-1]
		if len(payload) < lenPayloadSize+blobLen {
			return nil, 0, fmt.Errorf("%w: trivial var-length blob truncated", errs.ErrMalformedEncoding)
		}

		e.isVar = true
		e.lengths = lengths
		e.offsets = offsets
		e.blob = payload[lenPayloadSize : lenPayloadSize+blobLen]

		return e, lenPayloadSize + blobLen, nil

	default:
		codec, _, ok := resolveFixedCodec[T]()
		if !ok {
			return nil, 0, fmt.Errorf("%w: no fixed codec for requested type", errs.ErrUnsupportedDataType)
		}
		expect := int(header.RowCount) * codec.width
		if len(payload) < expect {
			return nil, 0, fmt.Errorf("%w: trivial fixed payload too short", errs.ErrMalformedEncoding)
		}
		e.isFixed = true
		e.codec = codec
		e.fixed = payload[:expect]

		return e, expect, nil
	}
}

func (e *TrivialEncoding[T]) Header() Header { return e.header }

func (e *TrivialEncoding[T]) Materialize(n int, out []T) error {
	if e.pos+n > int(e.header.RowCount) {
		return errs.ErrDecoderStateExhausted
	}

	switch {
	case e.isFixed:
		for i := 0; i < n; i++ {
			out[i] = e.codec.get(e.fixed[(e.pos+i)*e.codec.width:])
		}
	case e.isBool:
		for i := 0; i < n; i++ {
			out[i] = any(e.bits.Get(e.pos + i)).(T)
		}
	case e.isVar:
		for i := 0; i < n; i++ {
			idx := e.pos + i
			b := e.blob[e.offsets[idx]:e.offsets[idx+1]]
			if e.header.DataType == format.DataTypeString {
				out[i] = any(string(b)).(T)
			} else {
				out[i] = any(append([]byte(nil), b...)).(T)
			}
		}
	}
	e.pos += n

	return nil
}

func (e *TrivialEncoding[T]) MaterializeNullable(n int, out []T, present *bitio.BoolBitSet) error {
	return materializeNullableDefault[T](e, n, out, present)
}

func (e *TrivialEncoding[T]) Skip(n int) error {
	if e.pos+n > int(e.header.RowCount) {
		return errs.ErrDecoderStateExhausted
	}
	e.pos += n

	return nil
}

func (e *TrivialEncoding[T]) Reset() { e.pos = 0 }
