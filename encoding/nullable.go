package encoding

import (
	"fmt"

	"github.com/nimblefmt/nimble/bitio"
	"github.com/nimblefmt/nimble/errs"
	"github.com/nimblefmt/nimble/format"
)

// NullableEncoding wraps an inner encoding and a bit-stream of nulls
// (1 = present); the inner encoding's row count equals the number of
// non-null rows (§3, §4.1).
type NullableEncoding[T any] struct {
	header   Header
	nullBits *bitio.BoolBitSet
	inner    Encoding[T]
	pos      int // position in the nullable's own [0, RowCount) index space
}

var _ Encoding[int32] = (*NullableEncoding[int32])(nil)

// Decoder is the minimal decode entry point an inner encoding payload is
// parsed through; it lets Nullable, RLE, Dictionary, and MainlyConstant
// recurse into a sub-payload without each reimplementing dispatch. It is
// satisfied by DecodeAny.
type Decoder[T any] func(header Header, payload []byte) (Encoding[T], int, error)

// EncodeNullable encodes values with the given null mask (true = present)
// using innerEncode to encode only the non-null subsequence.
func EncodeNullable[T any](values []T, present []bool, innerEncode func([]T) ([]byte, error)) ([]byte, error) {
	if len(values) != len(present) {
		return nil, fmt.Errorf("%w: values/present length mismatch", errs.ErrMalformedEncoding)
	}

	bs := bitio.NewBoolBitSet(len(present))
	nonNull := make([]T, 0, len(values))
	for i, p := range present {
		bs.Set(i, p)
		if p {
			nonNull = append(nonNull, values[i])
		}
	}

	innerPayload, err := innerEncode(nonNull)
	if err != nil {
		return nil, err
	}

	dt, _ := dataTypeOf[T]()
	out := AppendHeader(make([]byte, 0, HeaderSize+len(bs.Bytes())+len(innerPayload)), Header{
		Kind: format.EncodingNullable, DataType: dt, RowCount: uint32(len(values)),
	})
	out = append(out, bs.Bytes()...)
	out = append(out, innerPayload...)

	return out, nil
}

// DecodeNullable parses a Nullable payload, recursing into the inner
// payload via decodeInner (ordinarily DecodeAny[T]), and returns the
// encoding plus the number of payload bytes it consumed.
func DecodeNullable[T any](header Header, payload []byte, decodeInner Decoder[T]) (*NullableEncoding[T], int, error) {
	nullBytes := (int(header.RowCount) + 7) / 8
	if len(payload) < nullBytes {
		return nil, 0, fmt.Errorf("%w: nullable null-bitmap truncated", errs.ErrMalformedEncoding)
	}
	nullBits := bitio.WrapBoolBitSet(payload[:nullBytes], int(header.RowCount))

	innerHeader, n, err := ParseHeader(payload[nullBytes:])
	if err != nil {
		return nil, 0, err
	}
	inner, innerN, err := decodeInner(innerHeader, payload[nullBytes+n:])
	if err != nil {
		return nil, 0, err
	}

	return &NullableEncoding[T]{header: header, nullBits: nullBits, inner: inner}, nullBytes + n + innerN, nil
}

func (e *NullableEncoding[T]) Header() Header { return e.header }

func (e *NullableEncoding[T]) Materialize(n int, out []T) error {
	if e.pos+n > int(e.header.RowCount) {
		return errs.ErrDecoderStateExhausted
	}
	for i := 0; i < n; i++ {
		if !e.nullBits.Get(e.pos + i) {
			continue
		}
		if err := e.inner.Materialize(1, out[i:i+1]); err != nil {
			return err
		}
	}
	e.pos += n

	return nil
}

func (e *NullableEncoding[T]) MaterializeNullable(n int, out []T, present *bitio.BoolBitSet) error {
	if e.pos+n > int(e.header.RowCount) {
		return errs.ErrDecoderStateExhausted
	}
	for i := 0; i < n; i++ {
		wantsValue := present.Get(i) && e.nullBits.Get(e.pos+i)
		if !e.nullBits.Get(e.pos + i) {
			continue // nothing to skip in inner: absent rows consume no inner value
		}
		if wantsValue {
			if err := e.inner.Materialize(1, out[i:i+1]); err != nil {
				return err
			}
		} else if err := e.inner.Skip(1); err != nil {
			return err
		}
	}
	e.pos += n

	return nil
}

func (e *NullableEncoding[T]) Skip(n int) error {
	if e.pos+n > int(e.header.RowCount) {
		return errs.ErrDecoderStateExhausted
	}
	innerSkip := 0
	for i := 0; i < n; i++ {
		if e.nullBits.Get(e.pos + i) {
			innerSkip++
		}
	}
	if innerSkip > 0 {
		if err := e.inner.Skip(innerSkip); err != nil {
			return err
		}
	}
	e.pos += n

	return nil
}

func (e *NullableEncoding[T]) Reset() {
	e.inner.Reset()
	e.pos = 0
}
