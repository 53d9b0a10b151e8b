package encoding

import (
	"fmt"

	"github.com/nimblefmt/nimble/bitio"
	"github.com/nimblefmt/nimble/errs"
	"github.com/nimblefmt/nimble/format"
)

// MainlyConstantEncoding stores a common value, a bit-stream marking which
// rows hold it, and a nested encoding for the remaining rows' actual
// values (§4.1). It differs from Dictionary in that only one value is
// singled out, so the is-common bitmap is cheaper than an index stream
// when one value dominates.
type MainlyConstantEncoding[T any] struct {
	header     Header
	commonBits *bitio.BoolBitSet
	common     T
	other      Encoding[T]
	pos        int
}

var _ Encoding[int32] = (*MainlyConstantEncoding[int32])(nil)

// EncodeMainlyConstant encodes values against commonValue, routing the
// non-common subsequence through encodeOther.
func EncodeMainlyConstant[T comparable](values []T, commonValue T, encodeOther func([]T) ([]byte, error)) ([]byte, error) {
	bs := bitio.NewBoolBitSet(len(values))
	other := make([]T, 0, len(values))
	for i, v := range values {
		if v == commonValue {
			bs.Set(i, true)
		} else {
			other = append(other, v)
		}
	}

	commonPayload, err := encodeSingleValue(commonValue)
	if err != nil {
		return nil, err
	}
	otherPayload, err := encodeOther(other)
	if err != nil {
		return nil, err
	}

	dt, ok := dataTypeOf[T]()
	if !ok {
		return nil, fmt.Errorf("%w: MainlyConstant of unsupported type", errs.ErrUnsupportedDataType)
	}

	out := AppendHeader(make([]byte, 0, HeaderSize+len(bs.Bytes())+len(commonPayload)+len(otherPayload)), Header{
		Kind: format.EncodingMainlyConstant, DataType: dt, RowCount: uint32(len(values)),
	})
	out = append(out, bs.Bytes()...)
	out = append(out, commonPayload...)
	out = append(out, otherPayload...)

	return out, nil
}

// DecodeMainlyConstant parses a MainlyConstant payload.
func DecodeMainlyConstant[T any](header Header, payload []byte) (*MainlyConstantEncoding[T], int, error) {
	bitsLen := (int(header.RowCount) + 7) / 8
	if len(payload) < bitsLen {
		return nil, 0, fmt.Errorf("%w: MainlyConstant is-common bitmap truncated", errs.ErrMalformedEncoding)
	}
	commonBits := bitio.WrapBoolBitSet(payload[:bitsLen], int(header.RowCount))

	common, commonN, err := decodeSingleValue[T](header.DataType, payload[bitsLen:])
	if err != nil {
		return nil, 0, err
	}

	otherOff := bitsLen + commonN
	oh, on, err := ParseHeader(payload[otherOff:])
	if err != nil {
		return nil, 0, err
	}
	other, otherN, err := DecodeAny[T](oh, payload[otherOff+on:])
	if err != nil {
		return nil, 0, err
	}

	return &MainlyConstantEncoding[T]{
		header: header, commonBits: commonBits, common: common, other: other,
	}, otherOff + on + otherN, nil
}

func (e *MainlyConstantEncoding[T]) Header() Header { return e.header }

func (e *MainlyConstantEncoding[T]) Materialize(n int, out []T) error {
	if e.pos+n > int(e.header.RowCount) {
		return errs.ErrDecoderStateExhausted
	}
	for i := 0; i < n; i++ {
		if e.commonBits.Get(e.pos + i) {
			out[i] = e.common
			continue
		}
		if err := e.other.Materialize(1, out[i:i+1]); err != nil {
			return err
		}
	}
	e.pos += n

	return nil
}

func (e *MainlyConstantEncoding[T]) MaterializeNullable(n int, out []T, present *bitio.BoolBitSet) error {
	return materializeNullableDefault[T](e, n, out, present)
}

func (e *MainlyConstantEncoding[T]) Skip(n int) error {
	if e.pos+n > int(e.header.RowCount) {
		return errs.ErrDecoderStateExhausted
	}
	otherSkip := 0
	for i := 0; i < n; i++ {
		if !e.commonBits.Get(e.pos + i) {
			otherSkip++
		}
	}
	if otherSkip > 0 {
		if err := e.other.Skip(otherSkip); err != nil {
			return err
		}
	}
	e.pos += n

	return nil
}

func (e *MainlyConstantEncoding[T]) Reset() {
	e.other.Reset()
	e.pos = 0
}
