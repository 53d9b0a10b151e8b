package encoding

import (
	"fmt"

	"github.com/nimblefmt/nimble/bitio"
	"github.com/nimblefmt/nimble/errs"
	"github.com/nimblefmt/nimble/format"
)

// ConstantEncoding stores a single value; materialize fills every
// requested slot with it (§4.1). It is the degenerate recursion base case
// for a sub-stream that happens to be uniform (e.g. every string in a
// dictionary alphabet column being empty).
type ConstantEncoding[T any] struct {
	header Header
	value  T
	pos    int
}

var _ Encoding[int32] = (*ConstantEncoding[int32])(nil)

// EncodeConstant encodes rowCount repetitions of value.
func EncodeConstant[T any](value T, rowCount int) ([]byte, error) {
	payload, err := encodeSingleValue(value)
	if err != nil {
		return nil, err
	}

	dt, ok := dataTypeOf[T]()
	if !ok {
		return nil, fmt.Errorf("%w: constant encoding of unsupported type", errs.ErrUnsupportedDataType)
	}

	out := AppendHeader(make([]byte, 0, HeaderSize+len(payload)), Header{
		Kind: format.EncodingConstant, DataType: dt, RowCount: uint32(rowCount),
	})

	return append(out, payload...), nil
}

// DecodeConstant parses a Constant payload, returning the encoding and the
// number of payload bytes it consumed.
func DecodeConstant[T any](header Header, payload []byte) (*ConstantEncoding[T], int, error) {
	value, n, err := decodeSingleValue[T](header.DataType, payload)
	if err != nil {
		return nil, 0, err
	}

	return &ConstantEncoding[T]{header: header, value: value}, n, nil
}

func (e *ConstantEncoding[T]) Header() Header { return e.header }

func (e *ConstantEncoding[T]) Materialize(n int, out []T) error {
	if e.pos+n > int(e.header.RowCount) {
		return errs.ErrDecoderStateExhausted
	}
	for i := 0; i < n; i++ {
		out[i] = e.value
	}
	e.pos += n

	return nil
}

func (e *ConstantEncoding[T]) MaterializeNullable(n int, out []T, present *bitio.BoolBitSet) error {
	return materializeNullableDefault[T](e, n, out, present)
}

func (e *ConstantEncoding[T]) Skip(n int) error {
	if e.pos+n > int(e.header.RowCount) {
		return errs.ErrDecoderStateExhausted
	}
	e.pos += n

	return nil
}

func (e *ConstantEncoding[T]) Reset() { e.pos = 0 }
