package encoding

import (
	"fmt"

	"github.com/nimblefmt/nimble/bitio"
	"github.com/nimblefmt/nimble/errs"
	"github.com/nimblefmt/nimble/format"
)

// SparseBoolEncoding stores a dominant bool value plus the row indices
// that hold the opposite value (§4.1). It is bool-specific: unlike
// MainlyConstant, the common value itself costs nothing extra to store
// since there are only two possibilities.
//
// Open question resolved: indices name the positions holding the LESS
// common value (the minority), which is what makes the encoding sparse in
// the first place; a column that is mostly true stores the positions of
// its false rows, and vice versa.
type SparseBoolEncoding struct {
	header      Header
	commonValue bool
	indices     Encoding[uint32]

	nextException int
	hasException  bool
	exceptionIdx  uint32
	pos           int
}

var _ Encoding[bool] = (*SparseBoolEncoding)(nil)

// EncodeSparseBool encodes a bool slice, storing the minority value's row
// indices via encodeIndices (ordinarily FixedBitPacked).
func EncodeSparseBool(values []bool, encodeIndices func([]uint32) ([]byte, error)) ([]byte, error) {
	trueCount := 0
	for _, v := range values {
		if v {
			trueCount++
		}
	}
	common := trueCount*2 >= len(values)

	indices := make([]uint32, 0, len(values)/4+1)
	for i, v := range values {
		if v != common {
			indices = append(indices, uint32(i))
		}
	}

	indicesPayload, err := encodeIndices(indices)
	if err != nil {
		return nil, err
	}

	var commonByte byte
	if common {
		commonByte = 1
	}

	out := AppendHeader(make([]byte, 0, HeaderSize+1+len(indicesPayload)), Header{
		Kind: format.EncodingSparseBool, DataType: format.DataTypeBool, RowCount: uint32(len(values)),
	})
	out = append(out, commonByte)
	out = append(out, indicesPayload...)

	return out, nil
}

// DecodeSparseBool parses a SparseBool payload.
func DecodeSparseBool(header Header, payload []byte) (*SparseBoolEncoding, int, error) {
	if len(payload) < 1 {
		return nil, 0, fmt.Errorf("%w: SparseBool payload missing common value", errs.ErrMalformedEncoding)
	}
	common := payload[0] != 0

	ih, in, err := ParseHeader(payload[1:])
	if err != nil {
		return nil, 0, err
	}
	indices, indicesN, err := DecodeAny[uint32](ih, payload[1+in:])
	if err != nil {
		return nil, 0, err
	}

	e := &SparseBoolEncoding{header: header, commonValue: common, indices: indices}
	if err := e.advanceException(); err != nil {
		return nil, 0, err
	}

	return e, 1 + in + indicesN, nil
}

func (e *SparseBoolEncoding) advanceException() error {
	if e.nextException >= int(e.indices.Header().RowCount) {
		e.hasException = false
		return nil
	}
	var idx [1]uint32
	if err := e.indices.Materialize(1, idx[:]); err != nil {
		return err
	}
	e.exceptionIdx = idx[0]
	e.hasException = true
	e.nextException++

	return nil
}

func (e *SparseBoolEncoding) Header() Header { return e.header }

func (e *SparseBoolEncoding) Materialize(n int, out []bool) error {
	if e.pos+n > int(e.header.RowCount) {
		return errs.ErrDecoderStateExhausted
	}
	for i := 0; i < n; i++ {
		row := uint32(e.pos + i)
		v := e.commonValue
		if e.hasException && e.exceptionIdx == row {
			v = !e.commonValue
			if err := e.advanceException(); err != nil {
				return err
			}
		}
		out[i] = v
	}
	e.pos += n

	return nil
}

func (e *SparseBoolEncoding) MaterializeNullable(n int, out []bool, present *bitio.BoolBitSet) error {
	return materializeNullableDefault[bool](e, n, out, present)
}

func (e *SparseBoolEncoding) Skip(n int) error {
	if e.pos+n > int(e.header.RowCount) {
		return errs.ErrDecoderStateExhausted
	}
	end := e.pos + n
	for e.hasException && int(e.exceptionIdx) < end {
		if err := e.advanceException(); err != nil {
			return err
		}
	}
	e.pos = end

	return nil
}

func (e *SparseBoolEncoding) Reset() {
	e.indices.Reset()
	e.pos = 0
	e.nextException = 0
	e.hasException = false
	_ = e.advanceException()
}
