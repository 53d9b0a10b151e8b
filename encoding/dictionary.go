package encoding

import (
	"fmt"

	"github.com/nimblefmt/nimble/bitio"
	"github.com/nimblefmt/nimble/errs"
	"github.com/nimblefmt/nimble/format"
)

// DictionaryEncoding stores a de-duplicated alphabet (a nested Encoding[T])
// and one index per row into it (a nested Encoding[uint32]) (§4.1).
type DictionaryEncoding[T any] struct {
	header  Header
	indices Encoding[uint32]
	// alphabet holds the full materialized alphabet, since random-access
	// index lookups are cheaper against a plain slice than re-walking a
	// nested encoding's cursor on every row.
	alphabet []T
	pos      int
}

var _ Encoding[int32] = (*DictionaryEncoding[int32])(nil)

// EncodeDictionary de-duplicates values into alphabet+indices and encodes
// both with the supplied encoders (ordinarily Trivial or RLE for the
// alphabet, FixedBitPacked for the indices).
func EncodeDictionary[T comparable](
	values []T,
	encodeAlphabet func([]T) ([]byte, error),
	encodeIndices func([]uint32) ([]byte, error),
) ([]byte, error) {
	index := make(map[T]uint32, len(values))
	alphabet := make([]T, 0, len(values))
	indices := make([]uint32, len(values))
	for i, v := range values {
		id, ok := index[v]
		if !ok {
			id = uint32(len(alphabet))
			index[v] = id
			alphabet = append(alphabet, v)
		}
		indices[i] = id
	}

	alphabetPayload, err := encodeAlphabet(alphabet)
	if err != nil {
		return nil, err
	}
	indicesPayload, err := encodeIndices(indices)
	if err != nil {
		return nil, err
	}

	dt, ok := dataTypeOf[T]()
	if !ok {
		return nil, fmt.Errorf("%w: dictionary of unsupported type", errs.ErrUnsupportedDataType)
	}

	out := AppendHeader(make([]byte, 0, HeaderSize+4+len(alphabetPayload)+len(indicesPayload)), Header{
		Kind: format.EncodingDictionary, DataType: dt, RowCount: uint32(len(values)),
	})
	out = appendUint32(out, uint32(len(alphabetPayload)))
	out = append(out, alphabetPayload...)
	out = append(out, indicesPayload...)

	return out, nil
}

// DecodeDictionary parses a Dictionary payload, materializing the full
// alphabet eagerly.
func DecodeDictionary[T any](header Header, payload []byte) (*DictionaryEncoding[T], int, error) {
	if len(payload) < 4 {
		return nil, 0, fmt.Errorf("%w: dictionary payload missing alphabet size", errs.ErrMalformedEncoding)
	}
	alphabetSize := int(readUint32(payload))
	if len(payload)-4 < alphabetSize {
		return nil, 0, fmt.Errorf("%w: dictionary alphabet payload truncated", errs.ErrMalformedEncoding)
	}

	ah, an, err := ParseHeader(payload[4:])
	if err != nil {
		return nil, 0, err
	}
	alphabetEnc, _, err := DecodeAny[T](ah, payload[4+an:])
	if err != nil {
		return nil, 0, err
	}
	alphabet := make([]T, ah.RowCount)
	if err := alphabetEnc.Materialize(int(ah.RowCount), alphabet); err != nil {
		return nil, 0, err
	}

	indicesOff := 4 + alphabetSize
	ih, in, err := ParseHeader(payload[indicesOff:])
	if err != nil {
		return nil, 0, err
	}
	indices, indicesN, err := DecodeAny[uint32](ih, payload[indicesOff+in:])
	if err != nil {
		return nil, 0, err
	}

	return &DictionaryEncoding[T]{header: header, indices: indices, alphabet: alphabet}, indicesOff + in + indicesN, nil
}

func (e *DictionaryEncoding[T]) Header() Header { return e.header }

func (e *DictionaryEncoding[T]) Materialize(n int, out []T) error {
	if e.pos+n > int(e.header.RowCount) {
		return errs.ErrDecoderStateExhausted
	}
	ids := make([]uint32, n)
	if err := e.indices.Materialize(n, ids); err != nil {
		return err
	}
	for i, id := range ids {
		if int(id) >= len(e.alphabet) {
			return fmt.Errorf("%w: dictionary index out of range", errs.ErrMalformedEncoding)
		}
		out[i] = e.alphabet[id]
	}
	e.pos += n

	return nil
}

func (e *DictionaryEncoding[T]) MaterializeNullable(n int, out []T, present *bitio.BoolBitSet) error {
	return materializeNullableDefault[T](e, n, out, present)
}

func (e *DictionaryEncoding[T]) Skip(n int) error {
	if e.pos+n > int(e.header.RowCount) {
		return errs.ErrDecoderStateExhausted
	}
	if err := e.indices.Skip(n); err != nil {
		return err
	}
	e.pos += n

	return nil
}

func (e *DictionaryEncoding[T]) Reset() {
	e.indices.Reset()
	e.pos = 0
}
