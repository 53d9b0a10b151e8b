package encoding

import (
	"fmt"

	"github.com/nimblefmt/nimble/bitio"
	"github.com/nimblefmt/nimble/errs"
	"github.com/nimblefmt/nimble/format"
)

// computeRuns collapses values into run lengths and one representative
// value per run (run-length encoding's classic transform).
func computeRuns[T comparable](values []T) ([]uint32, []T) {
	if len(values) == 0 {
		return nil, nil
	}

	lengths := make([]uint32, 0, 16)
	runValues := make([]T, 0, 16)
	cur := values[0]
	n := uint32(1)
	for _, v := range values[1:] {
		if v == cur {
			n++
			continue
		}
		lengths = append(lengths, n)
		runValues = append(runValues, cur)
		cur = v
		n = 1
	}
	lengths = append(lengths, n)
	runValues = append(runValues, cur)

	return lengths, runValues
}

// RLEEncoding stores run lengths (a nested Trivial Encoding[uint32])
// and one representative value per run, stored via a nested Encoding[T]
// (§4.1). Bool columns use RLEBoolEncoding instead, which exploits the fact
// that adjacent runs must alternate in value.
type RLEEncoding[T any] struct {
	header     Header
	runLengths Encoding[uint32]
	runValues  Encoding[T]

	copiesRemaining int
	currentValue    T
	pos             int
}

var _ Encoding[int32] = (*RLEEncoding[int32])(nil)

// EncodeRLE run-length encodes values. Run lengths are always stored as a
// Trivial u32 encoding and are not passed through encodeValues; run values
// are encoded with encodeValues.
func EncodeRLE[T comparable](values []T, encodeValues func([]T) ([]byte, error)) ([]byte, error) {
	lengths, runValues := computeRuns(values)

	lengthsPayload, err := EncodeTrivialFixed(lengths)
	if err != nil {
		return nil, err
	}
	valuesPayload, err := encodeValues(runValues)
	if err != nil {
		return nil, err
	}

	dt, ok := dataTypeOf[T]()
	if !ok {
		return nil, fmt.Errorf("%w: RLE of unsupported type", errs.ErrUnsupportedDataType)
	}

	out := AppendHeader(make([]byte, 0, HeaderSize+4+len(lengthsPayload)+len(valuesPayload)), Header{
		Kind: format.EncodingRLE, DataType: dt, RowCount: uint32(len(values)),
	})
	out = appendUint32(out, uint32(len(lengthsPayload)))
	out = append(out, lengthsPayload...)
	out = append(out, valuesPayload...)

	return out, nil
}

func appendUint32(buf []byte, v uint32) []byte {
	return append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func readUint32(buf []byte) uint32 {
	return uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
}

// DecodeRLE parses an RLE payload, recursing into the nested run-lengths
// and run-values encodings via DecodeAny.
func DecodeRLE[T any](header Header, payload []byte) (*RLEEncoding[T], int, error) {
	if header.DataType == format.DataTypeBool {
		return nil, 0, fmt.Errorf("%w: bool RLE must decode through RLEBoolEncoding", errs.ErrTypeMismatch)
	}
	if len(payload) < 4 {
		return nil, 0, fmt.Errorf("%w: RLE payload missing run-lengths size", errs.ErrMalformedEncoding)
	}
	lengthsSize := int(readUint32(payload))
	if len(payload)-4 < lengthsSize {
		return nil, 0, fmt.Errorf("%w: RLE run-lengths payload truncated", errs.ErrMalformedEncoding)
	}

	lh, ln, err := ParseHeader(payload[4:])
	if err != nil {
		return nil, 0, err
	}
	lengths, lengthsN, err := DecodeAny[uint32](lh, payload[4+ln:])
	if err != nil {
		return nil, 0, err
	}

	valuesOff := 4 + lengthsSize
	vh, vn, err := ParseHeader(payload[valuesOff:])
	if err != nil {
		return nil, 0, err
	}
	runValues, runValuesN, err := DecodeAny[T](vh, payload[valuesOff+vn:])
	if err != nil {
		return nil, 0, err
	}

	e := &RLEEncoding[T]{header: header, runLengths: lengths, runValues: runValues}
	if err := e.primeRun(); err != nil {
		return nil, 0, err
	}

	_ = ln
	_ = lengthsN

	return e, valuesOff + vn + runValuesN, nil
}

func (e *RLEEncoding[T]) primeRun() error {
	if e.pos >= int(e.header.RowCount) {
		return nil
	}
	var runLen [1]uint32
	if err := e.runLengths.Materialize(1, runLen[:]); err != nil {
		return err
	}
	var val [1]T
	if err := e.runValues.Materialize(1, val[:]); err != nil {
		return err
	}
	e.copiesRemaining = int(runLen[0])
	e.currentValue = val[0]

	return nil
}

func (e *RLEEncoding[T]) Header() Header { return e.header }

func (e *RLEEncoding[T]) Materialize(n int, out []T) error {
	if e.pos+n > int(e.header.RowCount) {
		return errs.ErrDecoderStateExhausted
	}
	remaining := n
	off := 0
	for remaining > 0 {
		if e.copiesRemaining == 0 {
			if err := e.primeRun(); err != nil {
				return err
			}
		}
		take := remaining
		if take > e.copiesRemaining {
			take = e.copiesRemaining
		}
		for i := 0; i < take; i++ {
			out[off+i] = e.currentValue
		}
		off += take
		remaining -= take
		e.copiesRemaining -= take
	}
	e.pos += n

	return nil
}

func (e *RLEEncoding[T]) MaterializeNullable(n int, out []T, present *bitio.BoolBitSet) error {
	return materializeNullableDefault[T](e, n, out, present)
}

func (e *RLEEncoding[T]) Skip(n int) error {
	if e.pos+n > int(e.header.RowCount) {
		return errs.ErrDecoderStateExhausted
	}
	remaining := n
	for remaining > 0 {
		if e.copiesRemaining == 0 {
			if err := e.primeRun(); err != nil {
				return err
			}
		}
		take := remaining
		if take > e.copiesRemaining {
			take = e.copiesRemaining
		}
		remaining -= take
		e.copiesRemaining -= take
	}
	e.pos += n

	return nil
}

func (e *RLEEncoding[T]) Reset() {
	e.runLengths.Reset()
	e.runValues.Reset()
	e.pos = 0
	e.copiesRemaining = 0
}

// RLEBoolEncoding special-cases bool RLE (§4.1): since runs must alternate,
// only the first run's value and the run lengths need to be stored,
// grounded on the original encoder's RLEEncoding<bool> specialization.
type RLEBoolEncoding struct {
	header       Header
	runLengths   Encoding[uint32]
	initialValue bool
	value        bool

	copiesRemaining int
	pos             int
}

var _ Encoding[bool] = (*RLEBoolEncoding)(nil)

// EncodeRLEBool run-length encodes a bool slice using the alternating-run
// optimization.
func EncodeRLEBool(values []bool) ([]byte, error) {
	lengths, runValues := computeRuns(values)

	lengthsPayload, err := EncodeTrivialFixed(lengths)
	if err != nil {
		return nil, err
	}

	var initial byte
	if len(runValues) > 0 && runValues[0] {
		initial = 1
	}

	out := AppendHeader(make([]byte, 0, HeaderSize+4+len(lengthsPayload)+1), Header{
		Kind: format.EncodingRLE, DataType: format.DataTypeBool, RowCount: uint32(len(values)),
	})
	out = appendUint32(out, uint32(len(lengthsPayload)))
	out = append(out, lengthsPayload...)
	out = append(out, initial)

	return out, nil
}

// DecodeRLEBool parses a bool RLE payload, returning the encoding and the
// number of payload bytes consumed.
func DecodeRLEBool(header Header, payload []byte) (*RLEBoolEncoding, int, error) {
	if len(payload) < 4 {
		return nil, 0, fmt.Errorf("%w: RLE bool payload missing run-lengths size", errs.ErrMalformedEncoding)
	}
	lengthsSize := int(readUint32(payload))
	if len(payload)-4 < lengthsSize {
		return nil, 0, fmt.Errorf("%w: RLE bool run-lengths payload truncated", errs.ErrMalformedEncoding)
	}

	lh, ln, err := ParseHeader(payload[4:])
	if err != nil {
		return nil, 0, err
	}
	lengths, _, err := DecodeAny[uint32](lh, payload[4+ln:])
	if err != nil {
		return nil, 0, err
	}

	initialOff := 4 + lengthsSize
	if len(payload) < initialOff+1 {
		return nil, 0, fmt.Errorf("%w: RLE bool payload missing initial value", errs.ErrMalformedEncoding)
	}
	initial := payload[initialOff] != 0

	e := &RLEBoolEncoding{header: header, runLengths: lengths, initialValue: initial, value: initial}
	if err := e.primeRun(true); err != nil {
		return nil, 0, err
	}

	return e, initialOff + 1, nil
}

func (e *RLEBoolEncoding) primeRun(first bool) error {
	if e.pos >= int(e.header.RowCount) {
		return nil
	}
	if !first {
		e.value = !e.value
	}
	var runLen [1]uint32
	if err := e.runLengths.Materialize(1, runLen[:]); err != nil {
		return err
	}
	e.copiesRemaining = int(runLen[0])

	return nil
}

func (e *RLEBoolEncoding) Header() Header { return e.header }

func (e *RLEBoolEncoding) Materialize(n int, out []bool) error {
	if e.pos+n > int(e.header.RowCount) {
		return errs.ErrDecoderStateExhausted
	}
	remaining := n
	off := 0
	for remaining > 0 {
		if e.copiesRemaining == 0 {
			if err := e.primeRun(false); err != nil {
				return err
			}
		}
		take := remaining
		if take > e.copiesRemaining {
			take = e.copiesRemaining
		}
		for i := 0; i < take; i++ {
			out[off+i] = e.value
		}
		off += take
		remaining -= take
		e.copiesRemaining -= take
	}
	e.pos += n

	return nil
}

func (e *RLEBoolEncoding) MaterializeNullable(n int, out []bool, present *bitio.BoolBitSet) error {
	return materializeNullableDefault[bool](e, n, out, present)
}

func (e *RLEBoolEncoding) Skip(n int) error {
	if e.pos+n > int(e.header.RowCount) {
		return errs.ErrDecoderStateExhausted
	}
	remaining := n
	for remaining > 0 {
		if e.copiesRemaining == 0 {
			if err := e.primeRun(false); err != nil {
				return err
			}
		}
		take := remaining
		if take > e.copiesRemaining {
			take = e.copiesRemaining
		}
		remaining -= take
		e.copiesRemaining -= take
	}
	e.pos += n

	return nil
}

func (e *RLEBoolEncoding) Reset() {
	e.runLengths.Reset()
	e.value = e.initialValue
	e.pos = 0
	e.copiesRemaining = 0
	_ = e.primeRun(true)
}
