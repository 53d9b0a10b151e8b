package encoding

import (
	"fmt"
	"math"

	"github.com/nimblefmt/nimble/bitio"
	"github.com/nimblefmt/nimble/errs"
	"github.com/nimblefmt/nimble/format"
)

func float32bits(f float32) uint32     { return math.Float32bits(f) }
func float32frombits(b uint32) float32 { return math.Float32frombits(b) }
func float64bits(f float64) uint64     { return math.Float64bits(f) }
func float64frombits(b uint64) float64 { return math.Float64frombits(b) }

// dataTypeOf resolves the format.DataType tag for T, covering every scalar
// kind a single value (Constant, MainlyConstant's common value) can hold.
func dataTypeOf[T any]() (format.DataType, bool) {
	var zero T
	switch any(zero).(type) {
	case bool:
		return format.DataTypeBool, true
	case string:
		return format.DataTypeString, true
	case []byte:
		return format.DataTypeBinary, true
	default:
		if _, dt, ok := resolveFixedCodec[T](); ok {
			return dt, true
		}
		return 0, false
	}
}

// encodeSingleValue appends the wire encoding of one value of type T,
// without a header, used by Constant and by MainlyConstant's common value.
func encodeSingleValue[T any](value T) ([]byte, error) {
	var zero T
	switch any(zero).(type) {
	case bool:
		if any(value).(bool) {
			return []byte{1}, nil
		}
		return []byte{0}, nil
	case string:
		return bitio.PutString(nil, any(value).(string)), nil
	case []byte:
		return bitio.PutString(nil, string(any(value).([]byte))), nil
	default:
		codec, _, ok := resolveFixedCodec[T]()
		if !ok {
			return nil, fmt.Errorf("%w: cannot encode single value of this type", errs.ErrUnsupportedDataType)
		}
		buf := make([]byte, codec.width)
		codec.put(buf, value)

		return buf, nil
	}
}

// decodeSingleValue is the inverse of encodeSingleValue, returning the
// value and the number of payload bytes consumed.
func decodeSingleValue[T any](dt format.DataType, payload []byte) (T, int, error) {
	var zero T
	switch any(zero).(type) {
	case bool:
		if len(payload) < 1 {
			return zero, 0, fmt.Errorf("%w: single bool value truncated", errs.ErrMalformedEncoding)
		}
		return any(payload[0] != 0).(T), 1, nil
	case string:
		s, n, ok := bitio.GetString(payload)
		if !ok {
			return zero, 0, fmt.Errorf("%w: single string value truncated", errs.ErrMalformedEncoding)
		}
		return any(s).(T), n, nil
	case []byte:
		s, n, ok := bitio.GetString(payload)
		if !ok {
			return zero, 0, fmt.Errorf("%w: single binary value truncated", errs.ErrMalformedEncoding)
		}
		return any([]byte(s)).(T), n, nil
	default:
		codec, _, ok := resolveFixedCodec[T]()
		if !ok {
			return zero, 0, fmt.Errorf("%w: cannot decode single value of this type", errs.ErrUnsupportedDataType)
		}
		if len(payload) < codec.width {
			return zero, 0, fmt.Errorf("%w: single value payload truncated", errs.ErrMalformedEncoding)
		}
		return codec.get(payload), codec.width, nil
	}
}
