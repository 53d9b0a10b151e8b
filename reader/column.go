// Package reader implements the reader orchestration of §4.8: a tablet
// plus a selected schema and a set of per-column stream decoders, exposing
// next/skip_rows/seek_to_row over a range-restricted view of the file.
package reader

import (
	"fmt"

	"github.com/nimblefmt/nimble/bitio"
	"github.com/nimblefmt/nimble/errs"
	"github.com/nimblefmt/nimble/schema"
	"github.com/nimblefmt/nimble/stream"
)

// column is the type-erased per-stream decoder: it hides the scalar Go
// type stream.Reader[T] is instantiated with behind an any-returning
// interface, the same technique encoding.Describe uses to cross a
// generic boundary at a byte-driven dispatch point.
type column interface {
	Skip(n int) error
	Materialize(n int) (any, error)
	MaterializeWithPresence(n int, present *bitio.BoolBitSet) (any, error)
	scalarKind() schema.ScalarKind
}

type typedColumn[T any] struct {
	r    *stream.Reader[T]
	kind schema.ScalarKind
}

func (c *typedColumn[T]) Skip(n int) error { return c.r.Skip(n) }

func (c *typedColumn[T]) Materialize(n int) (any, error) {
	out := make([]T, n)
	if err := c.r.Materialize(n, out); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *typedColumn[T]) MaterializeWithPresence(n int, present *bitio.BoolBitSet) (any, error) {
	out := make([]T, n)
	if err := c.r.MaterializeWithPresence(n, out, present); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *typedColumn[T]) scalarKind() schema.ScalarKind { return c.kind }

// newColumn instantiates the right stream.Reader[T] for kind over raw,
// the stream's concatenated chunk bytes.
func newColumn(kind schema.ScalarKind, raw []byte) (column, error) {
	switch kind {
	case schema.ScalarInt8:
		return &typedColumn[int8]{r: stream.NewReader[int8](raw), kind: kind}, nil
	case schema.ScalarUint8:
		return &typedColumn[uint8]{r: stream.NewReader[uint8](raw), kind: kind}, nil
	case schema.ScalarInt16:
		return &typedColumn[int16]{r: stream.NewReader[int16](raw), kind: kind}, nil
	case schema.ScalarUint16:
		return &typedColumn[uint16]{r: stream.NewReader[uint16](raw), kind: kind}, nil
	case schema.ScalarInt32:
		return &typedColumn[int32]{r: stream.NewReader[int32](raw), kind: kind}, nil
	case schema.ScalarUint32:
		return &typedColumn[uint32]{r: stream.NewReader[uint32](raw), kind: kind}, nil
	case schema.ScalarInt64:
		return &typedColumn[int64]{r: stream.NewReader[int64](raw), kind: kind}, nil
	case schema.ScalarUint64:
		return &typedColumn[uint64]{r: stream.NewReader[uint64](raw), kind: kind}, nil
	case schema.ScalarFloat32:
		return &typedColumn[float32]{r: stream.NewReader[float32](raw), kind: kind}, nil
	case schema.ScalarFloat64:
		return &typedColumn[float64]{r: stream.NewReader[float64](raw), kind: kind}, nil
	case schema.ScalarBool:
		return &typedColumn[bool]{r: stream.NewReader[bool](raw), kind: kind}, nil
	case schema.ScalarString:
		return &typedColumn[string]{r: stream.NewReader[string](raw), kind: kind}, nil
	case schema.ScalarBinary:
		return &typedColumn[[]byte]{r: stream.NewReader[[]byte](raw), kind: kind}, nil
	default:
		return nil, fmt.Errorf("%w: scalar kind %d has no column reader", errs.ErrUnsupportedDataType, kind)
	}
}

// castSlice converts a decoded []storedT (boxed in any) into []requestedT
// when requested is a strictly wider numeric up-cast of stored (§4.8), or
// returns an error otherwise. encoding.Describe-style any() switches are
// used throughout this package for the same reason: Go generics cannot
// select T from a runtime byte.
func castSlice(stored schema.ScalarKind, requested schema.ScalarKind, values any) (any, error) {
	if stored == requested {
		return values, nil
	}
	if !isValidUpCast(stored, requested) {
		return nil, fmt.Errorf("%w: cannot read %v column as %v", errs.ErrTypeMismatch, stored, requested)
	}

	switch v := values.(type) {
	case []int8:
		return upCastInt(v, requested)
	case []uint8:
		return upCastUint(v, requested)
	case []int16:
		return upCastInt(v, requested)
	case []uint16:
		return upCastUint(v, requested)
	case []int32:
		return upCastInt(v, requested)
	case []uint32:
		return upCastUint(v, requested)
	case []int64:
		return upCastInt(v, requested)
	case []float32:
		return upCastFloat(v, requested)
	case []bool:
		return upCastBool(v, requested)
	default:
		return nil, fmt.Errorf("%w: cannot read %v column as %v", errs.ErrTypeMismatch, stored, requested)
	}
}

// isValidUpCast reports whether requested has strictly wider range than
// stored among the up-casts §4.8 names: signed widening, unsigned
// widening, float widening, and bool -> any integer type.
func isValidUpCast(stored, requested schema.ScalarKind) bool {
	widenInt := map[schema.ScalarKind][]schema.ScalarKind{
		schema.ScalarInt8:  {schema.ScalarInt16, schema.ScalarInt32, schema.ScalarInt64},
		schema.ScalarInt16: {schema.ScalarInt32, schema.ScalarInt64},
		schema.ScalarInt32: {schema.ScalarInt64},
		schema.ScalarUint8: {schema.ScalarUint16, schema.ScalarUint32, schema.ScalarUint64,
			schema.ScalarInt16, schema.ScalarInt32, schema.ScalarInt64},
		schema.ScalarUint16: {schema.ScalarUint32, schema.ScalarUint64, schema.ScalarInt32, schema.ScalarInt64},
		schema.ScalarUint32: {schema.ScalarUint64, schema.ScalarInt64},
		schema.ScalarFloat32: {schema.ScalarFloat64},
		schema.ScalarBool: {schema.ScalarInt8, schema.ScalarInt16, schema.ScalarInt32, schema.ScalarInt64,
			schema.ScalarUint8, schema.ScalarUint16, schema.ScalarUint32, schema.ScalarUint64},
	}
	for _, w := range widenInt[stored] {
		if w == requested {
			return true
		}
	}

	return false
}

func upCastInt[T int8 | int16 | int32 | int64](values []T, requested schema.ScalarKind) (any, error) {
	switch requested {
	case schema.ScalarInt16:
		return castTo[int16](values), nil
	case schema.ScalarInt32:
		return castTo[int32](values), nil
	case schema.ScalarInt64:
		return castTo[int64](values), nil
	default:
		return nil, fmt.Errorf("%w: unsupported signed up-cast target", errs.ErrTypeMismatch)
	}
}

func upCastUint[T uint8 | uint16 | uint32](values []T, requested schema.ScalarKind) (any, error) {
	switch requested {
	case schema.ScalarUint16:
		return castTo[uint16](values), nil
	case schema.ScalarUint32:
		return castTo[uint32](values), nil
	case schema.ScalarUint64:
		return castTo[uint64](values), nil
	case schema.ScalarInt16:
		return castTo[int16](values), nil
	case schema.ScalarInt32:
		return castTo[int32](values), nil
	case schema.ScalarInt64:
		return castTo[int64](values), nil
	default:
		return nil, fmt.Errorf("%w: unsupported unsigned up-cast target", errs.ErrTypeMismatch)
	}
}

func upCastFloat(values []float32, requested schema.ScalarKind) (any, error) {
	if requested != schema.ScalarFloat64 {
		return nil, fmt.Errorf("%w: unsupported float up-cast target", errs.ErrTypeMismatch)
	}

	return castTo[float64](values), nil
}

func upCastBool(values []bool, requested schema.ScalarKind) (any, error) {
	switch requested {
	case schema.ScalarInt8:
		return boolsTo[int8](values), nil
	case schema.ScalarInt16:
		return boolsTo[int16](values), nil
	case schema.ScalarInt32:
		return boolsTo[int32](values), nil
	case schema.ScalarInt64:
		return boolsTo[int64](values), nil
	case schema.ScalarUint8:
		return boolsTo[uint8](values), nil
	case schema.ScalarUint16:
		return boolsTo[uint16](values), nil
	case schema.ScalarUint32:
		return boolsTo[uint32](values), nil
	case schema.ScalarUint64:
		return boolsTo[uint64](values), nil
	default:
		return nil, fmt.Errorf("%w: unsupported bool up-cast target", errs.ErrTypeMismatch)
	}
}

func castTo[Out, In int16 | int32 | int64 | uint16 | uint32 | uint64 | float64 | int8 | uint8 | float32](values []In) []Out {
	out := make([]Out, len(values))
	for i, v := range values {
		out[i] = Out(v)
	}

	return out
}

func boolsTo[Out int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64](values []bool) []Out {
	out := make([]Out, len(values))
	for i, v := range values {
		if v {
			out[i] = 1
		}
	}

	return out
}
