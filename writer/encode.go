package writer

import (
	"fmt"

	"github.com/nimblefmt/nimble/encoding"
	"github.com/nimblefmt/nimble/errs"
	"github.com/nimblefmt/nimble/schema"
)

// encodeColumn runs the selector (§4.1) over one batch of column values,
// wrapping the chosen encoding in a nullable envelope first when the
// batch carries a present mask, and returns the resulting chunk payload
// plus its row count.
func encodeColumn(kind schema.ScalarKind, b ColumnBatch, hint *encoding.LayoutHint) ([]byte, int, error) {
	switch kind {
	case schema.ScalarInt8:
		return encodeTyped(b, hint, encoding.Select[int8])
	case schema.ScalarUint8:
		return encodeTyped(b, hint, encoding.Select[uint8])
	case schema.ScalarInt16:
		return encodeTyped(b, hint, encoding.Select[int16])
	case schema.ScalarUint16:
		return encodeTyped(b, hint, encoding.Select[uint16])
	case schema.ScalarInt32:
		return encodeTyped(b, hint, encoding.Select[int32])
	case schema.ScalarUint32:
		return encodeTyped(b, hint, encoding.Select[uint32])
	case schema.ScalarInt64:
		return encodeTyped(b, hint, encoding.Select[int64])
	case schema.ScalarUint64:
		return encodeTyped(b, hint, encoding.Select[uint64])
	case schema.ScalarFloat32:
		return encodeTyped(b, hint, encoding.Select[float32])
	case schema.ScalarFloat64:
		return encodeTyped(b, hint, encoding.Select[float64])
	case schema.ScalarBool:
		return encodeTyped(b, hint, encoding.Select[bool])
	case schema.ScalarString:
		return encodeTyped(b, hint, encoding.Select[string])
	default:
		return nil, 0, fmt.Errorf("%w: scalar kind %d has no writer path", errs.ErrUnsupportedDataType, kind)
	}
}

func encodeTyped[T comparable](b ColumnBatch, hint *encoding.LayoutHint, sel func([]T, *encoding.LayoutHint) ([]byte, error)) ([]byte, int, error) {
	values, ok := b.Values.([]T)
	if !ok {
		return nil, 0, fmt.Errorf("%w: column %v values have the wrong Go type", errs.ErrSchemaMismatch, b.Path)
	}

	if b.Present == nil {
		payload, err := sel(values, hint)

		return payload, len(values), err
	}

	payload, err := encoding.EncodeNullable(values, b.Present, func(v []T) ([]byte, error) {
		return sel(v, hint)
	})

	return payload, len(values), err
}
