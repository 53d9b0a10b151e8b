package encoding

import (
	"fmt"

	"github.com/nimblefmt/nimble/errs"
	"github.com/nimblefmt/nimble/format"
)

// Descriptor is a type-erased summary of one encoding's on-wire shape: its
// kind and the descriptors of any nested encodings it recurses into. It
// exists so the layout-tree trainer (§4.4) can record what the selector
// chose without needing a generic value type at the call site.
type Descriptor struct {
	Kind     format.EncodingKind
	Children []*Descriptor
}

// Describe parses an encoded payload's header chain and builds its
// Descriptor, dispatching on the header's DataType to instantiate the
// right concrete decoder internally. It returns the number of payload
// bytes consumed, exactly as DecodeAny does.
func Describe(header Header, payload []byte) (*Descriptor, int, error) {
	switch header.DataType {
	case format.DataTypeInt8:
		return describe[int8](header, payload)
	case format.DataTypeUint8:
		return describe[uint8](header, payload)
	case format.DataTypeInt16:
		return describe[int16](header, payload)
	case format.DataTypeUint16:
		return describe[uint16](header, payload)
	case format.DataTypeInt32:
		return describe[int32](header, payload)
	case format.DataTypeUint32:
		return describe[uint32](header, payload)
	case format.DataTypeInt64:
		return describe[int64](header, payload)
	case format.DataTypeUint64:
		return describe[uint64](header, payload)
	case format.DataTypeFloat32:
		return describe[float32](header, payload)
	case format.DataTypeFloat64:
		return describe[float64](header, payload)
	case format.DataTypeBool:
		return describe[bool](header, payload)
	case format.DataTypeString:
		return describe[string](header, payload)
	case format.DataTypeBinary:
		return describe[[]byte](header, payload)
	default:
		return nil, 0, fmt.Errorf("%w: describe of data type %d", errs.ErrUnsupportedDataType, header.DataType)
	}
}

func describe[T any](header Header, payload []byte) (*Descriptor, int, error) {
	enc, n, err := DecodeAny[T](header, payload)
	if err != nil {
		return nil, 0, err
	}

	d := &Descriptor{Kind: header.Kind}
	switch e := any(enc).(type) {
	case *RLEEncoding[T]:
		d.Children = []*Descriptor{describeOf(e.runLengths), describeOf(e.runValues)}
	case *RLEBoolEncoding:
		d.Children = []*Descriptor{describeOf[uint32](e.runLengths)}
	case *DictionaryEncoding[T]:
		d.Children = []*Descriptor{describeOf(e.indices)}
	case *MainlyConstantEncoding[T]:
		d.Children = []*Descriptor{describeOf(e.other)}
	case *SparseBoolEncoding:
		d.Children = []*Descriptor{describeOf(e.indices)}
	case *NullableEncoding[T]:
		d.Children = []*Descriptor{describeOf(e.inner)}
	}

	return d, n, nil
}

// describeOf builds a Descriptor for an already-decoded nested encoding by
// re-deriving it from that encoding's own header — cheap, since every
// Encoding stores its Header verbatim.
func describeOf[T any](e Encoding[T]) *Descriptor {
	if e == nil {
		return nil
	}
	d := &Descriptor{Kind: e.Header().Kind}
	switch v := any(e).(type) {
	case *RLEEncoding[T]:
		d.Children = []*Descriptor{describeOf(v.runLengths), describeOf(v.runValues)}
	case *RLEBoolEncoding:
		d.Children = []*Descriptor{describeOf[uint32](v.runLengths)}
	case *DictionaryEncoding[T]:
		d.Children = []*Descriptor{describeOf(v.indices)}
	case *MainlyConstantEncoding[T]:
		d.Children = []*Descriptor{describeOf(v.other)}
	case *SparseBoolEncoding:
		d.Children = []*Descriptor{describeOf(v.indices)}
	case *NullableEncoding[T]:
		d.Children = []*Descriptor{describeOf(v.inner)}
	}

	return d
}
