package encoding

import (
	"fmt"

	"github.com/nimblefmt/nimble/errs"
	"github.com/nimblefmt/nimble/format"
)

// DecodeAny parses any encoded payload for T, dispatching on the header's
// EncodingKind (§4.1). header must already have been parsed with
// ParseHeader; payload is the remainder of the buffer starting right after
// the header, and may contain trailing bytes belonging to an enclosing
// encoding. It returns the decoded encoding and the number of payload bytes
// it consumed, so callers recursing into sub-streams know where the next
// one starts.
func DecodeAny[T any](header Header, payload []byte) (Encoding[T], int, error) {
	switch header.Kind {
	case format.EncodingTrivial:
		return DecodeTrivial[T](header, payload)

	case format.EncodingConstant:
		return DecodeConstant[T](header, payload)

	case format.EncodingFixedBitPacked:
		return DecodeFixedBitPacked[T](header, payload)

	case format.EncodingRLE:
		if header.DataType == format.DataTypeBool {
			e, n, err := DecodeRLEBool(header, payload)
			if err != nil {
				return nil, 0, err
			}
			ee, ok := any(e).(Encoding[T])
			if !ok {
				return nil, 0, fmt.Errorf("%w: bool RLE requested as a different type", errs.ErrTypeMismatch)
			}
			return ee, n, nil
		}
		return DecodeRLE[T](header, payload)

	case format.EncodingDictionary:
		return DecodeDictionary[T](header, payload)

	case format.EncodingMainlyConstant:
		return DecodeMainlyConstant[T](header, payload)

	case format.EncodingSparseBool:
		e, n, err := DecodeSparseBool(header, payload)
		if err != nil {
			return nil, 0, err
		}
		ee, ok := any(e).(Encoding[T])
		if !ok {
			return nil, 0, fmt.Errorf("%w: SparseBool only supports bool", errs.ErrTypeMismatch)
		}
		return ee, n, nil

	case format.EncodingNullable:
		return DecodeNullable[T](header, payload, DecodeAny[T])

	default:
		return nil, 0, fmt.Errorf("%w: unknown encoding kind %d", errs.ErrMalformedEncoding, header.Kind)
	}
}
