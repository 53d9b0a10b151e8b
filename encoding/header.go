// Package encoding implements the value-level codec family of §4.1: a
// common header shared by every encoded payload, the closed set of eight
// encodings (Trivial, RLE, Dictionary, MainlyConstant, SparseBool,
// Nullable, FixedBitPacked, Constant), and the recursive selection policy
// that picks among them.
//
// Every encoding is generic over its value type T; the format.DataType
// byte in the header tells a caller which concrete T to instantiate the
// decoder with, since Go generics cannot be selected at runtime from a
// byte on the wire.
package encoding

import (
	"fmt"

	"github.com/nimblefmt/nimble/endian"
	"github.com/nimblefmt/nimble/errs"
	"github.com/nimblefmt/nimble/format"
)

// HeaderSize is the fixed prefix every encoded payload begins with:
// encoding kind (1 byte), data type (1 byte), row count (4 bytes LE).
const HeaderSize = 6

// Header is the fixed prefix a decoder recovers type and shape from alone
// (§4.1).
type Header struct {
	Kind     format.EncodingKind
	DataType format.DataType
	RowCount uint32
}

// AppendHeader appends h's wire encoding to buf.
func AppendHeader(buf []byte, h Header) []byte {
	buf = append(buf, byte(h.Kind), byte(h.DataType))
	return endian.GetLittleEndianEngine().AppendUint32(buf, h.RowCount)
}

// ParseHeader reads a Header from the front of buf, returning the header
// and the number of bytes consumed.
func ParseHeader(buf []byte) (Header, int, error) {
	if len(buf) < HeaderSize {
		return Header{}, 0, fmt.Errorf("%w: payload shorter than header (%d bytes)", errs.ErrMalformedEncoding, len(buf))
	}

	h := Header{
		Kind:     format.EncodingKind(buf[0]),
		DataType: format.DataType(buf[1]),
		RowCount: endian.GetLittleEndianEngine().Uint32(buf[2:6]),
	}

	return h, HeaderSize, nil
}
