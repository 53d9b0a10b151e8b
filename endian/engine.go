// Package endian provides the byte order engine used by every on-disk
// integer read/write in nimble.
//
// It combines encoding/binary's ByteOrder and AppendByteOrder interfaces
// into a single EndianEngine so call sites can both decode in place and
// append without an intermediate allocation.
//
// The wire format (§6) is fixed little-endian; GetLittleEndianEngine is
// what every encoder and the stripe/footer codec use. GetBigEndianEngine
// exists so encoding-level round-trip tests can exercise a non-native byte
// order without touching the encoder/decoder bodies.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine combines ByteOrder and AppendByteOrder from the standard
// library into one interface. binary.LittleEndian and binary.BigEndian
// both satisfy it without modification.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// CheckEndianness uses a fixed integer value to determine the host's byte
// order.
func CheckEndianness() binary.ByteOrder {
	var i uint16 = 0x0100

	b := (*[2]byte)(unsafe.Pointer(&i))

	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsNativeLittleEndian reports whether the host is little-endian.
func IsNativeLittleEndian() bool {
	return CheckEndianness() == binary.LittleEndian
}

// IsNativeBigEndian reports whether the host is big-endian.
func IsNativeBigEndian() bool {
	return CheckEndianness() == binary.BigEndian
}

// CompareNativeEndian reports whether engine matches the host's native byte
// order.
func CompareNativeEndian(engine EndianEngine) bool {
	return engine == CheckEndianness()
}

// GetLittleEndianEngine returns the little-endian engine mandated by the
// on-disk format: every multi-byte integer in a nimble file is
// little-endian.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine. It is never used on the
// file-format write path.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}
