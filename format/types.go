// Package format defines the small closed enumerations that appear in every
// on-disk header in nimble: the encoding kind and data type that prefix
// every encoded payload (§4.1), and the compression/checksum kinds used by
// the stripe and footer layout (§4.3, §6).
package format

// EncodingKind identifies one of the value-level codecs of §4.1. The set is
// closed and known at build time, so dispatch over it is a single switch
// rather than vtable indirection (§9).
type EncodingKind uint8

const (
	EncodingTrivial        EncodingKind = 1
	EncodingRLE            EncodingKind = 2
	EncodingDictionary     EncodingKind = 3
	EncodingMainlyConstant EncodingKind = 4
	EncodingSparseBool     EncodingKind = 5
	EncodingNullable       EncodingKind = 6
	EncodingFixedBitPacked EncodingKind = 7
	EncodingConstant       EncodingKind = 8
)

func (k EncodingKind) String() string {
	switch k {
	case EncodingTrivial:
		return "Trivial"
	case EncodingRLE:
		return "RLE"
	case EncodingDictionary:
		return "Dictionary"
	case EncodingMainlyConstant:
		return "MainlyConstant"
	case EncodingSparseBool:
		return "SparseBool"
	case EncodingNullable:
		return "Nullable"
	case EncodingFixedBitPacked:
		return "FixedBitPacked"
	case EncodingConstant:
		return "Constant"
	default:
		return "Unknown"
	}
}

// DataType identifies the physical (width-based) type an encoding's values
// are stored as; a schema.ScalarKind (logical kind) drives read-time
// up-casts and buffer formatting on top of it (§3).
type DataType uint8

const (
	DataTypeInt8    DataType = 1
	DataTypeUint8   DataType = 2
	DataTypeInt16   DataType = 3
	DataTypeUint16  DataType = 4
	DataTypeInt32   DataType = 5
	DataTypeUint32  DataType = 6
	DataTypeInt64   DataType = 7
	DataTypeUint64  DataType = 8
	DataTypeFloat32 DataType = 9
	DataTypeFloat64 DataType = 10
	DataTypeBool    DataType = 11
	DataTypeString  DataType = 12
	DataTypeBinary  DataType = 13
)

func (d DataType) String() string {
	switch d {
	case DataTypeInt8:
		return "int8"
	case DataTypeUint8:
		return "uint8"
	case DataTypeInt16:
		return "int16"
	case DataTypeUint16:
		return "uint16"
	case DataTypeInt32:
		return "int32"
	case DataTypeUint32:
		return "uint32"
	case DataTypeInt64:
		return "int64"
	case DataTypeUint64:
		return "uint64"
	case DataTypeFloat32:
		return "float32"
	case DataTypeFloat64:
		return "float64"
	case DataTypeBool:
		return "bool"
	case DataTypeString:
		return "string"
	case DataTypeBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// Width returns the fixed on-disk width in bytes of a scalar DataType, or 0
// for the variable-width String/Binary types.
func (d DataType) Width() int {
	switch d {
	case DataTypeInt8, DataTypeUint8, DataTypeBool:
		return 1
	case DataTypeInt16, DataTypeUint16:
		return 2
	case DataTypeInt32, DataTypeUint32, DataTypeFloat32:
		return 4
	case DataTypeInt64, DataTypeUint64, DataTypeFloat64:
		return 8
	default:
		return 0
	}
}

// CompressionKind identifies the compression codec applied to a stream or
// the footer (§6). The numeric values are bit-exact wire constants.
type CompressionKind uint8

const (
	CompressionUncompressed CompressionKind = 0
	CompressionZstd         CompressionKind = 1
	CompressionMetaInternal CompressionKind = 2
)

func (c CompressionKind) String() string {
	switch c {
	case CompressionUncompressed:
		return "Uncompressed"
	case CompressionZstd:
		return "Zstd"
	case CompressionMetaInternal:
		return "MetaInternal"
	default:
		return "Unknown"
	}
}

// ChecksumKind identifies the footer checksum algorithm (§6).
type ChecksumKind uint8

const (
	ChecksumNone     ChecksumKind = 0
	ChecksumXxHash64 ChecksumKind = 1
)

func (c ChecksumKind) String() string {
	switch c {
	case ChecksumNone:
		return "None"
	case ChecksumXxHash64:
		return "XxHash64"
	default:
		return "Unknown"
	}
}
