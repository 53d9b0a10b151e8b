package compress

import "errors"

// ErrMetaInternalUnavailable is returned by MetaInternalCodec, the
// placeholder for the proprietary codec format.CompressionMetaInternal
// names. The original storage engine's implementation was never part of
// this retrieval, and the package has no way to register a replacement.
var ErrMetaInternalUnavailable = errors.New("compress: MetaInternal codec is not implemented")

// MetaInternalCodec satisfies Codec for format.CompressionMetaInternal.
// CreateCodec and GetCodec never return it (they report MetaInternal
// unsupported), and both of its methods always fail: see
// ErrMetaInternalUnavailable.
type MetaInternalCodec struct{}

var _ Codec = (*MetaInternalCodec)(nil)

// NewMetaInternalCodec returns the MetaInternal placeholder codec.
func NewMetaInternalCodec() MetaInternalCodec { return MetaInternalCodec{} }

func (c MetaInternalCodec) Compress(data []byte) ([]byte, error) {
	return nil, ErrMetaInternalUnavailable
}

func (c MetaInternalCodec) Decompress(data []byte) ([]byte, error) {
	return nil, ErrMetaInternalUnavailable
}
