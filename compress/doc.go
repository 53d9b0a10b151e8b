// Package compress provides the compression codecs applied to a stream's
// chunk payload or to the footer (§4.3, §6): a shared Codec interface, a
// no-op passthrough, and Zstandard with a dual cgo/pure-Go implementation
// selected by build tag, so a deployment can choose between gozstd's
// speed and a CGO_ENABLED=0 build.
//
// CreateCodec and GetCodec dispatch on format.CompressionKind, the wire
// byte recorded alongside every compressed stream. MetaInternal identifies
// a proprietary codec from the original storage engine that has no public
// implementation; it is recognized by the enum, but CreateCodec and
// GetCodec report it unsupported, and the package has no hook for
// registering another codec for it.
package compress
