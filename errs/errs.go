// Package errs defines the sentinel errors shared by every nimble package.
//
// Call sites wrap a sentinel with context using fmt.Errorf("%w: ...", ...);
// callers should compare with errors.Is against the sentinels below rather
// than against the wrapped message.
package errs

import "errors"

var (
	// ErrMalformedFile covers magic/version mismatches, truncated footers,
	// and checksum failures detected while opening a tablet.
	ErrMalformedFile = errors.New("nimble: malformed file")

	// ErrMalformedEncoding covers unknown encoding kinds, a prefix row
	// count inconsistent with the buffer size, and nested-encoding size
	// mismatches.
	ErrMalformedEncoding = errors.New("nimble: malformed encoding")

	// ErrUnsupportedDataType covers an encoding/data-type combination that
	// has no decoder.
	ErrUnsupportedDataType = errors.New("nimble: unsupported data type")

	// ErrTypeMismatch covers a requested read type that is neither the
	// stored type nor a supported up-cast of it.
	ErrTypeMismatch = errors.New("nimble: type mismatch")

	// ErrSchemaMismatch covers a requested column path that is absent or
	// the wrong kind (e.g. a feature selector applied to a non-flat-map
	// node).
	ErrSchemaMismatch = errors.New("nimble: schema mismatch")

	// ErrInvalidLayoutRequest covers a layout-planner request naming a
	// column that is not a flat-map node.
	ErrInvalidLayoutRequest = errors.New("nimble: invalid layout request")

	// ErrDecoderStateExhausted covers a request for more rows than remain
	// in a stream.
	ErrDecoderStateExhausted = errors.New("nimble: decoder state exhausted")

	// ErrResourceExhausted covers a memory-pool allocation failure.
	ErrResourceExhausted = errors.New("nimble: resource exhausted")

	// ErrIO wraps errors surfaced from the file backend.
	ErrIO = errors.New("nimble: io error")
)
