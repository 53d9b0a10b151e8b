package stripe

import (
	"github.com/nimblefmt/nimble/compress"
	"github.com/nimblefmt/nimble/format"
	"github.com/nimblefmt/nimble/internal/pool"
	"github.com/nimblefmt/nimble/schema"
)

// StripeStreams is one stripe's streams, keyed by StreamID, ready to be
// appended to the file: each entry is the already chunk-framed stream
// byte span (as produced by stream.Writer.Bytes) plus the compression
// kind its chunks were written with.
type StripeStreams struct {
	Bytes       map[schema.StreamID][]byte
	Compression map[schema.StreamID]format.CompressionKind
	StreamCount int // positional width, including streams absent from this stripe
	RowCount    int64
}

// Writer accumulates stripes and produces the final file bytes on Close
// (§4.3). All stripes accumulate in one in-memory buffer, and Close returns
// the whole file.
type Writer struct {
	schema             *schema.Node
	checksumKind       format.ChecksumKind
	footerCompression  format.CompressionKind
	metadata           map[string]string
	layoutTree         []byte
	out                *pool.ByteBuffer
	stripes            []StripeEntry
	streams            [][]StreamEntry
}

// NewWriter creates a Writer for a file with the given schema.
func NewWriter(root *schema.Node, checksumKind format.ChecksumKind, footerCompression format.CompressionKind) *Writer {
	return &Writer{
		schema:            root,
		checksumKind:      checksumKind,
		footerCompression: footerCompression,
		metadata:          make(map[string]string),
		out:               pool.Default().GetByteBuffer(),
	}
}

// SetMetadata records one footer metadata key/value pair.
func (w *Writer) SetMetadata(key, value string) { w.metadata[key] = value }

// SetLayoutTree attaches an encoding-layout-tree blob (§4.4) to the
// footer, e.g. one produced by layout.Encode.
func (w *Writer) SetLayoutTree(blob []byte) { w.layoutTree = blob }

// WriteStripe appends one stripe's bytes to the file and records its
// footer entries. Streams are laid out in StreamCount positional order;
// a StreamID with no entry in s.Bytes is recorded as zero-size (absent).
func (w *Writer) WriteStripe(s StripeStreams) {
	stripeStart := int64(w.out.Len())

	entries := make([]StreamEntry, s.StreamCount)
	for id := 0; id < s.StreamCount; id++ {
		sid := schema.StreamID(id)
		payload, ok := s.Bytes[sid]
		if !ok || len(payload) == 0 {
			continue
		}
		offset := int64(w.out.Len()) - stripeStart
		w.out.MustWrite(payload)
		entries[id] = StreamEntry{Offset: offset, Size: int64(len(payload)), Compression: s.Compression[sid]}
	}

	w.stripes = append(w.stripes, StripeEntry{
		Offset:   stripeStart,
		Size:     int64(w.out.Len()) - stripeStart,
		RowCount: s.RowCount,
	})
	w.streams = append(w.streams, entries)
}

// Close finalizes the file: encodes the footer, compresses it, and
// appends the checksum/magic trailer (§4.3). It returns the complete file
// bytes.
func (w *Writer) Close() ([]byte, error) {
	footer := &Footer{
		Schema:     w.schema,
		Stripes:    w.stripes,
		Streams:    w.streams,
		Metadata:   w.metadata,
		LayoutTree: w.layoutTree,
	}
	footerBytes := EncodeFooter(footer)

	codec, err := compress.CreateCodec(w.footerCompression, "footer")
	if err != nil {
		return nil, err
	}
	compressed, err := codec.Compress(footerBytes)
	if err != nil {
		return nil, err
	}

	w.out.MustWrite(compressed)
	w.out.MustWrite(EncodeTrailer(compressed, w.checksumKind, w.footerCompression))

	return w.out.Bytes(), nil
}
