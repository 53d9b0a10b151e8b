package stripe

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/nimblefmt/nimble/compress"
	"github.com/nimblefmt/nimble/errs"
	"github.com/nimblefmt/nimble/schema"
)

// Tablet is the read-side view of one file: its parsed footer plus the
// raw byte range every stripe's streams are sliced from (§4.3). A Tablet
// does not copy stripe bytes; it hands out non-owning slices into file,
// per §9's "shared ownership of file bytes" design note.
type Tablet struct {
	file   []byte
	footer *Footer
}

// Open parses file's trailer and footer, verifying the magic number and
// (if present) the checksum, and returns a Tablet ready to serve stripe
// and stream lookups.
func Open(file []byte) (*Tablet, error) {
	tr, err := parseTrailer(file)
	if err != nil {
		return nil, err
	}

	footerStart := len(file) - trailerSize - int(tr.footerLength)
	if footerStart < 0 {
		return nil, fmt.Errorf("%w: footer length exceeds file size", errs.ErrMalformedFile)
	}
	footerBytes := file[footerStart : footerStart+int(tr.footerLength)]

	if tr.checksumKind == 0 {
		// ChecksumNone: no verification performed.
	} else {
		sum := xxhash.Sum64(footerBytes)
		if sum != tr.checksum {
			return nil, fmt.Errorf("%w: footer checksum mismatch", errs.ErrMalformedFile)
		}
	}

	codec, err := compress.GetCodec(tr.footerCompression)
	if err != nil {
		return nil, err
	}
	decompressed, err := codec.Decompress(footerBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: footer decompression failed: %v", errs.ErrIO, err)
	}

	footer, err := DecodeFooter(decompressed)
	if err != nil {
		return nil, err
	}

	return &Tablet{file: file, footer: footer}, nil
}

// Schema returns the file's decoded schema tree.
func (t *Tablet) Schema() *schema.Node { return t.footer.Schema }

// Metadata returns the file's key/value metadata map. It is decoded with
// the rest of the footer in Open, so a malformed metadata section makes
// Open fail rather than this call.
func (t *Tablet) Metadata() map[string]string { return t.footer.Metadata }

// LayoutTree returns the raw encoding-layout-tree blob, or nil if the
// file carries none; callers decode it with the layout package.
func (t *Tablet) LayoutTree() []byte { return t.footer.LayoutTree }

// StripeCount returns the number of stripes in the file.
func (t *Tablet) StripeCount() int { return len(t.footer.Stripes) }

// StripeRowCount returns stripe i's row count.
func (t *Tablet) StripeRowCount(i int) int64 { return t.footer.Stripes[i].RowCount }

// StripeOffset returns stripe i's byte offset within the file.
func (t *Tablet) StripeOffset(i int) int64 { return t.footer.Stripes[i].Offset }

// StreamCount returns the number of stream table entries stripe i
// carries.
func (t *Tablet) StreamCount(stripe int) int { return len(t.footer.Streams[stripe]) }

// StreamOffsets returns stripe i's per-stream byte offsets, positional by
// StreamID.
func (t *Tablet) StreamOffsets(stripe int) []int64 {
	entries := t.footer.Streams[stripe]
	out := make([]int64, len(entries))
	for i, e := range entries {
		out[i] = e.Offset
	}

	return out
}

// StreamSizes returns stripe i's per-stream byte sizes, positional by
// StreamID.
func (t *Tablet) StreamSizes(stripe int) []int64 {
	entries := t.footer.Streams[stripe]
	out := make([]int64, len(entries))
	for i, e := range entries {
		out[i] = e.Size
	}

	return out
}

// StreamHandle is a non-owning view of one stream's raw bytes within one
// stripe, or absent if the stream was empty in that stripe.
type StreamHandle struct {
	Bytes       []byte
	Compression compress.Codec
}

// Load returns, in positional order matching streamIDs, either a
// StreamHandle or nil for each requested stream within stripe (§4.3:
// "load(stripe, stream_ids) -> [Option<LazyStreamHandle>]").
func (t *Tablet) Load(stripe int, streamIDs []schema.StreamID) ([]*StreamHandle, error) {
	if stripe < 0 || stripe >= len(t.footer.Stripes) {
		return nil, fmt.Errorf("%w: stripe index %d out of range", errs.ErrMalformedFile, stripe)
	}
	stripeEntry := t.footer.Stripes[stripe]
	stripeBytes := t.file[stripeEntry.Offset : stripeEntry.Offset+stripeEntry.Size]
	entries := t.footer.Streams[stripe]

	out := make([]*StreamHandle, len(streamIDs))
	for i, id := range streamIDs {
		idx := int(id)
		if idx < 0 || idx >= len(entries) {
			continue
		}
		e := entries[idx]
		if e.Size == 0 {
			continue
		}
		codec, err := compress.GetCodec(e.Compression)
		if err != nil {
			return nil, err
		}
		out[i] = &StreamHandle{
			Bytes:       stripeBytes[e.Offset : e.Offset+e.Size],
			Compression: codec,
		}
	}

	return out, nil
}

// SelectableStripes returns the indices of every stripe whose StripeOffset
// lies within [start, end) — the sole range-read admission rule (§4.3).
func (t *Tablet) SelectableStripes(start, end int64) []int {
	var out []int
	for i, s := range t.footer.Stripes {
		if s.Offset >= start && s.Offset < end {
			out = append(out, i)
		}
	}

	return out
}
