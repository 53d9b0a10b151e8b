// Package stripe implements the on-disk stripe and tablet (file) layout
// of §4.3: an append-only sequence of stripe byte ranges followed by a
// footer carrying the schema, the per-stripe and per-stripe-stream
// tables, optional metadata, and an optional encoding-layout-tree blob.
package stripe

import (
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/nimblefmt/nimble/endian"
	"github.com/nimblefmt/nimble/errs"
	"github.com/nimblefmt/nimble/format"
	"github.com/nimblefmt/nimble/schema"
)

// Magic is the fixed two-byte value every tablet ends with.
const Magic uint16 = 0xA1FA

// MajorVersion and MinorVersion identify the file format revision written
// by this package.
const (
	MajorVersion uint16 = 1
	MinorVersion uint16 = 0
)

// trailerSize is the fixed-width trailer following the footer bytes:
// footer length (4) + checksum (8) + checksum kind (1) + footer
// compression kind (1) + minor version (2) + major version (2) + magic (2).
const trailerSize = 4 + 8 + 1 + 1 + 2 + 2 + 2

// StripeEntry is one row of the footer's per-stripe table.
type StripeEntry struct {
	Offset   int64
	Size     int64
	RowCount int64
}

// StreamEntry is one row of a stripe's stream table.
type StreamEntry struct {
	Offset      int64
	Size        int64
	Compression format.CompressionKind
}

// Footer is the fully decoded file footer.
type Footer struct {
	Schema       *schema.Node
	Stripes      []StripeEntry
	Streams      [][]StreamEntry // Streams[i] is stripe i's stream table, positional by StreamID
	Metadata     map[string]string
	LayoutTree   []byte // opaque §4.4 blob; decoded lazily by the layout package
	ChecksumKind format.ChecksumKind
}

// EncodeFooter serializes f's logical content, the bytes a Writer wraps
// with the trailer.
func EncodeFooter(f *Footer) []byte {
	var buf []byte

	buf = encodeSchema(buf, f.Schema)

	buf = appendU32(buf, uint32(len(f.Stripes)))
	for _, s := range f.Stripes {
		buf = appendU64(buf, uint64(s.Offset))
		buf = appendU64(buf, uint64(s.Size))
		buf = appendU64(buf, uint64(s.RowCount))
	}

	for _, streams := range f.Streams {
		buf = appendU32(buf, uint32(len(streams)))
		for _, s := range streams {
			buf = appendU64(buf, uint64(s.Offset))
			buf = appendU64(buf, uint64(s.Size))
			buf = append(buf, byte(s.Compression))
		}
	}

	buf = appendU32(buf, uint32(len(f.Metadata)))
	keys := make([]string, 0, len(f.Metadata))
	for k := range f.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		buf = appendString(buf, k)
		buf = appendString(buf, f.Metadata[k])
	}

	buf = appendU32(buf, uint32(len(f.LayoutTree)))
	buf = append(buf, f.LayoutTree...)

	return buf
}

// DecodeFooter parses footer bytes previously produced by EncodeFooter.
func DecodeFooter(buf []byte) (*Footer, error) {
	f := &Footer{Metadata: make(map[string]string)}

	root, pos, err := decodeSchema(buf, 0)
	if err != nil {
		return nil, err
	}
	f.Schema = root

	stripeCount, pos, err := readU32At(buf, pos)
	if err != nil {
		return nil, err
	}
	f.Stripes = make([]StripeEntry, stripeCount)
	for i := range f.Stripes {
		var offset, size, rows uint64
		offset, pos, err = readU64At(buf, pos)
		if err != nil {
			return nil, err
		}
		size, pos, err = readU64At(buf, pos)
		if err != nil {
			return nil, err
		}
		rows, pos, err = readU64At(buf, pos)
		if err != nil {
			return nil, err
		}
		f.Stripes[i] = StripeEntry{Offset: int64(offset), Size: int64(size), RowCount: int64(rows)}
	}

	f.Streams = make([][]StreamEntry, stripeCount)
	for i := range f.Streams {
		var streamCount uint32
		streamCount, pos, err = readU32At(buf, pos)
		if err != nil {
			return nil, err
		}
		streams := make([]StreamEntry, streamCount)
		for j := range streams {
			var offset, size uint64
			offset, pos, err = readU64At(buf, pos)
			if err != nil {
				return nil, err
			}
			size, pos, err = readU64At(buf, pos)
			if err != nil {
				return nil, err
			}
			if pos >= len(buf) {
				return nil, fmt.Errorf("%w: stream table compression kind truncated", errs.ErrMalformedFile)
			}
			streams[j] = StreamEntry{Offset: int64(offset), Size: int64(size), Compression: format.CompressionKind(buf[pos])}
			pos++
		}
		f.Streams[i] = streams
	}

	var metaCount uint32
	metaCount, pos, err = readU32At(buf, pos)
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < metaCount; i++ {
		var k, v string
		k, pos, err = readStringAt(buf, pos)
		if err != nil {
			return nil, err
		}
		v, pos, err = readStringAt(buf, pos)
		if err != nil {
			return nil, err
		}
		f.Metadata[k] = v
	}

	var layoutLen uint32
	layoutLen, pos, err = readU32At(buf, pos)
	if err != nil {
		return nil, err
	}
	if pos+int(layoutLen) > len(buf) {
		return nil, fmt.Errorf("%w: encoding layout tree blob truncated", errs.ErrMalformedFile)
	}
	f.LayoutTree = buf[pos : pos+int(layoutLen)]

	return f, nil
}

// EncodeTrailer appends the fixed trailer §4.3 mandates to the file bytes
// already containing every stripe and the footer: footer length,
// checksum, checksum kind, footer compression kind, versions, magic.
func EncodeTrailer(footerBytes []byte, checksumKind format.ChecksumKind, footerCompression format.CompressionKind) []byte {
	var checksum uint64
	if checksumKind == format.ChecksumXxHash64 {
		checksum = xxhash.Sum64(footerBytes)
	}

	buf := make([]byte, 0, trailerSize)
	buf = appendU32(buf, uint32(len(footerBytes)))
	buf = appendU64(buf, checksum)
	buf = append(buf, byte(checksumKind), byte(footerCompression))
	buf = append(buf, byte(MinorVersion), byte(MinorVersion>>8))
	buf = append(buf, byte(MajorVersion), byte(MajorVersion>>8))
	magic := Magic
	buf = append(buf, byte(magic), byte(magic>>8))

	return buf
}

// trailer is the parsed fixed-width tail of a tablet.
type trailer struct {
	footerLength      uint32
	checksum          uint64
	checksumKind      format.ChecksumKind
	footerCompression format.CompressionKind
	minorVersion      uint16
	majorVersion      uint16
}

// parseTrailer reads the trailer from the last trailerSize bytes of file,
// verifying the magic number (§4.3, §7: magic mismatch is fatal at open).
func parseTrailer(file []byte) (trailer, error) {
	if len(file) < trailerSize {
		return trailer{}, fmt.Errorf("%w: file shorter than trailer", errs.ErrMalformedFile)
	}
	t := file[len(file)-trailerSize:]
	e := endian.GetLittleEndianEngine()

	magic := e.Uint16(t[18:20])
	if magic != Magic {
		return trailer{}, fmt.Errorf("%w: bad magic number %#x", errs.ErrMalformedFile, magic)
	}

	return trailer{
		footerLength:      e.Uint32(t[0:4]),
		checksum:          e.Uint64(t[4:12]),
		checksumKind:      format.ChecksumKind(t[12]),
		footerCompression: format.CompressionKind(t[13]),
		minorVersion:      e.Uint16(t[14:16]),
		majorVersion:      e.Uint16(t[16:18]),
	}, nil
}

func appendU32(buf []byte, v uint32) []byte {
	return endian.GetLittleEndianEngine().AppendUint32(buf, v)
}

func appendU64(buf []byte, v uint64) []byte {
	return endian.GetLittleEndianEngine().AppendUint64(buf, v)
}

func appendString(buf []byte, s string) []byte {
	buf = appendU32(buf, uint32(len(s)))
	return append(buf, s...)
}

func readU32At(buf []byte, pos int) (uint32, int, error) {
	if pos+4 > len(buf) {
		return 0, 0, fmt.Errorf("%w: u32 field truncated", errs.ErrMalformedFile)
	}

	return endian.GetLittleEndianEngine().Uint32(buf[pos : pos+4]), pos + 4, nil
}

func readU64At(buf []byte, pos int) (uint64, int, error) {
	if pos+8 > len(buf) {
		return 0, 0, fmt.Errorf("%w: u64 field truncated", errs.ErrMalformedFile)
	}

	return endian.GetLittleEndianEngine().Uint64(buf[pos : pos+8]), pos + 8, nil
}

func readStringAt(buf []byte, pos int) (string, int, error) {
	length, pos, err := readU32At(buf, pos)
	if err != nil {
		return "", 0, err
	}
	if pos+int(length) > len(buf) {
		return "", 0, fmt.Errorf("%w: string field truncated", errs.ErrMalformedFile)
	}

	return string(buf[pos : pos+int(length)]), pos + int(length), nil
}
