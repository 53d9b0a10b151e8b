// Package layout implements the schema-aligned encoding layout tree of
// §4.4 — a recorded bias for the selector, captured by a training pass and
// replayed at write time — and the flat-map stream ordering planner of
// §4.5.
package layout

import (
	"fmt"
	"sort"

	"github.com/nimblefmt/nimble/errs"
	"github.com/nimblefmt/nimble/format"
	"github.com/nimblefmt/nimble/schema"
)

// EncodingLayout is a recursive record of the encoding a stream was
// written with, mirroring the recursive structure of an encoding payload
// (§4.1): a Dictionary layout's Children holds only the indices sub-layout
// (the alphabet's encoding is not recorded), an RLE layout's holds
// run-lengths and run-values, and so on.
type EncodingLayout struct {
	Encoding    format.EncodingKind
	Compression format.CompressionKind
	Children    []*EncodingLayout
}

// Tree mirrors the schema: every node carries a map from stream
// identifier (scoped to this node) to the EncodingLayout recorded for it.
// Interior nodes (e.g. a Row) own a Nulls stream layout; a Scalar owns its
// single Values layout.
type Tree struct {
	Name     string
	Streams  map[schema.StreamID]*EncodingLayout
	Children []*Tree
}

// NewTree creates an empty layout node for the given schema node name.
func NewTree(name string) *Tree {
	return &Tree{Name: name, Streams: make(map[schema.StreamID]*EncodingLayout)}
}

// Set records the layout recorded for one stream identifier on this node.
func (t *Tree) Set(id schema.StreamID, l *EncodingLayout) {
	t.Streams[id] = l
}

// Get returns the layout recorded for one stream identifier, or nil if
// none was recorded (the selector then runs unbiased).
func (t *Tree) Get(id schema.StreamID) *EncodingLayout {
	return t.Streams[id]
}

// minNodeBuffer is the minimum serialized size §4.4 enforces per node
// (kind byte, empty name length, zero layout count, zero child count).
const minNodeBuffer = 8

// Encode serializes the tree in the recursive preorder §4.4 specifies.
func Encode(t *Tree) []byte {
	var buf []byte
	buf = appendNode(buf, t)

	return buf
}

func appendNode(buf []byte, t *Tree) []byte {
	start := len(buf)

	buf = append(buf, 0) // kind byte, reserved for future node-shape discriminants; always 0 today
	buf = appendU16(buf, uint16(len(t.Name)))
	buf = append(buf, t.Name...)

	buf = append(buf, byte(len(t.Streams)))
	ids := make([]schema.StreamID, 0, len(t.Streams))
	for id := range t.Streams {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		buf = append(buf, byte(id))
		payload := encodeLayout(t.Streams[id])
		buf = appendU16(buf, uint16(len(payload)))
		buf = append(buf, payload...)
	}

	buf = appendU32(buf, uint32(len(t.Children)))
	for _, c := range t.Children {
		buf = appendNode(buf, c)
	}

	if len(buf)-start < minNodeBuffer {
		pad := make([]byte, minNodeBuffer-(len(buf)-start))
		buf = append(buf, pad...)
	}

	return buf
}

func encodeLayout(l *EncodingLayout) []byte {
	if l == nil {
		return nil
	}
	buf := []byte{byte(l.Encoding), byte(l.Compression)}
	buf = appendU16(buf, uint16(len(l.Children)))
	for _, c := range l.Children {
		child := encodeLayout(c)
		buf = appendU16(buf, uint16(len(child)))
		buf = append(buf, child...)
	}

	return buf
}

// Decode parses a layout tree previously produced by Encode.
func Decode(buf []byte) (*Tree, error) {
	t, _, err := parseNode(buf)

	return t, err
}

func parseNode(buf []byte) (*Tree, int, error) {
	if len(buf) < minNodeBuffer {
		return nil, 0, fmt.Errorf("%w: layout node buffer shorter than minimum", errs.ErrMalformedFile)
	}
	pos := 1 // skip kind byte
	nameLen := int(readU16(buf[pos:]))
	pos += 2
	if pos+nameLen > len(buf) {
		return nil, 0, fmt.Errorf("%w: layout node name truncated", errs.ErrMalformedFile)
	}
	name := string(buf[pos : pos+nameLen])
	pos += nameLen

	t := NewTree(name)
	layoutCount := int(buf[pos])
	pos++
	for i := 0; i < layoutCount; i++ {
		if pos >= len(buf) {
			return nil, 0, fmt.Errorf("%w: layout identifier truncated", errs.ErrMalformedFile)
		}
		id := schema.StreamID(buf[pos])
		pos++
		ln := int(readU16(buf[pos:]))
		pos += 2
		if pos+ln > len(buf) {
			return nil, 0, fmt.Errorf("%w: layout bytes truncated", errs.ErrMalformedFile)
		}
		l, err := decodeLayout(buf[pos : pos+ln])
		if err != nil {
			return nil, 0, err
		}
		pos += ln
		t.Set(id, l)
	}

	if pos+4 > len(buf) {
		return nil, 0, fmt.Errorf("%w: layout child count truncated", errs.ErrMalformedFile)
	}
	childCount := int(readU32(buf[pos:]))
	pos += 4
	for i := 0; i < childCount; i++ {
		child, n, err := parseNode(buf[pos:])
		if err != nil {
			return nil, 0, err
		}
		t.Children = append(t.Children, child)
		pos += n
	}

	consumed := pos
	if consumed < minNodeBuffer {
		consumed = minNodeBuffer
	}

	return t, consumed, nil
}

func decodeLayout(buf []byte) (*EncodingLayout, error) {
	if len(buf) == 0 {
		return nil, nil
	}
	if len(buf) < 4 {
		return nil, fmt.Errorf("%w: encoding layout buffer truncated", errs.ErrMalformedFile)
	}
	l := &EncodingLayout{Encoding: format.EncodingKind(buf[0]), Compression: format.CompressionKind(buf[1])}
	pos := 2
	childCount := int(readU16(buf[pos:]))
	pos += 2
	for i := 0; i < childCount; i++ {
		if pos+2 > len(buf) {
			return nil, fmt.Errorf("%w: encoding layout child length truncated", errs.ErrMalformedFile)
		}
		ln := int(readU16(buf[pos:]))
		pos += 2
		if pos+ln > len(buf) {
			return nil, fmt.Errorf("%w: encoding layout child bytes truncated", errs.ErrMalformedFile)
		}
		child, err := decodeLayout(buf[pos : pos+ln])
		if err != nil {
			return nil, err
		}
		pos += ln
		l.Children = append(l.Children, child)
	}

	return l, nil
}

func appendU16(buf []byte, v uint16) []byte {
	return append(buf, byte(v), byte(v>>8))
}

func appendU32(buf []byte, v uint32) []byte {
	return append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func readU16(buf []byte) uint16 {
	return uint16(buf[0]) | uint16(buf[1])<<8
}

func readU32(buf []byte) uint32 {
	return uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
}
