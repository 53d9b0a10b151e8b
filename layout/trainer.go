package layout

import (
	"github.com/nimblefmt/nimble/encoding"
	"github.com/nimblefmt/nimble/format"
	"github.com/nimblefmt/nimble/schema"
)

// CaptureFromPayload derives the EncodingLayout a selector produced for
// one already-encoded stream, by walking its header chain (§4.4: "runs
// the selector once and records the resulting layout"). compression is
// the chunk compression kind the stream was written with; it has no
// bearing on the encoding byte layout itself, so it is supplied by the
// caller rather than recovered from the payload.
func CaptureFromPayload(payload []byte, compression format.CompressionKind) (*EncodingLayout, error) {
	header, n, err := encoding.ParseHeader(payload)
	if err != nil {
		return nil, err
	}
	d, _, err := encoding.Describe(header, payload[n:])
	if err != nil {
		return nil, err
	}

	return fromDescriptor(d, compression), nil
}

func fromDescriptor(d *encoding.Descriptor, compression format.CompressionKind) *EncodingLayout {
	if d == nil {
		return nil
	}
	l := &EncodingLayout{Encoding: d.Kind, Compression: compression}
	for _, c := range d.Children {
		l.Children = append(l.Children, fromDescriptor(c, compression))
	}

	return l
}

// CaptureFromTree walks schema (a Row/Array/Map/FlatMap tree) and samplePayloads
// (every stream's first encoded chunk payload, keyed by StreamID) into a Tree
// mirroring the schema's shape, one EncodingLayout per stream that has a
// sample.
func CaptureFromTree(root *schema.Node, samplePayloads map[schema.StreamID][]byte, compression format.CompressionKind) (*Tree, error) {
	return captureNode(root, samplePayloads, compression)
}

func captureNode(n *schema.Node, samples map[schema.StreamID][]byte, compression format.CompressionKind) (*Tree, error) {
	t := NewTree(n.Name)

	capture := func(id schema.StreamID) error {
		payload, ok := samples[id]
		if !ok {
			return nil
		}
		l, err := CaptureFromPayload(payload, compression)
		if err != nil {
			return err
		}
		t.Set(id, l)

		return nil
	}

	switch n.Kind {
	case schema.KindScalar:
		if err := capture(n.ValuesID); err != nil {
			return nil, err
		}

	case schema.KindArray:
		if err := capture(n.LengthsID); err != nil {
			return nil, err
		}
		child, err := captureNode(n.Elements, samples, compression)
		if err != nil {
			return nil, err
		}
		t.Children = append(t.Children, child)

	case schema.KindArrayWithOffsets:
		if err := capture(n.OffsetsID); err != nil {
			return nil, err
		}
		if err := capture(n.LengthsID); err != nil {
			return nil, err
		}
		child, err := captureNode(n.Elements, samples, compression)
		if err != nil {
			return nil, err
		}
		t.Children = append(t.Children, child)

	case schema.KindMap, schema.KindSlidingWindowMap:
		if err := capture(n.LengthsID); err != nil {
			return nil, err
		}
		if n.Kind == schema.KindSlidingWindowMap {
			if err := capture(n.WindowLengths); err != nil {
				return nil, err
			}
		}
		keys, err := captureNode(n.Keys, samples, compression)
		if err != nil {
			return nil, err
		}
		values, err := captureNode(n.Values_, samples, compression)
		if err != nil {
			return nil, err
		}
		t.Children = append(t.Children, keys, values)

	case schema.KindRow:
		if err := capture(n.NullsID); err != nil {
			return nil, err
		}
		for _, c := range n.Children {
			child, err := captureNode(c, samples, compression)
			if err != nil {
				return nil, err
			}
			t.Children = append(t.Children, child)
		}

	case schema.KindFlatMap:
		if err := capture(n.NullsID); err != nil {
			return nil, err
		}
		for i, v := range n.FeatureNodes {
			if err := capture(n.InMapIDs[i]); err != nil {
				return nil, err
			}
			child, err := captureNode(v, samples, compression)
			if err != nil {
				return nil, err
			}
			t.Children = append(t.Children, child)
		}
	}

	return t, nil
}

// Merge combines two layout trees recorded from different sample files
// into one, preferring b's recorded layout for any stream both trees cover
// (the "most recent sample wins" policy used by an incremental trainer).
func Merge(a, b *Tree) *Tree {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}

	out := NewTree(a.Name)
	for id, l := range a.Streams {
		out.Set(id, l)
	}
	for id, l := range b.Streams {
		out.Set(id, l)
	}

	for i := range a.Children {
		if i < len(b.Children) {
			out.Children = append(out.Children, Merge(a.Children[i], b.Children[i]))
		} else {
			out.Children = append(out.Children, a.Children[i])
		}
	}
	for i := len(a.Children); i < len(b.Children); i++ {
		out.Children = append(out.Children, b.Children[i])
	}

	return out
}
