package stripe

import (
	"fmt"

	"github.com/nimblefmt/nimble/errs"
	"github.com/nimblefmt/nimble/schema"
)

// encodeSchema and decodeSchema serialize the logical type tree (§3) into
// the footer: a recursive preorder record of each node's kind, name, and
// kind-specific payload (a Scalar's ScalarKind; a FlatMap's feature key
// list; a child count for everything with children). There is no
// bit-exact wire format mandated for the schema tree itself, so this
// mirrors the encoding-layout tree's own preorder convention (§4.4) for
// consistency within one footer.
func encodeSchema(buf []byte, n *schema.Node) []byte {
	buf = append(buf, byte(n.Kind))
	buf = appendString(buf, n.Name)

	switch n.Kind {
	case schema.KindScalar:
		buf = append(buf, byte(n.Scalar))

	case schema.KindArray, schema.KindArrayWithOffsets:
		buf = encodeSchema(buf, n.Elements)

	case schema.KindMap, schema.KindSlidingWindowMap:
		buf = encodeSchema(buf, n.Keys)
		buf = encodeSchema(buf, n.Values_)

	case schema.KindRow:
		buf = appendU32(buf, uint32(len(n.Children)))
		for _, c := range n.Children {
			buf = encodeSchema(buf, c)
		}

	case schema.KindFlatMap:
		buf = appendU32(buf, uint32(len(n.FeatureKeys)))
		for i, k := range n.FeatureKeys {
			buf = appendString(buf, k)
			buf = encodeSchema(buf, n.FeatureNodes[i])
		}
	}

	return buf
}

func decodeSchema(buf []byte, pos int) (*schema.Node, int, error) {
	if pos >= len(buf) {
		return nil, 0, fmt.Errorf("%w: schema node kind truncated", errs.ErrMalformedFile)
	}
	kind := schema.Kind(buf[pos])
	pos++

	name, pos, err := readStringAt(buf, pos)
	if err != nil {
		return nil, 0, err
	}

	node := &schema.Node{Kind: kind, Name: name}

	switch kind {
	case schema.KindScalar:
		if pos >= len(buf) {
			return nil, 0, fmt.Errorf("%w: scalar kind truncated", errs.ErrMalformedFile)
		}
		node.Scalar = schema.ScalarKind(buf[pos])
		pos++

	case schema.KindArray, schema.KindArrayWithOffsets:
		var elements *schema.Node
		elements, pos, err = decodeSchema(buf, pos)
		if err != nil {
			return nil, 0, err
		}
		node.Elements = elements

	case schema.KindMap, schema.KindSlidingWindowMap:
		var keys, values *schema.Node
		keys, pos, err = decodeSchema(buf, pos)
		if err != nil {
			return nil, 0, err
		}
		values, pos, err = decodeSchema(buf, pos)
		if err != nil {
			return nil, 0, err
		}
		node.Keys = keys
		node.Values_ = values

	case schema.KindRow:
		var count uint32
		count, pos, err = readU32At(buf, pos)
		if err != nil {
			return nil, 0, err
		}
		node.Children = make([]*schema.Node, count)
		for i := range node.Children {
			node.Children[i], pos, err = decodeSchema(buf, pos)
			if err != nil {
				return nil, 0, err
			}
		}

	case schema.KindFlatMap:
		var count uint32
		count, pos, err = readU32At(buf, pos)
		if err != nil {
			return nil, 0, err
		}
		for i := uint32(0); i < count; i++ {
			var key string
			key, pos, err = readStringAt(buf, pos)
			if err != nil {
				return nil, 0, err
			}
			var value *schema.Node
			value, pos, err = decodeSchema(buf, pos)
			if err != nil {
				return nil, 0, err
			}
			node.FeatureKeys = append(node.FeatureKeys, key)
			node.FeatureNodes = append(node.FeatureNodes, value)
		}

	default:
		return nil, 0, fmt.Errorf("%w: unknown schema node kind %d", errs.ErrMalformedFile, kind)
	}

	schema.Allocate(node)

	return node, pos, nil
}
