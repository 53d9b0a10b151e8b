package schema

// Walk visits n and every descendant in the same preorder Allocate numbers
// streams in, calling visit once per node.
func Walk(n *Node, visit func(*Node)) {
	if n == nil {
		return
	}
	visit(n)

	switch n.Kind {
	case KindArray, KindArrayWithOffsets:
		Walk(n.Elements, visit)
	case KindMap, KindSlidingWindowMap:
		Walk(n.Keys, visit)
		Walk(n.Values_, visit)
	case KindRow:
		for _, c := range n.Children {
			Walk(c, visit)
		}
	case KindFlatMap:
		for _, v := range n.FeatureNodes {
			Walk(v, visit)
		}
	}
}

// StreamIDs returns every stream descriptor owned by n and its descendants,
// walking nodes in preorder and listing each node's own descriptors when it
// is visited. A FlatMap lists all of its in-map streams at the FlatMap node,
// ahead of its feature subtrees, so for a FlatMap this order differs from
// the numbering Allocate assigns. It is the default ordering the layout
// planner (§4.5) falls back to for non-flat-map streams.
func StreamIDs(n *Node) []StreamID {
	var ids []StreamID
	Walk(n, func(cur *Node) {
		switch cur.Kind {
		case KindScalar:
			ids = append(ids, cur.ValuesID)
		case KindArray:
			ids = append(ids, cur.LengthsID)
		case KindArrayWithOffsets:
			ids = append(ids, cur.OffsetsID, cur.LengthsID)
		case KindMap:
			ids = append(ids, cur.LengthsID)
		case KindSlidingWindowMap:
			ids = append(ids, cur.LengthsID, cur.WindowLengths)
		case KindRow:
			ids = append(ids, cur.NullsID)
		case KindFlatMap:
			ids = append(ids, cur.NullsID)
			ids = append(ids, cur.InMapIDs...)
		}
	})

	return ids
}

// Find locates the descendant of root (inclusive) reached by following
// path: Row child names, or FlatMap feature keys. It is used to resolve a
// dotted column path to its Node.
func Find(root *Node, path []string) (*Node, bool) {
	cur := root
	for _, seg := range path {
		switch cur.Kind {
		case KindRow:
			next, ok := cur.FindChild(seg)
			if !ok {
				return nil, false
			}
			cur = next
		case KindFlatMap:
			idx := -1
			for i, k := range cur.FeatureKeys {
				if k == seg {
					idx = i
					break
				}
			}
			if idx < 0 {
				return nil, false
			}
			cur = cur.FeatureNodes[idx]
		default:
			return nil, false
		}
	}

	return cur, true
}
