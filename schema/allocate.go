package schema

// Allocate assigns dense, monotonically increasing StreamIDs to every
// stream descriptor in the tree rooted at n, in the exact preorder §3
// specifies per node kind. It is idempotent only in the sense that
// calling it again renumbers the tree from scratch; callers allocate once
// per schema and keep the result.
func Allocate(root *Node) int {
	next := StreamID(0)
	next = allocate(root, next)

	return int(next)
}

func allocate(n *Node, next StreamID) StreamID {
	n.ValuesID = NoStream
	n.LengthsID = NoStream
	n.OffsetsID = NoStream
	n.NullsID = NoStream
	n.WindowLengths = NoStream

	switch n.Kind {
	case KindScalar:
		n.ValuesID = next
		next++

	case KindArray:
		n.LengthsID = next
		next++
		next = allocate(n.Elements, next)

	case KindArrayWithOffsets:
		n.OffsetsID = next
		next++
		n.LengthsID = next
		next++
		next = allocate(n.Elements, next)

	case KindMap:
		n.LengthsID = next
		next++
		next = allocate(n.Keys, next)
		next = allocate(n.Values_, next)

	case KindSlidingWindowMap:
		n.LengthsID = next
		next++
		n.WindowLengths = next
		next++
		next = allocate(n.Keys, next)
		next = allocate(n.Values_, next)

	case KindRow:
		n.NullsID = next
		next++
		for _, c := range n.Children {
			next = allocate(c, next)
		}

	case KindFlatMap:
		n.NullsID = next
		next++
		n.InMapIDs = make([]StreamID, len(n.FeatureNodes))
		for i, v := range n.FeatureNodes {
			n.InMapIDs[i] = next
			next++
			next = allocate(v, next)
		}
	}

	return next
}
