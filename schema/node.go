// Package schema implements the nested logical type tree of §3: a Node is
// one of Scalar, Array, Map, Row, FlatMap, ArrayWithOffsets, or
// SlidingWindowMap, and each interior or terminal node owns a set of
// stream descriptors — dense, monotonically assigned integer offsets into
// a single per-schema stream-identifier space.
package schema

import (
	"fmt"

	"github.com/nimblefmt/nimble/errs"
	"github.com/nimblefmt/nimble/format"
)

// Kind identifies the shape of one schema node.
type Kind uint8

const (
	KindScalar Kind = iota + 1
	KindArray
	KindMap
	KindRow
	KindFlatMap
	KindArrayWithOffsets
	KindSlidingWindowMap
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "Scalar"
	case KindArray:
		return "Array"
	case KindMap:
		return "Map"
	case KindRow:
		return "Row"
	case KindFlatMap:
		return "FlatMap"
	case KindArrayWithOffsets:
		return "ArrayWithOffsets"
	case KindSlidingWindowMap:
		return "SlidingWindowMap"
	default:
		return "Unknown"
	}
}

// ScalarKind is the logical scalar type carried by a Scalar node or a
// FlatMap/Map value leaf, distinct from format.DataType which describes
// physical, width-based storage (§3).
type ScalarKind uint8

const (
	ScalarInt8 ScalarKind = iota + 1
	ScalarUint8
	ScalarInt16
	ScalarUint16
	ScalarInt32
	ScalarUint32
	ScalarInt64
	ScalarUint64
	ScalarFloat32
	ScalarFloat64
	ScalarBool
	ScalarString
	ScalarBinary
	ScalarUndefined
)

// DataType returns the physical storage type a ScalarKind is encoded as.
func (k ScalarKind) DataType() format.DataType {
	switch k {
	case ScalarInt8:
		return format.DataTypeInt8
	case ScalarUint8:
		return format.DataTypeUint8
	case ScalarInt16:
		return format.DataTypeInt16
	case ScalarUint16:
		return format.DataTypeUint16
	case ScalarInt32:
		return format.DataTypeInt32
	case ScalarUint32:
		return format.DataTypeUint32
	case ScalarInt64:
		return format.DataTypeInt64
	case ScalarUint64:
		return format.DataTypeUint64
	case ScalarFloat32:
		return format.DataTypeFloat32
	case ScalarFloat64:
		return format.DataTypeFloat64
	case ScalarBool:
		return format.DataTypeBool
	case ScalarString:
		return format.DataTypeString
	case ScalarBinary:
		return format.DataTypeBinary
	default:
		return 0
	}
}

// StreamID is a dense, non-negative integer offset into a schema's single
// stream-identifier space (§3). IDs are unique and stable for the
// lifetime of a file.
type StreamID uint32

// NoStream marks a descriptor field that a node kind does not use.
const NoStream StreamID = ^StreamID(0)

// Node is one node of the logical type tree (§3). Which fields are
// meaningful depends on Kind; Allocate populates the stream-descriptor
// fields (Values, Lengths, Offsets, Nulls, InMap) in schema order.
type Node struct {
	Kind Kind
	Name string

	Scalar ScalarKind // KindScalar

	Elements *Node // KindArray, KindArrayWithOffsets

	Keys          *Node // KindMap, KindSlidingWindowMap
	Values_       *Node // KindMap, KindSlidingWindowMap ("values" subtree; named to avoid clashing with the Values descriptor field)
	WindowLengths StreamID

	Children []*Node // KindRow

	FeatureKeys  []string // KindFlatMap, materialized keys in insertion order
	FeatureNodes []*Node  // KindFlatMap, value subtree per materialized key

	// Stream descriptors, populated by Allocate. Unused ones hold NoStream.
	ValuesID  StreamID // Scalar
	LengthsID StreamID // Array, Map, ArrayWithOffsets, SlidingWindowMap
	OffsetsID StreamID // ArrayWithOffsets
	NullsID   StreamID // Row, FlatMap
	InMapIDs  []StreamID
}

// NewScalar creates a Scalar leaf node.
func NewScalar(name string, kind ScalarKind) *Node {
	return &Node{Kind: KindScalar, Name: name, Scalar: kind}
}

// NewArray creates an Array node over elements.
func NewArray(name string, elements *Node) *Node {
	return &Node{Kind: KindArray, Name: name, Elements: elements}
}

// NewArrayWithOffsets creates an ArrayWithOffsets node over elements.
func NewArrayWithOffsets(name string, elements *Node) *Node {
	return &Node{Kind: KindArrayWithOffsets, Name: name, Elements: elements}
}

// NewMap creates a Map node over keys and values.
func NewMap(name string, keys, values *Node) *Node {
	return &Node{Kind: KindMap, Name: name, Keys: keys, Values_: values}
}

// NewSlidingWindowMap creates a SlidingWindowMap node: a Map plus a
// window-length stream (§3 supplement — treated exactly as Map for
// allocation and layout purposes beyond the extra stream).
func NewSlidingWindowMap(name string, keys, values *Node) *Node {
	return &Node{Kind: KindSlidingWindowMap, Name: name, Keys: keys, Values_: values}
}

// NewRow creates a Row node over named children.
func NewRow(name string, children ...*Node) *Node {
	return &Node{Kind: KindRow, Name: name, Children: children}
}

// NewFlatMap creates a FlatMap node with no materialized keys; AddFeature
// appends one.
func NewFlatMap(name string) *Node {
	return &Node{Kind: KindFlatMap, Name: name}
}

// AddFeature materializes one flat-map key with the given value subtree,
// in the order features should appear in schema preorder.
func (n *Node) AddFeature(key string, value *Node) {
	n.FeatureKeys = append(n.FeatureKeys, key)
	n.FeatureNodes = append(n.FeatureNodes, value)
}

// FindChild locates a direct child of a Row node by name, used by the flat-map layout
// planner and by path-based column lookup.
func (n *Node) FindChild(name string) (*Node, bool) {
	if n.Kind != KindRow {
		return nil, false
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c, true
		}
	}

	return nil, false
}

// RequireFlatMap returns an error unless n is a FlatMap node, the check
// the layout planner (§4.5) and flat-map feature selectors apply.
func (n *Node) RequireFlatMap() error {
	if n.Kind != KindFlatMap {
		return fmt.Errorf("%w: node %q is a %s, not a FlatMap", errs.ErrInvalidLayoutRequest, n.Name, n.Kind)
	}

	return nil
}
