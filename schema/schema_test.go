package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllocate_Row(t *testing.T) {
	root := NewRow("root",
		NewScalar("a", ScalarInt32),
		NewArray("b", NewScalar("b.elements", ScalarString)),
	)
	n := Allocate(root)
	require.Equal(t, 4, n)

	require.Equal(t, StreamID(0), root.NullsID)
	a, _ := root.FindChild("a")
	require.Equal(t, StreamID(1), a.ValuesID)
	b, _ := root.FindChild("b")
	require.Equal(t, StreamID(2), b.LengthsID)
	require.Equal(t, StreamID(3), b.Elements.ValuesID)
}

func TestAllocate_Array_UnusedDescriptorsAreNoStream(t *testing.T) {
	b := NewArray("b", NewScalar("b.elements", ScalarString))
	Allocate(b)
	require.Equal(t, NoStream, b.OffsetsID)
	require.Equal(t, NoStream, b.NullsID)

	m := NewMap("m", NewScalar("m.keys", ScalarString), NewScalar("m.values", ScalarInt64))
	Allocate(m)
	require.Equal(t, NoStream, m.WindowLengths)
}

func TestAllocate_ArrayWithOffsets(t *testing.T) {
	n := NewArrayWithOffsets("x", NewScalar("x.elements", ScalarFloat64))
	count := Allocate(n)
	require.Equal(t, 3, count)
	require.Equal(t, StreamID(0), n.OffsetsID)
	require.Equal(t, StreamID(1), n.LengthsID)
	require.Equal(t, StreamID(2), n.Elements.ValuesID)
}

func TestAllocate_Map(t *testing.T) {
	m := NewMap("m", NewScalar("m.keys", ScalarString), NewScalar("m.values", ScalarInt64))
	count := Allocate(m)
	require.Equal(t, 3, count)
	require.Equal(t, StreamID(0), m.LengthsID)
	require.Equal(t, StreamID(1), m.Keys.ValuesID)
	require.Equal(t, StreamID(2), m.Values_.ValuesID)
}

func TestAllocate_SlidingWindowMap(t *testing.T) {
	m := NewSlidingWindowMap("m", NewScalar("m.keys", ScalarString), NewScalar("m.values", ScalarInt64))
	count := Allocate(m)
	require.Equal(t, 4, count)
	require.Equal(t, StreamID(0), m.LengthsID)
	require.Equal(t, StreamID(1), m.WindowLengths)
	require.Equal(t, StreamID(2), m.Keys.ValuesID)
	require.Equal(t, StreamID(3), m.Values_.ValuesID)
}

func TestAllocate_FlatMap(t *testing.T) {
	fm := NewFlatMap("fm")
	fm.AddFeature("f1", NewScalar("fm.f1", ScalarInt32))
	fm.AddFeature("f2", NewScalar("fm.f2", ScalarInt32))

	count := Allocate(fm)
	require.Equal(t, 5, count)
	require.Equal(t, StreamID(0), fm.NullsID)
	require.Equal(t, []StreamID{1, 3}, fm.InMapIDs)
	require.Equal(t, StreamID(2), fm.FeatureNodes[0].ValuesID)
	require.Equal(t, StreamID(4), fm.FeatureNodes[1].ValuesID)
}

func TestStreamIDs_Preorder(t *testing.T) {
	root := NewRow("root",
		NewScalar("a", ScalarInt32),
		NewScalar("b", ScalarInt32),
	)
	Allocate(root)
	ids := StreamIDs(root)
	require.Equal(t, []StreamID{0, 1, 2}, ids)
}

func TestFind(t *testing.T) {
	fm := NewFlatMap("fm")
	fm.AddFeature("k1", NewScalar("fm.k1", ScalarInt32))
	root := NewRow("root", NewScalar("a", ScalarInt32), fm)
	Allocate(root)

	n, ok := Find(root, []string{"fm", "k1"})
	require.True(t, ok)
	require.Equal(t, KindScalar, n.Kind)

	_, ok = Find(root, []string{"missing"})
	require.False(t, ok)
}

func TestRequireFlatMap(t *testing.T) {
	s := NewScalar("a", ScalarInt32)
	require.Error(t, s.RequireFlatMap())

	fm := NewFlatMap("fm")
	require.NoError(t, fm.RequireFlatMap())
}
