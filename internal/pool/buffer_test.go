package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteBuffer_GrowAndWrite(t *testing.T) {
	bb := NewByteBuffer(4, nil)
	bb.MustWrite([]byte("hello"))
	bb.MustWrite([]byte(" world"))
	require.Equal(t, "hello world", string(bb.Bytes()))
}

func TestByteBuffer_ExtendOrGrow(t *testing.T) {
	bb := NewByteBuffer(0, nil)
	bb.ExtendOrGrow(10)
	require.Equal(t, 10, bb.Len())
	require.GreaterOrEqual(t, bb.Cap(), 10)
}

func TestBufferTyped_AppendAndResize(t *testing.T) {
	b := NewBuffer[int64](0, nil)
	b.Append(1, 2, 3)
	require.Equal(t, []int64{1, 2, 3}, b.Values())

	b.Resize(5)
	require.Equal(t, 5, b.Len())

	b.Resize(2)
	require.Equal(t, []int64{1, 2}, b.Values())
}

func TestSlicePool_Get(t *testing.T) {
	sp := NewSlicePool[float64]()
	s, cleanup := sp.Get(10)
	require.Len(t, s, 10)
	cleanup()

	s2, cleanup2 := sp.Get(3)
	require.Len(t, s2, 3)
	cleanup2()
}

func TestPool_UsageTracking(t *testing.T) {
	p, err := NewDefaultPool(WithUsageTracking(true))
	require.NoError(t, err)

	bb := p.GetByteBuffer()
	p.Account(int64(bb.Cap()))
	require.Equal(t, int64(bb.Cap()), p.Allocated())

	p.PutByteBuffer(bb)
	require.Equal(t, int64(0), p.Allocated())
}

func TestPool_UsageTrackingDisabledByDefault(t *testing.T) {
	p, err := NewDefaultPool()
	require.NoError(t, err)

	p.Account(1024)
	require.Equal(t, int64(0), p.Allocated())
}
