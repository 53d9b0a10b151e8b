package bitio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBitsRequired(t *testing.T) {
	require.Equal(t, 0, BitsRequired(0))
	require.Equal(t, 1, BitsRequired(1))
	require.Equal(t, 3, BitsRequired(7))
	require.Equal(t, 4, BitsRequired(8))
}

func TestBitWriterReader_RoundTrip(t *testing.T) {
	values := []uint64{0, 1, 2, 3, 4, 5, 6, 7, 31, 17}
	width := BitsRequired(31)

	w := NewBitWriter(width)
	for _, v := range values {
		w.Write(v)
	}
	packed := w.Flush()
	require.Equal(t, PackedByteLen(len(values), width), len(packed))

	r := NewBitReader(packed, width)
	for _, want := range values {
		require.Equal(t, want, r.Read())
	}
}

func TestBitReader_Skip(t *testing.T) {
	w := NewBitWriter(4)
	for i := uint64(0); i < 10; i++ {
		w.Write(i)
	}
	packed := w.Flush()

	r := NewBitReader(packed, 4)
	r.Skip(5)
	require.Equal(t, uint64(5), r.Read())
}

func TestStringRoundTrip(t *testing.T) {
	buf := PutString(nil, "hello")
	buf = PutString(buf, "world")

	s1, n1, ok := GetString(buf)
	require.True(t, ok)
	require.Equal(t, "hello", s1)

	s2, n2, ok := GetString(buf[n1:])
	require.True(t, ok)
	require.Equal(t, "world", s2)
	require.Equal(t, len(buf), n1+n2)
}

func TestBoolBitSet(t *testing.T) {
	s := NewBoolBitSet(10)
	s.Set(0, true)
	s.Set(3, true)
	s.Set(9, true)

	require.True(t, s.Get(0))
	require.False(t, s.Get(1))
	require.True(t, s.Get(3))
	require.True(t, s.Get(9))
	require.Equal(t, 3, s.PopCount())

	var seen []int
	s.Each(func(i int, bit bool) {
		if bit {
			seen = append(seen, i)
		}
	})
	require.Equal(t, []int{0, 3, 9}, seen)
}
