package encoding

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFixedBitPacked_RoundTrip(t *testing.T) {
	values := []uint32{100, 103, 107, 99, 105, 108}
	payload, err := EncodeFixedBitPacked(values)
	require.NoError(t, err)

	header, n, err := ParseHeader(payload)
	require.NoError(t, err)
	dec, _, err := DecodeFixedBitPacked[uint32](header, payload[n:])
	require.NoError(t, err)

	out := make([]uint32, len(values))
	require.NoError(t, dec.Materialize(len(values), out))
	require.Equal(t, values, out)
}

func TestFixedBitPacked_NegativeBase(t *testing.T) {
	values := []int64{-5, -2, 0, 3, -5}
	payload, err := EncodeFixedBitPacked(values)
	require.NoError(t, err)

	header, n, err := ParseHeader(payload)
	require.NoError(t, err)
	dec, _, err := DecodeFixedBitPacked[int64](header, payload[n:])
	require.NoError(t, err)

	out := make([]int64, len(values))
	require.NoError(t, dec.Materialize(len(values), out))
	require.Equal(t, values, out)
}

func TestFixedBitPacked_Skip(t *testing.T) {
	values := []uint16{1, 2, 3, 4, 5, 6}
	payload, err := EncodeFixedBitPacked(values)
	require.NoError(t, err)

	header, n, err := ParseHeader(payload)
	require.NoError(t, err)
	dec, _, err := DecodeFixedBitPacked[uint16](header, payload[n:])
	require.NoError(t, err)

	require.NoError(t, dec.Skip(4))
	out := make([]uint16, 2)
	require.NoError(t, dec.Materialize(2, out))
	require.Equal(t, values[4:], out)
}
