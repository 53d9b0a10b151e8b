package encoding

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSparseBool_RoundTrip(t *testing.T) {
	values := []bool{true, true, true, false, true, true, false, true}
	payload, err := EncodeSparseBool(values, EncodeFixedBitPacked[uint32])
	require.NoError(t, err)

	header, n, err := ParseHeader(payload)
	require.NoError(t, err)
	dec, _, err := DecodeSparseBool(header, payload[n:])
	require.NoError(t, err)

	out := make([]bool, len(values))
	require.NoError(t, dec.Materialize(len(values), out))
	require.Equal(t, values, out)
}

func TestSparseBool_Skip(t *testing.T) {
	values := []bool{true, true, false, true, true, false, true, true}
	payload, err := EncodeSparseBool(values, EncodeFixedBitPacked[uint32])
	require.NoError(t, err)

	header, n, err := ParseHeader(payload)
	require.NoError(t, err)
	dec, _, err := DecodeSparseBool(header, payload[n:])
	require.NoError(t, err)

	require.NoError(t, dec.Skip(4))
	out := make([]bool, 4)
	require.NoError(t, dec.Materialize(4, out))
	require.Equal(t, values[4:], out)
}
