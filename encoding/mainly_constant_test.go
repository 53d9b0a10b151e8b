package encoding

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMainlyConstant_RoundTrip(t *testing.T) {
	values := []int32{0, 0, 0, 7, 0, 0, -3, 0}
	payload, err := EncodeMainlyConstant(values, int32(0), EncodeTrivialFixed[int32])
	require.NoError(t, err)

	header, n, err := ParseHeader(payload)
	require.NoError(t, err)
	dec, _, err := DecodeMainlyConstant[int32](header, payload[n:])
	require.NoError(t, err)

	out := make([]int32, len(values))
	require.NoError(t, dec.Materialize(len(values), out))
	require.Equal(t, values, out)
}

func TestMainlyConstant_SkipThenMaterialize(t *testing.T) {
	values := []int32{0, 0, 0, 7, 0, 0, -3, 0}
	payload, err := EncodeMainlyConstant(values, int32(0), EncodeTrivialFixed[int32])
	require.NoError(t, err)

	header, n, err := ParseHeader(payload)
	require.NoError(t, err)
	dec, _, err := DecodeMainlyConstant[int32](header, payload[n:])
	require.NoError(t, err)

	require.NoError(t, dec.Skip(3))
	out := make([]int32, 5)
	require.NoError(t, dec.Materialize(5, out))
	require.Equal(t, values[3:], out)
}
