package encoding

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNullable_RoundTrip(t *testing.T) {
	values := []int32{1, 2, 3, 4, 5}
	present := []bool{true, false, true, false, true}

	payload, err := EncodeNullable(values, present, EncodeTrivialFixed[int32])
	require.NoError(t, err)

	header, n, err := ParseHeader(payload)
	require.NoError(t, err)
	dec, _, err := DecodeNullable[int32](header, payload[n:], DecodeAny[int32])
	require.NoError(t, err)

	out := make([]int32, len(values))
	require.NoError(t, dec.Materialize(len(values), out))
	require.Equal(t, []int32{1, 0, 3, 0, 5}, out)
}

func TestNullable_Skip(t *testing.T) {
	values := []int32{1, 2, 3, 4, 5}
	present := []bool{true, false, true, false, true}

	payload, err := EncodeNullable(values, present, EncodeTrivialFixed[int32])
	require.NoError(t, err)

	header, n, err := ParseHeader(payload)
	require.NoError(t, err)
	dec, _, err := DecodeNullable[int32](header, payload[n:], DecodeAny[int32])
	require.NoError(t, err)

	require.NoError(t, dec.Skip(2))
	out := make([]int32, 3)
	require.NoError(t, dec.Materialize(3, out))
	require.Equal(t, []int32{3, 0, 5}, out)
}
