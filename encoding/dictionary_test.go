package encoding

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDictionary_RoundTrip(t *testing.T) {
	values := []string{"a", "b", "a", "c", "b", "a"}
	payload, err := EncodeDictionary(values,
		func(alphabet []string) ([]byte, error) {
			bs := make([][]byte, len(alphabet))
			for i, a := range alphabet {
				bs[i] = []byte(a)
			}
			return EncodeTrivialVar(bs, false)
		},
		EncodeFixedBitPacked[uint32],
	)
	require.NoError(t, err)

	header, n, err := ParseHeader(payload)
	require.NoError(t, err)
	dec, _, err := DecodeDictionary[string](header, payload[n:])
	require.NoError(t, err)

	out := make([]string, len(values))
	require.NoError(t, dec.Materialize(len(values), out))
	require.Equal(t, values, out)
}

func TestDictionary_Skip(t *testing.T) {
	values := []int64{10, 20, 10, 30, 20}
	payload, err := EncodeDictionary(values, EncodeTrivialFixed[int64], EncodeFixedBitPacked[uint32])
	require.NoError(t, err)

	header, n, err := ParseHeader(payload)
	require.NoError(t, err)
	dec, _, err := DecodeDictionary[int64](header, payload[n:])
	require.NoError(t, err)

	require.NoError(t, dec.Skip(2))
	out := make([]int64, 3)
	require.NoError(t, dec.Materialize(3, out))
	require.Equal(t, values[2:], out)
}
