package encoding

import (
	"testing"

	"github.com/nimblefmt/nimble/format"
	"github.com/stretchr/testify/require"
)

func decodeAnyRoundTrip[T comparable](t *testing.T, payload []byte, expected []T) {
	t.Helper()
	header, n, err := ParseHeader(payload)
	require.NoError(t, err)
	dec, _, err := DecodeAny[T](header, payload[n:])
	require.NoError(t, err)

	out := make([]T, len(expected))
	require.NoError(t, dec.Materialize(len(expected), out))
	require.Equal(t, expected, out)
}

func TestSelect_ChoosesRLEForLongRuns(t *testing.T) {
	values := make([]int32, 0, 40)
	for i := 0; i < 10; i++ {
		for j := 0; j < 4; j++ {
			values = append(values, int32(i))
		}
	}
	payload, err := Select(values, nil)
	require.NoError(t, err)

	header, _, err := ParseHeader(payload)
	require.NoError(t, err)
	require.Equal(t, uint32(len(values)), header.RowCount)
	require.Equal(t, format.EncodingRLE, header.Kind)

	decodeAnyRoundTrip(t, payload, values)
}

func TestSelect_ChoosesDictionaryForLowCardinality(t *testing.T) {
	values := make([]string, 0, 50)
	alphabet := []string{"alpha", "beta", "gamma", "delta"}
	for i := 0; i < 50; i++ {
		values = append(values, alphabet[i%len(alphabet)])
	}
	payload, err := Select(values, nil)
	require.NoError(t, err)

	header, _, err := ParseHeader(payload)
	require.NoError(t, err)
	require.Equal(t, format.EncodingDictionary, header.Kind)

	decodeAnyRoundTrip(t, payload, values)
}

func TestSelect_ChoosesConstantForUniformValues(t *testing.T) {
	values := make([]int32, 20)
	for i := range values {
		values[i] = 42
	}
	payload, err := Select(values, nil)
	require.NoError(t, err)

	header, _, err := ParseHeader(payload)
	require.NoError(t, err)
	require.Equal(t, format.EncodingConstant, header.Kind)

	decodeAnyRoundTrip(t, payload, values)
}

func TestSelect_BoolSparse(t *testing.T) {
	values := make([]bool, 100)
	values[7] = true
	values[42] = true

	payload, err := Select(values, nil)
	require.NoError(t, err)

	decodeAnyRoundTrip(t, payload, values)
}
