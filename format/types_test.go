package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDataType_Width(t *testing.T) {
	require.Equal(t, 1, DataTypeInt8.Width())
	require.Equal(t, 8, DataTypeFloat64.Width())
	require.Equal(t, 0, DataTypeString.Width())
}

func TestEncodingKind_String(t *testing.T) {
	require.Equal(t, "RLE", EncodingRLE.String())
	require.Equal(t, "Unknown", EncodingKind(0xFF).String())
}
