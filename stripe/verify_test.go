package stripe

import (
	"testing"

	"github.com/nimblefmt/nimble/format"
	"github.com/nimblefmt/nimble/schema"
	"github.com/stretchr/testify/require"
)

func TestVerify_ValidFile(t *testing.T) {
	root := buildSchema()
	w := NewWriter(root, format.ChecksumNone, format.CompressionUncompressed)
	w.WriteStripe(StripeStreams{
		Bytes:       map[schema.StreamID][]byte{0: []byte("a")},
		Compression: map[schema.StreamID]format.CompressionKind{0: format.CompressionUncompressed},
		StreamCount: 1,
		RowCount:    5,
	})
	file, err := w.Close()
	require.NoError(t, err)

	tab, err := Open(file)
	require.NoError(t, err)
	require.NoError(t, Verify(tab))
}

func TestVerify_NegativeRowCount(t *testing.T) {
	tab := &Tablet{footer: &Footer{
		Stripes: []StripeEntry{{Offset: 0, RowCount: -1}},
		Streams: [][]StreamEntry{{}},
	}}
	require.Error(t, Verify(tab))
}
