package stripe

import (
	"testing"

	"github.com/nimblefmt/nimble/format"
	"github.com/nimblefmt/nimble/schema"
	"github.com/stretchr/testify/require"
)

func buildSchema() *schema.Node {
	root := schema.NewRow("root",
		schema.NewScalar("a", schema.ScalarInt32),
		schema.NewArray("b", schema.NewScalar("b.elements", schema.ScalarString)),
	)
	schema.Allocate(root)

	return root
}

func TestFooter_RoundTrip(t *testing.T) {
	root := buildSchema()
	f := &Footer{
		Schema: root,
		Stripes: []StripeEntry{
			{Offset: 0, Size: 100, RowCount: 10},
		},
		Streams: [][]StreamEntry{
			{
				{Offset: 0, Size: 40, Compression: format.CompressionZstd},
				{Offset: 40, Size: 20, Compression: format.CompressionUncompressed},
				{Offset: 60, Size: 40, Compression: format.CompressionUncompressed},
			},
		},
		Metadata:   map[string]string{"writer": "nimble"},
		LayoutTree: []byte{1, 2, 3},
	}

	buf := EncodeFooter(f)
	got, err := DecodeFooter(buf)
	require.NoError(t, err)

	require.Equal(t, "root", got.Schema.Name)
	require.Len(t, got.Stripes, 1)
	require.Equal(t, int64(10), got.Stripes[0].RowCount)
	require.Len(t, got.Streams[0], 3)
	require.Equal(t, format.CompressionZstd, got.Streams[0][0].Compression)
	require.Equal(t, "nimble", got.Metadata["writer"])
	require.Equal(t, []byte{1, 2, 3}, got.LayoutTree)
}

func TestEncodeFooter_Idempotent(t *testing.T) {
	root := buildSchema()
	f := &Footer{
		Schema: root,
		Stripes: []StripeEntry{
			{Offset: 0, Size: 100, RowCount: 10},
		},
		Streams: [][]StreamEntry{
			{{Offset: 0, Size: 40, Compression: format.CompressionZstd}},
		},
		Metadata: map[string]string{
			"writer":  "nimble",
			"created": "now",
			"zeta":    "last",
			"alpha":   "first",
		},
	}

	var first []byte
	for i := 0; i < 20; i++ {
		buf := EncodeFooter(f)
		if i == 0 {
			first = buf
			continue
		}
		require.Equal(t, first, buf)
	}
}

func TestTablet_WriteAndOpen(t *testing.T) {
	root := buildSchema()
	w := NewWriter(root, format.ChecksumXxHash64, format.CompressionUncompressed)
	w.SetMetadata("k", "v")

	w.WriteStripe(StripeStreams{
		Bytes: map[schema.StreamID][]byte{
			0: []byte("nulls-bytes"),
			1: []byte("values-bytes"),
			2: []byte("lengths-bytes"),
			3: []byte("elements-bytes"),
		},
		Compression: map[schema.StreamID]format.CompressionKind{
			0: format.CompressionUncompressed,
			1: format.CompressionUncompressed,
			2: format.CompressionUncompressed,
			3: format.CompressionUncompressed,
		},
		StreamCount: 4,
		RowCount:    10,
	})

	file, err := w.Close()
	require.NoError(t, err)

	tab, err := Open(file)
	require.NoError(t, err)

	require.Equal(t, 1, tab.StripeCount())
	require.Equal(t, int64(10), tab.StripeRowCount(0))
	require.Equal(t, "v", tab.Metadata()["k"])

	handles, err := tab.Load(0, []schema.StreamID{0, 1, 2, 3})
	require.NoError(t, err)
	require.Len(t, handles, 4)
	require.Equal(t, []byte("nulls-bytes"), handles[0].Bytes)
	require.Equal(t, []byte("elements-bytes"), handles[3].Bytes)
}

func TestTablet_BadMagic(t *testing.T) {
	_, err := Open([]byte("too short"))
	require.Error(t, err)
}

func TestTablet_SelectableStripes(t *testing.T) {
	root := buildSchema()
	w := NewWriter(root, format.ChecksumNone, format.CompressionUncompressed)
	for i := 0; i < 3; i++ {
		w.WriteStripe(StripeStreams{
			Bytes:       map[schema.StreamID][]byte{0: []byte("xxxx")},
			Compression: map[schema.StreamID]format.CompressionKind{0: format.CompressionUncompressed},
			StreamCount: 1,
			RowCount:    10,
		})
	}
	file, err := w.Close()
	require.NoError(t, err)

	tab, err := Open(file)
	require.NoError(t, err)
	require.Equal(t, 3, tab.StripeCount())

	sel := tab.SelectableStripes(tab.StripeOffset(0), tab.StripeOffset(1))
	require.Equal(t, []int{0}, sel)
}
