package layout

import (
	"testing"

	"github.com/nimblefmt/nimble/format"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	tree := NewTree("root")
	tree.Set(0, &EncodingLayout{Encoding: format.EncodingTrivial, Compression: format.CompressionZstd})

	child := NewTree("a")
	child.Set(1, &EncodingLayout{
		Encoding:    format.EncodingDictionary,
		Compression: format.CompressionUncompressed,
		Children: []*EncodingLayout{
			{Encoding: format.EncodingFixedBitPacked},
		},
	})
	tree.Children = append(tree.Children, child)

	buf := Encode(tree)
	require.GreaterOrEqual(t, len(buf), minNodeBuffer)

	got, err := Decode(buf)
	require.NoError(t, err)
	require.Equal(t, "root", got.Name)
	require.Equal(t, format.EncodingTrivial, got.Get(0).Encoding)
	require.Equal(t, format.CompressionZstd, got.Get(0).Compression)

	require.Len(t, got.Children, 1)
	require.Equal(t, "a", got.Children[0].Name)
	gotLayout := got.Children[0].Get(1)
	require.Equal(t, format.EncodingDictionary, gotLayout.Encoding)
	require.Len(t, gotLayout.Children, 1)
	require.Equal(t, format.EncodingFixedBitPacked, gotLayout.Children[0].Encoding)
}

func TestEncode_MinNodeBuffer(t *testing.T) {
	tree := NewTree("")
	buf := Encode(tree)
	require.Len(t, buf, minNodeBuffer)
}

func TestEncode_Idempotent(t *testing.T) {
	tree := NewTree("root")
	tree.Set(5, &EncodingLayout{Encoding: format.EncodingTrivial})
	tree.Set(1, &EncodingLayout{Encoding: format.EncodingRLE})
	tree.Set(3, &EncodingLayout{Encoding: format.EncodingDictionary})

	var first []byte
	for i := 0; i < 20; i++ {
		buf := Encode(tree)
		if i == 0 {
			first = buf
			continue
		}
		require.Equal(t, first, buf)
	}
}

func TestMerge(t *testing.T) {
	a := NewTree("root")
	a.Set(0, &EncodingLayout{Encoding: format.EncodingTrivial})
	b := NewTree("root")
	b.Set(0, &EncodingLayout{Encoding: format.EncodingRLE})
	b.Set(1, &EncodingLayout{Encoding: format.EncodingConstant})

	merged := Merge(a, b)
	require.Equal(t, format.EncodingRLE, merged.Get(0).Encoding)
	require.Equal(t, format.EncodingConstant, merged.Get(1).Encoding)
}
