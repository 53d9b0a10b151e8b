package flush

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRawStripeSizeFlushPolicy(t *testing.T) {
	p := NewRawStripeSizeFlushPolicy(1024)

	require.Equal(t, None, p.ShouldFlush(Progress{RawStripeSize: 100}))
	require.Equal(t, Stripe, p.ShouldFlush(Progress{RawStripeSize: 1024}))
	require.Equal(t, Stripe, p.ShouldFlush(Progress{RawStripeSize: 2000}))
	p.OnClose()
}

func TestRowCountFlushPolicy(t *testing.T) {
	p := NewRowCountFlushPolicy(1 << 30, 100)

	require.Equal(t, None, p.ShouldFlush(Progress{RowCount: 50}))
	require.Equal(t, Stripe, p.ShouldFlush(Progress{RowCount: 100}))
	require.Equal(t, Stripe, p.ShouldFlush(Progress{RawStripeSize: 1 << 31}))
}
