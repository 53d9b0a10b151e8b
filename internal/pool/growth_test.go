package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultGrowthPolicy_NoGrowthNeeded(t *testing.T) {
	p := DefaultGrowthPolicy(16, map[int]float64{0: 2.0})
	require.Equal(t, 32, p.Grow(10, 32))
}

func TestDefaultGrowthPolicy_GrowsPastRequestedSize(t *testing.T) {
	p := DefaultGrowthPolicy(16, map[int]float64{0: 2.0, 1024: 1.25})

	for _, tc := range []struct {
		requested, current int
	}{
		{requested: 100, current: 0},
		{requested: 17, current: 16},
		{requested: 2000, current: 1024},
		{requested: 5, current: 0},
	} {
		got := p.Grow(tc.requested, tc.current)
		require.GreaterOrEqual(t, got, tc.requested, "tc=%+v", tc)
		require.GreaterOrEqual(t, got, tc.current, "tc=%+v", tc)
	}
}

func TestDefaultGrowthPolicy_BelowLowestThresholdUsesMinCapacity(t *testing.T) {
	p := DefaultGrowthPolicy(64, map[int]float64{0: 2.0, 4096: 1.25})
	got := p.Grow(10, 0)
	require.GreaterOrEqual(t, got, 64)
}

func TestDefaultBufferGrowthPolicy(t *testing.T) {
	p := DefaultBufferGrowthPolicy()
	got := p.Grow(100, 0)
	require.GreaterOrEqual(t, got, 100)
}
