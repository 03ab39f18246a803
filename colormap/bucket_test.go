package colormap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDestinationRangeCeiling(t *testing.T) {
	require.Equal(t, uint64(2000), destinationRangeCeiling(2000))
	require.Equal(t, uint64(1000), destinationRangeCeiling(1))
	require.Equal(t, uint64(1000), destinationRangeCeiling(1000))
	require.Equal(t, uint64(2000), destinationRangeCeiling(1001))
}

// S4: queries_count=2000, buckets_count=2, R=2000.
func TestDestinationBucketScenarioS4(t *testing.T) {
	R := destinationRangeCeiling(2000)
	require.Equal(t, uint64(2000), R)
	require.Equal(t, 0, destinationBucket(100, 2, R))
	require.Equal(t, 1, destinationBucket(1500, 2, R))
}

func TestDestinationBucketNeverExceedsLastBucket(t *testing.T) {
	R := destinationRangeCeiling(1000)
	for q := uint64(0); q < 2000; q++ {
		b := destinationBucket(q, 2, R)
		require.Less(t, b, 2)
		require.GreaterOrEqual(t, b, 0)
	}
}
