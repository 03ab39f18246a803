package colormap

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRadixSortByColorIDMatchesStableSort(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for _, n := range []int{0, 1, 2, 17, 500, 4097} {
		v := make([]ColoredEntry, n)
		for i := range v {
			v[i] = ColoredEntry{Entry: CounterEntry{
				QueryIndex: uint64(i),
				Counter:    uint32(i),
				ColorID:    r.Uint32(),
			}}
		}
		want := append([]ColoredEntry(nil), v...)
		sort.SliceStable(want, func(i, j int) bool { return want[i].colorID() < want[j].colorID() })

		radixSortByColorID(v)

		require.Equal(t, len(want), len(v))
		for i := range v {
			require.Equalf(t, want[i].colorID(), v[i].colorID(), "index %d", i)
		}
		for i := 1; i < len(v); i++ {
			require.LessOrEqual(t, v[i-1].colorID(), v[i].colorID())
		}
	}
}
