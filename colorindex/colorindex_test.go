package colorindex

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteThenDecodeRoundTrip(t *testing.T) {
	base := filepath.Join(t.TempDir(), "colors")

	colors := [][]uint32{
		{},
		{7},
		{0, 1, 2, 100, 101},
		{5, 5000, 5001, 999999},
	}

	w, err := Create(base)
	require.NoError(t, err)
	for i, c := range colors {
		require.NoError(t, w.Put(uint32(i), c))
	}
	require.NoError(t, w.Finalize())

	d, err := Open(base)
	require.NoError(t, err)
	defer d.Close()

	for i, want := range colors {
		got, err := d.GetColorMappings(uint32(i), nil)
		require.NoError(t, err)
		if len(want) == 0 {
			require.Empty(t, got)
		} else {
			require.Equal(t, want, got)
		}
	}
}

func TestGetColorMappingsCachesResult(t *testing.T) {
	base := filepath.Join(t.TempDir(), "colors")

	w, err := Create(base)
	require.NoError(t, err)
	require.NoError(t, w.Put(0, []uint32{1, 2, 3}))
	require.NoError(t, w.Finalize())

	d, err := Open(base)
	require.NoError(t, err)
	defer d.Close()

	first, err := d.GetColorMappings(0, nil)
	require.NoError(t, err)
	_, err = d.cache.Get(decodeCacheKey(0))
	require.NoError(t, err)
	second, err := d.GetColorMappings(0, nil)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestGetColorMappingsOutOfRangeIsError(t *testing.T) {
	base := filepath.Join(t.TempDir(), "colors")

	w, err := Create(base)
	require.NoError(t, err)
	require.NoError(t, w.Put(0, []uint32{1}))
	require.NoError(t, w.Finalize())

	d, err := Open(base)
	require.NoError(t, err)
	defer d.Close()

	_, err = d.GetColorMappings(5, nil)
	require.Error(t, err)
}

func TestNonContiguousPutIsRejected(t *testing.T) {
	base := filepath.Join(t.TempDir(), "colors")
	w, err := Create(base)
	require.NoError(t, err)
	require.Error(t, w.Put(1, []uint32{1}))
}
