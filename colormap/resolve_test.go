package colormap

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeDecoder is an in-memory colormap.Decoder test double.
type fakeDecoder struct {
	colors map[ColorID][]uint32
}

func (d *fakeDecoder) GetColorMappings(colorID ColorID, out []uint32) ([]uint32, error) {
	return append(out, d.colors[colorID]...), nil
}
func (d *fakeDecoder) Close() error { return nil }

type fakeOpener struct {
	colors map[ColorID][]uint32
}

func (o fakeOpener) Open() (Decoder, error) {
	return &fakeDecoder{colors: o.colors}, nil
}

func writeCounterBucket(t *testing.T, path string, entries []CounterEntry) {
	t.Helper()
	var buf []byte
	for _, e := range entries {
		buf = e.Encode(buf)
	}
	require.NoError(t, os.WriteFile(path, buf, 0o666))
}

// S3: one input bucket, records [(q=0,c=5,color=7),(q=1,c=3,color=7)],
// queries_count=1000, buckets_count=2, colormap 7 -> [10,11,12,20].
func TestResolveScenarioS3(t *testing.T) {
	dir := t.TempDir()
	bucketPath := filepath.Join(dir, "bucket-0")
	writeCounterBucket(t, bucketPath, []CounterEntry{
		{QueryIndex: 0, Counter: 5, ColorID: 7},
		{QueryIndex: 1, Counter: 3, ColorID: 7},
	})

	outDir := filepath.Join(dir, "out")
	require.NoError(t, os.Mkdir(outDir, 0o777))

	paths, err := Resolve(context.Background(), Input{
		ColormapOpener: fakeOpener{colors: map[ColorID][]uint32{7: {10, 11, 12, 20}}},
		InputBuckets:   []string{bucketPath},
		TempDir:        outDir,
		QueriesCount:   1000,
		BucketsCount:   2,
	})
	require.NoError(t, err)
	require.Len(t, paths, 2)

	records0, err := ReadBucketFile(paths[0])
	require.NoError(t, err)
	require.Len(t, records0, 1)
	require.Equal(t, []QueryColorDesc{{QueryIndex: 0, Count: 5}, {QueryIndex: 1, Count: 3}}, records0[0].Queries)

	ranges, err := DecodeRanges(bytes.NewReader(records0[0].ColorsBlob))
	require.NoError(t, err)
	require.Equal(t, []uint32{10, 11, 12, 20}, ExpandRanges(ranges))

	records1, err := ReadBucketFile(paths[1])
	require.NoError(t, err)
	require.Empty(t, records1)
}

// S4: queries_count=2000, buckets_count=2, records split across buckets
// by destination, colormap 9 -> [0].
func TestResolveScenarioS4(t *testing.T) {
	dir := t.TempDir()
	bucketPath := filepath.Join(dir, "bucket-0")
	writeCounterBucket(t, bucketPath, []CounterEntry{
		{QueryIndex: 100, Counter: 1, ColorID: 9},
		{QueryIndex: 1500, Counter: 2, ColorID: 9},
	})

	outDir := filepath.Join(dir, "out")
	require.NoError(t, os.Mkdir(outDir, 0o777))

	paths, err := Resolve(context.Background(), Input{
		ColormapOpener: fakeOpener{colors: map[ColorID][]uint32{9: {0}}},
		InputBuckets:   []string{bucketPath},
		TempDir:        outDir,
		QueriesCount:   2000,
		BucketsCount:   2,
	})
	require.NoError(t, err)

	records0, err := ReadBucketFile(paths[0])
	require.NoError(t, err)
	require.Len(t, records0, 1)
	require.Equal(t, []QueryColorDesc{{QueryIndex: 100, Count: 1}}, records0[0].Queries)

	records1, err := ReadBucketFile(paths[1])
	require.NoError(t, err)
	require.Len(t, records1, 1)
	require.Equal(t, []QueryColorDesc{{QueryIndex: 1500, Count: 2}}, records1[0].Queries)
}

// S5: input [(q=0,color=2),(q=1,color=1),(q=2,color=2)],
// colormap 1 -> [5], 2 -> [8,9]. Two record groups; color=2 shares
// queries [0,2] in one record.
func TestResolveScenarioS5(t *testing.T) {
	dir := t.TempDir()
	bucketPath := filepath.Join(dir, "bucket-0")
	writeCounterBucket(t, bucketPath, []CounterEntry{
		{QueryIndex: 0, Counter: 1, ColorID: 2},
		{QueryIndex: 1, Counter: 1, ColorID: 1},
		{QueryIndex: 2, Counter: 1, ColorID: 2},
	})

	outDir := filepath.Join(dir, "out")
	require.NoError(t, os.Mkdir(outDir, 0o777))

	paths, err := Resolve(context.Background(), Input{
		ColormapOpener: fakeOpener{colors: map[ColorID][]uint32{1: {5}, 2: {8, 9}}},
		InputBuckets:   []string{bucketPath},
		TempDir:        outDir,
		QueriesCount:   1000,
		BucketsCount:   1,
	})
	require.NoError(t, err)
	require.Len(t, paths, 1)

	records, err := ReadBucketFile(paths[0])
	require.NoError(t, err)
	require.Len(t, records, 2)

	var sawColor1, sawColor2 bool
	for _, rec := range records {
		ranges, err := DecodeRanges(bytes.NewReader(rec.ColorsBlob))
		require.NoError(t, err)
		colors := ExpandRanges(ranges)
		switch {
		case len(colors) == 1 && colors[0] == 5:
			sawColor1 = true
			require.Equal(t, []QueryColorDesc{{QueryIndex: 1, Count: 1}}, rec.Queries)
		case len(colors) == 2 && colors[0] == 8:
			sawColor2 = true
			require.Equal(t, []QueryColorDesc{{QueryIndex: 0, Count: 1}, {QueryIndex: 2, Count: 1}}, rec.Queries)
		}
	}
	require.True(t, sawColor1)
	require.True(t, sawColor2)
}
