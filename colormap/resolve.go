package colormap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rpcpool/ggcat-colorcore/internal/config"
	"github.com/rpcpool/ggcat-colorcore/internal/readahead"
	"github.com/rpcpool/ggcat-colorcore/internal/telemetry"
	"golang.org/x/sync/errgroup"
)

// Input is everything one resolve phase needs, mirroring §4.3's Inputs.
type Input struct {
	// ColormapOpener produces a fresh, private Decoder per worker.
	ColormapOpener Opener
	// InputBuckets is the list of counter bucket files to resolve, one
	// worker per entry.
	InputBuckets []string
	// TempDir is where the output bucket files are created.
	TempDir string
	// QueriesCount is the total number of query sequences across the job.
	QueriesCount uint64
	// BucketsCount is the number of destination buckets to fan out into.
	// Defaults to len(InputBuckets) if zero.
	BucketsCount int
	// MaxWorkers bounds fan-out concurrency. Defaults to GOMAXPROCS.
	MaxWorkers int
	// ChunkSize bounds per-destination-bucket staging buffer size before
	// a chunk is committed. Defaults to internal/config's
	// DefaultPerCPUBufferSize.
	ChunkSize int
	// PrefetchAmount sizes the read-ahead window used to read input
	// bucket files. Defaults to internal/config's DefaultPrefetchAmount.
	PrefetchAmount int
}

// Resolve runs the algorithm of §4.3: for every input bucket, in
// parallel, decode counters, resolve colors, range-encode them, and
// dispatch QueryColoredCounters into BucketsCount destination buckets.
// Returns the stable list of destination bucket file paths.
func Resolve(ctx context.Context, in Input) ([]string, error) {
	ctx, span := telemetry.StartPhase(ctx, "resolve")
	defer span.End()

	bucketsCount := in.BucketsCount
	if bucketsCount == 0 {
		bucketsCount = len(in.InputBuckets)
	}
	if bucketsCount == 0 {
		return nil, &PreconditionError{Reason: "resolve called with zero destination buckets"}
	}
	maxWorkers := in.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = runtime.GOMAXPROCS(0)
	}
	defaults := config.FromEnv()
	chunkSize := in.ChunkSize
	if chunkSize <= 0 {
		chunkSize = defaults.DefaultPerCPUBufferSize
	}
	prefetchAmount := in.PrefetchAmount
	if prefetchAmount <= 0 {
		prefetchAmount = defaults.DefaultPrefetchAmount
	}

	writer, err := OpenMultiBucketWriter(in.TempDir, bucketsCount, chunkSize)
	if err != nil {
		return nil, err
	}

	rangeCeiling := destinationRangeCeiling(in.QueriesCount)
	pool := newScratchPool()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)

	for _, bucketPath := range in.InputBuckets {
		bucketPath := bucketPath
		g.Go(func() error {
			return resolveOneBucket(gctx, bucketPath, in.ColormapOpener, writer, pool, bucketsCount, rangeCeiling, prefetchAmount)
		})
	}

	if err := g.Wait(); err != nil {
		writer.Close()
		return nil, err
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}
	return writer.Paths(), nil
}

func resolveOneBucket(ctx context.Context, bucketPath string, opener Opener, writer *MultiBucketWriter, pool *scratchPool, bucketsCount int, rangeCeiling uint64, prefetchAmount int) error {
	_, span := telemetry.StartPhase(ctx, "resolve-bucket")
	defer span.End()
	defer prometheus.NewTimer(resolveLatencyHistogram.WithLabelValues()).ObserveDuration()

	decoder, err := opener.Open()
	if err != nil {
		bucketsResolved.WithLabelValues("open_error").Inc()
		return fmt.Errorf("colormap: opening decoder for %s: %w", bucketPath, err)
	}
	defer decoder.Close()

	entries, err := loadBucket(bucketPath, prefetchAmount)
	if err != nil {
		bucketsResolved.WithLabelValues("load_error").Inc()
		return err
	}

	radixSortByColorID(entries)

	dispatcher := writer.NewDispatcher()
	s := pool.acquire()
	defer pool.release(s)

	i := 0
	for i < len(entries) {
		j := i + 1
		colorID := entries[i].colorID()
		for j < len(entries) && entries[j].colorID() == colorID {
			j++
		}
		if err := resolveColorGroup(decoder, dispatcher, s, entries[i:j], colorID, bucketsCount, rangeCeiling); err != nil {
			dispatcher.Close()
			bucketsResolved.WithLabelValues("resolve_error").Inc()
			return fmt.Errorf("colormap: resolving color group %d in %s: %w", colorID, bucketPath, err)
		}
		colorGroupsResolved.WithLabelValues().Inc()
		i = j
	}

	if err := dispatcher.Close(); err != nil {
		bucketsResolved.WithLabelValues("write_error").Inc()
		return err
	}
	bucketsResolved.WithLabelValues("ok").Inc()
	return nil
}

// resolveColorGroup implements §4.3 step 4: look up the color set,
// range-encode it, sort the group's queries, and dispatch per
// destination bucket.
func resolveColorGroup(decoder Decoder, dispatcher *Dispatcher, s *scratch, group []ColoredEntry, colorID ColorID, bucketsCount int, rangeCeiling uint64) error {
	s.resetForGroup()

	lookupStart := time.Now()
	colors, err := decoder.GetColorMappings(colorID, s.colorsBuf)
	decoderLookupHistogram.WithLabelValues().Observe(time.Since(lookupStart).Seconds())
	if err != nil {
		return &CorruptionError{Reason: fmt.Sprintf("color id %d: %v", colorID, err)}
	}
	s.colorsBuf = colors

	colorsBlob := encodeRanges(s.rangesBuf.B, colors)
	s.rangesBuf.B = colorsBlob

	for _, e := range group {
		s.queryBuf = append(s.queryBuf, QueryColorDesc{QueryIndex: e.Entry.QueryIndex, Count: e.Entry.Counter})
	}
	sortByQueryIndex(s.queryBuf)

	start := 0
	for start < len(s.queryBuf) {
		bucket := destinationBucket(s.queryBuf[start].QueryIndex, bucketsCount, rangeCeiling)
		end := start + 1
		for end < len(s.queryBuf) && destinationBucket(s.queryBuf[end].QueryIndex, bucketsCount, rangeCeiling) == bucket {
			end++
		}

		rec := QueryColoredCounters{
			Queries:    append([]QueryColorDesc(nil), s.queryBuf[start:end]...),
			ColorsBlob: colorsBlob,
		}
		if err := dispatcher.Put(bucket, rec); err != nil {
			return err
		}
		queryColoredCountersWritten.WithLabelValues(fmt.Sprint(bucket)).Inc()
		start = end
	}
	return nil
}

// loadBucket decodes every CounterEntry of bucketPath into memory,
// matching §4.3 step 2. I/O errors are fatal per §4.3's failure
// semantics. Reads run through a read-ahead buffer sized by
// prefetchAmount, since a bucket file is always consumed sequentially
// start to end.
func loadBucket(bucketPath string, prefetchAmount int) ([]ColoredEntry, error) {
	r, err := readahead.NewCachingReader(bucketPath, prefetchAmount)
	if err != nil {
		return nil, &IOError{Bucket: bucketPath, Err: err}
	}
	defer r.Close()

	var entries []ColoredEntry
	var offset int64
	for {
		e, err := DecodeCounterEntry(r)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return entries, nil
			}
			return nil, &CorruptionError{Bucket: bucketPath, Offset: offset, Reason: err.Error()}
		}
		entries = append(entries, ColoredEntry{Entry: e})
		offset += int64(len(e.Encode(nil)))
	}
}
