package colormap

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// bucketFile is one destination bucket's on-disk sink: a sequence of
// independently zstd-compressed chunks, each a varint-length-prefixed
// blob that decompresses to a whole number of QueryColoredCounters
// records (chunk boundaries never split a record).
type bucketFile struct {
	mu      sync.Mutex
	path    string
	tmpPath string
	f       *os.File
}

func (b *bucketFile) writeChunk(raw []byte) error {
	compressed, err := compressChunk(raw)
	if err != nil {
		return fmt.Errorf("colormap: compressing chunk for %s: %w", b.path, err)
	}
	header := binary.AppendUvarint(nil, uint64(len(compressed)))

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := b.f.Write(header); err != nil {
		return &IOError{Bucket: b.path, Err: err}
	}
	if _, err := b.f.Write(compressed); err != nil {
		return &IOError{Bucket: b.path, Err: err}
	}
	return nil
}

// MultiBucketWriter is the sole shared mutable resource of the
// resolver: a fixed-size fan-out of destination bucket files. It
// serializes only at chunk-commit boundaries — per-worker dispatch
// buffers accumulate lock-free between commits.
type MultiBucketWriter struct {
	buckets   []*bucketFile
	chunkSize int
}

// OpenMultiBucketWriter creates bucketsCount fresh bucket files under
// dir, named "bucket-%05d.ccw". chunkSize bounds how many raw
// (pre-compression) bytes a dispatcher accumulates per bucket before
// committing a chunk.
//
// Each bucket is written under a uuid-suffixed temporary name and
// renamed into place on Close, so a resolver crashed mid-run never
// leaves a half-written file at the path a caller expects to find
// complete.
func OpenMultiBucketWriter(dir string, bucketsCount int, chunkSize int) (*MultiBucketWriter, error) {
	w := &MultiBucketWriter{
		buckets:   make([]*bucketFile, bucketsCount),
		chunkSize: chunkSize,
	}
	for i := range w.buckets {
		path := filepath.Join(dir, fmt.Sprintf("bucket-%05d.ccw", i))
		tmpPath := path + "." + uuid.NewString() + ".tmp"
		f, err := os.Create(tmpPath)
		if err != nil {
			return nil, &IOError{Bucket: path, Err: err}
		}
		w.buckets[i] = &bucketFile{path: path, tmpPath: tmpPath, f: f}
	}
	return w, nil
}

// Paths returns the stable list of output bucket file paths, in bucket
// order.
func (w *MultiBucketWriter) Paths() []string {
	paths := make([]string, len(w.buckets))
	for i, b := range w.buckets {
		paths[i] = b.path
	}
	return paths
}

// Close finalizes every bucket file exactly once, renaming each from
// its temporary name into its stable path.
func (w *MultiBucketWriter) Close() error {
	for _, b := range w.buckets {
		if err := b.f.Close(); err != nil {
			return &IOError{Bucket: b.path, Err: err}
		}
		if err := os.Rename(b.tmpPath, b.path); err != nil {
			return &IOError{Bucket: b.path, Err: fmt.Errorf("renaming into place: %w", err)}
		}
	}
	return nil
}

// Dispatcher is a worker-owned set of per-destination-bucket staging
// buffers. A worker processing one input bucket produces records bound
// for many destination buckets; Put appends the record's wire form to
// its bucket's buffer and flushes that buffer alone once it reaches the
// writer's chunk size. Not safe for concurrent use — one per worker.
type Dispatcher struct {
	w    *MultiBucketWriter
	bufs [][]byte
}

// NewDispatcher acquires a dispatcher from w. Callers must call Close
// on every exit path, including error returns, to flush any buffered
// tail records.
func (w *MultiBucketWriter) NewDispatcher() *Dispatcher {
	return &Dispatcher{
		w:    w,
		bufs: make([][]byte, len(w.buckets)),
	}
}

// Put appends rec's wire form to the staging buffer for destination
// bucket, flushing a full chunk if the threshold is reached.
func (d *Dispatcher) Put(bucket int, rec QueryColoredCounters) error {
	d.bufs[bucket] = rec.Encode(d.bufs[bucket])
	if len(d.bufs[bucket]) >= d.w.chunkSize {
		return d.flush(bucket)
	}
	return nil
}

func (d *Dispatcher) flush(bucket int) error {
	if len(d.bufs[bucket]) == 0 {
		return nil
	}
	if err := d.w.buckets[bucket].writeChunk(d.bufs[bucket]); err != nil {
		return err
	}
	d.bufs[bucket] = d.bufs[bucket][:0]
	return nil
}

// Close flushes every non-empty staging buffer. Idempotent buffers are
// left empty, so a second Close call is a harmless no-op.
func (d *Dispatcher) Close() error {
	for i := range d.bufs {
		if err := d.flush(i); err != nil {
			return err
		}
	}
	return nil
}
