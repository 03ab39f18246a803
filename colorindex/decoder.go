package colorindex

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/rpcpool/ggcat-colorcore/colormap"
	"github.com/rpcpool/ggcat-colorcore/internal/filecache"
)

// decodeCacheShards is kept small: a worker's lifetime is short and its
// resolved colors rarely repeat beyond a handful of color groups.
const decodeCacheShards = 64

// FileDecoder implements colormap.Decoder against an on-disk colorindex.
// Not safe for concurrent use: each colormap resolver worker opens its
// own private instance, matching §4.3 step 1.
type FileDecoder struct {
	base    string
	header  Header
	offsets []offsetEntry

	files *filecache.FileCache
	cache *bigcache.BigCache
}

// Open opens the colorindex at base for reading.
func Open(base string) (*FileDecoder, error) {
	h, err := readHeader(base)
	if err != nil {
		return nil, fmt.Errorf("colorindex: reading header: %w", err)
	}

	raw, err := os.ReadFile(offsetsPath(base))
	if err != nil {
		return nil, fmt.Errorf("colorindex: reading offsets table: %w", err)
	}
	if uint32(len(raw)/offsetEntrySize) != h.ColorsCount {
		return nil, fmt.Errorf("colorindex: offsets table has %d entries, header declares %d", len(raw)/offsetEntrySize, h.ColorsCount)
	}
	offsets := make([]offsetEntry, h.ColorsCount)
	for i := range offsets {
		row := raw[i*offsetEntrySize:]
		offsets[i] = offsetEntry{
			Offset: binary.LittleEndian.Uint64(row[0:8]),
			Length: binary.LittleEndian.Uint32(row[8:12]),
		}
	}

	cacheCfg := bigcache.DefaultConfig(time.Hour) // a worker's lifetime is well under this; eviction is not expected to trigger
	cacheCfg.Shards = decodeCacheShards
	cacheCfg.Verbose = false
	cache, err := bigcache.New(context.Background(), cacheCfg)
	if err != nil {
		return nil, fmt.Errorf("colorindex: creating decode cache: %w", err)
	}

	return &FileDecoder{
		base:    base,
		header:  h,
		offsets: offsets,
		files:   filecache.New(1),
		cache:   cache,
	}, nil
}

var _ colormap.Decoder = (*FileDecoder)(nil)

func decodeCacheKey(colorID colormap.ColorID) string {
	return strconv.FormatUint(uint64(colorID), 10)
}

// GetColorMappings returns the sorted ascending color indices for
// colorID, appending them to out. Satisfies colormap.Decoder.
func (d *FileDecoder) GetColorMappings(colorID colormap.ColorID, out []uint32) ([]uint32, error) {
	if int(colorID) >= len(d.offsets) {
		return nil, fmt.Errorf("colorindex: color id %d out of range [0,%d)", colorID, len(d.offsets))
	}

	key := decodeCacheKey(colorID)
	if cached, err := d.cache.Get(key); err == nil {
		return appendDecoded(out, cached)
	}

	entry := d.offsets[colorID]
	payload := make([]byte, entry.Length)
	if entry.Length > 0 {
		f, err := d.files.Open(dataPath(d.base))
		if err != nil {
			return nil, fmt.Errorf("colorindex: opening data file: %w", err)
		}
		_, err = f.ReadAt(payload, int64(entry.Offset))
		closeErr := d.files.Close(f)
		if err != nil {
			return nil, fmt.Errorf("colorindex: reading color %d payload: %w", colorID, err)
		}
		if closeErr != nil {
			return nil, fmt.Errorf("colorindex: releasing data file handle: %w", closeErr)
		}
	}

	_ = d.cache.Set(key, payload)
	return appendDecoded(out, payload)
}

// appendDecoded un-delta-varint-decodes payload, appending the
// reconstructed sorted ascending color indices to out.
func appendDecoded(out []uint32, payload []byte) ([]uint32, error) {
	var prev uint32
	first := true
	for len(payload) > 0 {
		delta, n := binary.Uvarint(payload)
		if n <= 0 {
			return out, fmt.Errorf("colorindex: malformed varint in color payload")
		}
		payload = payload[n:]
		var v uint32
		if first {
			v = uint32(delta)
			first = false
		} else {
			v = prev + uint32(delta)
		}
		out = append(out, v)
		prev = v
	}
	return out, nil
}

// Close releases this decoder's cache and shared file handles.
func (d *FileDecoder) Close() error {
	d.files.Clear()
	return d.cache.Close()
}
