package colormap

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
	zstdpool "github.com/mostynb/zstdpool-freelist"
)

var chunkDecoderPool = zstdpool.NewDecoderPool()

func decompressChunk(data []byte) ([]byte, error) {
	dec, err := chunkDecoderPool.Get(nil)
	if err != nil {
		return nil, fmt.Errorf("colormap: getting zstd decoder from pool: %w", err)
	}
	defer chunkDecoderPool.Put(dec)

	content, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("colormap: decompressing chunk: %w", err)
	}
	return content, nil
}

var chunkEncoderPool = zstdpool.NewEncoderPool(
	zstd.WithEncoderLevel(zstd.SpeedFastest),
)

func compressChunk(data []byte) ([]byte, error) {
	enc, err := chunkEncoderPool.Get(nil)
	if err != nil {
		return nil, fmt.Errorf("colormap: getting zstd encoder from pool: %w", err)
	}
	defer chunkEncoderPool.Put(enc)
	return enc.EncodeAll(data, nil), nil
}
