// Package config resolves the environment-variable tuning knobs.
// colormap.Resolve reads them through FromEnv to fill in any chunk size
// or prefetch amount its caller leaves unset.
package config

import (
	"os"
	"strconv"
)

const (
	defaultMinimizerBucketsCheckpointSize = 256 * 1024
	defaultLZ4CompressionLevel            = 3
	defaultPerCPUBufferSize               = 1 << 20 // 1 MiB
	defaultPrefetchAmount                 = 4 << 20 // 4 MiB
)

// Config holds the implementation tuning knobs enumerated in §6.
type Config struct {
	// KeepFiles, when true, leaves intermediate bucket files in place
	// after successful consumption instead of deleting them.
	KeepFiles bool

	MinimizerBucketsCheckpointSize int
	DefaultLZ4CompressionLevel     int
	DefaultPerCPUBufferSize        int
	DefaultPrefetchAmount          int
}

// FromEnv loads Config from the process environment, falling back to
// the enumerated defaults for any unset or unparseable variable.
func FromEnv() Config {
	return Config{
		KeepFiles:                      envBool("KEEP_FILES", false),
		MinimizerBucketsCheckpointSize: envInt("MINIMIZER_BUCKETS_CHECKPOINT_SIZE", defaultMinimizerBucketsCheckpointSize),
		DefaultLZ4CompressionLevel:     envInt("DEFAULT_LZ4_COMPRESSION_LEVEL", defaultLZ4CompressionLevel),
		DefaultPerCPUBufferSize:        envInt("DEFAULT_PER_CPU_BUFFER_SIZE", defaultPerCPUBufferSize),
		DefaultPrefetchAmount:          envInt("DEFAULT_PREFETCH_AMOUNT", defaultPrefetchAmount),
	}
}

func envBool(name string, def bool) bool {
	v, ok := os.LookupEnv(name)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envInt(name string, def int) int {
	v, ok := os.LookupEnv(name)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
