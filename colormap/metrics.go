package colormap

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var bucketsResolved = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "colormap_buckets_resolved",
		Help: "Input buckets fully resolved",
	},
	[]string{"status"},
)

var colorGroupsResolved = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "colormap_color_groups_resolved",
		Help: "Color groups resolved across all buckets",
	},
	[]string{},
)

var queryColoredCountersWritten = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "colormap_query_colored_counters_written",
		Help: "QueryColoredCounters records written to destination buckets",
	},
	[]string{"destination_bucket"},
)

var decoderLookupHistogram = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "colormap_decoder_lookup_latency_seconds",
		Help:    "Colormap decoder GetColorMappings latency",
		Buckets: prometheus.ExponentialBuckets(0.000001, 10, 10),
	},
	[]string{},
)

var resolveLatencyHistogram = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "colormap_resolve_bucket_latency_seconds",
		Help:    "Time to fully resolve one input bucket",
		Buckets: prometheus.ExponentialBuckets(0.001, 10, 8),
	},
	[]string{},
)
