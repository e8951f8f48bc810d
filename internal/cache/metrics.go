package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHitsTotal counts fingerprint lookups served from cache.
	CacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "truckopti_cache_hits_total",
		Help: "Total packing plan cache hits",
	})

	// CacheMissesTotal counts fingerprint lookups that required a build.
	CacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "truckopti_cache_misses_total",
		Help: "Total packing plan cache misses",
	})

	// CacheSize tracks the current number of cached plans.
	CacheSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "truckopti_cache_size",
		Help: "Current number of entries in the packing plan cache",
	})

	// PackDuration tracks wall-clock time spent building a plan on a
	// cache miss.
	PackDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "truckopti_pack_duration_seconds",
		Help:    "Duration of a cache-miss packing plan build",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
	})
)
