package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks responses served from cache.
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mure_cache_hits_total",
			Help: "Total number of cache hits",
		},
	)

	// CacheMisses tracks cache misses (including fail-open reads).
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mure_cache_misses_total",
			Help: "Total number of cache misses",
		},
	)

	// CacheWrites tracks bytes written to the cache.
	CacheWrites = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mure_cache_written_bytes_total",
			Help: "Total bytes written to the cache",
		},
	)

	// CacheErrors tracks cache operation errors by operation.
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mure_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "put"
	)
)
