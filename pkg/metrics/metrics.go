// Package metrics documents the Prometheus metrics exported by mure.
// All metrics are defined in their respective packages (executor, cache,
// iterator) to maintain modularity and avoid circular dependencies.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by mure. All metrics
// are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Request Metrics (pkg/executor):
//   - mure_requests_total{method, outcome} (Counter): Requests by method and
//     outcome (status code, "cached", or "failure")
//   - mure_request_duration_seconds{method} (Histogram): Network request duration
//   - mure_transport_failures_total (Counter): Requests that never produced an
//     HTTP response (surfaced to callers as status-0 responses)
//   - mure_batches_total (Counter): Executed batches
//   - mure_batch_duration_seconds (Histogram): Batch execution duration
//
// Cache Metrics (pkg/cache):
//   - mure_cache_hits_total (Counter): Responses served from cache
//   - mure_cache_misses_total (Counter): Cache misses (including fail-open reads)
//   - mure_cache_written_bytes_total (Counter): Bytes written to the cache
//   - mure_cache_errors_total{operation} (Counter): Backend errors by operation
//
// Iterator Metrics (pkg/iterator):
//   - mure_responses_delivered_total (Counter): Responses handed to callers
//   - mure_prefetched_batches_total (Counter): Batches started in the background
//   - mure_next_wait_seconds (Histogram): Time Next blocked on an in-flight batch
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   rate(mure_cache_hits_total[5m]) /
//   (rate(mure_cache_hits_total[5m]) + rate(mure_cache_misses_total[5m]))
//
//   # Transport Failure Rate
//   rate(mure_transport_failures_total[5m]) / rate(mure_requests_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(mure_request_duration_seconds_bucket[5m]))
//
//   # Prefetch Effectiveness (how long callers actually wait)
//   histogram_quantile(0.95, rate(mure_next_wait_seconds_bucket[5m]))
