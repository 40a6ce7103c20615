// Package cache provides response caching keyed by a normalized request
// fingerprint, with pluggable storage backends.
//
// The fingerprint covers method, effective URL (after query parameter
// canonicalization) and body; header sensitivity is opt-in via KeyOptions.
// Reads fail open: a backend failure is treated as a miss and the request
// falls through to the network.
//
// # Backends
//
//   - Nop: always misses (caching disabled)
//   - Memory: process-local map, lifetime = process
//   - Disk: SQLite file at a caller-specified path, survives restarts
//   - Redis: shared cache across processes, optional TTL
//
// All backends are safe for concurrent use and expose the same Get/Put
// operations, so the executor is backend-agnostic.
//
// # Basic Usage
//
//	backend, err := cache.NewDisk(".mure-cache.sqlite")
//	if err != nil {
//		return err
//	}
//	store := cache.NewStore(backend, cache.KeyOptions{})
//	defer store.Close()
//
//	if resp, ok := store.Get(ctx, req); ok {
//		// served from cache, no network call
//	}
//
// # Metrics
//
// The store exports Prometheus metrics:
//
//   - mure_cache_hits_total - Cache hits
//   - mure_cache_misses_total - Cache misses (including fail-open reads)
//   - mure_cache_written_bytes_total - Bytes written
//   - mure_cache_errors_total{operation} - Backend errors by operation
package cache
