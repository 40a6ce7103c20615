package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/severinsimmler/mure/pkg/request"
)

// Store ties a backend to the fingerprint function and the entry
// serialization. Reads fail open: any backend or decoding error is treated
// as a miss, because caching is an optimization, not a correctness
// dependency. Write errors are logged and dropped.
type Store struct {
	backend Backend
	keyOpts KeyOptions
	logger  zerolog.Logger
}

// NewStore creates a store on the given backend. A nil backend behaves
// like a Nop backend.
func NewStore(backend Backend, keyOpts KeyOptions) *Store {
	if backend == nil {
		backend = NewNop()
	}
	return &Store{
		backend: backend,
		keyOpts: keyOpts,
		logger:  log.With().Str("component", "cache").Logger(),
	}
}

// Get looks up the cached response for req. The second return value is
// false on any kind of miss, including backend failures.
func (s *Store) Get(ctx context.Context, req *request.Request) (*request.Response, bool) {
	if req.SkipCache {
		return nil, false
	}

	key := Key(req, s.keyOpts)

	data, err := s.backend.Get(ctx, key)
	if err != nil {
		if err != ErrCacheMiss {
			CacheErrors.WithLabelValues("get").Inc()
			s.logger.Warn().Err(err).Str("url", req.URL).Msg("Cache read failed, treating as miss")
		}
		CacheMisses.Inc()
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		CacheErrors.WithLabelValues("get").Inc()
		s.logger.Warn().
			Err(fmt.Errorf("%w: %v", ErrInvalidEntry, err)).
			Str("url", req.URL).
			Msg("Corrupt cache entry, treating as miss")
		CacheMisses.Inc()
		return nil, false
	}

	CacheHits.Inc()
	return entry.Response(), true
}

// Put stores the response for req. Transport failures (status 0) and
// requests that opted out of caching are never stored.
func (s *Store) Put(ctx context.Context, req *request.Request, resp *request.Response) {
	if req.SkipCache || resp.Status == 0 {
		return
	}

	key := Key(req, s.keyOpts)

	data, err := json.Marshal(NewEntry(resp))
	if err != nil {
		CacheErrors.WithLabelValues("put").Inc()
		s.logger.Warn().Err(err).Str("url", req.URL).Msg("Failed to encode cache entry")
		return
	}

	if err := s.backend.Put(ctx, key, data); err != nil {
		CacheErrors.WithLabelValues("put").Inc()
		s.logger.Warn().Err(err).Str("url", req.URL).Msg("Cache write failed")
		return
	}

	CacheWrites.Add(float64(len(data)))
}

// Close closes the underlying backend.
func (s *Store) Close() error {
	return s.backend.Close()
}
