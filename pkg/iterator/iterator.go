// Package iterator implements the prefetching response iterator: requests
// are split into fixed-size batches, each batch runs concurrently, and the
// next batch is fetched in the background while the caller consumes the
// current one. Responses are delivered strictly in input order.
package iterator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/severinsimmler/mure/pkg/cache"
	"github.com/severinsimmler/mure/pkg/executor"
	"github.com/severinsimmler/mure/pkg/request"
	"github.com/severinsimmler/mure/pkg/transport"
)

// Done is returned by Next when every response has been delivered. Pulling
// past exhaustion keeps returning Done; it is not an error condition.
var Done = errors.New("iterator: no responses remain")

// Config holds iterator configuration.
type Config struct {
	// BatchSize is the number of requests executed concurrently per batch.
	// Must be >= 1.
	BatchSize int

	// MaxConcurrency caps simultaneous in-flight requests within a batch.
	// Zero means BatchSize.
	MaxConcurrency int

	// Cache is the backend for response caching. Nil disables caching.
	Cache cache.Backend

	// HeaderSensitiveKeys makes cache fingerprints include request headers.
	HeaderSensitiveKeys bool

	// Transport executes individual requests. Nil means the default
	// net/http transport.
	Transport transport.Transport

	// Client configures the default transport when Transport is nil.
	Client *http.Client

	// LogErrors enables full diagnostic logging of transport failures.
	LogErrors bool
}

// Iterator yields one response per input request, in input order. It is
// consumed at most once and is not safe for concurrent pulls from multiple
// goroutines.
type Iterator struct {
	requests  []*request.Request
	batchSize int
	executor  *executor.Executor
	logger    zerolog.Logger

	// cursor state
	current   []*request.Response          // buffered responses of the current batch
	pos       int                          // position within current
	next      int                          // index of the next batch to start
	inflight  chan []*request.Response     // background execution of batch `next-1`, nil if none
	remaining int                          // responses not yet handed to the caller
}

// New validates the requests and builds an iterator. Construction is
// side-effect-free: no network activity happens until the first Next call.
func New(requests []*request.Request, cfg Config) (*Iterator, error) {
	if cfg.BatchSize < 1 {
		return nil, fmt.Errorf("batch_size must be >= 1 (got %d)", cfg.BatchSize)
	}

	for i, req := range requests {
		if err := req.Validate(); err != nil {
			return nil, fmt.Errorf("request %d: %w", i, err)
		}
	}

	maxConcurrency := cfg.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = cfg.BatchSize
	}

	tp := cfg.Transport
	if tp == nil {
		tp = transport.NewHTTP(cfg.Client)
	}

	store := cache.NewStore(cfg.Cache, cache.KeyOptions{IncludeHeaders: cfg.HeaderSensitiveKeys})

	exec, err := executor.New(tp, store, executor.Config{
		MaxConcurrency: maxConcurrency,
		LogErrors:      cfg.LogErrors,
	})
	if err != nil {
		return nil, err
	}

	return &Iterator{
		requests:  requests,
		batchSize: cfg.BatchSize,
		executor:  exec,
		logger:    log.With().Str("component", "iterator").Logger(),
		remaining: len(requests),
	}, nil
}

// Next returns the next response. The first call executes batch 0
// synchronously; before the first item of each batch is returned, execution
// of the following batch is started in the background. Next blocks only
// when the caller has consumed the current batch faster than the next one
// completed. After the last response it returns Done.
func (it *Iterator) Next(ctx context.Context) (*request.Response, error) {
	if it.remaining == 0 {
		return nil, Done
	}

	if it.pos >= len(it.current) {
		if err := it.advance(ctx); err != nil {
			return nil, err
		}
	}

	resp := it.current[it.pos]
	it.pos++
	it.remaining--
	deliveredTotal.Inc()

	return resp, nil
}

// HasNext reports whether any response remains undelivered. It never
// blocks and never triggers fetching.
func (it *Iterator) HasNext() bool {
	return it.remaining > 0
}

// Remaining returns the number of responses not yet handed to the caller.
// It decrements on delivery, not when a background batch completes.
func (it *Iterator) Remaining() int {
	return it.remaining
}

// Collect drains the iterator into a slice.
func (it *Iterator) Collect(ctx context.Context) ([]*request.Response, error) {
	responses := make([]*request.Response, 0, it.remaining)
	for {
		resp, err := it.Next(ctx)
		if err == Done {
			return responses, nil
		}
		if err != nil {
			return responses, err
		}
		responses = append(responses, resp)
	}
}

// String reports consumption progress, e.g. "<Iterator: 3/7 pending>".
func (it *Iterator) String() string {
	return fmt.Sprintf("<Iterator: %d/%d pending>", it.remaining, len(it.requests))
}

// advance makes the next batch current: it waits for the in-flight
// background batch if one exists, otherwise executes the next batch
// synchronously (only ever the case for batch 0). It then re-arms the
// prefetch for the batch after.
func (it *Iterator) advance(ctx context.Context) error {
	switch {
	case it.inflight != nil:
		start := time.Now()
		select {
		case batch := <-it.inflight:
			it.inflight = nil
			it.current = batch
			nextWaitSeconds.Observe(time.Since(start).Seconds())
		case <-ctx.Done():
			// The in-flight channel stays armed; a later call with a live
			// context can still receive the batch.
			return ctx.Err()
		}

	case it.next < it.batches():
		it.current = it.executor.Execute(ctx, it.slice(it.next))
		it.next++

	default:
		return Done
	}

	it.pos = 0
	it.prefetch(ctx)

	return nil
}

// prefetch starts background execution of the next batch, if one exists
// and none is in flight. At most one batch runs ahead of the one being
// consumed, bounding resident responses to roughly two batches.
func (it *Iterator) prefetch(ctx context.Context) {
	if it.inflight != nil || it.next >= it.batches() {
		return
	}

	batch := it.slice(it.next)
	it.next++

	// The background batch must outlive the Next call that armed it:
	// callers commonly cancel a per-call context as soon as Next returns.
	bg := context.WithoutCancel(ctx)

	ch := make(chan []*request.Response, 1)
	go func() {
		ch <- it.executor.Execute(bg, batch)
	}()
	it.inflight = ch

	prefetchesTotal.Inc()
	it.logger.Debug().
		Int("batch", it.next-1).
		Int("size", len(batch)).
		Msg("Prefetching next batch")
}

// batches returns the total number of batches.
func (it *Iterator) batches() int {
	return (len(it.requests) + it.batchSize - 1) / it.batchSize
}

// slice returns the requests of batch i; the last batch may be smaller.
func (it *Iterator) slice(i int) []*request.Request {
	start := i * it.batchSize
	end := start + it.batchSize
	if end > len(it.requests) {
		end = len(it.requests)
	}
	return it.requests[start:end]
}
