// Package executor runs a batch of requests concurrently, consulting the
// response cache first and preserving input order in the results.
package executor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/severinsimmler/mure/pkg/cache"
	"github.com/severinsimmler/mure/pkg/request"
	"github.com/severinsimmler/mure/pkg/transport"
)

// Config holds executor configuration.
type Config struct {
	// MaxConcurrency is the cap on simultaneous in-flight requests within
	// one Execute call. Zero means one worker per request.
	MaxConcurrency int

	// LogErrors enables full diagnostic logging for transport failures.
	// The returned status-0 responses are the same either way.
	LogErrors bool
}

// Executor executes batches of requests against a transport, with an
// optional cache in front of the network.
type Executor struct {
	transport transport.Transport
	store     *cache.Store
	config    Config
	logger    zerolog.Logger
}

// New creates an executor. A nil store disables caching.
func New(tp transport.Transport, store *cache.Store, cfg Config) (*Executor, error) {
	if tp == nil {
		return nil, fmt.Errorf("transport is required")
	}
	if cfg.MaxConcurrency < 0 {
		return nil, fmt.Errorf("max_concurrency must be >= 0 (got %d)", cfg.MaxConcurrency)
	}

	if store == nil {
		store = cache.NewStore(cache.NewNop(), cache.KeyOptions{})
	}

	return &Executor{
		transport: tp,
		store:     store,
		config:    cfg,
		logger:    log.With().Str("component", "executor").Logger(),
	}, nil
}

// Execute runs all requests concurrently, bounded by MaxConcurrency, and
// returns one response per request in input order. A transport failure for
// one request never aborts its siblings; it becomes a status-0 response
// with the error text as reason. Execute returns once every request has a
// response.
func (e *Executor) Execute(ctx context.Context, requests []*request.Request) []*request.Response {
	responses := make([]*request.Response, len(requests))
	if len(requests) == 0 {
		return responses
	}

	start := time.Now()

	workers := e.config.MaxConcurrency
	if workers <= 0 || workers > len(requests) {
		workers = len(requests)
	}

	jobs := make(chan int)
	go func() {
		for i := range requests {
			jobs <- i
		}
		close(jobs)
	}()

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go e.worker(ctx, requests, responses, jobs, &wg)
	}
	wg.Wait()

	batchesTotal.Inc()
	batchDuration.Observe(time.Since(start).Seconds())

	e.logger.Debug().
		Int("requests", len(requests)).
		Int("workers", workers).
		Dur("duration", time.Since(start)).
		Msg("Batch complete")

	return responses
}

// worker processes request indices from the queue. Each index is written
// exactly once, so the responses slice needs no locking.
func (e *Executor) worker(ctx context.Context, requests []*request.Request, responses []*request.Response, jobs <-chan int, wg *sync.WaitGroup) {
	defer wg.Done()

	for i := range jobs {
		responses[i] = e.process(ctx, requests[i])
	}
}

// process resolves a single request: cache first, then network.
func (e *Executor) process(ctx context.Context, req *request.Request) *request.Response {
	if err := ctx.Err(); err != nil {
		// Batch was abandoned; hand back a transport-failure placeholder
		// without dispatching.
		return request.NewFailure(req.URL, err)
	}

	if resp, ok := e.store.Get(ctx, req); ok {
		requestsTotal.WithLabelValues(req.Method, "cached").Inc()
		e.logger.Debug().Str("url", req.URL).Msg("Cache hit")
		return resp
	}

	start := time.Now()
	resp, err := e.transport.Do(ctx, req)
	requestDuration.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())

	if err != nil {
		transportFailuresTotal.Inc()
		requestsTotal.WithLabelValues(req.Method, "failure").Inc()

		if e.config.LogErrors {
			e.logger.Error().
				Err(err).
				Str("method", req.Method).
				Str("url", req.URL).
				Dur("duration", time.Since(start)).
				Msg("Transport failure")
		}

		return request.NewFailure(req.URL, err)
	}

	requestsTotal.WithLabelValues(req.Method, fmt.Sprintf("%d", resp.Status)).Inc()

	e.store.Put(ctx, req, resp)

	return resp
}
