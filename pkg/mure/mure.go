// Package mure performs many HTTP requests concurrently and presents the
// responses as a lazily-advancing, order-preserving iterator.
//
// Requests are split into batches of Options.BatchSize; each batch runs
// concurrently and the next batch is prefetched in the background while
// the caller consumes the current one.
//
//	resources := []*request.Request{
//		{URL: "https://example.test/a"},
//		{URL: "https://example.test/b", Params: map[string]string{"x": "1"}},
//	}
//
//	it, err := mure.Get(resources, mure.Options{BatchSize: 2})
//	if err != nil {
//		return err
//	}
//	for it.HasNext() {
//		resp, err := it.Next(ctx)
//		...
//	}
package mure

import (
	"net/http"
	"time"

	"github.com/severinsimmler/mure/pkg/cache"
	"github.com/severinsimmler/mure/pkg/iterator"
	"github.com/severinsimmler/mure/pkg/request"
)

// DefaultBatchSize is used when Options.BatchSize is zero.
const DefaultBatchSize = 5

// Options configures a request run.
type Options struct {
	// BatchSize is the number of resources requested concurrently per
	// batch. Zero means DefaultBatchSize.
	BatchSize int

	// MaxConcurrency caps in-flight requests within a batch. Zero means
	// BatchSize.
	MaxConcurrency int

	// Cache is the cache backend. Nil disables caching.
	Cache cache.Backend

	// HeaderSensitiveKeys makes cache keys include request headers.
	HeaderSensitiveKeys bool

	// Client is the http.Client used by the default transport.
	Client *http.Client

	// Timeout is applied to requests that do not set their own.
	Timeout time.Duration

	// LogErrors enables full diagnostic logging of transport failures.
	LogErrors bool
}

// Do builds an iterator over the resources, using each request's own
// method (GET when unset). When Options.Timeout is set it is written onto
// each request that has no timeout of its own; the requests are modified
// in place and must not be reused concurrently. No network activity
// happens until the first pull.
func Do(resources []*request.Request, opts Options) (*iterator.Iterator, error) {
	if opts.BatchSize == 0 {
		opts.BatchSize = DefaultBatchSize
	}

	if opts.Timeout > 0 {
		for _, res := range resources {
			if res != nil && res.Timeout == 0 {
				res.Timeout = opts.Timeout
			}
		}
	}

	return iterator.New(resources, iterator.Config{
		BatchSize:           opts.BatchSize,
		MaxConcurrency:      opts.MaxConcurrency,
		Cache:               opts.Cache,
		HeaderSensitiveKeys: opts.HeaderSensitiveKeys,
		Client:              opts.Client,
		LogErrors:           opts.LogErrors,
	})
}

// The verb helpers below set their method on every resource in place,
// overwriting any method the caller assigned. Use Do to keep per-request
// methods.

// Get performs a GET request for each resource.
func Get(resources []*request.Request, opts Options) (*iterator.Iterator, error) {
	return withMethod(http.MethodGet, resources, opts)
}

// Post performs a POST request for each resource.
func Post(resources []*request.Request, opts Options) (*iterator.Iterator, error) {
	return withMethod(http.MethodPost, resources, opts)
}

// Put performs a PUT request for each resource.
func Put(resources []*request.Request, opts Options) (*iterator.Iterator, error) {
	return withMethod(http.MethodPut, resources, opts)
}

// Patch performs a PATCH request for each resource.
func Patch(resources []*request.Request, opts Options) (*iterator.Iterator, error) {
	return withMethod(http.MethodPatch, resources, opts)
}

// Delete performs a DELETE request for each resource.
func Delete(resources []*request.Request, opts Options) (*iterator.Iterator, error) {
	return withMethod(http.MethodDelete, resources, opts)
}

// Head performs a HEAD request for each resource.
func Head(resources []*request.Request, opts Options) (*iterator.Iterator, error) {
	return withMethod(http.MethodHead, resources, opts)
}

// withMethod stamps the method on every resource and delegates to Do.
func withMethod(method string, resources []*request.Request, opts Options) (*iterator.Iterator, error) {
	for _, res := range resources {
		if res != nil {
			res.Method = method
		}
	}
	return Do(resources, opts)
}
