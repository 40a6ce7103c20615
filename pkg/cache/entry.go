// Package cache provides response caching keyed by a normalized request
// fingerprint, with pluggable storage backends.
package cache

import (
	"net/http"
	"time"

	"github.com/severinsimmler/mure/pkg/request"
)

// Entry is the serialized form of a cached response.
type Entry struct {
	// URL is the request URL the response belongs to (kept for auditing).
	URL string `json:"url"`

	// Status is the HTTP status code of the cached response.
	Status int `json:"status"`

	// Reason is the HTTP status text.
	Reason string `json:"reason"`

	// Headers are the response headers.
	Headers http.Header `json:"headers"`

	// Body is the raw response body.
	Body []byte `json:"body"`

	// CachedAt is when the response was stored.
	CachedAt time.Time `json:"cached_at"`
}

// NewEntry converts a response into its cacheable form.
func NewEntry(resp *request.Response) *Entry {
	return &Entry{
		URL:      resp.URL,
		Status:   resp.Status,
		Reason:   resp.Reason,
		Headers:  resp.Headers,
		Body:     resp.Body,
		CachedAt: time.Now(),
	}
}

// Response reconstructs the cached response.
func (e *Entry) Response() *request.Response {
	return request.NewResponse(e.Status, e.Reason, e.URL, e.Headers, e.Body)
}
