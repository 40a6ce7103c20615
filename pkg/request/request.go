// Package request defines the request and response value types shared by
// the executor, cache, and iterator packages.
package request

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// DefaultTimeout is applied when a request does not specify its own timeout.
const DefaultTimeout = 10 * time.Second

// Methods supported by the library.
var supportedMethods = map[string]bool{
	http.MethodDelete: true,
	http.MethodGet:    true,
	http.MethodHead:   true,
	http.MethodPatch:  true,
	http.MethodPost:   true,
	http.MethodPut:    true,
}

// Request describes one HTTP request to perform. A Request is treated as
// immutable once it has been handed to an iterator or executor.
type Request struct {
	// Method is the HTTP method. Empty means GET.
	Method string

	// URL is the target URL (required).
	URL string

	// Params are query parameters merged into the URL's query string.
	Params map[string]string

	// Headers are additional request headers.
	Headers http.Header

	// Body is the raw request body.
	Body []byte

	// JSON is a structured request body. It is marshaled during Validate
	// into Body and takes effect only if Body is empty.
	JSON any

	// Timeout is the per-request timeout. Zero means DefaultTimeout.
	Timeout time.Duration

	// SkipCache disables cache lookup and storage for this request.
	SkipCache bool
}

// Validate checks the request, applies the GET default and marshals the
// JSON body. It must be called before the request is executed.
func (r *Request) Validate() error {
	if r == nil {
		return fmt.Errorf("request is nil")
	}

	if r.URL == "" {
		return fmt.Errorf("request url is required")
	}

	if r.Method == "" {
		r.Method = http.MethodGet
	}

	if !supportedMethods[r.Method] {
		return fmt.Errorf("unsupported method %q", r.Method)
	}

	if r.JSON != nil && len(r.Body) == 0 {
		body, err := json.Marshal(r.JSON)
		if err != nil {
			return fmt.Errorf("marshal json body: %w", err)
		}
		r.Body = body
	}

	return nil
}

// EffectiveTimeout returns the request timeout or the default.
func (r *Request) EffectiveTimeout() time.Duration {
	if r.Timeout > 0 {
		return r.Timeout
	}
	return DefaultTimeout
}

// ResolveURL returns the request URL with Params merged into its query
// string. Parameters set directly in the URL are kept; Params entries with
// the same name are appended.
func (r *Request) ResolveURL() (string, error) {
	u, err := url.Parse(r.URL)
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", r.URL, err)
	}

	if len(r.Params) > 0 {
		query := u.Query()
		for key, value := range r.Params {
			query.Add(key, value)
		}
		u.RawQuery = query.Encode()
	}

	return u.String(), nil
}

// String returns a short representation for logging.
func (r *Request) String() string {
	return fmt.Sprintf("<Request(%s, %s)>", r.Method, r.URL)
}
