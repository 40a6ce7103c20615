// Package transport defines the adapter that executes a single HTTP
// request, and a default implementation on net/http. Connection pooling,
// TLS and redirect behavior belong to the underlying http.Client.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/severinsimmler/mure/pkg/request"
)

// Transport executes one request and returns one response. An error means
// a transport-level failure (no HTTP response was received); HTTP error
// statuses are returned as regular responses.
type Transport interface {
	Do(ctx context.Context, req *request.Request) (*request.Response, error)
}

// HTTP is the default transport on top of an *http.Client.
type HTTP struct {
	client *http.Client
}

// NewHTTP creates a transport. A nil client falls back to a dedicated
// client without a global timeout; per-request timeouts are applied via
// context.
func NewHTTP(client *http.Client) *HTTP {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTP{client: client}
}

// Do executes the request and reads the full response body.
func (t *HTTP) Do(ctx context.Context, req *request.Request) (*request.Response, error) {
	resolved, err := req.ResolveURL()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, req.EffectiveTimeout())
	defer cancel()

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, resolved, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	for name, values := range req.Headers {
		for _, value := range values {
			httpReq.Header.Add(name, value)
		}
	}
	if req.JSON != nil && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	httpResp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	reason := httpResp.Status
	if len(reason) > 4 {
		// Strip the "200 " prefix from "200 OK".
		reason = reason[4:]
	}

	return request.NewResponse(httpResp.StatusCode, reason, resolved, httpResp.Header, respBody), nil
}
