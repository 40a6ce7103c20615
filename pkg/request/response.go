package request

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"golang.org/x/net/html/charset"
)

// Response is the outcome of executing one Request. A Status of 0 means the
// request never produced an HTTP response (transport failure); Reason then
// carries the error text. Responses are immutable value objects.
type Response struct {
	// Status is the HTTP status code, or 0 for a transport failure.
	Status int `json:"status"`

	// Reason is the HTTP status text, or the transport error for status 0.
	Reason string `json:"reason"`

	// OK is true if Status is in [200, 400).
	OK bool `json:"ok"`

	// URL is the final URL of the response (after query normalization).
	URL string `json:"url"`

	// Headers are the response headers.
	Headers http.Header `json:"headers"`

	// Body is the raw response body.
	Body []byte `json:"body"`

	textOnce sync.Once
	text     string
}

// NewFailure builds the placeholder response for a transport-level failure.
func NewFailure(url string, err error) *Response {
	return &Response{
		Status: 0,
		Reason: err.Error(),
		OK:     false,
		URL:    url,
	}
}

// statusOK reports whether a status code counts as successful.
func statusOK(status int) bool {
	return status >= 200 && status < 400
}

// NewResponse builds a response from status, headers and body.
func NewResponse(status int, reason, url string, headers http.Header, body []byte) *Response {
	return &Response{
		Status:  status,
		Reason:  reason,
		OK:      statusOK(status),
		URL:     url,
		Headers: headers,
		Body:    body,
	}
}

// Text decodes the body to a string using the charset declared in the
// Content-Type header, falling back to sniffing the body. The result is
// computed once and reused.
func (r *Response) Text() string {
	r.textOnce.Do(func() {
		if len(r.Body) == 0 {
			return
		}

		contentType := ""
		if r.Headers != nil {
			contentType = r.Headers.Get("Content-Type")
		}

		reader, err := charset.NewReader(bytes.NewReader(r.Body), contentType)
		if err != nil {
			// Unknown encoding, hand back the raw bytes.
			r.text = string(r.Body)
			return
		}

		decoded, err := io.ReadAll(reader)
		if err != nil {
			r.text = string(r.Body)
			return
		}

		r.text = string(decoded)
	})

	return r.text
}

// JSON unmarshals the response body into v.
func (r *Response) JSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("unmarshal response body: %w", err)
	}
	return nil
}

// String returns a short representation for logging.
func (r *Response) String() string {
	return fmt.Sprintf("<Response(%d, %s)>", r.Status, r.Reason)
}
