package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/severinsimmler/mure/pkg/request"
)

// KeyOptions controls which request fields participate in the fingerprint.
type KeyOptions struct {
	// IncludeHeaders makes fingerprints sensitive to request headers, so
	// that e.g. different auth tokens map to different cache entries.
	// Off by default: header-only variation shares one entry.
	IncludeHeaders bool
}

// Key computes the deterministic fingerprint of a request, used as the
// cache key. Two requests with the same method, effective URL (after query
// parameter canonicalization) and body produce the same key regardless of
// map iteration order.
func Key(req *request.Request, opts KeyOptions) string {
	var b strings.Builder

	b.WriteString(req.Method)
	b.WriteByte('\n')
	b.WriteString(canonicalURL(req))
	b.WriteByte('\n')
	b.Write(req.Body)

	if opts.IncludeHeaders && len(req.Headers) > 0 {
		names := make([]string, 0, len(req.Headers))
		for name := range req.Headers {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			b.WriteByte('\n')
			b.WriteString(name)
			b.WriteByte('=')
			b.WriteString(strings.Join(req.Headers[name], ","))
		}
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// canonicalURL normalizes the request URL: query parameters from the URL
// and from Params are merged and sorted. Unparseable URLs fall back to a
// raw deterministic form.
func canonicalURL(req *request.Request) string {
	u, err := url.Parse(req.URL)
	if err != nil {
		return rawCanonical(req)
	}

	query := u.Query()
	for key, value := range req.Params {
		query.Add(key, value)
	}
	u.RawQuery = query.Encode() // sorted by key

	return u.String()
}

// rawCanonical builds a deterministic fallback for URLs that do not parse.
func rawCanonical(req *request.Request) string {
	if len(req.Params) == 0 {
		return req.URL
	}

	keys := make([]string, 0, len(req.Params))
	for key := range req.Params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", key, req.Params[key]))
	}

	return req.URL + "?" + strings.Join(parts, "&")
}
