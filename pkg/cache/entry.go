// Package cache provides an ETag-aware response cache with a Redis
// backend. Cached GET responses are revalidated with conditional requests;
// a 304 serves the stored body without consuming response bandwidth.
// Entries are TTL-bound copies of responses, not a persistence layer.
package cache

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Entry is one cached API response.
type Entry struct {
	// Body is the response body.
	Body []byte `json:"body"`

	// ETag is the entity tag used for If-None-Match revalidation.
	ETag string `json:"etag"`

	// StatusCode is the status of the cached response.
	StatusCode int `json:"status_code"`

	// Header holds the response headers.
	Header http.Header `json:"header"`

	// Expires is when the entry becomes stale.
	Expires time.Time `json:"expires"`

	// CachedAt is when the entry was stored.
	CachedAt time.Time `json:"cached_at"`
}

// IsExpired reports whether the entry is past its freshness lifetime.
// Expired entries are still useful: their ETag drives revalidation.
func (e *Entry) IsExpired() bool {
	return time.Now().After(e.Expires)
}

// TTL returns the remaining freshness lifetime, or 0 when expired.
func (e *Entry) TTL() time.Duration {
	ttl := time.Until(e.Expires)
	if ttl < 0 {
		return 0
	}
	return ttl
}

// FreshnessLifetime extracts the max-age directive from a Cache-Control
// header. Returns fallback when the header is absent or carries no max-age.
func FreshnessLifetime(header http.Header, fallback time.Duration) time.Duration {
	cc := header.Get("Cache-Control")
	if cc == "" {
		return fallback
	}
	for _, directive := range strings.Split(cc, ",") {
		directive = strings.TrimSpace(directive)
		if !strings.HasPrefix(directive, "max-age=") {
			continue
		}
		secs, err := strconv.Atoi(strings.TrimPrefix(directive, "max-age="))
		if err != nil || secs < 0 {
			return fallback
		}
		return time.Duration(secs) * time.Second
	}
	return fallback
}
