package cache

import (
	"net/http"
	"time"
)

// ShouldRevalidate reports whether a cached entry warrants a conditional
// request instead of serving it directly. Fresh entries can be served
// as-is; stale entries with an ETag are worth revalidating.
func ShouldRevalidate(entry *Entry) bool {
	return entry != nil && entry.ETag != "" && entry.IsExpired()
}

// AddConditionalHeaders decorates an outgoing request with If-None-Match
// from the cached entry.
func AddConditionalHeaders(req *http.Request, entry *Entry) {
	if entry == nil || entry.ETag == "" {
		return
	}
	req.Header.Set("If-None-Match", entry.ETag)
}

// NewEntry builds a cache entry from response parts. The freshness
// lifetime comes from Cache-Control max-age, falling back to defaultTTL.
// Returns nil when the response carries no ETag: without one the entry
// could never be revalidated.
func NewEntry(statusCode int, header http.Header, body []byte, defaultTTL time.Duration) *Entry {
	etag := header.Get("ETag")
	if etag == "" {
		return nil
	}
	now := time.Now()
	return &Entry{
		Body:       body,
		ETag:       etag,
		StatusCode: statusCode,
		Header:     header.Clone(),
		Expires:    now.Add(FreshnessLifetime(header, defaultTTL)),
		CachedAt:   now,
	}
}
