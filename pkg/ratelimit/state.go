// Package ratelimit tracks the API's quota headers and gates outgoing
// requests. One Limiter corresponds to one quota bucket; a client talking
// to two quota classes (core and search) holds two Limiters.
package ratelimit

import (
	"fmt"
	"time"
)

// Bucket names for the quota classes the API enforces separately.
const (
	// BucketCore covers general REST endpoints.
	BucketCore = "core"

	// BucketSearch covers the search endpoints, which carry a much
	// tighter per-minute quota.
	BucketSearch = "search"
)

// State is the last known quota snapshot for one bucket. Remaining and
// Reset are pointers because both start out unknown: a fresh client has
// seen no response headers yet.
type State struct {
	// Remaining is the number of requests left in the current window.
	Remaining *int

	// Reset is the window reset time in epoch seconds.
	Reset *int64

	// Used is the number of requests consumed in the current window.
	Used int
}

// Exhausted reports whether the quota is known to be spent and the reset
// time still lies in the future.
func (s State) Exhausted(now time.Time) bool {
	if s.Remaining == nil || *s.Remaining > 0 {
		return false
	}
	if s.Reset == nil {
		return false
	}
	return now.Unix() < *s.Reset
}

// ResetTime returns the reset instant, or the zero time when unknown.
func (s State) ResetTime() time.Time {
	if s.Reset == nil {
		return time.Time{}
	}
	return time.Unix(*s.Reset, 0)
}

// TimeUntilReset returns the duration until the window resets, or 0 when
// the reset is unknown or already past.
func (s State) TimeUntilReset(now time.Time) time.Duration {
	if s.Reset == nil {
		return 0
	}
	d := time.Unix(*s.Reset, 0).Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// QuotaError is returned by Before when the quota is exhausted and the
// caller has disabled waiting.
type QuotaError struct {
	// Bucket names the exhausted quota bucket.
	Bucket string

	// ResetAt is the window reset time in epoch seconds, 0 when unknown.
	ResetAt int64
}

// Error implements the error interface.
func (e *QuotaError) Error() string {
	if e.ResetAt > 0 {
		return fmt.Sprintf("%s rate limit exhausted, resets at %s", e.Bucket, time.Unix(e.ResetAt, 0).UTC().Format(time.RFC3339))
	}
	return fmt.Sprintf("%s rate limit exhausted", e.Bucket)
}
