package client

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for retry behavior.
var (
	retriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ghclient_retries_total",
		Help: "Total number of retry attempts by error kind",
	}, []string{"kind"})

	retryBackoffSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ghclient_retry_backoff_seconds",
		Help:    "Backoff duration for retries by error kind",
		Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"kind"})

	retryExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ghclient_retry_exhausted_total",
		Help: "Total number of times the retry budget was exhausted by error kind",
	}, []string{"kind"})
)

// RetryPolicy bounds the attempt loop and shapes its delays.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// BaseBackoff is the delay before the first retry; it doubles per attempt.
	BaseBackoff time.Duration

	// MaxBackoff caps the exponential growth.
	MaxBackoff time.Duration
}

// DefaultRetryPolicy returns the standard policy: three attempts,
// exponential backoff from one second capped at thirty.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseBackoff: 1 * time.Second,
		MaxBackoff:  30 * time.Second,
	}
}

// backoff returns the exponential delay before retry number attempt
// (0-based): base * 2^attempt, capped at MaxBackoff.
func (p RetryPolicy) backoff(attempt int) time.Duration {
	d := p.BaseBackoff << attempt
	if d > p.MaxBackoff || d <= 0 {
		d = p.MaxBackoff
	}
	return d
}

// retryDelay computes how long to wait before re-attempting after err.
// Rate limit errors wait until the advertised reset; everything else uses
// exponential backoff.
func (p RetryPolicy) retryDelay(err *APIError, attempt int, now time.Time) time.Duration {
	if err.Kind == KindRateLimit && err.ResetAt > 0 {
		delay := time.Unix(err.ResetAt, 0).Sub(now)
		if delay < 0 {
			delay = 0
		}
		return delay
	}
	return p.backoff(attempt)
}
