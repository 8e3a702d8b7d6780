package ratelimit

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/forgekit/ghclient/pkg/logging"
)

// Prometheus metrics for rate limit gating.
var (
	rateLimitRemaining = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ghclient_ratelimit_remaining",
		Help: "Last observed x-ratelimit-remaining value by bucket",
	}, []string{"bucket"})

	rateLimitWaitSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ghclient_ratelimit_wait_seconds",
		Help:    "Time spent waiting before requests by bucket",
		Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 30, 60, 300},
	}, []string{"bucket"})

	rateLimitBlockedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ghclient_ratelimit_blocked_total",
		Help: "Requests rejected without waiting because the quota was exhausted",
	}, []string{"bucket"})
)

// Options configures a Limiter.
type Options struct {
	// MinInterval is the minimum spacing between requests issued through
	// this limiter. Zero disables spacing.
	MinInterval time.Duration

	// NoWait makes Before fail with a QuotaError instead of sleeping when
	// the quota is exhausted.
	NoWait bool
}

// Limiter gates requests against one quota bucket. The spacing guarantee
// is best-effort: concurrent call chains may race between the spacing
// check and the request, which reduces bursts without strictly
// serializing requests.
type Limiter struct {
	mu     sync.Mutex
	bucket string
	state  State
	last   time.Time
	opts   Options
	logger zerolog.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewLimiter creates a limiter for the named bucket with unknown state.
func NewLimiter(bucket string, opts Options) *Limiter {
	return &Limiter{
		bucket: bucket,
		opts:   opts,
		logger: logging.NewLogger("ratelimit").With().Str("bucket", bucket).Logger(),
		now:    time.Now,
	}
}

// Before gates one request. If the quota was observed exhausted and the
// reset lies in the future, it sleeps until the reset (or fails with a
// QuotaError under NoWait). Otherwise it enforces the minimum spacing
// since the last request. Sleeps are cancellable through ctx.
func (l *Limiter) Before(ctx context.Context) error {
	l.mu.Lock()
	now := l.now()
	var wait time.Duration
	if l.state.Exhausted(now) {
		if l.opts.NoWait {
			resetAt := int64(0)
			if l.state.Reset != nil {
				resetAt = *l.state.Reset
			}
			l.mu.Unlock()
			rateLimitBlockedTotal.WithLabelValues(l.bucket).Inc()
			l.logger.Warn().Int64("reset_at", resetAt).Msg("Quota exhausted, failing fast")
			return &QuotaError{Bucket: l.bucket, ResetAt: resetAt}
		}
		wait = l.state.TimeUntilReset(now)
	} else if l.opts.MinInterval > 0 && !l.last.IsZero() {
		if since := now.Sub(l.last); since < l.opts.MinInterval {
			wait = l.opts.MinInterval - since
		}
	}
	l.mu.Unlock()

	if wait > 0 {
		rateLimitWaitSeconds.WithLabelValues(l.bucket).Observe(wait.Seconds())
		l.logger.Debug().Dur("wait", wait).Msg("Delaying request")
		if err := sleep(ctx, wait); err != nil {
			return err
		}
	}

	l.mu.Lock()
	l.last = l.now()
	l.mu.Unlock()
	return nil
}

// AfterResponse overwrites the state from the response's rate limit
// headers. Responses without any of the headers leave the state unchanged
// rather than resetting it to unknown.
func (l *Limiter) AfterResponse(header http.Header) {
	remainingRaw := header.Get("x-ratelimit-remaining")
	resetRaw := header.Get("x-ratelimit-reset")
	usedRaw := header.Get("x-ratelimit-used")
	if remainingRaw == "" && resetRaw == "" && usedRaw == "" {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if remainingRaw != "" {
		if remaining, err := strconv.Atoi(remainingRaw); err == nil {
			l.state.Remaining = &remaining
			rateLimitRemaining.WithLabelValues(l.bucket).Set(float64(remaining))
		}
	}
	if resetRaw != "" {
		// The reset header is epoch seconds; some gateways emit a
		// fractional part, which is truncated.
		if f, err := strconv.ParseFloat(resetRaw, 64); err == nil {
			reset := int64(f)
			l.state.Reset = &reset
		}
	}
	if usedRaw != "" {
		if used, err := strconv.Atoi(usedRaw); err == nil {
			l.state.Used = used
		}
	}

	l.logger.Debug().
		Str("remaining", remainingRaw).
		Str("reset", resetRaw).
		Str("used", usedRaw).
		Msg("Rate limit state updated")
}

// Snapshot returns a copy of the current state.
func (l *Limiter) Snapshot() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	state := l.state
	if l.state.Remaining != nil {
		remaining := *l.state.Remaining
		state.Remaining = &remaining
	}
	if l.state.Reset != nil {
		reset := *l.state.Reset
		state.Reset = &reset
	}
	return state
}

// Bucket returns the bucket name this limiter guards.
func (l *Limiter) Bucket() string {
	return l.bucket
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
