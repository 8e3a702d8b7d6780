package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for cache operations.
var (
	// Hits counts cache lookups that returned an entry.
	Hits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ghclient_cache_hits_total",
		Help: "Total cache hits",
	})

	// Misses counts cache lookups that found nothing.
	Misses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ghclient_cache_misses_total",
		Help: "Total cache misses",
	})

	// Errors counts failed cache operations by operation name.
	Errors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ghclient_cache_errors_total",
		Help: "Total cache operation errors",
	}, []string{"operation"})

	// ConditionalRequestsSent counts requests issued with If-None-Match.
	ConditionalRequestsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ghclient_conditional_requests_total",
		Help: "Total conditional requests sent with If-None-Match",
	})

	// NotModifiedResponses counts 304 responses served from cache.
	NotModifiedResponses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ghclient_304_responses_total",
		Help: "Total 304 Not Modified responses served from cache",
	})
)
