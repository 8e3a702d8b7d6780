// Package metrics documents the Prometheus metrics exposed by the SDK.
// All metrics are defined in their respective packages (client, cache,
// ratelimit) via promauto to keep the packages self-contained; this
// package only holds the registry reference and the catalog.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the Prometheus registry the SDK registers into.
var Registry = prometheus.DefaultRegisterer

// Metrics catalog
//
// Request pipeline (pkg/client):
//   - ghclient_requests_total{endpoint, status} (Counter): requests by endpoint and HTTP status
//   - ghclient_request_duration_seconds{endpoint} (Histogram): request duration
//   - ghclient_errors_total{kind} (Counter): classified errors by taxonomy kind
//
// Retry (pkg/client):
//   - ghclient_retries_total{kind} (Counter): retry attempts by error kind
//   - ghclient_retry_backoff_seconds{kind} (Histogram): backoff durations
//   - ghclient_retry_exhausted_total{kind} (Counter): requests that spent the whole budget
//
// Rate limiting (pkg/ratelimit):
//   - ghclient_ratelimit_remaining{bucket} (Gauge): last observed remaining quota
//   - ghclient_ratelimit_wait_seconds{bucket} (Histogram): pre-request waits
//   - ghclient_ratelimit_blocked_total{bucket} (Counter): fail-fast rejections under NoWait
//
// Cache (pkg/cache):
//   - ghclient_cache_hits_total / ghclient_cache_misses_total (Counter)
//   - ghclient_cache_errors_total{operation} (Counter)
//   - ghclient_conditional_requests_total (Counter): requests sent with If-None-Match
//   - ghclient_304_responses_total (Counter): responses served from cache after revalidation
//
// Example queries:
//
//	# cache hit rate
//	sum(rate(ghclient_cache_hits_total[5m])) /
//	(sum(rate(ghclient_cache_hits_total[5m])) + sum(rate(ghclient_cache_misses_total[5m])))
//
//	# p95 request latency
//	histogram_quantile(0.95, rate(ghclient_request_duration_seconds_bucket[5m]))
