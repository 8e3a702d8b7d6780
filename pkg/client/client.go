// Package client implements the core request pipeline: authenticated
// request construction, rate limit gating, conditional caching, retry
// with backoff, and classification of failures into a typed taxonomy.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/forgekit/ghclient/pkg/auth"
	"github.com/forgekit/ghclient/pkg/cache"
	"github.com/forgekit/ghclient/pkg/logging"
	"github.com/forgekit/ghclient/pkg/ratelimit"
)

// Version is the SDK version reported in the User-Agent header.
const Version = "0.3.0"

const (
	defaultBaseURL    = "https://api.github.com"
	defaultAccept     = "application/vnd.github+json"
	defaultAPIVersion = "2022-11-28"
	defaultTimeout    = 30 * time.Second
	defaultCacheTTL   = 60 * time.Second
)

// Prometheus metrics for the request pipeline.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ghclient_requests_total",
		Help: "Total API requests by endpoint and status",
	}, []string{"endpoint", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ghclient_request_duration_seconds",
		Help:    "API request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ghclient_errors_total",
		Help: "Total classified errors by kind",
	}, []string{"kind"})
)

// Config holds the client configuration.
type Config struct {
	// BaseURL is the API root (default: the public API).
	BaseURL string

	// Auth provides the Authorization header. Nil issues
	// unauthenticated requests.
	Auth auth.Provider

	// HTTPClient is the underlying transport (default: a fresh
	// http.Client without its own timeout; the pipeline applies
	// per-attempt timeouts).
	HTTPClient *http.Client

	// UserAgent overrides the default "ghclient/<version>".
	UserAgent string

	// APIVersion is the value of the version pin header.
	APIVersion string

	// Timeout bounds each attempt, including rate limit waits.
	Timeout time.Duration

	// Retry shapes the attempt loop. Zero values take defaults.
	Retry RetryPolicy

	// MinInterval is the minimum spacing between requests per quota
	// bucket.
	MinInterval time.Duration

	// NoWait makes requests fail fast with a RateLimit error instead of
	// sleeping when the quota is exhausted.
	NoWait bool

	// Redis enables the conditional-request response cache when set.
	Redis *redis.Client

	// CacheTTL is the fallback freshness lifetime for cached responses
	// whose Cache-Control header carries no max-age.
	CacheTTL time.Duration
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(provider auth.Provider) Config {
	return Config{
		BaseURL:     defaultBaseURL,
		Auth:        provider,
		APIVersion:  defaultAPIVersion,
		Timeout:     defaultTimeout,
		Retry:       DefaultRetryPolicy(),
		MinInterval: 0,
		CacheTTL:    defaultCacheTTL,
	}
}

// Client executes API requests. A single instance is safe for concurrent
// use; the rate limit state is the only cross-request shared resource.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	cfg        Config
	core       *ratelimit.Limiter
	search     *ratelimit.Limiter
	cache      *cache.Manager
	logger     zerolog.Logger
}

// New creates a client from cfg, applying defaults for zero values.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base URL %q must be absolute", cfg.BaseURL)
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "ghclient/" + Version
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = defaultAPIVersion
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry.MaxAttempts = DefaultRetryPolicy().MaxAttempts
	}
	if cfg.Retry.BaseBackoff <= 0 {
		cfg.Retry.BaseBackoff = DefaultRetryPolicy().BaseBackoff
	}
	if cfg.Retry.MaxBackoff <= 0 {
		cfg.Retry.MaxBackoff = DefaultRetryPolicy().MaxBackoff
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}

	limiterOpts := ratelimit.Options{MinInterval: cfg.MinInterval, NoWait: cfg.NoWait}
	c := &Client{
		httpClient: cfg.HTTPClient,
		baseURL:    base,
		cfg:        cfg,
		core:       ratelimit.NewLimiter(ratelimit.BucketCore, limiterOpts),
		search:     ratelimit.NewLimiter(ratelimit.BucketSearch, limiterOpts),
		logger:     logging.NewLogger("client"),
	}
	if cfg.Redis != nil {
		c.cache = cache.NewManager(cfg.Redis)
	}
	return c, nil
}

// RateLimit returns the last known quota state for the named bucket.
func (c *Client) RateLimit(bucket string) ratelimit.State {
	return c.limiterForBucket(bucket).Snapshot()
}

func (c *Client) limiterForBucket(bucket string) *ratelimit.Limiter {
	if bucket == ratelimit.BucketSearch {
		return c.search
	}
	return c.core
}

// limiterFor routes a path to its quota bucket. Search endpoints carry an
// independent, much tighter quota.
func (c *Client) limiterFor(path string) *ratelimit.Limiter {
	if strings.HasPrefix(path, "/search/") {
		return c.search
	}
	return c.core
}

// Do executes the request, retrying per policy. On success it returns the
// decoded response; on failure, an *APIError. Quota-exhaustion failures
// under NoWait surface immediately and never consume the retry budget.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if req.Method == "" || req.Path == "" {
		return nil, fmt.Errorf("request needs method and path")
	}

	var body []byte
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		body = b
	}

	limiter := c.limiterFor(req.Path)
	requestID := uuid.NewString()
	logger := c.logger.With().
		Str("method", req.Method).
		Str("endpoint", req.Path).
		Str("request_id", requestID).
		Logger()

	start := time.Now()
	defer func() {
		requestDuration.WithLabelValues(req.Path).Observe(time.Since(start).Seconds())
	}()

	var lastErr *APIError
	for attempt := 0; attempt < c.cfg.Retry.MaxAttempts; attempt++ {
		if attempt > 0 {
			delay := c.cfg.Retry.retryDelay(lastErr, attempt-1, time.Now())
			retriesTotal.WithLabelValues(string(lastErr.Kind)).Inc()
			retryBackoffSeconds.WithLabelValues(string(lastErr.Kind)).Observe(delay.Seconds())
			logger.Warn().
				Int("attempt", attempt+1).
				Dur("wait", delay).
				Str("kind", string(lastErr.Kind)).
				Msg("Retrying request after backoff")
			if err := sleepCtx(ctx, delay); err != nil {
				return nil, NetworkError(err)
			}
		}

		resp, err := c.attempt(ctx, req, body, limiter, requestID, logger)
		if err == nil {
			if attempt > 0 {
				logger.Info().Int("attempt", attempt+1).Msg("Request succeeded after retry")
			}
			return resp, nil
		}

		var quotaErr *ratelimit.QuotaError
		if errors.As(err, &quotaErr) {
			// Fail-fast gate under NoWait: surfaced unretried.
			return nil, err
		}

		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			return nil, err
		}
		errorsTotal.WithLabelValues(string(apiErr.Kind)).Inc()
		if !apiErr.Retryable() {
			logger.Warn().
				Int("status", apiErr.StatusCode).
				Str("kind", string(apiErr.Kind)).
				Msg("Request failed, not retryable")
			return nil, apiErr
		}
		lastErr = apiErr
	}

	// Budget exhausted: the last classified error propagates unchanged.
	retryExhaustedTotal.WithLabelValues(string(lastErr.Kind)).Inc()
	logger.Error().
		Int("max_attempts", c.cfg.Retry.MaxAttempts).
		Str("kind", string(lastErr.Kind)).
		Msg("Retry attempts exhausted")
	return nil, lastErr
}

// attempt issues one HTTP request. The *http.Request is built fresh so a
// retried attempt never reuses consumed state.
func (c *Client) attempt(ctx context.Context, req *Request, body []byte, limiter *ratelimit.Limiter, requestID string, logger zerolog.Logger) (*Response, error) {
	timeout := c.cfg.Timeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := limiter.Before(ctx); err != nil {
		var quotaErr *ratelimit.QuotaError
		if errors.As(err, &quotaErr) {
			return nil, &APIError{
				Kind:    KindRateLimit,
				Message: quotaErr.Error(),
				ResetAt: quotaErr.ResetAt,
				Err:     quotaErr,
			}
		}
		return nil, NetworkError(err)
	}

	authHeader := ""
	if c.cfg.Auth != nil {
		h, err := c.cfg.Auth.AuthHeader()
		if err != nil {
			return nil, fmt.Errorf("resolve credential: %w", err)
		}
		authHeader = h
	}

	// Cache lookup applies to GET only; other methods mutate state.
	var cachedEntry *cache.Entry
	var cacheKey cache.Key
	useCache := c.cache != nil && req.Method == http.MethodGet
	if useCache {
		cacheKey = cache.Key{Path: req.Path, Query: req.Query, Credential: authHeader}
		entry, err := c.cache.Get(ctx, cacheKey)
		if err != nil && err != cache.ErrCacheMiss {
			logger.Warn().Err(err).Msg("Cache get error")
		}
		cachedEntry = entry
		if cachedEntry != nil && !cachedEntry.IsExpired() {
			logger.Debug().Msg("Serving fresh cache entry")
			return &Response{
				StatusCode: cachedEntry.StatusCode,
				Header:     cachedEntry.Header,
				Body:       cachedEntry.Body,
			}, nil
		}
	}

	httpReq, err := c.buildHTTPRequest(ctx, req, body, authHeader, requestID)
	if err != nil {
		return nil, err
	}
	if cachedEntry != nil && cache.ShouldRevalidate(cachedEntry) {
		cache.AddConditionalHeaders(httpReq, cachedEntry)
		cache.ConditionalRequestsSent.Inc()
		logger.Debug().Str("etag", cachedEntry.ETag).Msg("Making conditional request")
	}

	logger.Debug().Msg("Executing request")
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		requestsTotal.WithLabelValues(req.Path, "network_error").Inc()
		logger.Warn().Err(err).Msg("Transport failure")
		return nil, NetworkError(err)
	}
	respBody, err := io.ReadAll(httpResp.Body)
	httpResp.Body.Close()
	if err != nil {
		requestsTotal.WithLabelValues(req.Path, "network_error").Inc()
		return nil, NetworkError(err)
	}

	limiter.AfterResponse(httpResp.Header)
	requestsTotal.WithLabelValues(req.Path, strconv.Itoa(httpResp.StatusCode)).Inc()

	if httpResp.StatusCode == http.StatusNotModified && cachedEntry != nil {
		cache.NotModifiedResponses.Inc()
		logger.Debug().Msg("304 Not Modified, serving cache")
		lifetime := cache.FreshnessLifetime(httpResp.Header, c.cfg.CacheTTL)
		if err := c.cache.Refresh(ctx, cacheKey, lifetime); err != nil {
			logger.Warn().Err(err).Msg("Failed to refresh cache entry")
		}
		return &Response{
			StatusCode: cachedEntry.StatusCode,
			Header:     cachedEntry.Header,
			Body:       cachedEntry.Body,
		}, nil
	}

	if httpResp.StatusCode >= 200 && httpResp.StatusCode < 300 {
		if useCache && httpResp.StatusCode == http.StatusOK {
			if entry := cache.NewEntry(httpResp.StatusCode, httpResp.Header, respBody, c.cfg.CacheTTL); entry != nil {
				if err := c.cache.Set(ctx, cacheKey, entry); err != nil {
					logger.Warn().Err(err).Msg("Failed to cache response")
				}
			}
		}
		return &Response{
			StatusCode: httpResp.StatusCode,
			Header:     httpResp.Header,
			Body:       respBody,
		}, nil
	}

	return nil, Classify(httpResp.StatusCode, httpResp.Header, respBody)
}

// buildHTTPRequest assembles the transport request: URL, default headers,
// credential, and per-request overrides, in that order.
func (c *Client) buildHTTPRequest(ctx context.Context, req *Request, body []byte, authHeader, requestID string) (*http.Request, error) {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + req.Path
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	httpReq.Header.Set("Accept", defaultAccept)
	httpReq.Header.Set("User-Agent", c.cfg.UserAgent)
	httpReq.Header.Set("X-GitHub-Api-Version", c.cfg.APIVersion)
	httpReq.Header.Set("X-Request-ID", requestID)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		httpReq.Header.Set("Authorization", authHeader)
	}
	for k, v := range req.Header {
		httpReq.Header.Set(k, v)
	}
	return httpReq, nil
}

// sleepCtx waits for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
