package integration

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/forgekit/ghclient/internal/testutil"
	"github.com/forgekit/ghclient/pkg/cache"
	"github.com/forgekit/ghclient/pkg/client"
)

// setupRedis creates a Redis container for integration testing.
func setupRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: host + ":" + port.Port(),
	})

	cleanup := func() {
		redisClient.Close()
		container.Terminate(ctx)
	}

	return redisClient, cleanup
}

func newCachedClient(t *testing.T, mock *testutil.MockAPI, redisClient *redis.Client, mutate func(*client.Config)) *client.Client {
	t.Helper()
	cfg := client.DefaultConfig(nil)
	cfg.BaseURL = mock.URL()
	cfg.Redis = redisClient
	cfg.Retry = client.RetryPolicy{
		MaxAttempts: 2,
		BaseBackoff: 10 * time.Millisecond,
		MaxBackoff:  50 * time.Millisecond,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	c, err := client.New(cfg)
	if err != nil {
		t.Fatalf("client.New: %v", err)
	}
	return c
}

// TestFreshCacheServesWithoutWire verifies that a second GET within the
// freshness lifetime is answered from Redis without a network round trip.
func TestFreshCacheServesWithoutWire(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.SetResponse("/users/octocat", testutil.NewOKResponse(`{"login": "octocat"}`))

	c := newCachedClient(t, mock, redisClient, nil)
	ctx := context.Background()

	first, err := c.Do(ctx, client.NewRequest(http.MethodGet, "/users/octocat"))
	if err != nil {
		t.Fatalf("first Do: %v", err)
	}
	second, err := c.Do(ctx, client.NewRequest(http.MethodGet, "/users/octocat"))
	if err != nil {
		t.Fatalf("second Do: %v", err)
	}

	if mock.GetRequestCount() != 1 {
		t.Errorf("request count = %d, want 1 (second call served from cache)", mock.GetRequestCount())
	}
	if string(first.Body) != string(second.Body) {
		t.Errorf("cached body differs: %q vs %q", first.Body, second.Body)
	}
}

// TestStaleCacheRevalidates verifies the conditional-request path: a stale
// entry triggers If-None-Match, and a 304 serves the stored body.
func TestStaleCacheRevalidates(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.SetHandler("/users/octocat", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("ETag", `"v1"`)
		if r.Header.Get("If-None-Match") == `"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"login": "octocat"}`))
	})

	// Zero freshness forces every cached entry stale immediately.
	c := newCachedClient(t, mock, redisClient, func(cfg *client.Config) {
		cfg.CacheTTL = 1 * time.Nanosecond
	})
	ctx := context.Background()

	if _, err := c.Do(ctx, client.NewRequest(http.MethodGet, "/users/octocat")); err != nil {
		t.Fatalf("first Do: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	resp, err := c.Do(ctx, client.NewRequest(http.MethodGet, "/users/octocat"))
	if err != nil {
		t.Fatalf("second Do: %v", err)
	}
	if string(resp.Body) != `{"login": "octocat"}` {
		t.Errorf("revalidated body = %q", resp.Body)
	}
	if mock.GetConditionalCount() != 1 {
		t.Errorf("conditional count = %d, want 1", mock.GetConditionalCount())
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want the cached 200", resp.StatusCode)
	}
}

// TestCacheSegregatesCredentials verifies two credentials never share
// entries for the same path.
func TestCacheSegregatesCredentials(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	ctx := context.Background()
	manager := cache.NewManager(redisClient)

	entry := cache.NewEntry(http.StatusOK, http.Header{"Etag": {`"a"`}}, []byte(`{"ok": true}`), time.Minute)
	keyA := cache.Key{Path: "/user", Credential: "Bearer token-a"}
	keyB := cache.Key{Path: "/user", Credential: "Bearer token-b"}

	if err := manager.Set(ctx, keyA, entry); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, err := manager.Get(ctx, keyB); err != cache.ErrCacheMiss {
		t.Errorf("Get(other credential) error = %v, want ErrCacheMiss", err)
	}
	if _, err := manager.Get(ctx, keyA); err != nil {
		t.Errorf("Get(same credential) error = %v", err)
	}
}

// TestManagerRoundTrip exercises Set/Get/Refresh/Delete against real Redis.
func TestManagerRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	ctx := context.Background()
	manager := cache.NewManager(redisClient)
	key := cache.Key{Path: "/repos/octocat/hello"}

	header := http.Header{}
	header.Set("ETag", `"abc"`)
	entry := cache.NewEntry(http.StatusOK, header, []byte(`{"name": "hello"}`), time.Minute)
	if err := manager.Set(ctx, key, entry); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := manager.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ETag != `"abc"` || string(got.Body) != `{"name": "hello"}` {
		t.Errorf("entry = %+v", got)
	}

	if err := manager.Refresh(ctx, key, time.Hour); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	refreshed, err := manager.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get after refresh: %v", err)
	}
	if refreshed.TTL() <= time.Minute {
		t.Errorf("TTL after refresh = %v, want extended past the original", refreshed.TTL())
	}

	if err := manager.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := manager.Get(ctx, key); err != cache.ErrCacheMiss {
		t.Errorf("Get after delete error = %v, want ErrCacheMiss", err)
	}
}
