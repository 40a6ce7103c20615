package integration

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/severinsimmler/mure/internal/testutil"
	"github.com/severinsimmler/mure/pkg/cache"
	"github.com/severinsimmler/mure/pkg/mure"
	"github.com/severinsimmler/mure/pkg/request"
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
		t.Skipf("Failed to start Redis container: %v", err)
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

// TestRedisBackedIteration runs the full flow twice against a Redis cache:
// the first pass hits the origin, the second is served entirely from Redis.
func TestRedisBackedIteration(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	origin := testutil.NewMockOrigin()
	defer origin.Close()

	const n = 6
	resources := func() []*request.Request {
		reqs := make([]*request.Request, n)
		for i := 0; i < n; i++ {
			path := fmt.Sprintf("/item/%d", i)
			origin.SetResponse(path, testutil.MockResponse{
				StatusCode: http.StatusOK,
				Body:       fmt.Sprintf("%d", i),
			})
			reqs[i] = &request.Request{URL: origin.URL() + path}
		}
		return reqs
	}

	backend := cache.NewRedis(redisClient, time.Minute)
	ctx := context.Background()

	first, err := mure.Get(resources(), mure.Options{BatchSize: 2, Cache: backend})
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	responses, err := first.Collect(ctx)
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	if len(responses) != n {
		t.Fatalf("len(responses) = %d, want %d", len(responses), n)
	}
	if origin.RequestCount() != n {
		t.Fatalf("origin requests = %d, want %d", origin.RequestCount(), n)
	}

	second, err := mure.Get(resources(), mure.Options{BatchSize: 2, Cache: backend})
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	responses, err = second.Collect(ctx)
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}

	if len(responses) != n {
		t.Fatalf("len(responses) = %d, want %d", len(responses), n)
	}
	for i, resp := range responses {
		if resp.Status != http.StatusOK {
			t.Errorf("responses[%d].Status = %d, want 200", i, resp.Status)
		}
		if string(resp.Body) != fmt.Sprintf("%d", i) {
			t.Errorf("responses[%d].Body = %s, want %d", i, resp.Body, i)
		}
	}
	if origin.RequestCount() != n {
		t.Errorf("origin requests after cached pass = %d, want %d", origin.RequestCount(), n)
	}
}

// TestRedisCacheSharedAcrossClients simulates two processes sharing one
// Redis cache: the second client never reaches the origin.
func TestRedisCacheSharedAcrossClients(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	origin := testutil.NewMockOrigin()
	defer origin.Close()

	origin.SetResponse("/shared", testutil.MockResponse{
		StatusCode: http.StatusOK,
		Body:       "shared",
	})

	ctx := context.Background()
	url := origin.URL() + "/shared"

	writer := cache.NewRedis(redisClient, time.Minute)
	it, err := mure.Get([]*request.Request{{URL: url}}, mure.Options{Cache: writer})
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if _, err := it.Collect(ctx); err != nil {
		t.Fatalf("Collect() error: %v", err)
	}

	// A second backend on the same Redis stands in for another process.
	reader := cache.NewRedis(redisClient, time.Minute)
	it, err = mure.Get([]*request.Request{{URL: url}}, mure.Options{Cache: reader})
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	responses, err := it.Collect(ctx)
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}

	if string(responses[0].Body) != "shared" {
		t.Errorf("Body = %s, want shared", responses[0].Body)
	}
	if origin.PathCount("/shared") != 1 {
		t.Errorf("origin requests = %d, want 1 (shared cache)", origin.PathCount("/shared"))
	}
}

// TestTransportFailuresNotCachedInRedis verifies status-0 responses never
// land in the shared cache.
func TestTransportFailuresNotCachedInRedis(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	backend := cache.NewRedis(redisClient, time.Minute)
	ctx := context.Background()

	it, err := mure.Get([]*request.Request{{URL: "http://127.0.0.1:1/"}}, mure.Options{Cache: backend})
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	responses, err := it.Collect(ctx)
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	if responses[0].Status != 0 {
		t.Fatalf("Status = %d, want 0", responses[0].Status)
	}

	keys, err := redisClient.Keys(ctx, "mure:*").Result()
	if err != nil {
		t.Fatalf("redis keys: %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("cache keys = %v, want none", keys)
	}
}
