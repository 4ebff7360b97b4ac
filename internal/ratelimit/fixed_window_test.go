package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisLimiter(t *testing.T, limit int) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	limiter, err := NewRedisLimiter(client, "test:ratelimit", limit, time.Minute)
	if err != nil {
		t.Fatalf("new redis limiter: %v", err)
	}
	return limiter, mr
}

func TestRedisLimiter(t *testing.T) {
	ctx := context.Background()
	limiter, _ := newRedisLimiter(t, 2)

	first := limiter.Allow(ctx, "ip-1")
	if !first.Allowed || first.Remaining != 1 {
		t.Fatalf("first request should pass with 1 remaining, got %+v", first)
	}
	if !limiter.Allow(ctx, "ip-1").Allowed {
		t.Fatalf("second request should pass")
	}
	third := limiter.Allow(ctx, "ip-1")
	if third.Allowed || third.RetryAfter <= 0 {
		t.Fatalf("third request should be blocked with a retry hint, got %+v", third)
	}
	if !limiter.Allow(ctx, "ip-2").Allowed {
		t.Fatalf("other keys have their own window")
	}
}

func TestRedisLimiterFailsClosed(t *testing.T) {
	limiter, mr := newRedisLimiter(t, 1)
	mr.Close()
	if limiter.Allow(context.Background(), "ip-1").Allowed {
		t.Fatalf("limiter should fail closed on redis errors")
	}
}

func TestRedisLimiterRequiresClient(t *testing.T) {
	if limiter, err := NewRedisLimiter(nil, "", 1, time.Second); err == nil || limiter != nil {
		t.Fatalf("expected constructor error without client")
	}
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer client.Close()
	if _, err := NewRedisLimiter(client, "", 0, time.Second); err == nil {
		t.Fatalf("expected constructor error for zero limit")
	}
}

func TestMemoryLimiterWindowResets(t *testing.T) {
	ctx := context.Background()
	limiter, err := NewMemoryLimiter(1, time.Minute)
	if err != nil {
		t.Fatalf("new memory limiter: %v", err)
	}
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	if !limiter.Allow(ctx, "ip-1").Allowed {
		t.Fatalf("first request should pass")
	}
	blocked := limiter.Allow(ctx, "ip-1")
	if blocked.Allowed || blocked.RetryAfter != time.Minute {
		t.Fatalf("second request should be blocked for a minute, got %+v", blocked)
	}
	now = now.Add(time.Minute)
	if !limiter.Allow(ctx, "ip-1").Allowed {
		t.Fatalf("new window should pass")
	}
}
