package cache

import (
	"context"
	"testing"
	"time"

	"homeservices_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	c := NewRedisWithClient(client, logger.New("development"))
	t.Cleanup(func() { _ = c.Close() })
	return c, srv
}

func TestRedisCacheSetGet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "requests:list:admin", []byte(`[{"id":"1"}]`), time.Minute)

	got, ok := c.Get(ctx, "requests:list:admin")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if string(got) != `[{"id":"1"}]` {
		t.Fatalf("unexpected cached value: %s", got)
	}
}

func TestRedisCacheGetMiss(t *testing.T) {
	c, _ := newTestCache(t)

	if _, ok := c.Get(context.Background(), "missing"); ok {
		t.Fatal("expected cache miss")
	}
}

func TestRedisCacheDelete(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "stats:admin", []byte("1"), time.Minute)
	c.Delete(ctx, "stats:admin")

	if _, ok := c.Get(ctx, "stats:admin"); ok {
		t.Fatal("expected key to be deleted")
	}
}

func TestRedisCacheInvalidatePrefix(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "services:list", []byte("a"), time.Minute)
	c.Set(ctx, "services:popular", []byte("b"), time.Minute)
	c.Set(ctx, "stats:admin", []byte("c"), time.Minute)

	c.InvalidatePrefix(ctx, "services:")

	if _, ok := c.Get(ctx, "services:list"); ok {
		t.Fatal("expected services:list to be invalidated")
	}
	if _, ok := c.Get(ctx, "services:popular"); ok {
		t.Fatal("expected services:popular to be invalidated")
	}
	if _, ok := c.Get(ctx, "stats:admin"); !ok {
		t.Fatal("expected stats:admin to survive")
	}
}

func TestRedisCacheGetAfterBackendGone(t *testing.T) {
	c, srv := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "k", []byte("v"), time.Minute)
	srv.Close()

	// Backend failures must read as misses, never as errors.
	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatal("expected miss when backend is down")
	}
}

func TestNoopCache(t *testing.T) {
	c := NewNoop()
	ctx := context.Background()

	c.Set(ctx, "k", []byte("v"), time.Minute)
	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatal("noop cache must never hit")
	}
	c.Delete(ctx, "k")
	c.InvalidatePrefix(ctx, "k")
}
