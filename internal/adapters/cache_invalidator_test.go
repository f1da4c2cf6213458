package adapters

import (
	"context"
	"testing"
	"time"

	"homeservices_backend/internal/events"
	"homeservices_backend/platform/cache"
	"homeservices_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) cache.Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return cache.NewRedisWithClient(client, logger.New("development"))
}

func seed(ctx context.Context, c cache.Cache, keys ...string) {
	for _, key := range keys {
		c.Set(ctx, key, []byte("x"), time.Minute)
	}
}

func TestCatalogChangeClearsCatalogAndStats(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)
	log := logger.New("development")
	bus := events.NewInMemoryBus(log)
	NewCacheInvalidator(c, log).Register(bus)

	seed(ctx, c, "catalog:list:::", "catalog:types", "stats:popular", "reviews:professional:a:1:20")

	err := bus.PublishSync(ctx, events.CatalogServiceChanged{
		BaseEvent: events.NewBaseEvent(),
		ServiceID: uuid.New(),
		Action:    "updated",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, key := range []string{"catalog:list:::", "catalog:types", "stats:popular"} {
		if _, ok := c.Get(ctx, key); ok {
			t.Fatalf("expected %q invalidated", key)
		}
	}
	if _, ok := c.Get(ctx, "reviews:professional:a:1:20"); !ok {
		t.Fatal("expected review cache untouched by catalog change")
	}
}

func TestReviewSubmittedClearsReviewsRequestsAndStats(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)
	log := logger.New("development")
	bus := events.NewInMemoryBus(log)
	NewCacheInvalidator(c, log).Register(bus)

	seed(ctx, c, "reviews:professional:a:1:20", "requests:list:u::::::", "stats:popular", "catalog:types")

	err := bus.PublishSync(ctx, events.ReviewSubmitted{
		BaseEvent:      events.NewBaseEvent(),
		ReviewID:       uuid.New(),
		RequestID:      uuid.New(),
		ProfessionalID: uuid.New(),
		Rating:         5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, key := range []string{"reviews:professional:a:1:20", "requests:list:u::::::", "stats:popular"} {
		if _, ok := c.Get(ctx, key); ok {
			t.Fatalf("expected %q invalidated", key)
		}
	}
	if _, ok := c.Get(ctx, "catalog:types"); !ok {
		t.Fatal("expected catalog cache untouched by a review")
	}
}

func TestRequestLifecycleClearsRequestPrefix(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)
	log := logger.New("development")
	bus := events.NewInMemoryBus(log)
	NewCacheInvalidator(c, log).Register(bus)

	seed(ctx, c, "requests:list:u::::::")

	err := bus.PublishSync(ctx, events.ServiceRequestAssigned{
		BaseEvent:      events.NewBaseEvent(),
		RequestID:      uuid.New(),
		ProfessionalID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := c.Get(ctx, "requests:list:u::::::"); ok {
		t.Fatal("expected request listing invalidated")
	}
}
