// Package adapters wires cross-cutting event subscribers: pieces that
// react to domain events without belonging to any one bounded context.
package adapters

import (
	"context"

	"homeservices_backend/internal/events"
	"homeservices_backend/platform/cache"
	"homeservices_backend/platform/logger"
)

// CacheInvalidator clears cached projections when the data behind them
// changes. Invalidation is advisory: a failure only shortens cache
// freshness, never correctness, since every entry carries a TTL.
type CacheInvalidator struct {
	cache cache.Cache
	log   *logger.Logger
}

// NewCacheInvalidator creates a cache invalidator.
func NewCacheInvalidator(c cache.Cache, log *logger.Logger) *CacheInvalidator {
	return &CacheInvalidator{cache: c, log: log}
}

// Register subscribes the invalidator to every event that touches a
// cached projection.
func (i *CacheInvalidator) Register(bus events.Bus) {
	catalogPrefixes := []string{"catalog:", "stats:"}
	requestPrefixes := []string{"requests:", "stats:"}
	reviewPrefixes := []string{"reviews:", "requests:", "stats:"}

	bus.Subscribe(events.EventCatalogServiceChanged, i.invalidate(catalogPrefixes))

	for _, name := range []string{
		events.EventServiceRequestCreated,
		events.EventServiceRequestAssigned,
		events.EventServiceRequestCompleted,
		events.EventServiceRequestClosed,
		events.EventServiceRequestUpdated,
		events.EventServiceRequestDeleted,
	} {
		bus.Subscribe(name, i.invalidate(requestPrefixes))
	}

	bus.Subscribe(events.EventReviewSubmitted, i.invalidate(reviewPrefixes))

	// Blocking an account changes what its requests listing may show.
	bus.Subscribe(events.EventAccountModerated, i.invalidate([]string{"requests:"}))
}

func (i *CacheInvalidator) invalidate(prefixes []string) events.Handler {
	return events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		for _, prefix := range prefixes {
			i.cache.InvalidatePrefix(ctx, prefix)
		}
		i.log.Debug("cache invalidated", "event", event.EventName(), "prefixes", prefixes)
		return nil
	})
}
