// Package cache provides an advisory read cache for the application.
// This is part of the platform layer and contains no business logic.
//
// The cache is best-effort: a miss and a backend failure look the same to
// callers, so correctness never depends on a cached value being present.
package cache

import (
	"context"
	"time"
)

// Cache is the advisory cache port. Implementations log failures internally
// and never surface them; callers fall through to the source of truth on
// any miss.
type Cache interface {
	// Get returns the cached value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores value under key for the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)

	// Delete removes a single key.
	Delete(ctx context.Context, key string)

	// InvalidatePrefix removes every key starting with prefix.
	InvalidatePrefix(ctx context.Context, prefix string)
}

// Noop is a Cache that stores nothing. Used when Redis is not configured.
type Noop struct{}

// NewNoop creates a no-op cache.
func NewNoop() *Noop { return &Noop{} }

func (Noop) Get(context.Context, string) ([]byte, bool)         { return nil, false }
func (Noop) Set(context.Context, string, []byte, time.Duration) {}
func (Noop) Delete(context.Context, string)                     {}
func (Noop) InvalidatePrefix(context.Context, string)           {}

var _ Cache = (*Noop)(nil)
