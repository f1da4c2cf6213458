package cache

import (
	"context"
	"errors"
	"time"

	"homeservices_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

// RedisCache is a Cache backed by Redis.
type RedisCache struct {
	client *redis.Client
	log    *logger.Logger
}

// NewRedis connects to Redis using a URL (redis://...) and verifies the
// connection with a ping.
func NewRedis(ctx context.Context, redisURL string, log *logger.Logger) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &RedisCache{client: client, log: log}, nil
}

// NewRedisWithClient wraps an existing client. Used in tests.
func NewRedisWithClient(client *redis.Client, log *logger.Logger) *RedisCache {
	return &RedisCache{client: client, log: log}
}

// Close releases the underlying Redis connection.
func (r *RedisCache) Close() error {
	return r.client.Close()
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) && r.log != nil {
			r.log.CacheError("get", key, err)
		}
		return nil, false
	}
	return data, true
}

func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil && r.log != nil {
		r.log.CacheError("set", key, err)
	}
}

func (r *RedisCache) Delete(ctx context.Context, key string) {
	if err := r.client.Del(ctx, key).Err(); err != nil && r.log != nil {
		r.log.CacheError("delete", key, err)
	}
}

// InvalidatePrefix scans for keys matching prefix* and deletes them in
// batches. SCAN keeps this safe against large keyspaces.
func (r *RedisCache) InvalidatePrefix(ctx context.Context, prefix string) {
	iter := r.client.Scan(ctx, 0, prefix+"*", 100).Iterator()

	batch := make([]string, 0, 100)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 100 {
			if err := r.client.Del(ctx, batch...).Err(); err != nil && r.log != nil {
				r.log.CacheError("invalidate_prefix", prefix, err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil && r.log != nil {
		r.log.CacheError("invalidate_prefix", prefix, err)
	}

	if len(batch) > 0 {
		if err := r.client.Del(ctx, batch...).Err(); err != nil && r.log != nil {
			r.log.CacheError("invalidate_prefix", prefix, err)
		}
	}
}

var _ Cache = (*RedisCache)(nil)
