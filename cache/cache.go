// Package cache wraps the fast key-value store as a read-through cache.
// Caching is a pure optimization layer: every fault degrades to a cache miss
// or a no-op and callers fall back to the authoritative store.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type Cache struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) Cache {
	return Cache{
		rdb: rdb,
	}
}

// Get unmarshals the cached value into dest and reports whether it was found.
// Store faults and decode failures count as misses.
func (c Cache) Get(ctx context.Context, key string, dest any) bool {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Cache read failed, treating as miss")
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Cache entry corrupt, treating as miss")
		return false
	}

	return true
}

func (c Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Failed to marshal cache value")
		return
	}

	if err := c.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Cache write failed")
	}
}

func (c Cache) Del(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		logrus.WithError(err).WithField("keys", keys).Warn("Cache invalidation failed")
	}
}

// DelPattern invalidates every key matching a glob pattern. Invalidation is
// coarse: a write path clears whole search-result families rather than
// tracking which results contain the entity.
func (c Cache) DelPattern(ctx context.Context, pattern string) {
	var keys []string
	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logrus.WithError(err).WithField("pattern", pattern).Warn("Cache scan failed")
		return
	}

	c.Del(ctx, keys...)
}
