package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Cache is a Redis read-through cache for upstream listings.
// A nil *Cache, or one without a client, always calls through.
type Cache struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
	log    *zap.Logger
}

func New(rdb *redis.Client, ttl time.Duration, log *zap.Logger) *Cache {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{rdb: rdb, ttl: ttl, prefix: "content:", log: log}
}

// Fetch returns the cached value for key, or calls load and stores its result.
// Errors from load are returned as is and never cached.
func Fetch[T any](ctx context.Context, c *Cache, key string, load func(ctx context.Context) (T, error)) (T, error) {
	if c == nil || c.rdb == nil {
		return load(ctx)
	}
	fullKey := c.prefix + key

	if cached, err := c.rdb.Get(ctx, fullKey).Bytes(); err == nil && len(cached) > 0 {
		var out T
		if err := json.Unmarshal(cached, &out); err == nil {
			c.log.Debug("cache hit", zap.String("key", fullKey))
			return out, nil
		}
	}

	out, err := load(ctx)
	if err != nil {
		return out, err
	}
	if raw, err := json.Marshal(out); err == nil {
		if err := c.rdb.Set(ctx, fullKey, raw, c.ttl).Err(); err != nil {
			c.log.Warn("cache store failed", zap.String("key", fullKey), zap.Error(err))
		} else {
			c.log.Debug("cache miss stored", zap.String("key", fullKey))
		}
	}
	return out, nil
}

// Invalidate drops one key so the next Fetch reloads it.
func (c *Cache) Invalidate(ctx context.Context, key string) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, c.prefix+key).Err()
}
