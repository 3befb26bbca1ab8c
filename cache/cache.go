// Package cache wraps the redis client used for read-side caching.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"campwild/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache is a thin cache-aside layer over redis. A Cache with a nil client is
// valid and behaves as a permanent miss, so the app keeps working when redis
// is unreachable.
type Cache struct {
	client *redis.Client
}

// New connects to redis at addr. An empty addr or a connection failure
// degrades to a no-op cache.
func New(addr string) *Cache {
	if addr == "" {
		return &Cache{}
	}

	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis connection failed, continuing without cache", zap.Error(err))
		return &Cache{}
	}

	logger.Info("Redis connected")
	return &Cache{client: client}
}

// GetJSON attempts to get the key and unmarshal into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) if not found.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if c.client == nil {
		return false, nil
	}
	s, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and sets the key with TTL. Best-effort.
func (c *Cache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if c.client == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, b, ttl).Err()
}

// Delete removes keys, typically on writes that invalidate cached reads.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil || len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *Cache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}
