package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a small JSON read-through cache on Redis. A nil *Cache is a
// valid no-op, so callers never need to branch on whether Redis is
// configured.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New connects to Redis at addr. Returns nil (cache disabled) when addr
// is empty or the server is unreachable.
func New(ctx context.Context, addr string, ttl time.Duration) *Cache {
	if addr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("redis unavailable, caching disabled: %v", err)
		return nil
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

// GetJSON loads key into v. Returns false on miss or decode failure.
func (c *Cache) GetJSON(ctx context.Context, key string, v any) bool {
	if c == nil {
		return false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}

// SetJSON stores v under key with the configured TTL. Best effort.
func (c *Cache) SetJSON(ctx context.Context, key string, v any) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		log.Printf("cache set %s: %v", key, err)
	}
}

// Delete drops the given keys. Best effort.
func (c *Cache) Delete(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Printf("cache delete: %v", err)
	}
}

// Close releases the underlying client.
func (c *Cache) Close() {
	if c != nil {
		_ = c.rdb.Close()
	}
}
