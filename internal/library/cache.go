package library

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a redis read-through cache for catalog listings and search
// results. A nil *Cache is a valid no-op, so the service works without
// redis configured.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{client: client, ttl: ttl, logger: logger}
}

// GetItems returns the cached listing for key, or (nil, false) on a miss.
// Cache trouble is logged and treated as a miss; the repository stays the
// source of truth.
func (c *Cache) GetItems(ctx context.Context, key string) ([]MediaItem, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("library_cache_get_failed", "key", key, "error", err.Error())
		return nil, false
	}
	var items []MediaItem
	if err := json.Unmarshal(raw, &items); err != nil {
		c.logger.Warn("library_cache_decode_failed", "key", key, "error", err.Error())
		return nil, false
	}
	return items, true
}

// SetItems stores a listing under key with the configured TTL.
func (c *Cache) SetItems(ctx context.Context, key string, items []MediaItem) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(items)
	if err != nil {
		c.logger.Warn("library_cache_encode_failed", "key", key, "error", err.Error())
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("library_cache_set_failed", "key", key, "error", err.Error())
	}
}
