package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pawhaven/adoption-service/internal/domain"
)

const feedKey = "pets:feed"

// ListingCache is a read-through cache of the public listings feed. Misses
// and Redis outages degrade to the database; errors are logged, never
// propagated.
type ListingCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewListingCache builds the cache. A nil client disables it.
func NewListingCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *ListingCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &ListingCache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached feed, or nil on miss.
func (c *ListingCache) Get(ctx context.Context) []domain.Pet {
	if c == nil || c.client == nil {
		return nil
	}
	raw, err := c.client.Get(ctx, feedKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("listing cache read failed", zap.Error(err))
		}
		return nil
	}
	var pets []domain.Pet
	if err := json.Unmarshal(raw, &pets); err != nil {
		c.logger.Warn("listing cache decode failed", zap.Error(err))
		return nil
	}
	return pets
}

// Set stores the feed.
func (c *ListingCache) Set(ctx context.Context, pets []domain.Pet) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(pets)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, feedKey, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("listing cache write failed", zap.Error(err))
	}
}

// Invalidate drops the feed after any pet mutation.
func (c *ListingCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, feedKey).Err(); err != nil {
		c.logger.Warn("listing cache invalidate failed", zap.Error(err))
	}
}
