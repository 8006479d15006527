package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/homespark/backend/internal/domain"
)

const keyPrefix = "climate:"

// ClimateCache implements domain.ClimateCache on Redis, letting the
// server expire entries via SET EX.
type ClimateCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewClimateCache creates a new Redis-backed climate cache
func NewClimateCache(client *redis.Client, ttl time.Duration) *ClimateCache {
	return &ClimateCache{
		client: client,
		ttl:    ttl,
	}
}

// Get returns the cached result for key, if any
func (c *ClimateCache) Get(ctx context.Context, key string) (domain.ClimateResult, bool, error) {
	val, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.ClimateResult{}, false, nil
	}
	if err != nil {
		return domain.ClimateResult{}, false, fmt.Errorf("rediscache: failed to get %q: %w", key, err)
	}

	var result domain.ClimateResult
	if err := json.Unmarshal(val, &result); err != nil {
		return domain.ClimateResult{}, false, fmt.Errorf("rediscache: failed to decode %q: %w", key, err)
	}
	return result, true, nil
}

// Set stores result under key with the cache TTL
func (c *ClimateCache) Set(ctx context.Context, key string, result domain.ClimateResult) error {
	val, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("rediscache: failed to encode %q: %w", key, err)
	}
	if err := c.client.Set(ctx, keyPrefix+key, val, c.ttl).Err(); err != nil {
		return fmt.Errorf("rediscache: failed to set %q: %w", key, err)
	}
	return nil
}

// Health pings the Redis server
func (c *ClimateCache) Health(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("rediscache: health check failed: %w", err)
	}
	return nil
}
