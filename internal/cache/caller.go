package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bridgekit/bridgekit/internal/model"
)

// callerCachePrefix is the Redis key prefix for verified caller identities.
const callerCachePrefix = "auth:caller:"

// cachedCaller is the stored form of a verified caller.
type cachedCaller struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name,omitempty"`
}

// GetCaller retrieves a cached verified caller by token cache key.
// Returns nil on a miss; a Redis error or corrupted entry is also a miss.
func (c *Cache) GetCaller(ctx context.Context, cacheKey string) (*model.Caller, error) {
	data, err := c.client.Get(ctx, callerCachePrefix+cacheKey).Bytes()
	if err != nil {
		return nil, nil //nolint:nilerr
	}

	var cached cachedCaller
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, nil //nolint:nilerr
	}

	return &model.Caller{
		UserID:      cached.UserID,
		DisplayName: cached.DisplayName,
	}, nil
}

// SetCaller caches a verified caller under the token cache key.
func (c *Cache) SetCaller(ctx context.Context, cacheKey string, caller *model.Caller, ttl time.Duration) error {
	data, err := json.Marshal(cachedCaller{
		UserID:      caller.UserID,
		DisplayName: caller.DisplayName,
	})
	if err != nil {
		return fmt.Errorf("marshal caller: %w", err)
	}
	return c.client.Set(ctx, callerCachePrefix+cacheKey, data, ttl).Err()
}

// DeleteCaller removes a cached caller, e.g. after a token is revoked.
func (c *Cache) DeleteCaller(ctx context.Context, cacheKey string) error {
	return c.client.Del(ctx, callerCachePrefix+cacheKey).Err()
}
