package cache

import (
	"context"
	"fmt"
	"time"
)

// TokenCache tracks revoked auth tokens so logout takes effect before the
// token itself expires. Entries live only as long as the token would have.
type TokenCache struct {
	redis *RedisClient
}

// NewTokenCache creates a new TokenCache.
func NewTokenCache(redis *RedisClient) *TokenCache {
	return &TokenCache{
		redis: redis,
	}
}

// key returns the Redis key for a revoked token ID.
func (c *TokenCache) key(tokenID string) string {
	return fmt.Sprintf("auth:revoked:%s", tokenID)
}

// Revoke marks a token ID as revoked until the token's own expiry.
func (c *TokenCache) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// Already expired, nothing to revoke.
		return nil
	}
	return c.redis.Set(ctx, c.key(tokenID), "1", ttl)
}

// IsRevoked reports whether a token ID has been revoked.
func (c *TokenCache) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return c.redis.Exists(ctx, c.key(tokenID))
}
