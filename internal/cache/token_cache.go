package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenCache tracks revoked token ids so sign-out takes effect before a
// token's natural expiry.
type TokenCache interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type tokenCache struct {
	client *redis.Client
}

// NewTokenCache creates a new token cache
func NewTokenCache(client *redis.Client) TokenCache {
	return &tokenCache{
		client: client,
	}
}

func (c *tokenCache) key(tokenID string) string {
	return "revoked:" + tokenID
}

func (c *tokenCache) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		// Token already expired; nothing to track.
		return nil
	}
	return c.client.Set(ctx, c.key(tokenID), "1", ttl).Err()
}

func (c *tokenCache) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := c.client.Exists(ctx, c.key(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
