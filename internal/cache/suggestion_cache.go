package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// SuggestionCache stores Gemini tag suggestions keyed by a digest of the
// title and description, so repeated form edits don't re-hit the API.
type SuggestionCache interface {
	Get(ctx context.Context, title, description string) ([]string, error)
	Set(ctx context.Context, title, description string, tags []string) error
}

type suggestionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSuggestionCache creates a new suggestion cache
func NewSuggestionCache(client *redis.Client) SuggestionCache {
	return &suggestionCache{
		client: client,
		ttl:    time.Hour,
	}
}

func (c *suggestionCache) key(title, description string) string {
	sum := sha1.Sum([]byte(title + "|" + description))
	return "tags:" + hex.EncodeToString(sum[:])
}

func (c *suggestionCache) Get(ctx context.Context, title, description string) ([]string, error) {
	data, err := c.client.Get(ctx, c.key(title, description)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var tags []string
	if err := json.Unmarshal([]byte(data), &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func (c *suggestionCache) Set(ctx context.Context, title, description string, tags []string) error {
	data, err := json.Marshal(tags)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(title, description), data, c.ttl).Err()
}
