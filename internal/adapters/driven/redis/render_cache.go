package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/sercha-docs/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.RenderCache = (*RenderCache)(nil)

const renderPrefix = "sercha-docs:render:"

// RenderCache stores rendered markdown as plain string values with a TTL.
type RenderCache struct {
	client *redis.Client
}

// NewRenderCache creates a new RenderCache
func NewRenderCache(client *redis.Client) *RenderCache {
	return &RenderCache{client: client}
}

// Get returns the cached HTML for key
func (c *RenderCache) Get(ctx context.Context, key string) (string, bool, error) {
	html, err := c.client.Get(ctx, renderPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get rendered %s: %w", key, err)
	}
	return html, true, nil
}

// Set stores html under key for ttl
func (c *RenderCache) Set(ctx context.Context, key, html string, ttl time.Duration) error {
	if err := c.client.Set(ctx, renderPrefix+key, html, ttl).Err(); err != nil {
		return fmt.Errorf("set rendered %s: %w", key, err)
	}
	return nil
}
