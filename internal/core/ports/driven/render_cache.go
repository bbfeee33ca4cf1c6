package driven

import (
	"context"
	"time"
)

// RenderCache stores rendered HTML keyed by a content hash.
// Misses return ("", false, nil).
type RenderCache interface {
	Get(ctx context.Context, key string) (html string, ok bool, err error)
	Set(ctx context.Context, key, html string, ttl time.Duration) error
}
