package driven

import (
	"context"
	"io"
)

// AttachmentStore persists uploaded binary content and returns a retrievable URL.
type AttachmentStore interface {
	// Put stores size bytes from r under key
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (url string, err error)

	// Ping checks the backend is reachable
	Ping(ctx context.Context) error
}
