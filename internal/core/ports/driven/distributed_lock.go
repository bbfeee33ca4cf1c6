package driven

import (
	"context"
	"time"
)

// DistributedLock serializes writers across instances.
// Document mutations hold "document:<slug>" and creations hold "slug:<base>"
// for the duration of their transaction.
type DistributedLock interface {
	// Acquire attempts to take the named lock for ttl.
	// Returns false without error when another holder owns it.
	Acquire(ctx context.Context, name string, ttl time.Duration) (acquired bool, err error)

	// Release drops the named lock. Safe to call when the lock has expired.
	Release(ctx context.Context, name string) error

	// Extend pushes the expiry of a held lock out to ttl from now.
	// Advisory-lock backends treat this as a no-op.
	Extend(ctx context.Context, name string, ttl time.Duration) error

	// Ping checks if the lock backend is healthy.
	Ping(ctx context.Context) error
}
