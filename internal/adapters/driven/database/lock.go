package database

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/custodia-labs/sercha-docs/internal/core/ports/driven"
)

// Verify interface compliance
var (
	_ driven.DistributedLock = (*AdvisoryLock)(nil)
	_ driven.DistributedLock = (*LocalLock)(nil)
)

// NewLock returns the lock that fits the database type: advisory locks for
// PostgreSQL, an in-process lock for SQLite.
func NewLock(db *DB) driven.DistributedLock {
	if db.Type() == TypePostgres {
		return NewAdvisoryLock(db)
	}
	return NewLocalLock()
}

// errLockOutsideTx is returned when an advisory lock is requested on a
// context that carries no transaction.
var errLockOutsideTx = errors.New("advisory lock requires a transaction from WithinTx")

// AdvisoryLock implements DistributedLock using PostgreSQL transaction-level
// advisory locks.
//
// Acquire runs on the transaction carried by ctx, so a held lock never pins a
// pooled connection of its own. The lock is freed by commit or rollback, which
// makes Release and Extend no-ops. TTL is ignored.
type AdvisoryLock struct {
	db      *DB
	tryLock string
}

// NewAdvisoryLock creates a new PostgreSQL advisory lock adapter.
func NewAdvisoryLock(db *DB) *AdvisoryLock {
	return &AdvisoryLock{db: db, tryLock: "SELECT pg_try_advisory_xact_lock($1)"}
}

// hashLockName converts a lock name to the 64-bit key PostgreSQL expects.
func hashLockName(name string) int64 {
	h := fnv.New64a()
	h.Write([]byte("sercha-docs:lock:" + name))
	return int64(h.Sum64())
}

// Acquire tries pg_try_advisory_xact_lock on the transaction in ctx without
// blocking.
func (l *AdvisoryLock) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	tx, ok := ctx.Value(txKey{}).(*sqlx.Tx)
	if !ok {
		return false, errLockOutsideTx
	}

	var acquired bool
	if err := tx.QueryRowContext(ctx, l.tryLock, hashLockName(name)).Scan(&acquired); err != nil {
		return false, fmt.Errorf("advisory lock %s: %w", name, err)
	}
	return acquired, nil
}

// Release is a no-op: the lock ends with its transaction.
func (l *AdvisoryLock) Release(ctx context.Context, name string) error {
	return nil
}

// Extend is a no-op: advisory locks have no expiry.
func (l *AdvisoryLock) Extend(ctx context.Context, name string, ttl time.Duration) error {
	return nil
}

// Ping checks if the PostgreSQL backend is healthy.
func (l *AdvisoryLock) Ping(ctx context.Context) error {
	return l.db.PingContext(ctx)
}

// LocalLock is a process-local DistributedLock for single-instance
// deployments on SQLite. A name stays held until Release; TTL is ignored
// since the lock cannot outlive the process that took it.
type LocalLock struct {
	mu    sync.Mutex
	locks map[string]struct{}
}

// NewLocalLock creates an empty LocalLock
func NewLocalLock() *LocalLock {
	return &LocalLock{locks: make(map[string]struct{})}
}

func (l *LocalLock) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, held := l.locks[name]; held {
		return false, nil
	}
	l.locks[name] = struct{}{}
	return true, nil
}

func (l *LocalLock) Release(ctx context.Context, name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.locks, name)
	return nil
}

func (l *LocalLock) Extend(ctx context.Context, name string, ttl time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, held := l.locks[name]; !held {
		return fmt.Errorf("lock %s not held", name)
	}
	return nil
}

func (l *LocalLock) Ping(ctx context.Context) error {
	return nil
}
