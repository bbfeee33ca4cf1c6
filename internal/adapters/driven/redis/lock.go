package redis

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/sercha-docs/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.DistributedLock = (*Lock)(nil)

const lockPrefix = "sercha-docs:lock:"

// Lock implements DistributedLock with SET NX PX.
//
// Every acquisition stores its own token, "<owner id>:<uuid>", so a holder can
// never release or extend a lock somebody else took after its TTL ran out.
// Within one Lock a name stays held until Release, even past its TTL.
type Lock struct {
	client  *redis.Client
	ownerID string

	mu   sync.Mutex
	held map[string]string // name -> token of the local acquisition
}

// NewLock creates a new Redis-backed distributed lock.
func NewLock(client *redis.Client) *Lock {
	hostname, _ := os.Hostname()
	return &Lock{
		client:  client,
		ownerID: fmt.Sprintf("%s:%d:%s", hostname, os.Getpid(), uuid.NewString()),
		held:    make(map[string]string),
	}
}

// Acquire takes the lock when nobody holds it.
func (l *Lock) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	token := l.ownerID + ":" + uuid.NewString()

	l.mu.Lock()
	if _, busy := l.held[name]; busy {
		l.mu.Unlock()
		return false, nil
	}
	l.held[name] = token
	l.mu.Unlock()

	ok, err := l.client.SetNX(ctx, lockPrefix+name, token, ttl).Result()
	if err != nil || !ok {
		l.forget(name, token)
	}
	if err != nil {
		return false, fmt.Errorf("acquire lock %s: %w", name, err)
	}
	return ok, nil
}

func (l *Lock) forget(name, token string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[name] == token {
		delete(l.held, name)
	}
}

func (l *Lock) token(name string) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	token, ok := l.held[name]
	return token, ok
}

// compare-and-delete, so an expired lock re-taken by someone else survives
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Release drops the lock if the local acquisition still owns it.
func (l *Lock) Release(ctx context.Context, name string) error {
	token, ok := l.token(name)
	if !ok {
		return nil
	}
	l.forget(name, token)

	err := releaseScript.Run(ctx, l.client, []string{lockPrefix + name}, token).Err()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("release lock %s: %w", name, err)
	}
	return nil
}

var extendScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// Extend resets the TTL of a lock the local acquisition still owns.
func (l *Lock) Extend(ctx context.Context, name string, ttl time.Duration) error {
	token, ok := l.token(name)
	if !ok {
		return fmt.Errorf("lock %s not held by this instance", name)
	}
	n, err := extendScript.Run(ctx, l.client, []string{lockPrefix + name}, token, ttl.Milliseconds()).Int64()
	if err != nil {
		return fmt.Errorf("extend lock %s: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("lock %s not held by this instance", name)
	}
	return nil
}

// Ping checks if the Redis backend is healthy.
func (l *Lock) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

// OwnerID prefixes every token this instance writes.
func (l *Lock) OwnerID() string {
	return l.ownerID
}
