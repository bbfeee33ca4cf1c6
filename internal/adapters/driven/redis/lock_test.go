package redis

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestConnect(t *testing.T) {
	_, mr := setupTestRedis(t)

	client, err := Connect(context.Background(), "redis://"+mr.Addr()+"/0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	client.Close()

	if _, err := Connect(context.Background(), "not-a-url"); err == nil {
		t.Error("expected error for invalid url")
	}
}

func TestLock_OwnerIDsAreUnique(t *testing.T) {
	client, _ := setupTestRedis(t)

	a, b := NewLock(client), NewLock(client)
	if a.OwnerID() == "" {
		t.Fatal("expected non-empty owner ID")
	}
	if a.OwnerID() == b.OwnerID() {
		t.Errorf("expected unique owner IDs, got %s twice", a.OwnerID())
	}
}

func TestLock_AcquireRelease(t *testing.T) {
	client, mr := setupTestRedis(t)
	lock := NewLock(client)
	other := NewLock(client)
	ctx := context.Background()

	ok, err := lock.Acquire(ctx, "document:ragnar", 10*time.Second)
	if err != nil || !ok {
		t.Fatalf("expected acquire, got %v %v", ok, err)
	}
	if got, _ := mr.Get(lockPrefix + "document:ragnar"); !strings.HasPrefix(got, lock.OwnerID()+":") {
		t.Errorf("expected lock value owned by %s, got %s", lock.OwnerID(), got)
	}

	if ok, _ := other.Acquire(ctx, "document:ragnar", 10*time.Second); ok {
		t.Error("expected second owner to be refused")
	}
	if ok, _ := lock.Acquire(ctx, "document:ragnar", 10*time.Second); ok {
		t.Error("lock is not reentrant")
	}
	if ok, _ := other.Acquire(ctx, "document:ivar", 10*time.Second); !ok {
		t.Error("expected independent names to be independent")
	}

	// a foreign release must not free the lock
	if err := other.Release(ctx, "document:ragnar"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mr.Exists(lockPrefix + "document:ragnar") {
		t.Fatal("lock released by non-owner")
	}

	if err := lock.Release(ctx, "document:ragnar"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mr.Exists(lockPrefix + "document:ragnar") {
		t.Error("expected lock key removed")
	}
	if err := lock.Release(ctx, "document:ragnar"); err != nil {
		t.Errorf("releasing an unheld lock should be a no-op, got %v", err)
	}
}

func TestLock_Expiry(t *testing.T) {
	client, mr := setupTestRedis(t)
	lock := NewLock(client)
	other := NewLock(client)
	ctx := context.Background()

	if ok, _ := lock.Acquire(ctx, "slug:ragnar", 5*time.Second); !ok {
		t.Fatal("expected acquire")
	}
	mr.FastForward(6 * time.Second)

	if ok, _ := other.Acquire(ctx, "slug:ragnar", 5*time.Second); !ok {
		t.Error("expected expired lock to be acquirable")
	}
}

func TestLock_TokenPerAcquisition(t *testing.T) {
	client, mr := setupTestRedis(t)
	lock := NewLock(client)
	ctx := context.Background()

	if ok, _ := lock.Acquire(ctx, "document:ragnar", 5*time.Second); !ok {
		t.Fatal("expected acquire")
	}
	first, _ := mr.Get(lockPrefix + "document:ragnar")
	if err := lock.Release(ctx, "document:ragnar"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ok, _ := lock.Acquire(ctx, "document:ragnar", 5*time.Second); !ok {
		t.Fatal("expected acquire after release")
	}
	second, _ := mr.Get(lockPrefix + "document:ragnar")
	if first == second {
		t.Errorf("expected a fresh token per acquisition, got %s twice", first)
	}
}

func TestLock_LateReleaseKeepsNewerHolder(t *testing.T) {
	client, mr := setupTestRedis(t)
	lock := NewLock(client)
	other := NewLock(client)
	ctx := context.Background()

	if ok, _ := lock.Acquire(ctx, "document:ragnar", 5*time.Second); !ok {
		t.Fatal("expected acquire")
	}
	mr.FastForward(6 * time.Second)

	// the expired holder still blocks its own instance until it releases
	if ok, _ := lock.Acquire(ctx, "document:ragnar", 5*time.Second); ok {
		t.Error("expected local holder to keep the name until release")
	}

	if ok, _ := other.Acquire(ctx, "document:ragnar", 5*time.Second); !ok {
		t.Fatal("expected expired lock to be acquirable by another instance")
	}
	newer, _ := mr.Get(lockPrefix + "document:ragnar")

	if err := lock.Release(ctx, "document:ragnar"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, _ := mr.Get(lockPrefix + "document:ragnar"); got != newer {
		t.Fatalf("late release dropped the newer holder: got %q, want %q", got, newer)
	}

	if err := other.Release(ctx, "document:ragnar"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mr.Exists(lockPrefix + "document:ragnar") {
		t.Error("expected lock key removed")
	}
}

func TestLock_Extend(t *testing.T) {
	client, mr := setupTestRedis(t)
	lock := NewLock(client)
	other := NewLock(client)
	ctx := context.Background()

	if err := lock.Extend(ctx, "document:ragnar", time.Minute); err == nil {
		t.Error("expected extend of unheld lock to fail")
	}

	if ok, _ := lock.Acquire(ctx, "document:ragnar", 5*time.Second); !ok {
		t.Fatal("expected acquire")
	}
	if err := other.Extend(ctx, "document:ragnar", time.Minute); err == nil {
		t.Error("expected extend by non-owner to fail")
	}
	if err := lock.Extend(ctx, "document:ragnar", time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ttl := mr.TTL(lockPrefix + "document:ragnar"); ttl < 50*time.Second {
		t.Errorf("expected ttl near 1m, got %s", ttl)
	}
}

func TestLock_Ping(t *testing.T) {
	client, mr := setupTestRedis(t)
	lock := NewLock(client)

	if err := lock.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mr.Close()
	if err := lock.Ping(context.Background()); err == nil {
		t.Error("expected ping to fail after server shutdown")
	}
}
