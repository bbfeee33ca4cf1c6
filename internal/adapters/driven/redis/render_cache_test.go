package redis

import (
	"context"
	"testing"
	"time"
)

func TestRenderCache(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewRenderCache(client)
	ctx := context.Background()

	if _, ok, err := cache.Get(ctx, "md:abc"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	if err := cache.Set(ctx, "md:abc", "<p>hi</p>", time.Hour); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	html, ok, err := cache.Get(ctx, "md:abc")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if html != "<p>hi</p>" {
		t.Errorf("expected <p>hi</p>, got %q", html)
	}

	mr.FastForward(2 * time.Hour)
	if _, ok, _ := cache.Get(ctx, "md:abc"); ok {
		t.Error("expected entry to expire")
	}
}

func TestRenderCache_BackendDown(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewRenderCache(client)
	mr.Close()

	if _, _, err := cache.Get(context.Background(), "md:abc"); err == nil {
		t.Error("expected error when redis is down")
	}
	if err := cache.Set(context.Background(), "md:abc", "x", time.Minute); err == nil {
		t.Error("expected error when redis is down")
	}
}
