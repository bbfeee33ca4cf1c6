package minio

import (
	"context"
	"testing"
)

func TestObjectURL(t *testing.T) {
	tests := []struct {
		base string
		key  string
		want string
	}{
		{"https://cdn.example.com/docs", "documents/ragnar/1-map.png", "https://cdn.example.com/docs/documents/ragnar/1-map.png"},
		{"https://cdn.example.com/docs/", "documents/ragnar/1-map.png", "https://cdn.example.com/docs/documents/ragnar/1-map.png"},
		{"http://localhost:9000/bucket", "documents/a b/x y.txt", "http://localhost:9000/bucket/documents/a%20b/x%20y.txt"},
	}

	for _, tt := range tests {
		if got := objectURL(tt.base, tt.key); got != tt.want {
			t.Errorf("objectURL(%q, %q) = %q, want %q", tt.base, tt.key, got, tt.want)
		}
	}
}

func TestNew_RequiresEndpointAndBucket(t *testing.T) {
	if _, err := New(context.Background(), Config{Bucket: "docs"}); err == nil {
		t.Error("expected error without endpoint")
	}
	if _, err := New(context.Background(), Config{Endpoint: "localhost:9000"}); err == nil {
		t.Error("expected error without bucket")
	}
}
