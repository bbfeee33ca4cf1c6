package mocks

import (
	"context"
	"html"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/sercha-docs/internal/core/ports/driven"
)

var (
	_ driven.MarkdownRenderer = (*MockMarkdownRenderer)(nil)
	_ driven.RenderCache      = (*MockRenderCache)(nil)
)

// MockMarkdownRenderer wraps escaped paragraphs in <p> tags and counts calls.
type MockMarkdownRenderer struct {
	mu    sync.Mutex
	calls int
}

// NewMockMarkdownRenderer creates a new MockMarkdownRenderer
func NewMockMarkdownRenderer() *MockMarkdownRenderer {
	return &MockMarkdownRenderer{}
}

func (m *MockMarkdownRenderer) Render(markdown string) string {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if strings.TrimSpace(markdown) == "" {
		return ""
	}
	return "<p>" + html.EscapeString(strings.TrimSpace(markdown)) + "</p>\n"
}

// Calls returns how many times Render ran
func (m *MockMarkdownRenderer) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockRenderCache is a map-backed RenderCache. TTLs are ignored.
type MockRenderCache struct {
	mu      sync.RWMutex
	entries map[string]string

	GetErr error
	SetErr error
}

// NewMockRenderCache creates a new MockRenderCache
func NewMockRenderCache() *MockRenderCache {
	return &MockRenderCache{entries: make(map[string]string)}
}

func (m *MockRenderCache) Get(ctx context.Context, key string) (string, bool, error) {
	if m.GetErr != nil {
		return "", false, m.GetErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *MockRenderCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if m.SetErr != nil {
		return m.SetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

// Len returns the number of cached entries
func (m *MockRenderCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
