package mocks

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/custodia-labs/sercha-docs/internal/core/ports/driven"
)

var _ driven.AttachmentStore = (*MockAttachmentStore)(nil)

// StoredObject is an object captured by MockAttachmentStore
type StoredObject struct {
	Data        []byte
	ContentType string
}

// MockAttachmentStore keeps uploaded objects in memory.
type MockAttachmentStore struct {
	mu      sync.RWMutex
	objects map[string]StoredObject
	BaseURL string
	PutErr  error
}

// NewMockAttachmentStore creates a new MockAttachmentStore
func NewMockAttachmentStore() *MockAttachmentStore {
	return &MockAttachmentStore{
		objects: make(map[string]StoredObject),
		BaseURL: "http://files.test",
	}
}

func (m *MockAttachmentStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	if m.PutErr != nil {
		return "", m.PutErr
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = StoredObject{Data: buf.Bytes(), ContentType: contentType}
	return m.BaseURL + "/" + key, nil
}

func (m *MockAttachmentStore) Ping(ctx context.Context) error {
	return nil
}

// Object returns a stored object by key
func (m *MockAttachmentStore) Object(key string) (StoredObject, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	return obj, ok
}
