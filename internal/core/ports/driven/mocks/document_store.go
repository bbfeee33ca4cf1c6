package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/sercha-docs/internal/core/domain"
	"github.com/custodia-labs/sercha-docs/internal/core/ports/driven"
)

var (
	_ driven.DocumentStore = (*MockDocumentStore)(nil)
	_ driven.SectionStore  = (*MockSectionStore)(nil)
	_ driven.RevisionStore = (*MockRevisionStore)(nil)
	_ driven.Transactor    = (*MockDB)(nil)
)

// MockDB is an in-memory database shared by the document, section and
// revision stores. WithinTx restores the previous state when fn fails.
// Transactions are serialized; reads outside a transaction see uncommitted writes.
type MockDB struct {
	mu    sync.RWMutex
	txMu  sync.Mutex
	state memState

	// BeforeWrite is called before every write with an operation name such as
	// "documents.save" or "revisions.save". A non-nil error aborts the write.
	BeforeWrite func(op string) error
}

type memState struct {
	documents map[string]*domain.Document
	slugs     map[string]string
	sections  map[string]*domain.Section
	revisions map[string]*domain.Revision
}

// NewMockDB creates an empty in-memory database
func NewMockDB() *MockDB {
	return &MockDB{state: newMemState()}
}

func newMemState() memState {
	return memState{
		documents: make(map[string]*domain.Document),
		slugs:     make(map[string]string),
		sections:  make(map[string]*domain.Section),
		revisions: make(map[string]*domain.Revision),
	}
}

func (s memState) clone() memState {
	c := newMemState()
	for k, v := range s.documents {
		c.documents[k] = v.Clone()
	}
	for k, v := range s.slugs {
		c.slugs[k] = v
	}
	for k, v := range s.sections {
		sec := *v
		c.sections[k] = &sec
	}
	for k, v := range s.revisions {
		rev := *v
		c.revisions[k] = &rev
	}
	return c
}

// WithinTx runs fn and rolls back all store writes when it returns an error.
func (db *MockDB) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	db.txMu.Lock()
	defer db.txMu.Unlock()

	db.mu.RLock()
	saved := db.state.clone()
	db.mu.RUnlock()

	if err := fn(ctx); err != nil {
		db.mu.Lock()
		db.state = saved
		db.mu.Unlock()
		return err
	}
	return nil
}

// Documents returns a DocumentStore backed by db
func (db *MockDB) Documents() *MockDocumentStore { return &MockDocumentStore{db: db} }

// Sections returns a SectionStore backed by db
func (db *MockDB) Sections() *MockSectionStore { return &MockSectionStore{db: db} }

// Revisions returns a RevisionStore backed by db
func (db *MockDB) Revisions() *MockRevisionStore { return &MockRevisionStore{db: db} }

// Reset clears all data
func (db *MockDB) Reset() {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.state = newMemState()
}

// Counts returns the number of stored documents, sections and revisions.
func (db *MockDB) Counts() (documents, sections, revisions int) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.state.documents), len(db.state.sections), len(db.state.revisions)
}

func (db *MockDB) check(op string) error {
	if db.BeforeWrite != nil {
		return db.BeforeWrite(op)
	}
	return nil
}

// MockDocumentStore is a mock implementation of DocumentStore for testing
type MockDocumentStore struct {
	db *MockDB
}

func (m *MockDocumentStore) FindBySlug(ctx context.Context, slug string) (*domain.Document, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	id, ok := m.db.state.slugs[slug]
	if !ok {
		return nil, domain.ErrNotFound
	}
	doc := m.db.state.documents[id].Clone()
	doc.Sections = nil
	return doc, nil
}

func (m *MockDocumentStore) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	_, ok := m.db.state.slugs[slug]
	return ok, nil
}

func (m *MockDocumentStore) Save(ctx context.Context, doc *domain.Document) error {
	if err := m.db.check("documents.save"); err != nil {
		return err
	}
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	stored := doc.Clone()
	stored.Sections = nil
	if existing, ok := m.db.state.documents[doc.ID]; ok {
		// slug is immutable
		stored.Slug = existing.Slug
		m.db.state.documents[doc.ID] = stored
		return nil
	}
	if _, taken := m.db.state.slugs[doc.Slug]; taken {
		return domain.ErrAlreadyExists
	}
	m.db.state.documents[doc.ID] = stored
	m.db.state.slugs[doc.Slug] = doc.ID
	return nil
}

func (m *MockDocumentStore) Delete(ctx context.Context, id string) error {
	if err := m.db.check("documents.delete"); err != nil {
		return err
	}
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	doc, ok := m.db.state.documents[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(m.db.state.slugs, doc.Slug)
	delete(m.db.state.documents, id)
	return nil
}

func (m *MockDocumentStore) SearchByTitle(ctx context.Context, query string, page domain.PageRequest) (*domain.DocumentPage, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(query))
	var matched []*domain.Document
	for _, doc := range m.db.state.documents {
		if q == "" || strings.Contains(strings.ToLower(doc.Title), q) {
			matched = append(matched, doc.Clone())
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].UpdatedAt.Equal(matched[j].UpdatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].UpdatedAt.After(matched[j].UpdatedAt)
	})

	result := &domain.DocumentPage{Items: []*domain.Document{}, Page: page.Page, Size: page.Size, Total: len(matched)}
	start := page.Offset()
	if start >= len(matched) {
		return result, nil
	}
	end := start + page.Size
	if end > len(matched) {
		end = len(matched)
	}
	result.Items = matched[start:end]
	return result, nil
}

// MockSectionStore is a mock implementation of SectionStore for testing
type MockSectionStore struct {
	db *MockDB
}

func (m *MockSectionStore) FindAllOrdered(ctx context.Context, documentID string) ([]*domain.Section, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	sections := []*domain.Section{}
	for _, s := range m.db.state.sections {
		if s.DocumentID == documentID {
			sec := *s
			sections = append(sections, &sec)
		}
	}
	sort.Slice(sections, func(i, j int) bool {
		return sections[i].OrderIndex < sections[j].OrderIndex
	})
	return sections, nil
}

func (m *MockSectionStore) Save(ctx context.Context, section *domain.Section) error {
	if err := m.db.check("sections.save"); err != nil {
		return err
	}
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	sec := *section
	m.db.state.sections[section.ID] = &sec
	return nil
}

func (m *MockSectionStore) DeleteAll(ctx context.Context, sections []*domain.Section) error {
	if err := m.db.check("sections.delete"); err != nil {
		return err
	}
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, s := range sections {
		delete(m.db.state.sections, s.ID)
	}
	return nil
}

// MockRevisionStore is a mock implementation of RevisionStore for testing
type MockRevisionStore struct {
	db *MockDB
}

func (m *MockRevisionStore) FindAllByDocumentDesc(ctx context.Context, documentID string) ([]*domain.Revision, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	revisions := []*domain.Revision{}
	for _, r := range m.db.state.revisions {
		if r.DocumentID == documentID {
			rev := *r
			revisions = append(revisions, &rev)
		}
	}
	sort.Slice(revisions, func(i, j int) bool {
		return revisions[i].Version > revisions[j].Version
	})
	return revisions, nil
}

func (m *MockRevisionStore) Save(ctx context.Context, revision *domain.Revision) error {
	if err := m.db.check("revisions.save"); err != nil {
		return err
	}
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, r := range m.db.state.revisions {
		if r.DocumentID == revision.DocumentID && r.Version == revision.Version && r.ID != revision.ID {
			return domain.ErrAlreadyExists
		}
	}
	rev := *revision
	m.db.state.revisions[revision.ID] = &rev
	return nil
}

func (m *MockRevisionStore) DeleteAll(ctx context.Context, revisions []*domain.Revision) error {
	if err := m.db.check("revisions.delete"); err != nil {
		return err
	}
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, r := range revisions {
		delete(m.db.state.revisions, r.ID)
	}
	return nil
}
