package driven

import (
	"context"

	"github.com/custodia-labs/sercha-docs/internal/core/domain"
)

// DocumentStore handles document persistence.
// Implementations return domain.ErrNotFound for missing rows and
// domain.ErrAlreadyExists when a slug is already taken.
type DocumentStore interface {
	// FindBySlug retrieves a document without its sections
	FindBySlug(ctx context.Context, slug string) (*domain.Document, error)

	// ExistsBySlug reports whether any document uses slug
	ExistsBySlug(ctx context.Context, slug string) (bool, error)

	// Save inserts the document or updates it when the ID already exists.
	// The slug column is never rewritten on update.
	Save(ctx context.Context, doc *domain.Document) error

	// Delete removes a document row
	Delete(ctx context.Context, id string) error

	// SearchByTitle returns documents whose title contains query (case-insensitive),
	// most recently updated first. An empty query matches all documents.
	SearchByTitle(ctx context.Context, query string, page domain.PageRequest) (*domain.DocumentPage, error)
}

// SectionStore handles section persistence
type SectionStore interface {
	// FindAllOrdered retrieves the sections of a document by ascending order index
	FindAllOrdered(ctx context.Context, documentID string) ([]*domain.Section, error)

	// Save creates or updates a section
	Save(ctx context.Context, section *domain.Section) error

	// DeleteAll removes the given sections
	DeleteAll(ctx context.Context, sections []*domain.Section) error
}

// RevisionStore handles revision persistence
type RevisionStore interface {
	// FindAllByDocumentDesc retrieves revisions newest first
	FindAllByDocumentDesc(ctx context.Context, documentID string) ([]*domain.Revision, error)

	// Save inserts a revision. A duplicate (document, version) pair
	// fails with domain.ErrAlreadyExists.
	Save(ctx context.Context, revision *domain.Revision) error

	// DeleteAll removes the given revisions
	DeleteAll(ctx context.Context, revisions []*domain.Revision) error
}
