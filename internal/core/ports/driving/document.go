package driving

import (
	"context"

	"github.com/custodia-labs/sercha-docs/internal/core/domain"
)

// DocumentService manages versioned, sectioned documents
type DocumentService interface {
	// Create assigns a unique slug and stores the document with its sections
	Create(ctx context.Context, req domain.CreateDocumentRequest, author string) (*domain.Document, error)

	// Ensure returns the document at the exact slug in req, creating it when absent
	Ensure(ctx context.Context, req domain.CreateDocumentRequest, author string) (*domain.Document, error)

	// GetBySlug retrieves a document with its ordered sections
	GetBySlug(ctx context.Context, slug string) (*domain.Document, error)

	// List returns a page of documents whose title contains query
	List(ctx context.Context, query string, page int) (*domain.DocumentPage, error)

	// Update replaces title, summary and sections and records a new revision
	Update(ctx context.Context, slug string, req domain.UpdateDocumentRequest, editor string) error

	// Delete removes the document, its sections and its revisions
	Delete(ctx context.Context, slug, requester string) error

	// ListRevisions returns the document's revisions newest first
	ListRevisions(ctx context.Context, slug string) ([]*domain.Revision, error)

	// GetRevision returns one revision with its decoded snapshot
	GetRevision(ctx context.Context, slug string, version int) (*domain.RevisionDetail, error)
}
