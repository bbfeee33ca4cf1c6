package driving

import (
	"context"

	"github.com/custodia-labs/sercha-docs/internal/core/domain"
)

// AttachmentService stores files referenced from document content
type AttachmentService interface {
	// Upload stores data for the document at slug and returns where it can be fetched
	Upload(ctx context.Context, slug, filename string, data []byte, uploader string) (*domain.Attachment, error)
}
