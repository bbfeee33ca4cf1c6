package driving

import (
	"context"

	"github.com/custodia-labs/sercha-docs/internal/core/domain"
)

// RenderService produces the HTML view of a document
type RenderService interface {
	RenderDocument(ctx context.Context, slug string) (*domain.RenderedDocument, error)
}
