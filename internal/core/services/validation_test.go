package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/custodia-labs/sercha-docs/internal/core/domain"
)

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     any
		wantErr string
	}{
		{
			name: "valid create",
			req:  domain.CreateDocumentRequest{Title: "Ragnar", CoverImageURL: "https://example.com/a.png"},
		},
		{
			name:    "blank title",
			req:     domain.CreateDocumentRequest{Title: "   "},
			wantErr: "title is required",
		},
		{
			name:    "bad cover url",
			req:     domain.CreateDocumentRequest{Title: "Ragnar", CoverImageURL: "not a url"},
			wantErr: "cover_image_url must be a valid URL",
		},
		{
			name:    "long section heading",
			req:     domain.UpdateDocumentRequest{Title: "Ragnar", Sections: []domain.SectionInput{{Heading: strings.Repeat("h", 256)}}},
			wantErr: "sections[0].heading must be at most 255 characters",
		},
		{
			name:    "long slug hint",
			req:     domain.CreateDocumentRequest{Title: "Ragnar", Slug: strings.Repeat("s", 161)},
			wantErr: "slug must be at most 160 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateRequest(tt.req)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error to contain %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}
