package domain

import "time"

// DefaultPageSize is the number of documents returned per listing page.
const DefaultPageSize = 20

// Document is a titled container of ordered sections.
// Slug is unique and never changes once assigned.
type Document struct {
	ID            string     `json:"id"`
	Slug          string     `json:"slug"`
	Title         string     `json:"title"`
	Summary       string     `json:"summary,omitempty"`
	CoverImageURL string     `json:"cover_image_url,omitempty"`
	CreatedBy     string     `json:"created_by"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	Sections      []*Section `json:"sections,omitempty"`
}

// IsAuthor reports whether userID created the document.
func (d *Document) IsAuthor(userID string) bool {
	return userID != "" && d.CreatedBy == userID
}

// Clone returns a deep copy of the document and its sections.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	c := *d
	if d.Sections != nil {
		c.Sections = make([]*Section, len(d.Sections))
		for i, s := range d.Sections {
			cs := *s
			c.Sections[i] = &cs
		}
	}
	return &c
}

// Section is an ordered block of markdown owned by exactly one document.
type Section struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	OrderIndex int       `json:"order_index"`
	Heading    string    `json:"heading"`
	ContentMD  string    `json:"content_md"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SectionInput is a (heading, markdown body) pair supplied by a caller.
type SectionInput struct {
	Heading   string `json:"heading" validate:"max=255"`
	ContentMD string `json:"content_md"`
}

// IsBlank reports whether both heading and body are empty after trimming.
func (s SectionInput) IsBlank() bool {
	return isBlank(s.Heading) && isBlank(s.ContentMD)
}

// CreateDocumentRequest holds the fields for a new document.
type CreateDocumentRequest struct {
	Title         string         `json:"title" validate:"notblank,max=255"`
	Summary       string         `json:"summary,omitempty" validate:"max=2000"`
	CoverImageURL string         `json:"cover_image_url,omitempty" validate:"omitempty,max=512,url"`
	Slug          string         `json:"slug,omitempty" validate:"max=160"`
	Sections      []SectionInput `json:"sections" validate:"dive"`
}

// UpdateDocumentRequest replaces a document's title, summary and full section list.
type UpdateDocumentRequest struct {
	Title    string         `json:"title" validate:"notblank,max=255"`
	Summary  string         `json:"summary,omitempty" validate:"max=2000"`
	Sections []SectionInput `json:"sections" validate:"dive"`
}

// PageRequest selects a zero-based page of results.
type PageRequest struct {
	Page int `json:"page"`
	Size int `json:"size"`
}

// Offset returns the number of rows to skip.
func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// DocumentPage is a page of documents ordered by most recent update.
type DocumentPage struct {
	Items []*Document `json:"items"`
	Page  int         `json:"page"`
	Size  int         `json:"size"`
	Total int         `json:"total"`
}

// TotalPages returns the number of pages needed for Total items.
func (p *DocumentPage) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	return (p.Total + p.Size - 1) / p.Size
}

// RenderedSection is a section with its markdown rendered to HTML.
type RenderedSection struct {
	OrderIndex int    `json:"order_index"`
	Heading    string `json:"heading"`
	HTML       string `json:"html"`
}

// RenderedDocument is the read view of a document with HTML sections.
type RenderedDocument struct {
	Document *Document          `json:"document"`
	Sections []*RenderedSection `json:"sections"`
}

// Attachment describes a stored upload.
type Attachment struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}
