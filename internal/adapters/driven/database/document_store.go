package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/custodia-labs/sercha-docs/internal/core/domain"
	"github.com/custodia-labs/sercha-docs/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore implements driven.DocumentStore
type DocumentStore struct {
	db *DB
}

// NewDocumentStore creates a new DocumentStore
func NewDocumentStore(db *DB) *DocumentStore {
	return &DocumentStore{db: db}
}

type documentRow struct {
	ID            string    `db:"id"`
	Slug          string    `db:"slug"`
	Title         string    `db:"title"`
	Summary       string    `db:"summary"`
	CoverImageURL string    `db:"cover_image_url"`
	CreatedBy     string    `db:"created_by"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (r documentRow) toDomain() *domain.Document {
	return &domain.Document{
		ID:            r.ID,
		Slug:          r.Slug,
		Title:         r.Title,
		Summary:       r.Summary,
		CoverImageURL: r.CoverImageURL,
		CreatedBy:     r.CreatedBy,
		CreatedAt:     r.CreatedAt.UTC(),
		UpdatedAt:     r.UpdatedAt.UTC(),
	}
}

const documentColumns = `id, slug, title, summary, cover_image_url, created_by, created_at, updated_at`

// FindBySlug retrieves a document without its sections
func (s *DocumentStore) FindBySlug(ctx context.Context, slug string) (*domain.Document, error) {
	var row documentRow
	err := sqlx.GetContext(ctx, s.db.ext(ctx), &row,
		`SELECT `+documentColumns+` FROM documents WHERE slug = $1`, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

// ExistsBySlug reports whether any document uses slug
func (s *DocumentStore) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int
	err := sqlx.GetContext(ctx, s.db.ext(ctx), &count,
		`SELECT COUNT(*) FROM documents WHERE slug = $1`, slug)
	return count > 0, err
}

// Save inserts or updates a document. The slug is only written on insert.
func (s *DocumentStore) Save(ctx context.Context, doc *domain.Document) error {
	query := `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			summary = excluded.summary,
			cover_image_url = excluded.cover_image_url,
			updated_at = excluded.updated_at
	`
	_, err := s.db.ext(ctx).ExecContext(ctx, query,
		doc.ID,
		doc.Slug,
		doc.Title,
		doc.Summary,
		doc.CoverImageURL,
		doc.CreatedBy,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	return translate(err)
}

// Delete removes a document row
func (s *DocumentStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ext(ctx).ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SearchByTitle returns documents whose title contains query, newest update first
func (s *DocumentStore) SearchByTitle(ctx context.Context, query string, page domain.PageRequest) (*domain.DocumentPage, error) {
	pattern := likePattern(query)
	q := s.db.ext(ctx)

	var total int
	if err := sqlx.GetContext(ctx, q, &total,
		`SELECT COUNT(*) FROM documents WHERE LOWER(title) LIKE $1 ESCAPE '\'`, pattern); err != nil {
		return nil, err
	}

	var rows []documentRow
	err := sqlx.SelectContext(ctx, q, &rows, `
		SELECT `+documentColumns+` FROM documents
		WHERE LOWER(title) LIKE $1 ESCAPE '\'
		ORDER BY updated_at DESC, id
		LIMIT $2 OFFSET $3`,
		pattern, page.Size, page.Offset())
	if err != nil {
		return nil, err
	}

	result := &domain.DocumentPage{
		Items: make([]*domain.Document, len(rows)),
		Page:  page.Page,
		Size:  page.Size,
		Total: total,
	}
	for i, row := range rows {
		result.Items[i] = row.toDomain()
	}
	return result, nil
}
