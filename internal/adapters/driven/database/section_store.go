package database

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/custodia-labs/sercha-docs/internal/core/domain"
	"github.com/custodia-labs/sercha-docs/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.SectionStore = (*SectionStore)(nil)

// SectionStore implements driven.SectionStore
type SectionStore struct {
	db *DB
}

// NewSectionStore creates a new SectionStore
func NewSectionStore(db *DB) *SectionStore {
	return &SectionStore{db: db}
}

type sectionRow struct {
	ID         string    `db:"id"`
	DocumentID string    `db:"document_id"`
	OrderIndex int       `db:"order_index"`
	Heading    string    `db:"heading"`
	ContentMD  string    `db:"content_md"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// FindAllOrdered retrieves sections by ascending order index
func (s *SectionStore) FindAllOrdered(ctx context.Context, documentID string) ([]*domain.Section, error) {
	var rows []sectionRow
	err := sqlx.SelectContext(ctx, s.db.ext(ctx), &rows, `
		SELECT id, document_id, order_index, heading, content_md, created_at, updated_at
		FROM sections
		WHERE document_id = $1
		ORDER BY order_index`, documentID)
	if err != nil {
		return nil, err
	}

	sections := make([]*domain.Section, len(rows))
	for i, r := range rows {
		sections[i] = &domain.Section{
			ID:         r.ID,
			DocumentID: r.DocumentID,
			OrderIndex: r.OrderIndex,
			Heading:    r.Heading,
			ContentMD:  r.ContentMD,
			CreatedAt:  r.CreatedAt.UTC(),
			UpdatedAt:  r.UpdatedAt.UTC(),
		}
	}
	return sections, nil
}

// Save creates or updates a section
func (s *SectionStore) Save(ctx context.Context, section *domain.Section) error {
	query := `
		INSERT INTO sections (id, document_id, order_index, heading, content_md, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			order_index = excluded.order_index,
			heading = excluded.heading,
			content_md = excluded.content_md,
			updated_at = excluded.updated_at
	`
	_, err := s.db.ext(ctx).ExecContext(ctx, query,
		section.ID,
		section.DocumentID,
		section.OrderIndex,
		section.Heading,
		section.ContentMD,
		section.CreatedAt,
		section.UpdatedAt,
	)
	return translate(err)
}

// DeleteAll removes the given sections
func (s *SectionStore) DeleteAll(ctx context.Context, sections []*domain.Section) error {
	if len(sections) == 0 {
		return nil
	}
	ids := make([]string, len(sections))
	for i, sec := range sections {
		ids[i] = sec.ID
	}
	return deleteByIDs(ctx, s.db.ext(ctx), "sections", ids)
}

// deleteByIDs issues one DELETE ... WHERE id IN (...) for table.
func deleteByIDs(ctx context.Context, q sqlx.ExtContext, table string, ids []string) error {
	query, args, err := sqlx.In(`DELETE FROM `+table+` WHERE id IN (?)`, ids)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx, q.Rebind(query), args...)
	return err
}
