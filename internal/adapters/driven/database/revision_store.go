package database

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/custodia-labs/sercha-docs/internal/core/domain"
	"github.com/custodia-labs/sercha-docs/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.RevisionStore = (*RevisionStore)(nil)

// RevisionStore implements driven.RevisionStore
type RevisionStore struct {
	db *DB
}

// NewRevisionStore creates a new RevisionStore
func NewRevisionStore(db *DB) *RevisionStore {
	return &RevisionStore{db: db}
}

type revisionRow struct {
	ID           string    `db:"id"`
	DocumentID   string    `db:"document_id"`
	Version      int       `db:"version"`
	SnapshotJSON string    `db:"snapshot_json"`
	Editor       string    `db:"editor"`
	CreatedAt    time.Time `db:"created_at"`
}

// FindAllByDocumentDesc retrieves revisions newest first
func (s *RevisionStore) FindAllByDocumentDesc(ctx context.Context, documentID string) ([]*domain.Revision, error) {
	var rows []revisionRow
	err := sqlx.SelectContext(ctx, s.db.ext(ctx), &rows, `
		SELECT id, document_id, version, snapshot_json, editor, created_at
		FROM revisions
		WHERE document_id = $1
		ORDER BY version DESC`, documentID)
	if err != nil {
		return nil, err
	}

	revisions := make([]*domain.Revision, len(rows))
	for i, r := range rows {
		revisions[i] = &domain.Revision{
			ID:           r.ID,
			DocumentID:   r.DocumentID,
			Version:      r.Version,
			SnapshotJSON: r.SnapshotJSON,
			Editor:       r.Editor,
			CreatedAt:    r.CreatedAt.UTC(),
		}
	}
	return revisions, nil
}

// Save inserts a revision. Revisions are immutable so there is no update path.
func (s *RevisionStore) Save(ctx context.Context, rev *domain.Revision) error {
	_, err := s.db.ext(ctx).ExecContext(ctx, `
		INSERT INTO revisions (id, document_id, version, snapshot_json, editor, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		rev.ID,
		rev.DocumentID,
		rev.Version,
		rev.SnapshotJSON,
		rev.Editor,
		rev.CreatedAt,
	)
	return translate(err)
}

// DeleteAll removes the given revisions
func (s *RevisionStore) DeleteAll(ctx context.Context, revisions []*domain.Revision) error {
	if len(revisions) == 0 {
		return nil
	}
	ids := make([]string, len(revisions))
	for i, r := range revisions {
		ids[i] = r.ID
	}
	return deleteByIDs(ctx, s.db.ext(ctx), "revisions", ids)
}
