package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/topi314/tint"

	"github.com/custodia-labs/sercha-docs/internal/core/domain"
	"github.com/custodia-labs/sercha-docs/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-docs/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-docs/internal/metrics"
)

// Ensure documentService implements DocumentService
var _ driving.DocumentService = (*documentService)(nil)

const (
	defaultLockTTL    = 30 * time.Second
	defaultLockWait   = 5 * time.Second
	lockRetryInterval = 25 * time.Millisecond

	// maxSlugAttempts bounds how often Create re-probes after losing an
	// insert race on the slug unique index.
	maxSlugAttempts = 5
)

// documentService implements the DocumentService interface
type documentService struct {
	documents driven.DocumentStore
	sections  driven.SectionStore
	revisions driven.RevisionStore
	tx        driven.Transactor
	lock      driven.DistributedLock
	logger    *slog.Logger

	lockTTL  time.Duration
	lockWait time.Duration
	now      func() time.Time
	newID    func() string
}

// DocumentServiceConfig holds the collaborators of the document service.
type DocumentServiceConfig struct {
	Documents driven.DocumentStore
	Sections  driven.SectionStore
	Revisions driven.RevisionStore
	Tx        driven.Transactor
	Lock      driven.DistributedLock // Optional: serializes writers per document across instances
	Logger    *slog.Logger
	LockTTL   time.Duration // Expiry of a held document lock (default: 30s)
	LockWait  time.Duration // How long to wait for a busy lock before ErrLocked (default: 5s)

	Now   func() time.Time // Clock override for tests
	NewID func() string    // ID generator override for tests
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(cfg DocumentServiceConfig) driving.DocumentService {
	s := &documentService{
		documents: cfg.Documents,
		sections:  cfg.Sections,
		revisions: cfg.Revisions,
		tx:        cfg.Tx,
		lock:      cfg.Lock,
		logger:    cfg.Logger,
		lockTTL:   cfg.LockTTL,
		lockWait:  cfg.LockWait,
		now:       cfg.Now,
		newID:     cfg.NewID,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.lockTTL == 0 {
		s.lockTTL = defaultLockTTL
	}
	if s.lockWait == 0 {
		s.lockWait = defaultLockWait
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s
}

// Create assigns a unique slug and stores the document with its sections.
// No revision is recorded; the first update produces version 1.
func (s *documentService) Create(ctx context.Context, req domain.CreateDocumentRequest, author string) (doc *domain.Document, err error) {
	defer func() { metrics.DocumentMutations.WithLabelValues("create", metrics.Result(err)).Inc() }()

	if author == "" {
		return nil, domain.ErrUnauthorized
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	base := domain.BaseSlug(req.Slug, req.Title)
	for attempt := 1; ; attempt++ {
		err = s.lockedTx(ctx, "slug:"+base, func(ctx context.Context) error {
			slug, err := s.uniqueSlug(ctx, base)
			if err != nil {
				return err
			}
			doc, err = s.insert(ctx, req, author, slug)
			return err
		})
		if errors.Is(err, domain.ErrAlreadyExists) && attempt < maxSlugAttempts {
			s.logger.Debug("slug claimed concurrently, probing again", "base", base, "attempt", attempt)
			continue
		}
		break
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("document created", "slug", doc.Slug, "sections", len(doc.Sections), "author", author)
	return doc, nil
}

// Ensure returns the document stored at the exact slug of req, creating it
// when absent. The slug is never suffixed.
func (s *documentService) Ensure(ctx context.Context, req domain.CreateDocumentRequest, author string) (doc *domain.Document, err error) {
	defer func() { metrics.DocumentMutations.WithLabelValues("ensure", metrics.Result(err)).Inc() }()

	if author == "" {
		return nil, domain.ErrUnauthorized
	}
	slug := domain.ToSlug(req.Slug)
	if slug == "" {
		return nil, fmt.Errorf("%w: slug is required", domain.ErrInvalidInput)
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	created := false
	err = s.lockedTx(ctx, "slug:"+slug, func(ctx context.Context) error {
		existing, err := s.GetBySlug(ctx, slug)
		if err == nil {
			doc = existing
			return nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		doc, err = s.insert(ctx, req, author, slug)
		created = err == nil
		return err
	})
	if errors.Is(err, domain.ErrAlreadyExists) {
		// another instance inserted the slug first; its transaction has committed
		doc, err = s.GetBySlug(ctx, slug)
	}
	if err != nil {
		return nil, err
	}

	if created {
		s.logger.Info("document created", "slug", slug, "sections", len(doc.Sections), "author", author)
	}
	return doc, nil
}

// insert writes a new document and its sections. Callers run it inside a
// transaction.
func (s *documentService) insert(ctx context.Context, req domain.CreateDocumentRequest, author, slug string) (*domain.Document, error) {
	now := s.now()
	doc := &domain.Document{
		ID:            s.newID(),
		Slug:          slug,
		Title:         req.Title,
		Summary:       req.Summary,
		CoverImageURL: req.CoverImageURL,
		CreatedBy:     author,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.documents.Save(ctx, doc); err != nil {
		return nil, err
	}

	sections := domain.NewSectionSet(doc.ID, req.Sections, now, s.newID)
	for _, sec := range sections {
		if err := s.sections.Save(ctx, sec); err != nil {
			return nil, err
		}
	}
	doc.Sections = sections
	return doc, nil
}

// uniqueSlug returns base, or the first free base-N for N >= 2.
func (s *documentService) uniqueSlug(ctx context.Context, base string) (string, error) {
	for n := 1; ; n++ {
		candidate := domain.SlugCandidate(base, n)
		taken, err := s.documents.ExistsBySlug(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		metrics.SlugProbes.Inc()
	}
}

// GetBySlug retrieves a document with its ordered sections
func (s *documentService) GetBySlug(ctx context.Context, slug string) (*domain.Document, error) {
	doc, err := s.documents.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	sections, err := s.sections.FindAllOrdered(ctx, doc.ID)
	if err != nil {
		return nil, err
	}
	doc.Sections = domain.SectionSet(sections).Normalize()
	return doc, nil
}

// List returns a page of documents whose title contains query
func (s *documentService) List(ctx context.Context, query string, page int) (*domain.DocumentPage, error) {
	if page < 0 {
		return nil, fmt.Errorf("%w: page must be non-negative", domain.ErrInvalidInput)
	}
	return s.documents.SearchByTitle(ctx, query, domain.PageRequest{Page: page, Size: domain.DefaultPageSize})
}

// Update replaces the document's title, summary and sections and records the
// post-edit state as the next revision. Only the author may update.
func (s *documentService) Update(ctx context.Context, slug string, req domain.UpdateDocumentRequest, editor string) (err error) {
	defer func() { metrics.DocumentMutations.WithLabelValues("update", metrics.Result(err)).Inc() }()

	if editor == "" {
		return domain.ErrUnauthorized
	}
	if err := validateRequest(req); err != nil {
		return err
	}

	var version int
	err = s.lockedTx(ctx, "document:"+slug, func(ctx context.Context) error {
		doc, err := s.documents.FindBySlug(ctx, slug)
		if err != nil {
			return err
		}
		if !doc.IsAuthor(editor) {
			return domain.ErrForbidden
		}

		existing, err := s.sections.FindAllOrdered(ctx, doc.ID)
		if err != nil {
			return err
		}
		history, err := s.revisions.FindAllByDocumentDesc(ctx, doc.ID)
		if err != nil {
			return err
		}

		now := s.now()
		sections := domain.NewSectionSet(doc.ID, req.Sections, now, s.newID)
		doc.Title = req.Title
		doc.Summary = req.Summary
		doc.UpdatedAt = now

		version = domain.NextVersion(history)
		snapshot, err := domain.NewSnapshot(doc, sections).Encode()
		if err != nil {
			return err
		}

		if err := s.sections.DeleteAll(ctx, existing); err != nil {
			return err
		}
		for _, sec := range sections {
			if err := s.sections.Save(ctx, sec); err != nil {
				return err
			}
		}
		if err := s.documents.Save(ctx, doc); err != nil {
			return err
		}
		return s.revisions.Save(ctx, &domain.Revision{
			ID:           s.newID(),
			DocumentID:   doc.ID,
			Version:      version,
			SnapshotJSON: snapshot,
			Editor:       editor,
			CreatedAt:    now,
		})
	})
	if err != nil {
		if !errors.Is(err, domain.ErrForbidden) && !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("document update failed", "slug", slug, tint.Err(err))
		}
		return err
	}

	metrics.RevisionsCreated.Inc()
	s.logger.Info("document updated", "slug", slug, "version", version, "editor", editor)
	return nil
}

// Delete removes the document together with all of its sections and revisions.
// Only the author may delete.
func (s *documentService) Delete(ctx context.Context, slug, requester string) (err error) {
	defer func() { metrics.DocumentMutations.WithLabelValues("delete", metrics.Result(err)).Inc() }()

	if requester == "" {
		return domain.ErrUnauthorized
	}

	err = s.lockedTx(ctx, "document:"+slug, func(ctx context.Context) error {
		doc, err := s.documents.FindBySlug(ctx, slug)
		if err != nil {
			return err
		}
		if !doc.IsAuthor(requester) {
			return domain.ErrForbidden
		}

		revisions, err := s.revisions.FindAllByDocumentDesc(ctx, doc.ID)
		if err != nil {
			return err
		}
		if err := s.revisions.DeleteAll(ctx, revisions); err != nil {
			return err
		}
		sections, err := s.sections.FindAllOrdered(ctx, doc.ID)
		if err != nil {
			return err
		}
		if err := s.sections.DeleteAll(ctx, sections); err != nil {
			return err
		}
		return s.documents.Delete(ctx, doc.ID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("document deleted", "slug", slug, "requester", requester)
	return nil
}

// ListRevisions returns the document's revisions newest first
func (s *documentService) ListRevisions(ctx context.Context, slug string) ([]*domain.Revision, error) {
	doc, err := s.documents.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.revisions.FindAllByDocumentDesc(ctx, doc.ID)
}

// GetRevision returns one revision with its decoded snapshot
func (s *documentService) GetRevision(ctx context.Context, slug string, version int) (*domain.RevisionDetail, error) {
	revisions, err := s.ListRevisions(ctx, slug)
	if err != nil {
		return nil, err
	}
	for _, rev := range revisions {
		if rev.Version != version {
			continue
		}
		snap, err := domain.DecodeSnapshot(rev.SnapshotJSON)
		if err != nil {
			return nil, err
		}
		return &domain.RevisionDetail{Revision: rev, Snapshot: snap}, nil
	}
	return nil, domain.ErrNotFound
}

// lockedTx runs fn in a transaction that first takes the named lock.
// The lock is acquired on the transaction's context, so transaction-scoped
// locks share its connection, and is released only after the transaction
// has committed or rolled back. Without a configured lock the store's unique
// constraints are the only guard.
func (s *documentService) lockedTx(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	held := false
	defer func() {
		if !held {
			return
		}
		if err := s.lock.Release(context.WithoutCancel(ctx), name); err != nil {
			s.logger.Warn("failed to release lock", "lock", name, tint.Err(err))
		}
	}()

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if s.lock != nil {
			if err := s.acquire(ctx, name); err != nil {
				return err
			}
			held = true
		}
		return fn(ctx)
	})
}

func (s *documentService) acquire(ctx context.Context, name string) error {
	deadline := time.Now().Add(s.lockWait)
	for {
		ok, err := s.lock.Acquire(ctx, name, s.lockTTL)
		if err != nil {
			return fmt.Errorf("acquire lock %s: %w", name, err)
		}
		if ok {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("%w: %s", domain.ErrLocked, name)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockRetryInterval):
		}
	}
}
