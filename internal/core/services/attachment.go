package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/custodia-labs/sercha-docs/internal/core/domain"
	"github.com/custodia-labs/sercha-docs/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-docs/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-docs/internal/metrics"
)

// Ensure attachmentService implements AttachmentService
var _ driving.AttachmentService = (*attachmentService)(nil)

// DefaultMaxAttachmentBytes is the upload limit when none is configured.
const DefaultMaxAttachmentBytes int64 = 10 << 20

type attachmentService struct {
	documents driven.DocumentStore
	store     driven.AttachmentStore
	maxBytes  int64
	logger    *slog.Logger
	newID     func() string
}

// AttachmentServiceConfig holds configuration for the attachment service.
type AttachmentServiceConfig struct {
	Documents driven.DocumentStore
	Store     driven.AttachmentStore // Optional: uploads fail with ErrServiceUnavailable when nil
	MaxBytes  int64
	Logger    *slog.Logger
	NewID     func() string
}

// NewAttachmentService creates a new AttachmentService
func NewAttachmentService(cfg AttachmentServiceConfig) driving.AttachmentService {
	s := &attachmentService{
		documents: cfg.Documents,
		store:     cfg.Store,
		maxBytes:  cfg.MaxBytes,
		logger:    cfg.Logger,
		newID:     cfg.NewID,
	}
	if s.maxBytes <= 0 {
		s.maxBytes = DefaultMaxAttachmentBytes
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s
}

// Upload stores data under documents/<slug>/<id>-<name>.
func (s *attachmentService) Upload(ctx context.Context, slug, filename string, data []byte, uploader string) (*domain.Attachment, error) {
	if uploader == "" {
		return nil, domain.ErrUnauthorized
	}
	if s.store == nil {
		return nil, fmt.Errorf("%w: attachment storage is not configured", domain.ErrServiceUnavailable)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: file is empty", domain.ErrInvalidInput)
	}
	size := int64(len(data))
	if size > s.maxBytes {
		return nil, fmt.Errorf("%w: file is %s, limit is %s", domain.ErrTooLarge,
			humanize.IBytes(uint64(size)), humanize.IBytes(uint64(s.maxBytes)))
	}

	if _, err := s.documents.FindBySlug(ctx, slug); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("documents/%s/%s-%s", slug, s.newID(), cleanFilename(filename))
	contentType := mimetype.Detect(data).String()

	url, err := s.store.Put(ctx, key, bytes.NewReader(data), size, contentType)
	if err != nil {
		return nil, fmt.Errorf("store attachment: %w", err)
	}

	metrics.AttachmentBytes.Add(float64(size))
	s.logger.Info("attachment stored", "slug", slug, "key", key, "size", humanize.IBytes(uint64(size)), "content_type", contentType)

	return &domain.Attachment{
		Key:         key,
		URL:         url,
		ContentType: contentType,
		Size:        size,
	}, nil
}

// cleanFilename reduces an uploaded name to a URL-safe stem and extension.
func cleanFilename(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	ext := path.Ext(base)
	stem := domain.ToSlug(strings.TrimSuffix(base, ext))
	if stem == "" {
		stem = "file"
	}
	ext = domain.ToSlug(ext)
	if ext == "" {
		return stem
	}
	return stem + "." + ext
}
