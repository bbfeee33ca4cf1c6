package services

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/topi314/tint"

	"github.com/custodia-labs/sercha-docs/internal/core/domain"
	"github.com/custodia-labs/sercha-docs/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-docs/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-docs/internal/metrics"
)

// Ensure renderService implements RenderService
var _ driving.RenderService = (*renderService)(nil)

const defaultRenderCacheTTL = 24 * time.Hour

type renderService struct {
	documents driving.DocumentService
	renderer  driven.MarkdownRenderer
	cache     driven.RenderCache
	cacheTTL  time.Duration
	logger    *slog.Logger
}

// RenderServiceConfig holds configuration for the render service.
type RenderServiceConfig struct {
	Documents driving.DocumentService
	Renderer  driven.MarkdownRenderer
	Cache     driven.RenderCache // Optional: rendered HTML cache keyed by markdown hash
	CacheTTL  time.Duration      // default: 24h
	Logger    *slog.Logger
}

// NewRenderService creates a new RenderService
func NewRenderService(cfg RenderServiceConfig) driving.RenderService {
	s := &renderService{
		documents: cfg.Documents,
		renderer:  cfg.Renderer,
		cache:     cfg.Cache,
		cacheTTL:  cfg.CacheTTL,
		logger:    cfg.Logger,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.cacheTTL == 0 {
		s.cacheTTL = defaultRenderCacheTTL
	}
	return s
}

// RenderDocument loads the document and renders every section body to HTML.
func (s *renderService) RenderDocument(ctx context.Context, slug string) (*domain.RenderedDocument, error) {
	doc, err := s.documents.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	out := &domain.RenderedDocument{
		Document: doc,
		Sections: make([]*domain.RenderedSection, len(doc.Sections)),
	}
	for i, sec := range doc.Sections {
		out.Sections[i] = &domain.RenderedSection{
			OrderIndex: sec.OrderIndex,
			Heading:    sec.Heading,
			HTML:       s.render(ctx, sec.ContentMD),
		}
	}
	return out, nil
}

func (s *renderService) render(ctx context.Context, markdown string) string {
	if strings.TrimSpace(markdown) == "" {
		return ""
	}
	if s.cache == nil {
		return s.renderer.Render(markdown)
	}

	key := renderCacheKey(markdown)
	html, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		metrics.RenderCacheRequests.WithLabelValues("error").Inc()
		s.logger.Warn("render cache lookup failed", "key", key, tint.Err(err))
	} else if ok {
		metrics.RenderCacheRequests.WithLabelValues("hit").Inc()
		return html
	} else {
		metrics.RenderCacheRequests.WithLabelValues("miss").Inc()
	}

	html = s.renderer.Render(markdown)
	if err := s.cache.Set(ctx, key, html, s.cacheTTL); err != nil {
		s.logger.Warn("render cache store failed", "key", key, tint.Err(err))
	}
	return html
}

func renderCacheKey(markdown string) string {
	return "md:" + strconv.FormatUint(xxhash.Sum64String(markdown), 16)
}
