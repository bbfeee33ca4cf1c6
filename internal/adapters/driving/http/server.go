package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/topi314/tint"

	"github.com/custodia-labs/sercha-docs/internal/core/ports/driving"
)

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	handler    http.Handler
	version    string
	logger     *slog.Logger
	maxUpload  int64

	// Services
	authService       driving.AuthService
	docService        driving.DocumentService
	renderService     driving.RenderService
	attachmentService driving.AttachmentService

	// Infrastructure
	db       Pinger
	lock     Pinger // can be nil
	gatherer prometheus.Gatherer
	limiter  *RateLimitMiddleware
}

// Config holds server configuration
type Config struct {
	Host           string
	Port           int
	Version        string
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
	MaxUploadBytes int64
	Gatherer       prometheus.Gatherer // default: prometheus.DefaultGatherer
	Logger         *slog.Logger
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:           "0.0.0.0",
		Port:           8080,
		Version:        "dev",
		AllowedOrigins: []string{"*"},
		RateLimitRPS:   5,
		RateLimitBurst: 20,
		MaxUploadBytes: 10 << 20,
	}
}

// NewServer creates a new HTTP server
func NewServer(
	cfg Config,
	authService driving.AuthService,
	docService driving.DocumentService,
	renderService driving.RenderService,
	attachmentService driving.AttachmentService,
	db Pinger,
	lock Pinger, // can be nil
) *Server {
	s := &Server{
		router:            http.NewServeMux(),
		version:           cfg.Version,
		logger:            cfg.Logger,
		maxUpload:         cfg.MaxUploadBytes,
		authService:       authService,
		docService:        docService,
		renderService:     renderService,
		attachmentService: attachmentService,
		db:                db,
		lock:              lock,
		gatherer:          cfg.Gatherer,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.gatherer == nil {
		s.gatherer = prometheus.DefaultGatherer
	}
	if s.maxUpload <= 0 {
		s.maxUpload = DefaultConfig().MaxUploadBytes
	}
	s.limiter = NewRateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst)

	s.setupRoutes()

	s.handler = NewRecoveryMiddleware(s.logger).Handler(
		NewLoggingMiddleware(s.logger).Handler(
			NewCORSMiddleware(cfg.AllowedOrigins).Handler(s.router)))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	authMiddleware := NewAuthMiddleware(s.authService)

	// mutations need a caller and are rate limited per caller
	mutation := func(h http.HandlerFunc) http.Handler {
		return authMiddleware.Authenticate(s.limiter.Handler(h))
	}

	// Health endpoints (no auth)
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)
	s.router.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	// Document reads (public)
	s.router.HandleFunc("GET /api/v1/documents", s.handleListDocuments)
	s.router.HandleFunc("GET /api/v1/documents/{slug}", s.handleGetDocument)
	s.router.HandleFunc("GET /api/v1/documents/{slug}/rendered", s.handleGetRenderedDocument)
	s.router.HandleFunc("GET /api/v1/documents/{slug}/revisions", s.handleListRevisions)
	s.router.HandleFunc("GET /api/v1/documents/{slug}/revisions/{version}", s.handleGetRevision)

	// Document mutations (authenticated)
	s.router.Handle("POST /api/v1/documents", mutation(s.handleCreateDocument))
	s.router.Handle("PUT /api/v1/documents/ensure", mutation(s.handleEnsureDocument))
	s.router.Handle("PUT /api/v1/documents/{slug}", mutation(s.handleUpdateDocument))
	s.router.Handle("DELETE /api/v1/documents/{slug}", mutation(s.handleDeleteDocument))
	s.router.Handle("POST /api/v1/documents/{slug}/attachments", mutation(s.handleUploadAttachment))
}

// Handler returns the fully wrapped root handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			s.logger.Error("server error", tint.Err(err))
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
