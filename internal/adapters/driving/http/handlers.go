package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/topi314/tint"

	"github.com/custodia-labs/sercha-docs/internal/core/domain"
)

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"invalid request body"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// VersionResponse represents the API version response
// @Description API version response
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
}

// ReadyResponse reports dependency health
// @Description Readiness status with per-dependency checks
type ReadyResponse struct {
	Status string            `json:"status" example:"ready"`
	Checks map[string]string `json:"checks"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Pings the database and the lock backend
// @Tags         Health
// @Produce      json
// @Success      200  {object}  ReadyResponse
// @Failure      503  {object}  ReadyResponse
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := ReadyResponse{Status: "ready", Checks: map[string]string{}}
	check := func(name string, p Pinger) {
		if p == nil {
			return
		}
		if err := p.Ping(ctx); err != nil {
			s.logger.Warn("readiness check failed", "dependency", name, tint.Err(err))
			resp.Checks[name] = "unavailable"
			resp.Status = "unavailable"
			return
		}
		resp.Checks[name] = "ok"
	}
	check("database", s.db)
	check("lock", s.lock)

	status := http.StatusOK
	if resp.Status != "ready" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

// handleVersion godoc
// @Summary      Get API version
// @Description  Returns the current API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{Version: s.version})
}

// Document endpoints

// handleListDocuments godoc
// @Summary      List documents
// @Description  Pages through documents by most recent update, optionally filtered by title
// @Tags         Documents
// @Produce      json
// @Param        q     query     string  false  "Case-insensitive title substring"
// @Param        page  query     int     false  "Zero-based page number"
// @Success      200   {object}  domain.DocumentPage
// @Failure      400   {object}  ErrorResponse  "Invalid page"
// @Router       /documents [get]
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	page := 0
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "page must be a non-negative integer")
			return
		}
		page = n
	}

	result, err := s.docService.List(r.Context(), r.URL.Query().Get("q"), page)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleCreateDocument godoc
// @Summary      Create document
// @Description  Creates a document under a unique slug derived from the slug hint or title
// @Tags         Documents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      domain.CreateDocumentRequest  true  "Document"
// @Success      201      {object}  domain.Document
// @Failure      400      {object}  ErrorResponse  "Invalid input"
// @Failure      401      {object}  ErrorResponse  "Unauthorized"
// @Failure      409      {object}  ErrorResponse  "Slug contention"
// @Router       /documents [post]
func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, err := s.docService.Create(r.Context(), req, callerID(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/v1/documents/"+doc.Slug)
	writeJSON(w, http.StatusCreated, doc)
}

// handleEnsureDocument godoc
// @Summary      Get or create document at a fixed slug
// @Description  Returns the document at the given slug, creating it when absent
// @Tags         Documents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      domain.CreateDocumentRequest  true  "Document with slug"
// @Success      200      {object}  domain.Document
// @Failure      400      {object}  ErrorResponse  "Invalid input"
// @Failure      401      {object}  ErrorResponse  "Unauthorized"
// @Router       /documents/ensure [put]
func (s *Server) handleEnsureDocument(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, err := s.docService.Ensure(r.Context(), req, callerID(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// handleGetDocument godoc
// @Summary      Get document
// @Description  Returns a document with its sections in order
// @Tags         Documents
// @Produce      json
// @Param        slug  path      string  true  "Document slug"
// @Success      200   {object}  domain.Document
// @Failure      404   {object}  ErrorResponse  "Document not found"
// @Router       /documents/{slug} [get]
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.docService.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// handleGetRenderedDocument godoc
// @Summary      Get rendered document
// @Description  Returns a document with each section's markdown rendered to HTML
// @Tags         Documents
// @Produce      json
// @Param        slug  path      string  true  "Document slug"
// @Success      200   {object}  domain.RenderedDocument
// @Failure      404   {object}  ErrorResponse  "Document not found"
// @Router       /documents/{slug}/rendered [get]
func (s *Server) handleGetRenderedDocument(w http.ResponseWriter, r *http.Request) {
	rendered, err := s.renderService.RenderDocument(r.Context(), r.PathValue("slug"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rendered)
}

// handleUpdateDocument godoc
// @Summary      Update document
// @Description  Replaces title, summary and sections and records a new revision. Author only.
// @Tags         Documents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        slug     path      string                        true  "Document slug"
// @Param        request  body      domain.UpdateDocumentRequest  true  "New content"
// @Success      200      {object}  domain.Document
// @Failure      400      {object}  ErrorResponse  "Invalid input"
// @Failure      403      {object}  ErrorResponse  "Not the author"
// @Failure      404      {object}  ErrorResponse  "Document not found"
// @Failure      409      {object}  ErrorResponse  "Concurrent update"
// @Router       /documents/{slug} [put]
func (s *Server) handleUpdateDocument(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	slug := r.PathValue("slug")
	if err := s.docService.Update(r.Context(), slug, req, callerID(r)); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	doc, err := s.docService.GetBySlug(r.Context(), slug)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// handleDeleteDocument godoc
// @Summary      Delete document
// @Description  Deletes a document with its sections and revisions. Author only.
// @Tags         Documents
// @Security     BearerAuth
// @Param        slug  path  string  true  "Document slug"
// @Success      204
// @Failure      403  {object}  ErrorResponse  "Not the author"
// @Failure      404  {object}  ErrorResponse  "Document not found"
// @Router       /documents/{slug} [delete]
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.docService.Delete(r.Context(), r.PathValue("slug"), callerID(r)); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Revision endpoints

// handleListRevisions godoc
// @Summary      List revisions
// @Description  Returns the document's revisions, newest first
// @Tags         Revisions
// @Produce      json
// @Param        slug  path      string  true  "Document slug"
// @Success      200   {array}   domain.Revision
// @Failure      404   {object}  ErrorResponse  "Document not found"
// @Router       /documents/{slug}/revisions [get]
func (s *Server) handleListRevisions(w http.ResponseWriter, r *http.Request) {
	revisions, err := s.docService.ListRevisions(r.Context(), r.PathValue("slug"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if revisions == nil {
		revisions = []*domain.Revision{}
	}
	writeJSON(w, http.StatusOK, revisions)
}

// handleGetRevision godoc
// @Summary      Get revision
// @Description  Returns one revision with its decoded snapshot
// @Tags         Revisions
// @Produce      json
// @Param        slug     path      string  true  "Document slug"
// @Param        version  path      int     true  "Revision version"
// @Success      200      {object}  domain.RevisionDetail
// @Failure      400      {object}  ErrorResponse  "Invalid version"
// @Failure      404      {object}  ErrorResponse  "Document or revision not found"
// @Router       /documents/{slug}/revisions/{version} [get]
func (s *Server) handleGetRevision(w http.ResponseWriter, r *http.Request) {
	version, err := strconv.Atoi(r.PathValue("version"))
	if err != nil || version < 1 {
		writeError(w, http.StatusBadRequest, "version must be a positive integer")
		return
	}

	detail, err := s.docService.GetRevision(r.Context(), r.PathValue("slug"), version)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// Attachment endpoints

// handleUploadAttachment godoc
// @Summary      Upload attachment
// @Description  Stores a file for use in a document's markdown and returns its URL
// @Tags         Attachments
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        slug  path      string  true  "Document slug"
// @Param        file  formData  file    true  "File to upload"
// @Success      201   {object}  domain.Attachment
// @Failure      400   {object}  ErrorResponse  "Missing or invalid file"
// @Failure      404   {object}  ErrorResponse  "Document not found"
// @Failure      413   {object}  ErrorResponse  "File too large"
// @Failure      503   {object}  ErrorResponse  "Attachment storage not configured"
// @Router       /documents/{slug}/attachments [post]
func (s *Server) handleUploadAttachment(w http.ResponseWriter, r *http.Request) {
	// leave room for multipart framing around the file itself
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload+(1<<20))

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		writeError(w, http.StatusBadRequest, "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	att, err := s.attachmentService.Upload(r.Context(), r.PathValue("slug"), header.Filename, data, callerID(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, att)
}

// Helper functions

func callerID(r *http.Request) string {
	if authCtx := GetAuthContext(r.Context()); authCtx != nil {
		return authCtx.UserID
	}
	return ""
}

// writeServiceError maps domain errors to HTTP statuses
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "only the author may change this document")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "conflicting write, retry")
	case errors.Is(err, domain.ErrLocked):
		writeError(w, http.StatusConflict, "document is being modified, retry")
	case errors.Is(err, domain.ErrServiceUnavailable):
		writeError(w, http.StatusServiceUnavailable, "service unavailable")
	default:
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, tint.Err(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
