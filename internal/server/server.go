package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ppiankov/storybook/internal/llm"
	"github.com/ppiankov/storybook/internal/logging"
	"github.com/ppiankov/storybook/internal/model"
	"github.com/ppiankov/storybook/internal/pipeline"
	"github.com/ppiankov/storybook/internal/store"
)

// Error codes returned by POST /api/generate
const (
	CodeRateLimited      = "RATE_LIMITED"
	CodeAPIError         = "API_ERROR"
	CodeNetworkError     = "NETWORK_ERROR"
	CodeGenerationFailed = "GENERATION_FAILED"
)

const rateLimitedMessage = "The model is currently rate-limited. We tried multiple times but the service is still unavailable. Please try again in a few minutes."

// Server exposes the pipeline and the document store over HTTP
type Server struct {
	pipeline *pipeline.Pipeline
	store    store.Store // nil disables the document routes
	config   model.ServerConfig
	metrics  *Metrics
	log      *slog.Logger
	mux      *http.ServeMux
}

// New builds the server and its routes
func New(cfg model.ServerConfig, p *pipeline.Pipeline, st store.Store) *Server {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 32 << 20
	}

	s := &Server{
		pipeline: p,
		store:    st,
		config:   cfg,
		metrics:  NewMetrics(),
		log:      logging.ForComponent("server"),
		mux:      http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	m := s.metrics
	s.mux.HandleFunc("POST /api/parse", m.instrument("parse", s.handleParse))
	s.mux.HandleFunc("POST /api/generate", m.instrument("generate", s.handleGenerate))
	s.mux.HandleFunc("POST /api/documents", m.instrument("documents_save", s.handleSaveDocument))
	s.mux.HandleFunc("GET /api/documents", m.instrument("documents_list", s.handleListDocuments))
	s.mux.HandleFunc("GET /api/documents/{id}", m.instrument("documents_get", s.handleGetDocument))
	s.mux.HandleFunc("DELETE /api/documents/{id}", m.instrument("documents_delete", s.handleDeleteDocument))
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	s.mux.Handle("GET /metrics", m.Handler())
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.mux,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.config.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.log.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

// parseRequest is the JSON form of POST /api/parse
type parseRequest struct {
	Text string `json:"text"`
}

// parseResponse mirrors model.ParseResult; diagnostics are data, never an HTTP error
type parseResponse struct {
	Stories []model.Story      `json:"stories"`
	Errors  []model.Diagnostic `json:"errors"`
	Summary model.Summary      `json:"summary"`
	Valid   bool               `json:"valid"`
}

// handleParse accepts raw text, or JSON {"text": "..."} when the content type is JSON
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}

	data := body
	if isJSON(r) {
		var req parseRequest
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		data = []byte(req.Text)
	}

	report, err := s.pipeline.ProcessBytes("api", data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.metrics.ObserveReport(report)

	writeJSON(w, http.StatusOK, parseResponse{
		Stories: report.Result.Stories,
		Errors:  report.Result.Errors,
		Summary: report.Summary,
		Valid:   report.Valid,
	})
}

type generateResponse struct {
	Success bool   `json:"success"`
	Content string `json:"content"`
	Type    string `json:"type"`
	Cached  bool   `json:"cached,omitempty"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req llm.GenerateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	section, err := s.pipeline.Generator().Generate(r.Context(), req)
	if err != nil {
		status, body := generateFailure(err)
		s.log.Warn("generation failed", "type", req.Type, "status", status, "error", err)
		s.metrics.ObserveGeneration(req.Type, "error")
		writeJSON(w, status, body)
		return
	}

	s.metrics.ObserveGeneration(req.Type, "ok")
	writeJSON(w, http.StatusOK, generateResponse{
		Success: true,
		Content: section.Content,
		Type:    string(section.Type),
		Cached:  section.Cached,
	})
}

// generateFailure maps generator errors onto the route's status codes and error codes
func generateFailure(err error) (int, map[string]string) {
	var apiErr *llm.APIError

	switch {
	case errors.Is(err, llm.ErrMissingFields), errors.Is(err, llm.ErrInvalidType):
		return http.StatusBadRequest, map[string]string{"error": err.Error()}

	case errors.Is(err, llm.ErrDisabled):
		return http.StatusInternalServerError, map[string]string{"error": "Content generation is not configured"}

	case errors.Is(err, llm.ErrRateLimited):
		return http.StatusTooManyRequests, map[string]string{"error": rateLimitedMessage, "code": CodeRateLimited}

	case errors.Is(err, llm.ErrNoContent):
		return http.StatusInternalServerError, map[string]string{"error": "No content generated"}

	case errors.As(err, &apiErr):
		if apiErr.Message != "" && apiErr.StatusCode >= 400 {
			return apiErr.StatusCode, map[string]string{"error": apiErr.Message, "code": CodeAPIError}
		}
		return http.StatusInternalServerError, map[string]string{
			"error": "Failed to generate content. Please check your API key and try again.",
			"code":  CodeGenerationFailed,
		}

	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusInternalServerError, map[string]string{"error": "Generation timed out", "code": CodeGenerationFailed}

	default:
		return http.StatusInternalServerError, map[string]string{
			"error": "Network error occurred. Please check your internet connection and try again.",
			"code":  CodeNetworkError,
		}
	}
}

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "Document storage is not configured")
		return false
	}
	return true
}

func (s *Server) handleSaveDocument(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes)
	if err := r.ParseMultipartForm(s.config.MaxBodyBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read file")
		return
	}

	var meta model.BookMetadata
	rawMeta := strings.TrimSpace(r.FormValue("metadata"))
	if rawMeta != "" {
		if err := json.Unmarshal([]byte(rawMeta), &meta); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid metadata")
			return
		}
	}

	storiesCount, _ := strconv.Atoi(r.FormValue("storiesCount"))

	doc := &model.Document{
		Filename:     header.Filename,
		Title:        meta.Title,
		Language:     meta.Language,
		Author:       meta.Author,
		StoriesCount: storiesCount,
		Data:         data,
	}
	if rawMeta != "" {
		doc.Metadata = json.RawMessage(rawMeta)
	}

	id, err := s.store.Save(r.Context(), doc)
	if errors.Is(err, store.ErrEmptyDocument) {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	if err != nil {
		s.log.Error("save document failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save document")
		return
	}

	s.metrics.ObserveDocument("save")
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"id":      id,
		"message": "Document saved successfully",
	})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}

	docs, err := s.store.List(r.Context())
	if err != nil {
		s.log.Error("list documents failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch documents")
		return
	}

	s.metrics.ObserveDocument("list")
	writeJSON(w, http.StatusOK, docs)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}

	doc, err := s.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeStoreError(w, err, "Failed to download document")
		return
	}

	s.metrics.ObserveDocument("get")
	w.Header().Set("Content-Type", model.DocxContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Data)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}

	if err := s.store.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeStoreError(w, err, "Failed to delete document")
		return
	}

	s.metrics.ObserveDocument("delete")
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Document deleted successfully",
	})
}

func (s *Server) writeStoreError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, store.ErrInvalidID):
		writeError(w, http.StatusBadRequest, "Invalid document ID")
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "Document not found")
	default:
		s.log.Error("document store error", "error", err)
		writeError(w, http.StatusInternalServerError, fallback)
	}
}

func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("failed to write JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
