// Package server exposes the ingestion and QA pipeline over HTTP.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/bull/docqa-server/internal/ingest"
	"github.com/bull/docqa-server/internal/qa"
	"github.com/bull/docqa-server/internal/storage"
)

// Ingestor runs the full ingestion pipeline for one uploaded PDF.
type Ingestor interface {
	Ingest(ctx context.Context, path, filename string, ocrEnabled bool) (*ingest.Result, error)
}

// Asker answers a question over the indexed corpus.
type Asker interface {
	Ask(ctx context.Context, question string, topK int) *qa.Answer
}

// Exporter renders a document's field summary as XLSX bytes.
type Exporter interface {
	FieldSummaryXLSX(doc *storage.Document) ([]byte, error)
}

// DocumentStore is the slice of the storage layer the HTTP API needs.
type DocumentStore interface {
	GetDocument(ctx context.Context, id string) (*storage.Document, error)
	ListDocuments(ctx context.Context) ([]*storage.Document, error)
	DeleteDocument(ctx context.Context, id string) error
	Health(ctx context.Context) error
}

// Config holds the server's dependencies and settings.
type Config struct {
	Ingestor  Ingestor
	Asker     Asker
	Exporter  Exporter
	Store     DocumentStore
	UploadDir string
	// OCREnabled is the process-wide OCR flag. A request's use_ocr form
	// value is ANDed with it, so a disabled process never runs OCR.
	OCREnabled bool
	Logger     *slog.Logger
}

// Server handles the HTTP API.
type Server struct {
	ingestor   Ingestor
	asker      Asker
	exporter   Exporter
	store      DocumentStore
	uploadDir  string
	ocrEnabled bool
	logger     *slog.Logger
}

// New creates a Server. A nil logger falls back to slog.Default().
func New(cfg *Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		ingestor:   cfg.Ingestor,
		asker:      cfg.Asker,
		exporter:   cfg.Exporter,
		store:      cfg.Store,
		uploadDir:  cfg.UploadDir,
		ocrEnabled: cfg.OCREnabled,
		logger:     logger,
	}
}

// Routes registers the API endpoints on the given mux.
func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /upload", s.handleUpload)
	mux.HandleFunc("POST /ask", s.handleAsk)
	mux.HandleFunc("GET /documents", s.handleListDocuments)
	mux.HandleFunc("DELETE /documents/{id}", s.handleDeleteDocument)
	mux.HandleFunc("GET /documents/{id}/fields.xlsx", s.handleExportFields)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /{$}", s.handleLanding)
}
