package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/bull/docqa-server/internal/ingest"
	"github.com/bull/docqa-server/internal/storage"
)

// maxUploadBytes caps the multipart form memory; larger files spill to disk.
const maxUploadBytes = 32 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("response encoding failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

type uploadResponse struct {
	DocumentID string              `json:"document_id"`
	Filename   string              `json:"filename"`
	Pages      int                 `json:"pages"`
	Analysis   []ingest.PageReport `json:"analysis"`
	Summary    storage.Summary     `json:"summary"`
	OCREnabled bool                `json:"ocr_enabled"`
	ChunkCount int                 `json:"chunk_count"`
}

// handleUpload accepts a multipart PDF upload, saves it under the upload
// directory and runs the full ingestion pipeline on it.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	if header.Header.Get("Content-Type") != "application/pdf" {
		s.writeError(w, http.StatusBadRequest, "Only PDF files allowed")
		return
	}

	// use_ocr defaults to true; the process-wide flag still gates it.
	useOCR := r.FormValue("use_ocr") != "false"
	ocrAllowed := s.ocrEnabled && useOCR

	uploadID := uuid.New().String()
	pdfPath := filepath.Join(s.uploadDir, uploadID+".pdf")

	if err := saveUpload(pdfPath, file); err != nil {
		s.logger.Error("saving upload failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to save upload")
		return
	}

	result, err := s.ingestor.Ingest(r.Context(), pdfPath, header.Filename, ocrAllowed)
	if err != nil {
		s.logger.Error("ingestion failed", "filename", header.Filename, "error", err)
		s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("ingestion failed: %v", err))
		return
	}

	s.writeJSON(w, http.StatusOK, uploadResponse{
		DocumentID: result.DocumentID,
		Filename:   result.Filename,
		Pages:      result.PageCount,
		Analysis:   result.Pages,
		Summary:    result.Summary,
		OCREnabled: ocrAllowed,
		ChunkCount: result.ChunkCount,
	})
}

func saveUpload(path string, src io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}
	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

type askRequest struct {
	Question string `json:"question"`
	TopK     int    `json:"top_k"`
}

// handleAsk answers a question over the indexed corpus. It always returns
// 200 with an answer string; downstream failures surface as sentinel
// answers, not HTTP errors.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Question == "" {
		s.writeError(w, http.StatusBadRequest, "question is required")
		return
	}

	answer := s.asker.Ask(r.Context(), req.Question, req.TopK)
	s.writeJSON(w, http.StatusOK, answer)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.store.ListDocuments(r.Context())
	if err != nil {
		s.logger.Error("listing documents failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to list documents")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"documents": docs,
		"count":     len(docs),
	})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.store.DeleteDocument(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrDocumentNotFound) {
			s.writeError(w, http.StatusNotFound, "document not found")
			return
		}
		s.logger.Error("deleting document failed", "document_id", id, "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to delete document")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExportFields(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	doc, err := s.store.GetDocument(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrDocumentNotFound) {
			s.writeError(w, http.StatusNotFound, "document not found")
			return
		}
		s.logger.Error("loading document failed", "document_id", id, "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to load document")
		return
	}

	data, err := s.exporter.FieldSummaryXLSX(doc)
	if err != nil {
		s.logger.Error("export failed", "document_id", id, "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to build export")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="fields.xlsx"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("writing export response failed", "error", err)
	}
}
