// Package ingest orchestrates the full document ingestion pipeline:
// per-page extraction, field analysis, summary aggregation, chunking,
// and indexing.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bull/docqa-server/internal/chunker"
	"github.com/bull/docqa-server/internal/fields"
	"github.com/bull/docqa-server/internal/pdf"
	"github.com/bull/docqa-server/internal/storage"
)

// PageExtractor produces the best available text for one page.
type PageExtractor interface {
	ExtractPage(ctx context.Context, src pdf.Source, path string, pageNum int, ocrEnabled bool) pdf.Page
}

// Indexer persists an ingested document and its chunk texts.
type Indexer interface {
	Store(ctx context.Context, doc *storage.Document, chunkTexts []string) error
}

// OpenFunc opens a PDF source for reading. Swappable in tests.
type OpenFunc func(path string) (pdf.Source, error)

func defaultOpen(path string) (pdf.Source, error) {
	return pdf.Open(path)
}

// PageReport describes the outcome of extracting one page.
type PageReport struct {
	Number int                 `json:"page"`
	Status pdf.Status          `json:"status"`
	Fields map[string][]string `json:"fields"`
}

// Result contains statistics about one ingestion run.
type Result struct {
	DocumentID string          `json:"document_id"`
	Filename   string          `json:"filename"`
	PageCount  int             `json:"page_count"`
	Pages      []PageReport    `json:"pages"`
	Summary    storage.Summary `json:"summary"`
	ChunkCount int             `json:"chunk_count"`
	Duration   time.Duration   `json:"-"`
}

// DocumentIngestor drives the ingestion pipeline for a single PDF.
type DocumentIngestor struct {
	extractor PageExtractor
	chunker   *chunker.Chunker
	indexer   Indexer
	open      OpenFunc
	logger    *slog.Logger
}

// New creates a DocumentIngestor. A nil logger falls back to slog.Default().
func New(extractor PageExtractor, ch *chunker.Chunker, indexer Indexer, logger *slog.Logger) *DocumentIngestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &DocumentIngestor{
		extractor: extractor,
		chunker:   ch,
		indexer:   indexer,
		open:      defaultOpen,
		logger:    logger,
	}
}

// Ingest extracts every page of the PDF at path, aggregates the document
// summary, chunks the full text and stores everything in the index.
//
// A single page failing extraction degrades that page's status but never
// aborts the run; only failing to open the source file is fatal.
func (d *DocumentIngestor) Ingest(ctx context.Context, path, filename string, ocrEnabled bool) (*Result, error) {
	start := time.Now()

	src, err := d.open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer src.Close()

	pageCount := src.PageCount()
	d.logger.Info("starting ingestion",
		"filename", filename,
		"pages", pageCount,
		"ocr_enabled", ocrEnabled)

	var (
		reports    = make([]PageReport, 0, pageCount)
		pageFields = make([]fields.Extracted, 0, pageCount)
		combined   = make([]string, 0, pageCount)
		textPages  []int
		ocrPages   []int
	)

	for i := 1; i <= pageCount; i++ {
		page := d.extractor.ExtractPage(ctx, src, path, i, ocrEnabled)

		extracted := fields.Analyze(page.Combined)
		pageFields = append(pageFields, extracted)
		combined = append(combined, page.Combined)

		if page.TextLayer != "" {
			textPages = append(textPages, i)
		}
		if page.Status == pdf.StatusOCRSuccess {
			ocrPages = append(ocrPages, i)
		}

		reports = append(reports, PageReport{
			Number: i,
			Status: page.Status,
			Fields: toStringMap(extracted),
		})
	}

	summary := storage.Summary{
		PagesScanned:    pageCount,
		TextLayerPages:  textPages,
		OCRSuccessPages: ocrPages,
		Fields:          toStringMap(fields.Union(pageFields)),
	}

	fullText := strings.Join(combined, "\n")
	chunkTexts := d.chunker.Split(fullText)

	doc := &storage.Document{
		ID:        uuid.New().String(),
		Filename:  filename,
		PageCount: pageCount,
		CreatedAt: time.Now().UTC(),
		Summary:   summary,
	}

	if err := d.indexer.Store(ctx, doc, chunkTexts); err != nil {
		return nil, fmt.Errorf("index document: %w", err)
	}

	result := &Result{
		DocumentID: doc.ID,
		Filename:   filename,
		PageCount:  pageCount,
		Pages:      reports,
		Summary:    summary,
		ChunkCount: len(chunkTexts),
		Duration:   time.Since(start),
	}

	d.logger.Info("ingestion complete",
		"document_id", doc.ID,
		"pages", pageCount,
		"chunks", result.ChunkCount,
		"duration", result.Duration)

	return result, nil
}

func toStringMap(e fields.Extracted) map[string][]string {
	m := make(map[string][]string, len(e))
	for kind, matches := range e {
		m[string(kind)] = matches
	}
	return m
}
