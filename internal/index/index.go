// Package index ties embedding generation to the vector store. It owns
// the write path (store a document with its chunks atomically) and the
// read path (embed a question and return the best-matching chunks).
package index

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bull/docqa-server/internal/storage"
)

// DefaultTopK is the number of chunks returned when the caller does not
// ask for a specific count.
const DefaultTopK = 5

// Embedder is the slice of the embedding client the index needs.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// VectorStore is the slice of the storage layer the index needs.
type VectorStore interface {
	UpsertDocument(ctx context.Context, doc *storage.Document) error
	UpsertChunks(ctx context.Context, chunks []*storage.Chunk) error
	SearchChunks(ctx context.Context, embedding []float32, limit int) ([]*storage.ScoredChunk, error)
	DeleteDocument(ctx context.Context, id string) error
}

// Result is one retrieved chunk with its similarity score.
type Result struct {
	DocumentID string  `json:"document_id"`
	ChunkIndex int     `json:"chunk_index"`
	Text       string  `json:"text"`
	Score      float64 `json:"score"`
}

// RetrievalIndex stores chunked documents and answers similarity queries.
type RetrievalIndex struct {
	embedder Embedder
	store    VectorStore
	logger   *slog.Logger
}

// New creates a RetrievalIndex. A nil logger falls back to slog.Default().
func New(embedder Embedder, store VectorStore, logger *slog.Logger) *RetrievalIndex {
	if logger == nil {
		logger = slog.Default()
	}
	return &RetrievalIndex{
		embedder: embedder,
		store:    store,
		logger:   logger,
	}
}

// Store embeds the chunk texts and persists the document together with its
// chunks. If any step fails after the document point was written, the
// partial document is deleted so the store never holds a half-ingested
// document.
func (ri *RetrievalIndex) Store(ctx context.Context, doc *storage.Document, chunkTexts []string) error {
	embeddings, err := ri.embedder.Embed(ctx, chunkTexts)
	if err != nil {
		return fmt.Errorf("embedding chunks: %w", err)
	}
	if len(embeddings) != len(chunkTexts) {
		return fmt.Errorf("embedding count mismatch: %d texts, %d vectors", len(chunkTexts), len(embeddings))
	}

	if err := ri.store.UpsertDocument(ctx, doc); err != nil {
		return fmt.Errorf("storing document: %w", err)
	}

	now := time.Now().UTC()
	chunks := make([]*storage.Chunk, len(chunkTexts))
	for i, text := range chunkTexts {
		chunks[i] = &storage.Chunk{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			Index:      i,
			Text:       text,
			Embedding:  embeddings[i],
			StoredAt:   now,
		}
	}

	if err := ri.store.UpsertChunks(ctx, chunks); err != nil {
		// Roll back the document point so a retry starts clean.
		if delErr := ri.store.DeleteDocument(ctx, doc.ID); delErr != nil {
			ri.logger.Warn("rollback after chunk store failure failed",
				"document_id", doc.ID,
				"error", delErr)
		}
		return fmt.Errorf("storing chunks: %w", err)
	}

	ri.logger.Info("document indexed",
		"document_id", doc.ID,
		"filename", doc.Filename,
		"chunks", len(chunks))

	return nil
}

// Query embeds the question and returns up to topK chunks ordered by
// descending similarity. A non-positive topK falls back to DefaultTopK;
// a topK larger than the corpus returns everything there is.
func (ri *RetrievalIndex) Query(ctx context.Context, question string, topK int) ([]Result, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	vector, err := ri.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embedding question: %w", err)
	}

	chunks, err := ri.store.SearchChunks(ctx, vector, topK)
	if err != nil {
		return nil, fmt.Errorf("searching chunks: %w", err)
	}

	results := make([]Result, len(chunks))
	for i, c := range chunks {
		results[i] = Result{
			DocumentID: c.DocumentID,
			ChunkIndex: c.Index,
			Text:       c.Text,
			Score:      c.Score,
		}
	}
	return results, nil
}
