package storage

import "time"

// Document represents one ingested PDF. Documents are stored as parent
// points with no embedding vector; they exist for metadata retrieval,
// spreadsheet export and cascade deletion of their chunks.
type Document struct {
	ID        string // UUID assigned at ingestion
	Filename  string // original upload filename
	PageCount int
	CreatedAt time.Time
	Summary   Summary
}

// Summary is the document-level aggregation produced at ingestion time.
type Summary struct {
	PagesScanned    int                 `json:"pages_scanned"`
	TextLayerPages  []int               `json:"text_layer_pages"`
	OCRSuccessPages []int               `json:"ocr_success_pages"`
	Fields          map[string][]string `json:"fields"`
}

// Chunk is one retrieval unit: a contiguous word slice of its document's
// full text with its embedding vector. Chunks are append-only and immutable
// once stored; they are removed only by deleting the owning document.
type Chunk struct {
	ID         string    // UUID
	DocumentID string    // owning Document.ID
	Index      int       // 0-based position in the document (reconstruction order)
	Text       string
	Embedding  []float32
	StoredAt   time.Time // insertion time, used for deterministic tie-breaks
}

// ScoredChunk is a query-time result: a chunk plus its similarity score.
// Never persisted.
type ScoredChunk struct {
	Chunk
	Score float64
}

// CollectionName is the single Qdrant collection holding documents and chunks.
const CollectionName = "documents"

// VectorDimension is the embedding size for text-embedding-3-small.
const VectorDimension = 1536
