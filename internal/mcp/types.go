// Package mcp exposes the document QA pipeline over the Model Context
// Protocol.
package mcp

import "time"

// SearchDocumentInput defines the input parameters for the search_document tool.
type SearchDocumentInput struct {
	// Query is the semantic search query.
	Query string `json:"query" jsonschema:"required,description=The semantic search query for finding relevant document chunks"`
	// MaxResults is the maximum number of chunks to return.
	MaxResults int `json:"max_results,omitempty" jsonschema:"minimum=1,maximum=20,default=5,description=Maximum number of chunks to return"`
}

// SearchDocumentOutput contains the search results.
type SearchDocumentOutput struct {
	// Results is the list of matching chunks ordered by descending score.
	Results []ChunkMatch `json:"results"`
	// Message provides informational context (e.g., "No matching chunks found").
	Message string `json:"message,omitempty"`
}

// ChunkMatch represents a single chunk match from semantic search.
type ChunkMatch struct {
	// DocumentID identifies the document the chunk belongs to.
	DocumentID string `json:"document_id"`
	// ChunkIndex is the chunk's sequence position within its document.
	ChunkIndex int `json:"chunk_index"`
	// Text is the chunk's text content.
	Text string `json:"text"`
	// Score is the similarity score (0-1).
	Score float64 `json:"score"`
}

// AskDocumentInput defines the input parameters for the ask_document tool.
type AskDocumentInput struct {
	// Question is the natural-language question to answer.
	Question string `json:"question" jsonschema:"required,description=The question to answer from the ingested documents"`
	// TopK is how many chunks to retrieve as context.
	TopK int `json:"top_k,omitempty" jsonschema:"minimum=1,maximum=20,default=5,description=Number of chunks to retrieve as answer context"`
}

// AskDocumentOutput contains the generated answer and its sources.
type AskDocumentOutput struct {
	// Answer is the generated answer, or a sentinel message when no data
	// was found or the AI service was unavailable.
	Answer string `json:"answer"`
	// Sources lists the chunks the answer was grounded on.
	Sources []ChunkMatch `json:"sources,omitempty"`
	// TotalSources is the number of chunks used.
	TotalSources int `json:"total_sources"`
}

// ListDocumentsInput defines the input parameters for the list_documents tool.
// This tool takes no parameters.
type ListDocumentsInput struct{}

// ListDocumentsOutput contains all ingested documents.
type ListDocumentsOutput struct {
	// Documents lists every ingested document, newest first.
	Documents []DocumentInfo `json:"documents"`
	// Count is the total number of documents.
	Count int `json:"count"`
}

// DocumentInfo summarizes one ingested document.
type DocumentInfo struct {
	// ID is the document identifier.
	ID string `json:"id"`
	// Filename is the original upload filename.
	Filename string `json:"filename"`
	// PageCount is the number of pages scanned.
	PageCount int `json:"page_count"`
	// CreatedAt is when the document was ingested.
	CreatedAt time.Time `json:"created_at"`
	// Fields maps field kind to the distinct values extracted document-wide.
	Fields map[string][]string `json:"fields,omitempty"`
}
