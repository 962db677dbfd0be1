package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bull/docqa-server/internal/index"
	"github.com/bull/docqa-server/internal/qa"
	"github.com/bull/docqa-server/internal/storage"
)

// Searcher is the retrieval dependency of the search_document tool.
type Searcher interface {
	Query(ctx context.Context, question string, topK int) ([]index.Result, error)
}

// Asker is the QA dependency of the ask_document tool.
type Asker interface {
	Ask(ctx context.Context, question string, topK int) *qa.Answer
}

// DocumentLister is the storage dependency of the list_documents tool.
type DocumentLister interface {
	ListDocuments(ctx context.Context) ([]*storage.Document, error)
}

func toChunkMatches(results []index.Result) []ChunkMatch {
	matches := make([]ChunkMatch, len(results))
	for i, r := range results {
		matches[i] = ChunkMatch{
			DocumentID: r.DocumentID,
			ChunkIndex: r.ChunkIndex,
			Text:       r.Text,
			Score:      r.Score,
		}
	}
	return matches
}

// makeSearchHandler creates the search_document tool handler.
// Embeds the query, retrieves the top-k chunks by similarity, and returns
// them with scores. Returns a message instead of an error when nothing
// matches.
func makeSearchHandler(searcher Searcher) func(
	context.Context, *mcp.CallToolRequest, SearchDocumentInput,
) (*mcp.CallToolResult, SearchDocumentOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SearchDocumentInput) (
		*mcp.CallToolResult, SearchDocumentOutput, error,
	) {
		results, err := searcher.Query(ctx, input.Query, input.MaxResults)
		if err != nil {
			return nil, SearchDocumentOutput{}, fmt.Errorf("search failed: %w", err)
		}

		if len(results) == 0 {
			return nil, SearchDocumentOutput{
				Results: []ChunkMatch{},
				Message: "No matching chunks found. Try broader search terms.",
			}, nil
		}

		return nil, SearchDocumentOutput{Results: toChunkMatches(results)}, nil
	}
}

// makeAskHandler creates the ask_document tool handler. The orchestrator
// already degrades to sentinel answers, so this handler never fails on
// downstream errors.
func makeAskHandler(asker Asker) func(
	context.Context, *mcp.CallToolRequest, AskDocumentInput,
) (*mcp.CallToolResult, AskDocumentOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input AskDocumentInput) (
		*mcp.CallToolResult, AskDocumentOutput, error,
	) {
		answer := asker.Ask(ctx, input.Question, input.TopK)

		return nil, AskDocumentOutput{
			Answer:       answer.Answer,
			Sources:      toChunkMatches(answer.Sources),
			TotalSources: answer.TotalSources,
		}, nil
	}
}

// makeListHandler creates the list_documents tool handler.
func makeListHandler(lister DocumentLister) func(
	context.Context, *mcp.CallToolRequest, ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ListDocumentsInput) (
		*mcp.CallToolResult, ListDocumentsOutput, error,
	) {
		docs, err := lister.ListDocuments(ctx)
		if err != nil {
			return nil, ListDocumentsOutput{}, fmt.Errorf("failed to list documents: %w", err)
		}

		infos := make([]DocumentInfo, len(docs))
		for i, doc := range docs {
			infos[i] = DocumentInfo{
				ID:        doc.ID,
				Filename:  doc.Filename,
				PageCount: doc.PageCount,
				CreatedAt: doc.CreatedAt,
				Fields:    doc.Summary.Fields,
			}
		}

		return nil, ListDocumentsOutput{
			Documents: infos,
			Count:     len(infos),
		}, nil
	}
}
