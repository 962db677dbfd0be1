package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with its tool dependencies.
type Server struct {
	server   *mcp.Server
	searcher Searcher
	asker    Asker
	lister   DocumentLister
}

// Config holds server dependencies.
type Config struct {
	Searcher Searcher
	Asker    Asker
	Lister   DocumentLister
}

// NewServer creates a configured MCP server with tools registered.
func NewServer(cfg *Config) *Server {
	impl := &mcp.Implementation{
		Name:    "docqa-server",
		Version: "v0.1.0",
	}

	server := mcp.NewServer(impl, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_document",
		Description: "Search ingested PDF documents semantically. Returns the best-matching text chunks with similarity scores.",
	}, makeSearchHandler(cfg.Searcher))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ask_document",
		Description: "Ask a natural-language question over the ingested PDF documents. Returns a generated answer grounded on retrieved chunks.",
	}, makeAskHandler(cfg.Asker))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List all ingested documents with their page counts and extracted field summaries.",
	}, makeListHandler(cfg.Lister))

	return &Server{
		server:   server,
		searcher: cfg.Searcher,
		asker:    cfg.Asker,
		lister:   cfg.Lister,
	}
}

// Run starts the server with stdio transport (blocks until client disconnects).
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// MCPServer returns the underlying MCP server instance.
// Used by transport handlers that need to wrap the server.
func (s *Server) MCPServer() *mcp.Server {
	return s.server
}
