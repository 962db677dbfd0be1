// Package main provides the HTTP server entry point for the document QA
// service.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/bull/docqa-server/internal/chunker"
	"github.com/bull/docqa-server/internal/embedding"
	"github.com/bull/docqa-server/internal/export"
	"github.com/bull/docqa-server/internal/index"
	"github.com/bull/docqa-server/internal/ingest"
	mcpserver "github.com/bull/docqa-server/internal/mcp"
	"github.com/bull/docqa-server/internal/pdf"
	"github.com/bull/docqa-server/internal/qa"
	"github.com/bull/docqa-server/internal/server"
	"github.com/bull/docqa-server/internal/storage"
)

func main() {
	// Load .env file if present (local development), ignore if missing (production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	// Create context that cancels on SIGTERM/SIGINT
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	// Configuration from environment
	qdrantHost := getEnv("QDRANT_HOST", "localhost")
	qdrantPort := getEnvInt("QDRANT_PORT", 6334)
	port := getEnv("PORT", "8080")
	uploadDir := getEnv("UPLOAD_DIR", "uploads/pdfs")
	ocrEnabled := getEnv("ENABLE_OCR", "true") == "true"
	chunkSize := getEnvInt("CHUNK_SIZE", chunker.DefaultChunkSize)

	// Initialize storage
	store, err := storage.NewQdrantStorage(qdrantHost, qdrantPort)
	if err != nil {
		log.Fatalf("failed to connect to Qdrant: %v", err)
	}
	defer store.Close()

	// Ensure collection exists
	if err := store.EnsureCollection(ctx); err != nil {
		log.Fatalf("failed to ensure collection: %v", err)
	}

	// Initialize embedding client
	embeddingClient, err := embedding.NewClient()
	if err != nil {
		log.Fatalf("failed to create embedding client: %v", err)
	}
	embedder := embedding.NewEmbedder(embeddingClient, getEnv("EMBEDDING_MODEL", ""), 0)

	// Ingestion pipeline
	recognizer := pdf.NewTesseract(pdf.TesseractConfig{
		Binary: getEnv("TESSERACT_PATH", ""),
		Lang:   getEnv("TESSERACT_LANG", ""),
	})
	extractor := pdf.NewExtractor(pdf.NewFitzRenderer(), recognizer, logger)
	retrieval := index.New(embedder, store, logger)
	ingestor := ingest.New(extractor, chunker.New(chunkSize), retrieval, logger)

	// QA pipeline
	generator := qa.NewChatGenerator(embeddingClient.Client(), "")
	orchestrator := qa.New(retrieval, generator, logger)

	// MCP server
	mcpSrv := mcpserver.NewServer(&mcpserver.Config{
		Searcher: retrieval,
		Asker:    orchestrator,
		Lister:   store,
	})

	// HTTP API
	api := server.New(&server.Config{
		Ingestor:   ingestor,
		Asker:      orchestrator,
		Exporter:   export.NewService(logger),
		Store:      store,
		UploadDir:  uploadDir,
		OCREnabled: ocrEnabled,
		Logger:     logger,
	})

	mux := http.NewServeMux()
	api.Routes(mux)
	mux.Handle("/mcp", mcpserver.NewHTTPHandler(mcpSrv, nil))

	// Stdio mode runs the MCP server over stdin/stdout for local clients.
	if getEnv("MCP_STDIO", "false") == "true" {
		log.Println("Starting document QA MCP server (stdio mode)...")
		if err := mcpSrv.Run(ctx); err != nil {
			log.Printf("server error: %v", err)
			os.Exit(1)
		}
		return
	}

	httpServer := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}()

	log.Printf("Starting HTTP server on %s (API at /, MCP at /mcp, health at /health)", httpServer.Addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("HTTP server error: %v", err)
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		var i int
		if _, err := fmt.Sscanf(v, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}
