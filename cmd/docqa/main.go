// Package main provides the document QA CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bull/docqa-server/internal/chunker"
	"github.com/bull/docqa-server/internal/embedding"
	"github.com/bull/docqa-server/internal/index"
	"github.com/bull/docqa-server/internal/ingest"
	"github.com/bull/docqa-server/internal/pdf"
	"github.com/bull/docqa-server/internal/qa"
	"github.com/bull/docqa-server/internal/storage"
)

var rootCmd = &cobra.Command{
	Use:   "docqa",
	Short: "Document ingestion and question answering tool",
	Long: `CLI for the document QA pipeline: ingest PDFs into Qdrant and ask
questions over the indexed corpus.

Environment variables:
  QDRANT_HOST    Qdrant hostname (default: localhost)
  QDRANT_PORT    Qdrant gRPC port (default: 6334)
  OPENAI_API_KEY OpenAI API key for embeddings and answers (required)
  ENABLE_OCR     Process-wide OCR flag (default: true)
  TESSERACT_PATH Tesseract binary override (default: tesseract on PATH)`,
}

var (
	useOCR bool
	topK   int
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file.pdf>",
	Short: "Ingest a PDF into the index",
	Long: `Extracts every page (text layer first, OCR fallback), analyzes
structured fields, chunks the full text and stores it in Qdrant.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question over the indexed documents",
	Args:  cobra.ExactArgs(1),
	RunE:  runAsk,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List ingested documents",
	RunE:  runList,
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all indexed documents and chunks",
	RunE:  runReset,
}

func init() {
	ingestCmd.Flags().BoolVar(&useOCR, "ocr", true, "run OCR on pages without a text layer")
	askCmd.Flags().IntVar(&topK, "top-k", 0, "number of chunks to retrieve (default 5)")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(resetCmd)
}

func main() {
	// Load .env file if present (local development), ignore if missing (production)
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func connect(ctx context.Context) (*storage.QdrantStorage, error) {
	qdrantHost := getEnv("QDRANT_HOST", "localhost")
	qdrantPort := getEnvInt("QDRANT_PORT", 6334)

	store, err := storage.NewQdrantStorage(qdrantHost, qdrantPort)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Qdrant: %w", err)
	}
	if err := store.EnsureCollection(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to ensure collection: %w", err)
	}
	return store, nil
}

func newRetrieval(store *storage.QdrantStorage) (*index.RetrievalIndex, *embedding.Client, error) {
	embeddingClient, err := embedding.NewClient()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create embedding client: %w", err)
	}
	embedder := embedding.NewEmbedder(embeddingClient, getEnv("EMBEDDING_MODEL", ""), 0)
	return index.New(embedder, store, slog.Default()), embeddingClient, nil
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	path := args[0]

	store, err := connect(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	retrieval, _, err := newRetrieval(store)
	if err != nil {
		return err
	}

	recognizer := pdf.NewTesseract(pdf.TesseractConfig{
		Binary: getEnv("TESSERACT_PATH", ""),
		Lang:   getEnv("TESSERACT_LANG", ""),
	})
	extractor := pdf.NewExtractor(pdf.NewFitzRenderer(), recognizer, slog.Default())
	ingestor := ingest.New(extractor, chunker.New(getEnvInt("CHUNK_SIZE", chunker.DefaultChunkSize)), retrieval, slog.Default())

	ocrAllowed := getEnv("ENABLE_OCR", "true") == "true" && useOCR

	fmt.Printf("Ingesting %s (OCR: %v)...\n", path, ocrAllowed)
	result, err := ingestor.Ingest(ctx, path, filepath.Base(path), ocrAllowed)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Println()
	fmt.Println("Ingestion complete!")
	fmt.Printf("  Document: %s\n", result.DocumentID)
	fmt.Printf("  Pages: %d\n", result.PageCount)
	fmt.Printf("  Chunks: %d\n", result.ChunkCount)
	fmt.Printf("  Duration: %s\n", result.Duration.Round(time.Millisecond))

	for _, page := range result.Pages {
		fmt.Printf("  Page %d: %s\n", page.Number, page.Status)
	}

	for kind, values := range result.Summary.Fields {
		if len(values) > 0 {
			fmt.Printf("  %s: %v\n", kind, values)
		}
	}

	return nil
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	question := args[0]

	store, err := connect(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	retrieval, embeddingClient, err := newRetrieval(store)
	if err != nil {
		return err
	}

	generator := qa.NewChatGenerator(embeddingClient.Client(), "")
	orchestrator := qa.New(retrieval, generator, slog.Default())

	answer := orchestrator.Ask(ctx, question, topK)

	fmt.Println(answer.Answer)
	if answer.TotalSources > 0 {
		fmt.Println()
		fmt.Printf("Sources (%d):\n", answer.TotalSources)
		for _, src := range answer.Sources {
			fmt.Printf("  [%.3f] doc %s chunk %d\n", src.Score, src.DocumentID, src.ChunkIndex)
		}
	}

	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	store, err := connect(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	docs, err := store.ListDocuments(ctx)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		fmt.Println("No documents ingested.")
		return nil
	}

	for _, doc := range docs {
		fmt.Printf("%s  %-30s  %d pages  %s\n",
			doc.ID, doc.Filename, doc.PageCount, doc.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runReset(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	store, err := connect(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	fmt.Println("Clearing collection...")
	if err := store.ClearCollection(ctx); err != nil {
		return fmt.Errorf("failed to clear collection: %w", err)
	}
	fmt.Println("Collection cleared")
	return nil
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
