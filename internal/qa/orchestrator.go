// Package qa answers questions over the indexed corpus. Retrieval feeds
// a generation model; downstream failures degrade to fixed sentinel
// answers instead of surfacing as errors.
package qa

import (
	"context"
	"log/slog"
	"strings"

	"github.com/bull/docqa-server/internal/index"
)

const (
	// NoDataAnswer is returned when retrieval finds nothing relevant.
	NoDataAnswer = "No relevant data found in document."

	// UnavailableAnswer is returned when retrieval or generation fails.
	UnavailableAnswer = "AI service temporarily unavailable."
)

// Retriever is the slice of the retrieval index the orchestrator needs.
type Retriever interface {
	Query(ctx context.Context, question string, topK int) ([]index.Result, error)
}

// Generator produces an answer from a document context and a question.
type Generator interface {
	Generate(ctx context.Context, docContext, question string) (string, error)
}

// Answer is the result of one question, including the chunks it was
// grounded on. TotalSources is zero for sentinel answers.
type Answer struct {
	Answer       string         `json:"answer"`
	Sources      []index.Result `json:"sources,omitempty"`
	TotalSources int            `json:"total_sources"`
}

// Orchestrator wires retrieval to generation.
type Orchestrator struct {
	retriever Retriever
	generator Generator
	logger    *slog.Logger
}

// New creates an Orchestrator. A nil logger falls back to slog.Default().
func New(retriever Retriever, generator Generator, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		retriever: retriever,
		generator: generator,
		logger:    logger,
	}
}

// Ask retrieves the topK most relevant chunks for the question and asks
// the generator for an answer grounded on them. Empty retrieval yields
// NoDataAnswer without invoking generation; retrieval or generation
// failure yields UnavailableAnswer. Ask never returns a downstream error
// to the caller.
func (o *Orchestrator) Ask(ctx context.Context, question string, topK int) *Answer {
	results, err := o.retriever.Query(ctx, question, topK)
	if err != nil {
		o.logger.Warn("retrieval failed", "error", err)
		return &Answer{Answer: UnavailableAnswer}
	}
	if len(results) == 0 {
		return &Answer{Answer: NoDataAnswer}
	}

	texts := make([]string, len(results))
	for i, r := range results {
		texts[i] = r.Text
	}
	docContext := strings.Join(texts, "\n")

	answer, err := o.generator.Generate(ctx, docContext, question)
	if err != nil {
		o.logger.Warn("generation failed", "error", err)
		return &Answer{Answer: UnavailableAnswer}
	}

	return &Answer{
		Answer:       answer,
		Sources:      results,
		TotalSources: len(results),
	}
}
