package qa

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bull/docqa-server/internal/index"
)

type fakeRetriever struct {
	results []index.Result
	err     error
	topK    int
}

func (f *fakeRetriever) Query(_ context.Context, _ string, topK int) ([]index.Result, error) {
	f.topK = topK
	return f.results, f.err
}

type fakeGenerator struct {
	answer     string
	err        error
	docContext string
	question   string
	called     bool
}

func (f *fakeGenerator) Generate(_ context.Context, docContext, question string) (string, error) {
	f.called = true
	f.docContext = docContext
	f.question = question
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func TestAsk_AnswersWithSources(t *testing.T) {
	retriever := &fakeRetriever{results: []index.Result{
		{DocumentID: "doc-1", ChunkIndex: 0, Text: "first chunk", Score: 0.9},
		{DocumentID: "doc-1", ChunkIndex: 3, Text: "second chunk", Score: 0.7},
	}}
	generator := &fakeGenerator{answer: "The answer is 42."}
	o := New(retriever, generator, nil)

	answer := o.Ask(context.Background(), "what is the answer?", 5)

	assert.Equal(t, "The answer is 42.", answer.Answer)
	assert.Equal(t, 2, answer.TotalSources)
	require.Len(t, answer.Sources, 2)
	assert.Equal(t, "first chunk", answer.Sources[0].Text)

	// Context is the retrieved chunk texts joined by newlines, in order.
	assert.Equal(t, "first chunk\nsecond chunk", generator.docContext)
	assert.Equal(t, "what is the answer?", generator.question)
	assert.Equal(t, 5, retriever.topK)
}

func TestAsk_EmptyRetrievalSkipsGeneration(t *testing.T) {
	generator := &fakeGenerator{answer: "should not be used"}
	o := New(&fakeRetriever{}, generator, nil)

	answer := o.Ask(context.Background(), "anything?", 5)

	assert.Equal(t, NoDataAnswer, answer.Answer)
	assert.Zero(t, answer.TotalSources)
	assert.Empty(t, answer.Sources)
	assert.False(t, generator.called, "generation must not run on empty retrieval")
}

func TestAsk_RetrievalFailureDegrades(t *testing.T) {
	retriever := &fakeRetriever{err: errors.New("qdrant down")}
	generator := &fakeGenerator{}
	o := New(retriever, generator, nil)

	answer := o.Ask(context.Background(), "anything?", 5)

	assert.Equal(t, UnavailableAnswer, answer.Answer)
	assert.False(t, generator.called)
}

func TestAsk_GenerationFailureDegrades(t *testing.T) {
	retriever := &fakeRetriever{results: []index.Result{
		{Text: "chunk", Score: 0.5},
	}}
	generator := &fakeGenerator{err: errors.New("model overloaded")}
	o := New(retriever, generator, nil)

	answer := o.Ask(context.Background(), "anything?", 5)

	assert.Equal(t, UnavailableAnswer, answer.Answer)
	assert.Empty(t, answer.Sources)
}
