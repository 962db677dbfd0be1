package qa

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
)

const promptTemplate = `You are an expert document analyst.

Use ONLY the document content below.

If the question asks for lists or multiple values,
return results in clean bullet points or tables.

Document:
%s

Question:
%s

Answer clearly.`

// ChatGenerator produces answers with an OpenAI chat model.
type ChatGenerator struct {
	client *openai.Client
	model  openai.ChatModel
}

// NewChatGenerator creates a generator using the given OpenAI client.
// An empty model defaults to GPT-4o.
func NewChatGenerator(client *openai.Client, model openai.ChatModel) *ChatGenerator {
	if model == "" {
		model = openai.ChatModelGPT4o
	}
	return &ChatGenerator{
		client: client,
		model:  model,
	}
}

// Generate answers the question against the given document context.
func (g *ChatGenerator) Generate(ctx context.Context, docContext, question string) (string, error) {
	prompt := fmt.Sprintf(promptTemplate, docContext, question)

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: g.model,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
