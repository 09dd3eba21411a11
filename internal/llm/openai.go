package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"bula/internal/logger"
)

// GeminiOpenAIBaseURL is Gemini's OpenAI-compatible endpoint.
const GeminiOpenAIBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"

// ChatCompletionGenerator implements Generator on top of the chat completions API.
type ChatCompletionGenerator struct {
	provider string
	client   *openai.Client
	log      zerolog.Logger
}

// NewGeminiGenerator creates a generator that talks to Gemini through its
// OpenAI-compatible endpoint. An empty baseURL selects GeminiOpenAIBaseURL.
func NewGeminiGenerator(apiKey, baseURL string) (*ChatCompletionGenerator, error) {
	if baseURL == "" {
		baseURL = GeminiOpenAIBaseURL
	}
	return newChatCompletionGenerator("gemini", apiKey, baseURL)
}

// NewOpenAIGenerator creates a generator for OpenAI. An empty baseURL keeps the SDK default.
func NewOpenAIGenerator(apiKey, baseURL string) (*ChatCompletionGenerator, error) {
	return newChatCompletionGenerator("openai", apiKey, baseURL)
}

func newChatCompletionGenerator(provider, apiKey, baseURL string) (*ChatCompletionGenerator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%s: %w", provider, ErrMissingAPIKey)
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = strings.TrimRight(baseURL, "/")
	}

	return &ChatCompletionGenerator{
		provider: provider,
		client:   openai.NewClientWithConfig(config),
		log:      logger.WithComponent("llm-" + provider),
	}, nil
}

// Generate sends prompt as a single user message.
func (g *ChatCompletionGenerator) Generate(ctx context.Context, model, prompt string) (string, error) {
	g.log.Debug().
		Str("model", model).
		Int("prompt_length", len(prompt)).
		Msg("Sending chat completion request")

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return "", generationError(g.provider, model, err)
	}

	if len(resp.Choices) == 0 {
		return "", generationError(g.provider, model, ErrEmptyResponse)
	}

	content := resp.Choices[0].Message.Content
	g.log.Debug().
		Str("model", model).
		Int("response_length", len(content)).
		Msg("Received chat completion response")

	return content, nil
}
