package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog"

	"bula/internal/logger"
)

const anthropicMaxTokens = 2048

// AnthropicGenerator implements Generator with the Claude messages API.
type AnthropicGenerator struct {
	client anthropic.Client
	log    zerolog.Logger
}

// NewAnthropicGenerator creates a generator. An empty baseURL keeps the SDK default.
func NewAnthropicGenerator(apiKey, baseURL string) (*AnthropicGenerator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("anthropic: %w", ErrMissingAPIKey)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(baseURL, "/")))
	}

	return &AnthropicGenerator{
		client: anthropic.NewClient(opts...),
		log:    logger.WithComponent("llm-anthropic"),
	}, nil
}

// Generate sends prompt as a single user message and joins the text blocks of the reply.
func (g *AnthropicGenerator) Generate(ctx context.Context, model, prompt string) (string, error) {
	g.log.Debug().
		Str("model", model).
		Int("prompt_length", len(prompt)).
		Msg("Sending messages request")

	msg, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: anthropicMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", generationError("anthropic", model, err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if len(msg.Content) == 0 {
		return "", generationError("anthropic", model, ErrEmptyResponse)
	}

	return text.String(), nil
}
