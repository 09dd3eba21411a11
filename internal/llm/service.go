// Package llm wraps the generative-text services used to identify medicine
// names and summarize leaflets.
//
// Providers:
//   - gemini: Gemini through its OpenAI-compatible endpoint (github.com/sashabaranov/go-openai)
//   - openai: OpenAI chat completions (github.com/sashabaranov/go-openai)
//   - anthropic: Claude messages API (github.com/anthropics/anthropic-sdk-go)
//
// Every Generate call is a single attempt; SDK-level retries are disabled so
// the pipeline keeps its at-most-once contract per external call.
package llm

import "context"

// Generator turns a prompt into free-form text.
type Generator interface {
	// Generate sends prompt to model and returns the raw text of the reply.
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, model, prompt string) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, model, prompt string) (string, error) {
	return f(ctx, model, prompt)
}
