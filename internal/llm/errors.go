package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrGenerationFailed is returned when the remote generation call fails.
	ErrGenerationFailed = errors.New("text generation failed")

	// ErrEmptyResponse is returned when the service answered without any candidate.
	ErrEmptyResponse = errors.New("no response choices from model")

	// ErrMissingAPIKey is returned when a provider is constructed without a key.
	ErrMissingAPIKey = errors.New("missing API key")
)

// GenerationError describes a failed call to a language model provider.
type GenerationError struct {
	Provider string
	Model    string
	Err      error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	return fmt.Sprintf("llm: %s (model %s): %v", e.Provider, e.Model, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *GenerationError) Unwrap() error {
	return e.Err
}

func generationError(provider, model string, err error) error {
	return &GenerationError{
		Provider: provider,
		Model:    model,
		Err:      fmt.Errorf("%w: %w", ErrGenerationFailed, err),
	}
}
