package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatCompletionGeneratorSendsPromptOnce(t *testing.T) {
	var calls int
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "gemini-1.5-pro",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "Paracetamol"}, "finish_reason": "stop"}]
		}`))
	}))
	defer srv.Close()

	gen, err := NewGeminiGenerator("test-key", srv.URL+"/")
	require.NoError(t, err)

	text, err := gen.Generate(context.Background(), "gemini-1.5-pro", "Texto da caixa: PARACETAMOL")
	require.NoError(t, err)

	assert.Equal(t, "Paracetamol", text)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "gemini-1.5-pro", got.Model)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "Texto da caixa: PARACETAMOL", got.Messages[0].Content)
}

func TestChatCompletionGeneratorErrors(t *testing.T) {
	t.Run("http error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error": {"message": "quota exceeded", "type": "rate_limit"}}`))
		}))
		defer srv.Close()

		gen, err := NewOpenAIGenerator("k", srv.URL)
		require.NoError(t, err)

		_, err = gen.Generate(context.Background(), "gpt-4o-mini", "p")
		assert.ErrorIs(t, err, ErrGenerationFailed)

		var genErr *GenerationError
		require.ErrorAs(t, err, &genErr)
		assert.Equal(t, "openai", genErr.Provider)
	})

	t.Run("no choices", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id": "x", "choices": []}`))
		}))
		defer srv.Close()

		gen, err := NewOpenAIGenerator("k", srv.URL)
		require.NoError(t, err)

		_, err = gen.Generate(context.Background(), "gpt-4o-mini", "p")
		assert.ErrorIs(t, err, ErrEmptyResponse)
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := NewGeminiGenerator(" ", "")
		assert.ErrorIs(t, err, ErrMissingAPIKey)
	})
}

func TestAnthropicGeneratorJoinsTextBlocks(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/v1/messages", r.URL.Path)

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "claude-3-5-haiku-latest", body["model"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-3-5-haiku-latest",
			"content": [{"type": "text", "text": "Dipirona "}, {"type": "text", "text": "Sódica"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 3}
		}`))
	}))
	defer srv.Close()

	gen, err := NewAnthropicGenerator("k", srv.URL)
	require.NoError(t, err)

	text, err := gen.Generate(context.Background(), "claude-3-5-haiku-latest", "prompt")
	require.NoError(t, err)
	assert.Equal(t, "Dipirona Sódica", text)
	assert.Equal(t, 1, calls)
}

func TestAnthropicGeneratorDoesNotRetry(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"type": "error", "error": {"type": "api_error", "message": "boom"}}`))
	}))
	defer srv.Close()

	gen, err := NewAnthropicGenerator("k", srv.URL)
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), "claude-3-5-haiku-latest", "prompt")
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.Equal(t, 1, calls)
}
