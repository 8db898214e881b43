package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-ats-go/internal/config"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestNewOpenAIChatModelRequiresAPIKey(t *testing.T) {
	_, err := NewOpenAIChatModel(config.LLMConfig{APIKey: "  "})
	assert.Error(t, err)
}

func TestGenerateSuccess(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req chatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		assert.Equal(t, 800, req.MaxTokens)
		require.Len(t, req.Messages, 2)

		content := "Consider adding Rust projects."
		resp := chatCompletionResponse{
			Choices: []chatChoice{{}},
		}
		resp.Choices[0].Message.Role = "assistant"
		resp.Choices[0].Message.Content = &content
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	m, err := NewOpenAIChatModel(
		config.LLMConfig{APIKey: "test-key", APIURL: server.URL, Model: "test-model"},
		WithMaxTokens(800),
	)
	require.NoError(t, err)

	resp, err := m.Generate(context.Background(), []*schema.Message{
		{Role: schema.System, Content: "you are a reviewer"},
		{Role: schema.User, Content: "review this resume"},
	})
	require.NoError(t, err)
	assert.Equal(t, schema.Assistant, resp.Role)
	assert.Equal(t, "Consider adding Rust projects.", resp.Content)
}

func TestGenerateAPIError(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	})

	m, err := NewOpenAIChatModel(config.LLMConfig{APIKey: "k", APIURL: server.URL})
	require.NoError(t, err)

	_, err = m.Generate(context.Background(), []*schema.Message{{Role: schema.User, Content: "hi"}})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.True(t, apiErr.Transient())
}

func TestGenerateAuthErrorNotTransient(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid api key", http.StatusUnauthorized)
	})

	m, err := NewOpenAIChatModel(config.LLMConfig{APIKey: "bad", APIURL: server.URL})
	require.NoError(t, err)

	_, err = m.Generate(context.Background(), []*schema.Message{{Role: schema.User, Content: "hi"}})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.False(t, apiErr.Transient())
}

func TestGenerateEmptyChoices(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(chatCompletionResponse{}))
	})

	m, err := NewOpenAIChatModel(config.LLMConfig{APIKey: "k", APIURL: server.URL})
	require.NoError(t, err)

	_, err = m.Generate(context.Background(), []*schema.Message{{Role: schema.User, Content: "hi"}})
	assert.Error(t, err)
}
