package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questline/internal/logging"
	"questline/internal/xerrors"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestOpenAIClientComplete(t *testing.T) {
	var gotBody map[string]any
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "hello"}, "finish_reason": "stop"},
			},
			"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
		})
	})

	client, err := NewOpenAIClient(Config{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Model:   "gpt-4o-mini",
	}, logging.Nop())
	require.NoError(t, err)

	resp, err := client.Complete(context.Background(), CompletionRequest{
		System:      "be terse",
		User:        "say hello",
		Temperature: 0.3,
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", resp.Content)
	assert.Equal(t, "stop", resp.StopReason)
	assert.Equal(t, 15, resp.Usage.TotalTokens)
	assert.NotEmpty(t, resp.RequestID)

	assert.Equal(t, "gpt-4o-mini", gotBody["model"])
	assert.Equal(t, 0.3, gotBody["temperature"])
	messages := gotBody["messages"].([]any)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	assert.Equal(t, "user", messages[1].(map[string]any)["role"])
}

func TestOpenAIClientMapsHTTPErrors(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "slow down"}}`))
	})

	client, err := NewOpenAIClient(Config{BaseURL: server.URL, Model: "m"}, logging.Nop())
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), CompletionRequest{User: "hi"})
	require.Error(t, err)

	var backendErr *xerrors.BackendError
	require.ErrorAs(t, err, &backendErr)
	assert.Equal(t, http.StatusTooManyRequests, backendErr.StatusCode)
	assert.True(t, backendErr.Temporary())
}

func TestOpenAIClientEmptyChoices(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	})

	client, err := NewOpenAIClient(Config{BaseURL: server.URL, Model: "m"}, logging.Nop())
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), CompletionRequest{User: "hi"})
	require.Error(t, err)
	assert.True(t, xerrors.IsBackend(err))
}

func TestOpenAIClientHonorsCancellation(t *testing.T) {
	release := make(chan struct{})
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
	})
	defer close(release)

	client, err := NewOpenAIClient(Config{BaseURL: server.URL, Model: "m", Timeout: time.Minute}, logging.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = client.Complete(ctx, CompletionRequest{User: "hi"})
	require.Error(t, err)
	var backendErr *xerrors.BackendError
	require.ErrorAs(t, err, &backendErr)
	assert.True(t, backendErr.Temporary())
}

func TestOpenAIClientRequiresModel(t *testing.T) {
	_, err := NewOpenAIClient(Config{}, logging.Nop())
	require.Error(t, err)
}
