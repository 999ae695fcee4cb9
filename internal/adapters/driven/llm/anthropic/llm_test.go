package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docagent/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docagent/internal/core/domain"
)

func noRetries() *int {
	n := 0
	return &n
}

func TestNewAnswerer_RequiresKey(t *testing.T) {
	_, err := NewAnswerer(Config{})
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestNewAnswerer_Defaults(t *testing.T) {
	a, err := NewAnswerer(Config{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, a.ModelName())
	assert.Equal(t, int64(DefaultMaxTokens), a.maxTokens)
}

func TestAnswerer_Answer(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-test",
			"content": [
				{"type": "text", "text": "Use File > Import. "},
				{"type": "text", "text": "See excerpt 1."}
			],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 5}
		}`))
	}))
	defer server.Close()

	a, err := NewAnswerer(Config{APIKey: "test-key", BaseURL: server.URL, Model: "claude-test", MaxRetries: noRetries()})
	require.NoError(t, err)

	text, err := a.Answer(context.Background(), "How do I import?", "[Excerpt 1] open the import menu")
	require.NoError(t, err)
	assert.Equal(t, "Use File > Import. See excerpt 1.", text)

	assert.Equal(t, "claude-test", body["model"])
	assert.EqualValues(t, DefaultMaxTokens, body["max_tokens"])
	assert.InDelta(t, DefaultTemperature, body["temperature"], 1e-9)

	raw, err := json.Marshal(body["messages"])
	require.NoError(t, err)
	assert.Contains(t, string(raw), "How do I import?")
	assert.Contains(t, string(raw), "[Excerpt 1] open the import menu")
}

func TestAnswerer_Answer_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	}))
	defer server.Close()

	a, err := NewAnswerer(Config{APIKey: "bad", BaseURL: server.URL, MaxRetries: noRetries()})
	require.NoError(t, err)

	_, err = a.Answer(context.Background(), "q", "c")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestConfigFromStore(t *testing.T) {
	env := map[string]string{EnvAPIKey: "env-key", EnvModel: "env-model"}
	getenv := func(k string) string { return env[k] }

	c := ConfigFromStore(memory.NewConfigStore(nil), getenv)
	assert.Equal(t, "env-key", c.APIKey)
	assert.Equal(t, "env-model", c.Model)

	c = ConfigFromStore(memory.NewConfigStore(map[string]any{ConfigAPIKey: "cfg-key", ConfigModel: "cfg-model"}), getenv)
	assert.Equal(t, "cfg-key", c.APIKey)
	assert.Equal(t, "cfg-model", c.Model)
}
