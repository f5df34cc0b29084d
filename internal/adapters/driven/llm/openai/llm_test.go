package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *LLMService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	svc, err := NewLLMService(LLMConfig{APIKey: "sk-test", BaseURL: server.URL})
	require.NoError(t, err)
	return svc
}

func TestNewLLMService(t *testing.T) {
	_, err := NewLLMService(LLMConfig{})
	assert.Error(t, err)

	svc, err := NewLLMService(LLMConfig{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, DefaultLLMModel, svc.ModelName())
}

func TestGenerate_SendsZeroTemperature(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var raw map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		assert.Equal(t, float64(0), raw["temperature"])
		assert.Equal(t, []any{map[string]any{"role": "user", "content": "prompt"}}, raw["messages"])

		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Paris"},"finish_reason":"stop"}]}`))
	})

	answer, err := svc.Generate(context.Background(), "prompt", driven.GenerateOptions{
		Temperature: driven.Temperature(0),
	})

	require.NoError(t, err)
	assert.Equal(t, "Paris", answer)
}

func TestGenerate_OmitsUnsetTemperature(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, present := raw["temperature"]
		assert.False(t, present)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	})

	_, err := svc.Generate(context.Background(), "p", driven.GenerateOptions{})

	require.NoError(t, err)
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name string
		code int
		body string
		want string
	}{
		{name: "api error", code: http.StatusUnauthorized, body: `{"error":{"message":"invalid key"}}`, want: "invalid key"},
		{name: "no choices", code: http.StatusOK, body: `{"choices":[]}`, want: "no response choices"},
		{name: "malformed", code: http.StatusOK, body: `<html>`, want: "decode response"},
		{name: "status", code: http.StatusServiceUnavailable, body: `{}`, want: "status 503"},
		{name: "refusal", code: http.StatusOK, body: `{"choices":[{"message":{"refusal":"cannot help"}}]}`, want: "cannot help"},
		{name: "content filter", code: http.StatusOK, body: `{"choices":[{"message":{"content":""},"finish_reason":"content_filter"}]}`, want: "content filter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.code)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := svc.Generate(context.Background(), "p", driven.GenerateOptions{})

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestPing(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	assert.NoError(t, svc.Ping(context.Background()))
	assert.NoError(t, svc.Close())
}
