package ollamatags

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckModel(t *testing.T) {
	const tags = `{"models":[{"name":"nomic-embed-text:latest","model":"nomic-embed-text:latest"},{"name":"llama3.2:3b","model":"llama3.2:3b"}]}`

	tests := []struct {
		name    string
		status  int
		body    string
		model   string
		wantErr string
	}{
		{name: "untagged matches latest", status: http.StatusOK, body: tags, model: "nomic-embed-text"},
		{name: "exact tag", status: http.StatusOK, body: tags, model: "llama3.2:3b"},
		{name: "other tag missing", status: http.StatusOK, body: tags, model: "llama3.2:1b", wantErr: "ollama pull llama3.2:1b"},
		{name: "untagged does not match other tag", status: http.StatusOK, body: tags, model: "llama3.2", wantErr: "not pulled"},
		{name: "server error", status: http.StatusInternalServerError, body: "boom", model: "x", wantErr: "status 500"},
		{name: "not json", status: http.StatusOK, body: "<html>", model: "x", wantErr: "decode tags"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/tags", r.URL.Path)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := CheckModel(context.Background(), srv.Client(), srv.URL+"/", tt.model)

			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCheckModel_Unreachable(t *testing.T) {
	err := CheckModel(context.Background(), http.DefaultClient, "http://127.0.0.1:1", "x")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ping failed")
}
