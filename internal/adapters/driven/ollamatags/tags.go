// Package ollamatags checks that an Ollama server is up and has a model
// pulled, for the Ping of the Ollama embedding and LLM adapters.
package ollamatags

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type tagsResponse struct {
	Models []struct {
		Name  string `json:"name"`
		Model string `json:"model"`
	} `json:"models"`
}

// CheckModel lists the server's local models and fails when model is not
// among them. A model without a tag matches its ":latest" variant.
func CheckModel(ctx context.Context, client *http.Client, baseURL, model string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(baseURL, "/")+"/api/tags", http.NoBody)
	if err != nil {
		return fmt.Errorf("ollama: failed to create ping request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama: ping failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("ollama: read tags: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama: API returned status %d: %s", resp.StatusCode, body)
	}

	var tags tagsResponse
	if err := json.Unmarshal(body, &tags); err != nil {
		return fmt.Errorf("ollama: decode tags: %w", err)
	}
	for _, m := range tags.Models {
		if matches(m.Name, model) || matches(m.Model, model) {
			return nil
		}
	}
	return fmt.Errorf("ollama: model %q is not pulled (run: ollama pull %s)", model, model)
}

func matches(local, want string) bool {
	if local == want {
		return true
	}
	return !strings.Contains(want, ":") && local == want+":latest"
}
