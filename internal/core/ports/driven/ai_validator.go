package driven

import "github.com/custodia-labs/docqa/internal/core/domain"

// AIConfigValidator checks provider settings before they are saved or used
// by doctor. A nil error means the provider answered a ping.
type AIConfigValidator interface {
	ValidateEmbedding(config *domain.EmbeddingSettings) error
	ValidateLLM(config *domain.LLMSettings) error
}
