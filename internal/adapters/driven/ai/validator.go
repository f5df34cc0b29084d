package ai

import (
	"fmt"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure ConfigValidator implements the interface.
var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// ConfigValidator checks provider settings before they are relied on.
// Every docqa pipeline needs both providers, so an unconfigured provider
// is an error rather than something to skip.
type ConfigValidator struct{}

// NewConfigValidator creates a new AI config validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// ValidateEmbedding checks the embedding provider is configured and reachable.
// A nil config has nothing to validate.
func (v *ConfigValidator) ValidateEmbedding(config *domain.EmbeddingSettings) error {
	if config == nil {
		return nil
	}
	if !config.IsConfigured() {
		return fmt.Errorf("%w: provider %q is not configured for embeddings",
			domain.ErrEmbeddingUnavailable, config.Provider)
	}
	if err := ValidateEmbeddingConfig(config); err != nil {
		return fmt.Errorf("%w: %s (%s): %w", domain.ErrEmbeddingUnavailable, config.Provider, config.Model, err)
	}
	return nil
}

// ValidateLLM checks the LLM provider is configured and reachable.
// A nil config has nothing to validate.
func (v *ConfigValidator) ValidateLLM(config *domain.LLMSettings) error {
	if config == nil {
		return nil
	}
	if !config.IsConfigured() {
		return fmt.Errorf("%w: provider %q is not configured for generation",
			domain.ErrLLMUnavailable, config.Provider)
	}
	if err := ValidateLLMConfig(config); err != nil {
		return fmt.Errorf("%w: %s (%s): %w", domain.ErrLLMUnavailable, config.Provider, config.Model, err)
	}
	return nil
}
