package driving

import "github.com/custodia-labs/docqa/internal/core/domain"

// SettingsService reads and edits the persisted settings. Keys are dotted,
// matching config.toml tables ("chunking.size", "llm.provider").
type SettingsService interface {
	// Get returns stored settings over defaults. Environment overrides, when
	// enabled, are applied last.
	Get() (*domain.AppSettings, error)
	Save(settings *domain.AppSettings) error

	// Set parses value for key and stores it; unknown keys and values that
	// fail validation are rejected with domain.ErrInvalidInput.
	Set(key, value string) error
	Keys() []string
	Values() (map[string]string, error)

	SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// Validate checks ranges only; it makes no network calls.
	Validate() error
	GetDefaults() domain.AppSettings

	// ValidateEmbeddingConfig and ValidateLLMConfig ping the configured providers.
	ValidateEmbeddingConfig() error
	ValidateLLMConfig() error
}
