package services

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/kelseyhightower/envconfig"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyChunkSize      = "chunking.size"
	keyChunkOverlap   = "chunking.overlap"
	keyTopK           = "retrieval.top_k"
	keyEmbedProvider  = "embedding.provider"
	keyEmbedModel     = "embedding.model"
	keyEmbedBaseURL   = "embedding.base_url"
	keyEmbedAPIKey    = "embedding.api_key"
	keyEmbedBatchSize = "embedding.batch_size"
	keyEmbedConc      = "embedding.concurrency"
	keyEmbedRate      = "embedding.rate_per_second"
	keyLLMProvider    = "llm.provider"
	keyLLMModel       = "llm.model"
	keyLLMBaseURL     = "llm.base_url"
	keyLLMAPIKey      = "llm.api_key"
	keyOCRLanguage    = "ocr.language"
	keyOCRTesseract   = "ocr.tesseract_path"
	keyOCRPdftoppm    = "ocr.pdftoppm_path"
	keyOCRAntiword    = "ocr.antiword_path"
	keyIngestConc     = "ingest.concurrency"
	keyIngestTimeout  = "ingest.build_timeout_seconds"
)

const (
	// DefaultEnvPrefix is the prefix for environment overrides.
	DefaultEnvPrefix = "DOCQA"

	defaultOllamaURL   = "http://localhost:11434"
	settingsKeyInvalid = "unknown setting"
)

// settingKeys lists every key accepted by Set, in display order.
var settingKeys = []string{
	keyChunkSize, keyChunkOverlap, keyTopK,
	keyEmbedProvider, keyEmbedModel, keyEmbedBaseURL, keyEmbedAPIKey,
	keyEmbedBatchSize, keyEmbedConc, keyEmbedRate,
	keyLLMProvider, keyLLMModel, keyLLMBaseURL, keyLLMAPIKey,
	keyOCRLanguage, keyOCRTesseract, keyOCRPdftoppm, keyOCRAntiword,
	keyIngestConc, keyIngestTimeout,
}

// envSettings are environment overrides, e.g. DOCQA_EMBEDDING_PROVIDER.
// Fields are strings so that unset variables can be told apart from zero.
type envSettings struct {
	ChunkSize      string `envconfig:"CHUNKING_SIZE"`
	ChunkOverlap   string `envconfig:"CHUNKING_OVERLAP"`
	TopK           string `envconfig:"RETRIEVAL_TOP_K"`
	EmbedProvider  string `envconfig:"EMBEDDING_PROVIDER"`
	EmbedModel     string `envconfig:"EMBEDDING_MODEL"`
	EmbedBaseURL   string `envconfig:"EMBEDDING_BASE_URL"`
	EmbedAPIKey    string `envconfig:"EMBEDDING_API_KEY"`
	EmbedBatchSize string `envconfig:"EMBEDDING_BATCH_SIZE"`
	EmbedConc      string `envconfig:"EMBEDDING_CONCURRENCY"`
	EmbedRate      string `envconfig:"EMBEDDING_RATE_PER_SECOND"`
	LLMProvider    string `envconfig:"LLM_PROVIDER"`
	LLMModel       string `envconfig:"LLM_MODEL"`
	LLMBaseURL     string `envconfig:"LLM_BASE_URL"`
	LLMAPIKey      string `envconfig:"LLM_API_KEY"`
	OCRLanguage    string `envconfig:"OCR_LANGUAGE"`
	OCRTesseract   string `envconfig:"OCR_TESSERACT_PATH"`
	OCRPdftoppm    string `envconfig:"OCR_PDFTOPPM_PATH"`
	OCRAntiword    string `envconfig:"OCR_ANTIWORD_PATH"`
	IngestConc     string `envconfig:"INGEST_CONCURRENCY"`
	IngestTimeout  string `envconfig:"INGEST_BUILD_TIMEOUT_SECONDS"`
}

// values maps each set variable to its config key.
func (e envSettings) values() map[string]string {
	all := map[string]string{
		keyChunkSize:      e.ChunkSize,
		keyChunkOverlap:   e.ChunkOverlap,
		keyTopK:           e.TopK,
		keyEmbedProvider:  e.EmbedProvider,
		keyEmbedModel:     e.EmbedModel,
		keyEmbedBaseURL:   e.EmbedBaseURL,
		keyEmbedAPIKey:    e.EmbedAPIKey,
		keyEmbedBatchSize: e.EmbedBatchSize,
		keyEmbedConc:      e.EmbedConc,
		keyEmbedRate:      e.EmbedRate,
		keyLLMProvider:    e.LLMProvider,
		keyLLMModel:       e.LLMModel,
		keyLLMBaseURL:     e.LLMBaseURL,
		keyLLMAPIKey:      e.LLMAPIKey,
		keyOCRLanguage:    e.OCRLanguage,
		keyOCRTesseract:   e.OCRTesseract,
		keyOCRPdftoppm:    e.OCRPdftoppm,
		keyOCRAntiword:    e.OCRAntiword,
		keyIngestConc:     e.IngestConc,
		keyIngestTimeout:  e.IngestTimeout,
	}
	for k, v := range all {
		if strings.TrimSpace(v) == "" {
			delete(all, k)
		}
	}
	return all
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	envPrefix   string
}

// SettingsOption configures a SettingsService.
type SettingsOption func(*SettingsService)

// WithEnvPrefix enables environment overrides with the given prefix.
func WithEnvPrefix(prefix string) SettingsOption {
	return func(s *SettingsService) {
		s.envPrefix = prefix
	}
}

// NewSettingsService creates a new settings service.
func NewSettingsService(
	configStore driven.ConfigStore,
	aiValidator driven.AIConfigValidator,
	opts ...SettingsOption,
) *SettingsService {
	s := &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get retrieves current application settings.
// Environment overrides take precedence over stored values.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	settings := s.stored()
	if err := s.applyEnv(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// stored reads settings from the config store only.
func (s *SettingsService) stored() *domain.AppSettings {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Chunking: domain.ChunkingSettings{
			Size:    s.getInt(keyChunkSize, defaults.Chunking.Size),
			Overlap: s.getInt(keyChunkOverlap, defaults.Chunking.Overlap),
		},
		Retrieval: domain.RetrievalSettings{
			TopK: s.getInt(keyTopK, defaults.Retrieval.TopK),
		},
		Embedding: domain.EmbeddingSettings{
			Provider:      s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:         s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:       s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:        s.configStore.GetString(keyEmbedAPIKey),
			BatchSize:     s.getInt(keyEmbedBatchSize, defaults.Embedding.BatchSize),
			Concurrency:   s.getInt(keyEmbedConc, defaults.Embedding.Concurrency),
			RatePerSecond: s.getFloat(keyEmbedRate, defaults.Embedding.RatePerSecond),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL),
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
		OCR: domain.OCRSettings{
			Language:      s.getString(keyOCRLanguage, defaults.OCR.Language),
			TesseractPath: s.getString(keyOCRTesseract, defaults.OCR.TesseractPath),
			PdftoppmPath:  s.getString(keyOCRPdftoppm, defaults.OCR.PdftoppmPath),
			AntiwordPath:  s.getString(keyOCRAntiword, defaults.OCR.AntiwordPath),
		},
		Ingest: domain.IngestSettings{
			Concurrency:         s.getInt(keyIngestConc, defaults.Ingest.Concurrency),
			BuildTimeoutSeconds: s.getInt(keyIngestTimeout, defaults.Ingest.BuildTimeoutSeconds),
		},
	}

	return settings
}

// applyEnv overlays environment variables onto settings.
func (s *SettingsService) applyEnv(settings *domain.AppSettings) error {
	if s.envPrefix == "" {
		return nil
	}

	var env envSettings
	if err := envconfig.Process(s.envPrefix, &env); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}

	for key, value := range env.values() {
		if err := assign(settings, key, value); err != nil {
			return fmt.Errorf("%s_%s: %w", s.envPrefix, envName(key), err)
		}
	}
	return nil
}

// envName converts a config key to its environment variable suffix.
func envName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyChunkSize, settings.Chunking.Size},
		{keyChunkOverlap, settings.Chunking.Overlap},
		{keyTopK, settings.Retrieval.TopK},
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyEmbedBatchSize, settings.Embedding.BatchSize},
		{keyEmbedConc, settings.Embedding.Concurrency},
		{keyEmbedRate, settings.Embedding.RatePerSecond},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyOCRLanguage, settings.OCR.Language},
		{keyOCRTesseract, settings.OCR.TesseractPath},
		{keyOCRPdftoppm, settings.OCR.PdftoppmPath},
		{keyOCRAntiword, settings.OCR.AntiwordPath},
		{keyIngestConc, settings.Ingest.Concurrency},
		{keyIngestTimeout, settings.Ingest.BuildTimeoutSeconds},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	// API keys are only written when present so that clearing a provider
	// never erases a key stored for it.
	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}
	if settings.LLM.APIKey != "" {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}

	return nil
}

// Keys returns all recognised setting keys.
func (s *SettingsService) Keys() []string {
	return slices.Clone(settingKeys)
}

// Set parses and stores a single setting. The resulting settings must validate.
func (s *SettingsService) Set(key, value string) error {
	if !slices.Contains(settingKeys, key) {
		return fmt.Errorf("%w: %s %q", domain.ErrInvalidInput, settingsKeyInvalid, key)
	}

	settings := s.stored()
	if err := assign(settings, key, value); err != nil {
		return err
	}
	if err := validate(settings); err != nil {
		return err
	}

	return s.Save(settings)
}

// assign parses value into the field named by key.
//
//nolint:gocyclo // One case per setting key.
func assign(settings *domain.AppSettings, key, value string) error {
	value = strings.TrimSpace(value)

	var err error
	switch key {
	case keyChunkSize:
		settings.Chunking.Size, err = parseInt(key, value)
	case keyChunkOverlap:
		settings.Chunking.Overlap, err = parseInt(key, value)
	case keyTopK:
		settings.Retrieval.TopK, err = parseInt(key, value)
	case keyEmbedProvider:
		settings.Embedding.Provider, err = parseProvider(key, value)
	case keyEmbedModel:
		settings.Embedding.Model = value
	case keyEmbedBaseURL:
		settings.Embedding.BaseURL = value
	case keyEmbedAPIKey:
		settings.Embedding.APIKey = value
	case keyEmbedBatchSize:
		settings.Embedding.BatchSize, err = parseInt(key, value)
	case keyEmbedConc:
		settings.Embedding.Concurrency, err = parseInt(key, value)
	case keyEmbedRate:
		settings.Embedding.RatePerSecond, err = strconv.ParseFloat(value, 64)
		if err != nil {
			err = fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, key)
		}
	case keyLLMProvider:
		settings.LLM.Provider, err = parseProvider(key, value)
	case keyLLMModel:
		settings.LLM.Model = value
	case keyLLMBaseURL:
		settings.LLM.BaseURL = value
	case keyLLMAPIKey:
		settings.LLM.APIKey = value
	case keyOCRLanguage:
		settings.OCR.Language = value
	case keyOCRTesseract:
		settings.OCR.TesseractPath = value
	case keyOCRPdftoppm:
		settings.OCR.PdftoppmPath = value
	case keyOCRAntiword:
		settings.OCR.AntiwordPath = value
	case keyIngestConc:
		settings.Ingest.Concurrency, err = parseInt(key, value)
	case keyIngestTimeout:
		settings.Ingest.BuildTimeoutSeconds, err = parseInt(key, value)
	default:
		err = fmt.Errorf("%w: %s %q", domain.ErrInvalidInput, settingsKeyInvalid, key)
	}
	return err
}

// Values returns every setting key with its effective value, environment
// overrides included.
func (s *SettingsService) Values() (map[string]string, error) {
	settings, err := s.Get()
	if err != nil {
		return nil, err
	}
	return settingValues(settings), nil
}

// settingValues is the inverse of assign.
func settingValues(settings *domain.AppSettings) map[string]string {
	return map[string]string{
		keyChunkSize:      strconv.Itoa(settings.Chunking.Size),
		keyChunkOverlap:   strconv.Itoa(settings.Chunking.Overlap),
		keyTopK:           strconv.Itoa(settings.Retrieval.TopK),
		keyEmbedProvider:  settings.Embedding.Provider.String(),
		keyEmbedModel:     settings.Embedding.Model,
		keyEmbedBaseURL:   settings.Embedding.BaseURL,
		keyEmbedAPIKey:    settings.Embedding.APIKey,
		keyEmbedBatchSize: strconv.Itoa(settings.Embedding.BatchSize),
		keyEmbedConc:      strconv.Itoa(settings.Embedding.Concurrency),
		keyEmbedRate:      strconv.FormatFloat(settings.Embedding.RatePerSecond, 'g', -1, 64),
		keyLLMProvider:    settings.LLM.Provider.String(),
		keyLLMModel:       settings.LLM.Model,
		keyLLMBaseURL:     settings.LLM.BaseURL,
		keyLLMAPIKey:      settings.LLM.APIKey,
		keyOCRLanguage:    settings.OCR.Language,
		keyOCRTesseract:   settings.OCR.TesseractPath,
		keyOCRPdftoppm:    settings.OCR.PdftoppmPath,
		keyOCRAntiword:    settings.OCR.AntiwordPath,
		keyIngestConc:     strconv.Itoa(settings.Ingest.Concurrency),
		keyIngestTimeout:  strconv.Itoa(settings.Ingest.BuildTimeoutSeconds),
	}
}

func parseInt(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
	}
	return n, nil
}

func parseProvider(key, value string) (domain.AIProvider, error) {
	p := domain.AIProvider(strings.ToLower(value))
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %s: unknown provider %q", domain.ErrInvalidInput, key, value)
	}
	return p, nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}
	if !slices.Contains(domain.AllEmbeddingProviders(), provider) {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings := s.stored()
	settings.Embedding.Provider = provider
	settings.Embedding.Model = modelOrDefault(model, domain.DefaultEmbeddingModels()[provider])
	settings.Embedding.BaseURL = baseURLFor(provider, settings.Embedding.BaseURL)
	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}
	if !slices.Contains(domain.AllLLMProviders(), provider) {
		return fmt.Errorf("provider %s does not support generation", provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings := s.stored()
	settings.LLM.Provider = provider
	settings.LLM.Model = modelOrDefault(model, domain.DefaultLLMModels()[provider])
	settings.LLM.BaseURL = baseURLFor(provider, settings.LLM.BaseURL)
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

func modelOrDefault(model, fallback string) string {
	if model != "" {
		return model
	}
	return fallback
}

// baseURLFor returns the base URL to store for a provider.
// Only Ollama needs one; cloud and offline providers use none.
func baseURLFor(provider domain.AIProvider, current string) string {
	if provider != domain.AIProviderOllama {
		return ""
	}
	if current == "" {
		return defaultOllamaURL
	}
	return current
}

// Validate checks that the current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return validate(settings)
}

func validate(settings *domain.AppSettings) error {
	c := settings.Chunking
	if c.Size <= 0 {
		return fmt.Errorf("%w: chunking.size must be positive, got %d", domain.ErrInvalidInput, c.Size)
	}
	if c.Overlap < 0 || c.Overlap >= c.Size {
		return fmt.Errorf("%w: chunking.overlap must be in [0, %d), got %d", domain.ErrInvalidInput, c.Size, c.Overlap)
	}
	if settings.Retrieval.TopK <= 0 {
		return fmt.Errorf("%w: retrieval.top_k must be positive, got %d", domain.ErrInvalidInput, settings.Retrieval.TopK)
	}
	if settings.Embedding.BatchSize <= 0 || settings.Embedding.Concurrency <= 0 {
		return fmt.Errorf("%w: embedding.batch_size and embedding.concurrency must be positive", domain.ErrInvalidInput)
	}
	if settings.Embedding.RatePerSecond < 0 {
		return fmt.Errorf("%w: embedding.rate_per_second must not be negative", domain.ErrInvalidInput)
	}
	if settings.Ingest.Concurrency <= 0 {
		return fmt.Errorf("%w: ingest.concurrency must be positive", domain.ErrInvalidInput)
	}
	if settings.Ingest.BuildTimeoutSeconds < 0 {
		return fmt.Errorf("%w: ingest.build_timeout_seconds must not be negative", domain.ErrInvalidInput)
	}
	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("%w: embedding provider %q is not configured", domain.ErrInvalidInput, settings.Embedding.Provider)
	}
	if !settings.LLM.IsConfigured() {
		return fmt.Errorf("%w: LLM provider %q is not configured", domain.ErrInvalidInput, settings.LLM.Provider)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getInt distinguishes a stored zero from a missing key.
func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
