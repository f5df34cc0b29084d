package domain

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderGemini is Google Gemini cloud API.
	AIProviderGemini AIProvider = "gemini"

	// AIProviderHashing is the offline feature-hashing embedder.
	AIProviderHashing AIProvider = "hashing"

	// AIProviderExtractive is the offline extractive answer generator.
	AIProviderExtractive AIProvider = "extractive"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderGemini,
		AIProviderHashing, AIProviderExtractive:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic || p == AIProviderGemini
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama || p == AIProviderHashing || p == AIProviderExtractive
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderGemini:
		return "Gemini (cloud)"
	case AIProviderHashing:
		return "Feature hashing (offline)"
	case AIProviderExtractive:
		return "Extractive (offline)"
	default:
		return unknownDescription
	}
}

// ChunkingSettings controls how extracted text is split.
type ChunkingSettings struct {
	// Size is the maximum chunk length in characters.
	Size int

	// Overlap is the number of characters shared between consecutive chunks.
	Overlap int
}

// RetrievalSettings controls query-time retrieval.
type RetrievalSettings struct {
	// TopK is the number of chunks retrieved per question.
	TopK int
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI/Gemini).
	APIKey string

	// BatchSize is the number of chunks sent per embedding request.
	BatchSize int

	// Concurrency bounds the number of in-flight embedding requests.
	Concurrency int

	// RatePerSecond paces embedding requests. Zero disables pacing.
	RatePerSecond float64
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() || e.Provider == AIProviderExtractive || e.Provider == AIProviderAnthropic {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic/Gemini).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() || l.Provider == AIProviderHashing {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// OCRSettings configures the external OCR and conversion tools.
type OCRSettings struct {
	// Language is the tesseract language code.
	Language string

	TesseractPath string
	PdftoppmPath  string
	AntiwordPath  string
}

// IngestSettings controls batch ingestion.
type IngestSettings struct {
	// Concurrency bounds the number of documents extracted in parallel.
	Concurrency int

	// BuildTimeoutSeconds bounds the whole index build. Zero means no timeout.
	BuildTimeoutSeconds int
}

// AppSettings holds all application settings.
type AppSettings struct {
	Chunking  ChunkingSettings
	Retrieval RetrievalSettings
	Embedding EmbeddingSettings
	LLM       LLMSettings
	OCR       OCRSettings
	Ingest    IngestSettings
}

// Default setting values.
const (
	DefaultChunkSize         = 500
	DefaultChunkOverlap      = 100
	DefaultTopK              = 3
	DefaultEmbedBatchSize    = 16
	DefaultEmbedConcurrency  = 4
	DefaultIngestConcurrency = 4
	DefaultOCRLanguage       = "eng"
)

// DefaultAppSettings returns settings that work offline out of the box.
// Cloud providers must be configured explicitly.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Chunking: ChunkingSettings{
			Size:    DefaultChunkSize,
			Overlap: DefaultChunkOverlap,
		},
		Retrieval: RetrievalSettings{
			TopK: DefaultTopK,
		},
		Embedding: EmbeddingSettings{
			Provider:    AIProviderHashing,
			BatchSize:   DefaultEmbedBatchSize,
			Concurrency: DefaultEmbedConcurrency,
		},
		LLM: LLMSettings{
			Provider: AIProviderExtractive,
		},
		OCR: OCRSettings{
			Language:      DefaultOCRLanguage,
			TesseractPath: "tesseract",
			PdftoppmPath:  "pdftoppm",
			AntiwordPath:  "antiword",
		},
		Ingest: IngestSettings{
			Concurrency: DefaultIngestConcurrency,
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderGemini,
		AIProviderHashing,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
		AIProviderGemini,
		AIProviderExtractive,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:  "nomic-embed-text",
		AIProviderOpenAI:  "text-embedding-3-small",
		AIProviderGemini:  "text-embedding-004",
		AIProviderHashing: "hashing-512",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:     "llama3.2",
		AIProviderOpenAI:     "gpt-4o-mini",
		AIProviderAnthropic:  "claude-3-5-sonnet-latest",
		AIProviderGemini:     "gemini-1.5-flash",
		AIProviderExtractive: "extractive",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
		// Gemini models
		"text-embedding-004": 768,
		// Offline
		"hashing-512": 512,
	}
}
