package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUploadLimit indicates an upload batch exceeds the accepted limits.
	// It always wraps ErrInvalidInput.
	ErrUploadLimit = errors.New("upload limit exceeded")

	// Extraction Errors.
	// These never abort a batch; they are recorded in ExtractionDiagnostic.

	// ErrExtractionDegraded indicates a document yielded no usable text.
	ErrExtractionDegraded = errors.New("extraction degraded")

	// ErrUnsupportedFormat indicates the document kind is not recognised.
	// Treated identically to ErrExtractionDegraded.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// Pipeline Errors.

	// ErrIndexBuildFailed indicates the vector index could not be built.
	// No partial index is ever exposed alongside this error.
	ErrIndexBuildFailed = errors.New("index build failed")

	// ErrRetrievalUnavailable indicates a question arrived before any index was built.
	ErrRetrievalUnavailable = errors.New("retrieval unavailable: no index built")

	// External Service Errors.

	// ErrEmbeddingService indicates the embedding service call failed.
	ErrEmbeddingService = errors.New("embedding service error")

	// ErrGenerationService indicates the generation service call failed.
	ErrGenerationService = errors.New("generation service error")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")
)
