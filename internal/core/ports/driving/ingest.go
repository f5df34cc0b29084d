package driving

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// ProgressFunc receives index build progress as embedded chunks out of total.
type ProgressFunc func(done, total int)

// IngestService turns uploads into a queryable index.
type IngestService interface {
	// Extract validates the upload limits and runs the extractor chain.
	// Degraded documents are reported in the batch diagnostics, not as errors.
	Extract(ctx context.Context, uploads []domain.Upload) (*domain.ExtractionBatch, error)

	// Build chunks the extracted texts and builds a new index from them.
	// The returned index is complete; on error no index is returned.
	Build(ctx context.Context, texts []domain.ExtractedText, progress ProgressFunc) (Retriever, error)

	// Ingest runs Extract then Build.
	Ingest(ctx context.Context, uploads []domain.Upload, progress ProgressFunc) (Retriever, *domain.ExtractionBatch, error)
}

// Retriever returns the chunks most relevant to a question.
type Retriever interface {
	// Retrieve returns up to k chunks ranked by descending similarity.
	// k <= 0 uses the configured default.
	Retrieve(ctx context.Context, question string, k int) (domain.RetrievalResult, error)

	// Len returns the number of indexed chunks.
	Len() int
}
