package driven

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// Extractor recovers plain text from one kind of document using one strategy.
// Extractors are tried in sequence by the chain until one yields text.
type Extractor interface {
	// Method identifies the strategy for diagnostics.
	Method() domain.ExtractionMethod

	// Extract returns the text found in the document.
	// An error or whitespace-only result moves the chain to the next strategy.
	Extract(ctx context.Context, doc *domain.SourceDocument) (string, error)
}

// ExtractorChain turns a batch of source documents into extracted text.
// It never fails because of a single document; degraded documents produce
// empty text and a diagnostic.
type ExtractorChain interface {
	ExtractAll(ctx context.Context, docs []*domain.SourceDocument) (*domain.ExtractionBatch, error)
}

// OCRService recognises text in a raster image.
// It is best effort and never returns an error; failures yield empty text.
type OCRService interface {
	Recognize(ctx context.Context, image []byte, language string) string
}

// CommandRunner executes an external program and returns its standard output.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// Chunker splits one document's extracted text into chunks.
// Implementations are pure: the same input always produces the same chunks.
type Chunker interface {
	Chunk(sourceID, text string) []domain.Chunk
}
