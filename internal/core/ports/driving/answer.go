package driving

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// AnswerService answers questions from retrieved context.
type AnswerService interface {
	// Answer retrieves context with the retriever and generates an answer.
	// A nil retriever returns domain.ErrRetrievalUnavailable.
	Answer(ctx context.Context, question string, retriever Retriever) (*domain.Answer, error)
}

// SessionService holds the current index for a long-running driver.
type SessionService interface {
	// Ingest extracts and indexes a new batch, replacing the current index
	// only if the build succeeds. It returns the chunk count of the index it
	// built, which may differ from Current once another Ingest has finished.
	Ingest(ctx context.Context, uploads []domain.Upload, progress ProgressFunc) (*domain.ExtractionBatch, int, error)

	// Ask answers a question against the current index.
	Ask(ctx context.Context, question string) (*domain.Answer, error)

	// Current returns the batch behind the current index and its chunk
	// count, read together. It returns nil and 0 when no index is built.
	Current() (*domain.ExtractionBatch, int)

	// Reset drops the current index.
	Reset()
}
