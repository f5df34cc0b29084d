package driven

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// SessionStore persists the current session's extracted texts between
// invocations of a short-lived driver such as the CLI.
// There is a single session; saving replaces it.
type SessionStore interface {
	// Save replaces the stored session with the given texts and diagnostics.
	Save(ctx context.Context, batch *domain.ExtractionBatch) error

	// Load returns the stored session.
	// Returns domain.ErrNotFound if nothing has been ingested.
	Load(ctx context.Context) (*domain.ExtractionBatch, error)

	// Clear removes the stored session.
	Clear(ctx context.Context) error

	// Close releases resources.
	Close() error
}
