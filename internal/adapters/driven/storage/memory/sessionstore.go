package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionStore is an in-memory implementation of driven.SessionStore.
type SessionStore struct {
	mu    sync.RWMutex
	batch *domain.ExtractionBatch
}

// NewSessionStore creates an empty in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

// Save replaces the stored session with a copy of batch.
func (s *SessionStore) Save(_ context.Context, batch *domain.ExtractionBatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batch = cloneBatch(batch)
	return nil
}

// Load returns a copy of the stored session.
func (s *SessionStore) Load(_ context.Context) (*domain.ExtractionBatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.batch == nil {
		return nil, domain.ErrNotFound
	}
	return cloneBatch(s.batch), nil
}

// Clear removes the stored session.
func (s *SessionStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batch = nil
	return nil
}

// Close releases resources.
func (s *SessionStore) Close() error {
	return nil
}

func cloneBatch(b *domain.ExtractionBatch) *domain.ExtractionBatch {
	return &domain.ExtractionBatch{
		Texts:       slices.Clone(b.Texts),
		Diagnostics: slices.Clone(b.Diagnostics),
	}
}
