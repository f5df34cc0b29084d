package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// Ensure Session implements the interface.
var _ driving.SessionService = (*Session)(nil)

// Session holds the current index for a long-running driver.
// A new index is built completely before it replaces the current one.
type Session struct {
	ingest *IngestService
	answer driving.AnswerService

	mu      sync.RWMutex
	current *Index
	batch   *domain.ExtractionBatch
}

// NewSession creates an empty session.
func NewSession(ingest *IngestService, answer driving.AnswerService) *Session {
	return &Session{
		ingest: ingest,
		answer: answer,
	}
}

// Ingest extracts and indexes a new batch. A failed build leaves the
// previous index in place.
func (s *Session) Ingest(
	ctx context.Context,
	uploads []domain.Upload,
	progress driving.ProgressFunc,
) (*domain.ExtractionBatch, int, error) {
	batch, err := s.ingest.Extract(ctx, uploads)
	if err != nil {
		return nil, 0, err
	}

	idx, err := s.ingest.BuildIndex(ctx, batch.Texts, progress)
	if err != nil {
		return batch, 0, err
	}

	// Readers may still hold the previous index, so it is left to the GC.
	s.mu.Lock()
	s.current = idx
	s.batch = batch
	s.mu.Unlock()

	return batch, idx.Len(), nil
}

// Ask answers a question against the current index.
func (s *Session) Ask(ctx context.Context, question string) (*domain.Answer, error) {
	s.mu.RLock()
	idx := s.current
	s.mu.RUnlock()

	if idx == nil {
		return nil, domain.ErrRetrievalUnavailable
	}
	return s.answer.Answer(ctx, question, idx)
}

// Current returns the batch behind the current index and its chunk count.
func (s *Session) Current() (*domain.ExtractionBatch, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, 0
	}
	return s.batch, s.current.Len()
}

// Reset drops the current index.
func (s *Session) Reset() {
	s.mu.Lock()
	s.current = nil
	s.batch = nil
	s.mu.Unlock()
}
