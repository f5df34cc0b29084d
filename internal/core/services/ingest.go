package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService turns uploads into a queryable index.
type IngestService struct {
	chain        driven.ExtractorChain
	chunker      driven.Chunker
	indexer      *Indexer
	buildTimeout time.Duration
}

// IngestOption configures an IngestService.
type IngestOption func(*IngestService)

// WithBuildTimeout bounds the whole index build. Zero means no timeout.
func WithBuildTimeout(d time.Duration) IngestOption {
	return func(s *IngestService) {
		if d > 0 {
			s.buildTimeout = d
		}
	}
}

// NewIngestService creates an ingest service.
func NewIngestService(
	chain driven.ExtractorChain,
	chunker driven.Chunker,
	indexer *Indexer,
	opts ...IngestOption,
) *IngestService {
	s := &IngestService{
		chain:   chain,
		chunker: chunker,
		indexer: indexer,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Extract validates the uploads and runs the extractor chain over them.
func (s *IngestService) Extract(ctx context.Context, uploads []domain.Upload) (*domain.ExtractionBatch, error) {
	if err := domain.ValidateUploads(uploads); err != nil {
		return nil, err
	}

	docs := make([]*domain.SourceDocument, len(uploads))
	for i, u := range uploads {
		docs[i] = &domain.SourceDocument{
			ID:                uuid.NewString(),
			RawBytes:          u.Content,
			DeclaredMediaType: u.DeclaredType,
			OriginalName:      u.Name,
		}
	}

	logger.Section("Extraction")
	batch, err := s.chain.ExtractAll(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	for _, d := range batch.Diagnostics {
		if d.Degraded {
			logger.Warn("%s (%s): %s", d.Name, d.Kind, d.Reason)
			continue
		}
		logger.Debug("%s (%s): extracted with %s", d.Name, d.Kind, d.Method)
	}

	return batch, nil
}

// Build chunks every text and builds a new index from the chunks.
func (s *IngestService) Build(ctx context.Context, texts []domain.ExtractedText, progress driving.ProgressFunc) (driving.Retriever, error) {
	idx, err := s.BuildIndex(ctx, texts, progress)
	if err != nil {
		return nil, err
	}
	return idx, nil
}

// BuildIndex is Build returning the concrete index.
func (s *IngestService) BuildIndex(ctx context.Context, texts []domain.ExtractedText, progress driving.ProgressFunc) (*Index, error) {
	chunks := s.ChunkAll(texts)
	logger.Debug("chunking: %d texts, %d chunks", len(texts), len(chunks))

	if s.buildTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.buildTimeout)
		defer cancel()
	}

	return s.indexer.Build(ctx, chunks, progress)
}

// ChunkAll chunks each text independently, preserving text order.
// Chunks never span two sources.
func (s *IngestService) ChunkAll(texts []domain.ExtractedText) []domain.Chunk {
	var chunks []domain.Chunk
	for _, t := range texts {
		chunks = append(chunks, s.chunker.Chunk(t.SourceID, t.Text)...)
	}
	return chunks
}

// Ingest extracts the uploads and builds an index from them.
// The batch is returned even when the build fails so callers can report
// extraction diagnostics.
func (s *IngestService) Ingest(
	ctx context.Context,
	uploads []domain.Upload,
	progress driving.ProgressFunc,
) (driving.Retriever, *domain.ExtractionBatch, error) {
	batch, err := s.Extract(ctx, uploads)
	if err != nil {
		return nil, nil, err
	}

	idx, err := s.Build(ctx, batch.Texts, progress)
	if err != nil {
		return nil, batch, err
	}

	return idx, batch, nil
}
