package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Ensure Index implements the interface.
var _ driving.Retriever = (*Index)(nil)

// Index answers similarity queries over one batch of chunks.
// It is read-only after build, so concurrent queries need no locking.
type Index struct {
	vectors  driven.VectorIndex
	chunks   []domain.Chunk
	embedder driven.EmbeddingService
	topK     int
}

// Retrieve embeds the question with the build-time embedding service and
// returns the k most similar chunks. An empty index returns an empty result.
func (idx *Index) Retrieve(ctx context.Context, question string, k int) (domain.RetrievalResult, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}
	if k <= 0 {
		k = idx.topK
	}
	if len(idx.chunks) == 0 {
		return domain.RetrievalResult{}, nil
	}

	query, err := idx.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("%w: embed question: %w", domain.ErrEmbeddingService, err)
	}

	hits, err := idx.vectors.Search(ctx, query, k)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("search index: %w", err)
	}

	result := make(domain.RetrievalResult, 0, len(hits))
	for _, hit := range hits {
		if hit.Position < 0 || hit.Position >= len(idx.chunks) {
			continue
		}
		result = append(result, domain.ScoredChunk{
			Chunk: idx.chunks[hit.Position],
			Score: hit.Similarity,
		})
	}

	logger.Debug("retrieval: %d of %d chunks for %q", len(result), len(idx.chunks), question)
	return result, nil
}

// Len returns the number of indexed chunks.
func (idx *Index) Len() int {
	return len(idx.chunks)
}

// Chunks returns the indexed chunks in insertion order.
func (idx *Index) Chunks() []domain.Chunk {
	out := make([]domain.Chunk, len(idx.chunks))
	copy(out, idx.chunks)
	return out
}

// Close releases the underlying vector index.
func (idx *Index) Close() error {
	return idx.vectors.Close()
}
