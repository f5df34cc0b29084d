package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// IndexerConfig controls how chunks are embedded.
type IndexerConfig struct {
	// BatchSize is the number of chunks per EmbedBatch call.
	BatchSize int

	// Concurrency bounds in-flight EmbedBatch calls.
	Concurrency int

	// RatePerSecond paces EmbedBatch calls. Zero disables pacing.
	RatePerSecond float64

	// TopK is the default number of chunks retrieved per question.
	TopK int
}

// withDefaults fills zero values.
func (c IndexerConfig) withDefaults() IndexerConfig {
	if c.BatchSize <= 0 {
		c.BatchSize = domain.DefaultEmbedBatchSize
	}
	if c.Concurrency <= 0 {
		c.Concurrency = domain.DefaultEmbedConcurrency
	}
	if c.TopK <= 0 {
		c.TopK = domain.DefaultTopK
	}
	return c
}

// Indexer embeds chunks and builds immutable indexes.
type Indexer struct {
	embedder driven.EmbeddingService
	builder  driven.VectorIndexBuilder
	config   IndexerConfig
}

// NewIndexer creates an indexer.
func NewIndexer(embedder driven.EmbeddingService, builder driven.VectorIndexBuilder, config IndexerConfig) *Indexer {
	return &Indexer{
		embedder: embedder,
		builder:  builder,
		config:   config.withDefaults(),
	}
}

// Build embeds every chunk and returns a complete index. Vectors are placed
// by chunk sequence number regardless of which batch finishes first. Any
// failure discards all work and returns ErrIndexBuildFailed.
func (x *Indexer) Build(ctx context.Context, chunks []domain.Chunk, progress driving.ProgressFunc) (*Index, error) {
	if x.embedder == nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrIndexBuildFailed, domain.ErrEmbeddingUnavailable)
	}

	logger.Section("Index Build")
	start := time.Now()

	vectors, err := x.embedAll(ctx, chunks, progress)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrIndexBuildFailed, err)
	}

	entries := make([]driven.VectorEntry, len(chunks))
	for i := range chunks {
		entries[i] = driven.VectorEntry{ChunkID: chunks[i].ID, Vector: vectors[i]}
	}

	vi, err := x.builder.Build(ctx, entries)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrIndexBuildFailed, err)
	}

	logger.Debug("index: %d chunks, %d dimensions, model %s, %s",
		vi.Len(), vi.Dimensions(), x.embedder.ModelName(), time.Since(start).Round(time.Millisecond))

	owned := make([]domain.Chunk, len(chunks))
	copy(owned, chunks)

	return &Index{
		vectors:  vi,
		chunks:   owned,
		embedder: x.embedder,
		topK:     x.config.TopK,
	}, nil
}

// embedAll embeds chunks in concurrent, rate-limited batches.
func (x *Indexer) embedAll(ctx context.Context, chunks []domain.Chunk, progress driving.ProgressFunc) ([][]float32, error) {
	total := len(chunks)
	vectors := make([][]float32, total)
	if total == 0 {
		return vectors, nil
	}

	var limiter *rate.Limiter
	if x.config.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(x.config.RatePerSecond), 1)
	}

	var (
		mu   sync.Mutex
		done int
	)
	report := func(n int) {
		if progress == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		done += n
		progress(done, total)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(x.config.Concurrency)

	for batch, lo := 0, 0; lo < total; batch, lo = batch+1, lo+x.config.BatchSize {
		hi := min(lo+x.config.BatchSize, total)

		g.Go(func() error {
			if limiter != nil {
				if err := limiter.Wait(gctx); err != nil {
					return fmt.Errorf("embed batch %d: %w", batch, err)
				}
			}

			texts := make([]string, hi-lo)
			for i := lo; i < hi; i++ {
				texts[i-lo] = chunks[i].Text
			}

			out, err := x.embedder.EmbedBatch(gctx, texts)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil && ctx.Err() != nil {
					return fmt.Errorf("embed batch %d: %w", batch, ctxErr)
				}
				return fmt.Errorf("embed batch %d: %w: %w", batch, domain.ErrEmbeddingService, err)
			}
			if len(out) != len(texts) {
				return fmt.Errorf("embed batch %d: %w: got %d vectors for %d texts",
					batch, domain.ErrEmbeddingService, len(out), len(texts))
			}

			copy(vectors[lo:hi], out)
			report(len(texts))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return vectors, x.checkDimensions(vectors)
}

// checkDimensions verifies that every vector has the same, expected size.
func (x *Indexer) checkDimensions(vectors [][]float32) error {
	want := x.embedder.Dimensions()
	if want <= 0 {
		want = len(vectors[0])
	}
	for i, v := range vectors {
		if len(v) == 0 || len(v) != want {
			return fmt.Errorf("%w: chunk %d has dimension %d, expected %d",
				domain.ErrEmbeddingService, i, len(v), want)
		}
	}
	return nil
}
