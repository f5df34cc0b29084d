package cli

import (
	"context"
	"errors"

	"github.com/custodia-labs/docqa/internal/adapters/driven/vectorindex/memory"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/services"
	"github.com/custodia-labs/docqa/internal/postprocessors/chunker"
)

// failingEmbedder is an embedding service whose calls always fail.
type failingEmbedder struct{}

func (failingEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return nil, errors.New("embedding backend down")
}

func (failingEmbedder) EmbedBatch(_ context.Context, _ []string) ([][]float32, error) {
	return nil, errors.New("embedding backend down")
}

func (failingEmbedder) Dimensions() int   { return 8 }
func (failingEmbedder) ModelName() string { return "failing" }

func (failingEmbedder) Ping(_ context.Context) error { return errors.New("embedding backend down") }

func (failingEmbedder) Close() error { return nil }

// failingPipelineFactory builds pipelines whose index builds always fail.
func failingPipelineFactory(settings *domain.AppSettings, _ bool) (*Pipeline, error) {
	chunk := chunker.New(chunker.WithChunkSize(settings.Chunking.Size), chunker.WithOverlap(settings.Chunking.Overlap))
	indexer := services.NewIndexer(failingEmbedder{}, memory.NewBuilder(), services.IndexerConfig{})
	return &Pipeline{
		Ingest: services.NewIngestService(newChain(settings), chunk, indexer),
	}, nil
}

var _ driven.EmbeddingService = failingEmbedder{}
