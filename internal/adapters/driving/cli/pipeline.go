package cli

import (
	"time"

	"github.com/custodia-labs/docqa/internal/adapters/driven/ai"
	"github.com/custodia-labs/docqa/internal/adapters/driven/command"
	"github.com/custodia-labs/docqa/internal/adapters/driven/ocr/tesseract"
	"github.com/custodia-labs/docqa/internal/adapters/driven/vectorindex/memory"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/services"
	"github.com/custodia-labs/docqa/internal/extractors"
	"github.com/custodia-labs/docqa/internal/postprocessors/chunker"
)

// Pipeline bundles the services one command invocation needs.
type Pipeline struct {
	Ingest *services.IngestService

	// Answer is nil when the pipeline was built without an LLM.
	Answer *services.AnswerService

	ai *ai.InitResult
}

// Session wraps the pipeline in a long-running session. The pipeline must
// have been built with an LLM.
func (p *Pipeline) Session() *services.Session {
	return services.NewSession(p.Ingest, p.Answer)
}

// Close releases the provider clients.
func (p *Pipeline) Close() {
	if p.ai != nil {
		p.ai.Close()
	}
}

// PipelineFactory builds a pipeline from settings. needLLM is false for
// commands that only ingest.
type PipelineFactory func(settings *domain.AppSettings, needLLM bool) (*Pipeline, error)

// NewPipelineFactory returns a factory that wires the configured providers,
// the extractor chain and the in-memory vector index. prompts may be nil.
func NewPipelineFactory(prompts driven.PromptStore) PipelineFactory {
	return func(settings *domain.AppSettings, needLLM bool) (*Pipeline, error) {
		chunk, err := chunker.NewStrict(settings.Chunking.Size, settings.Chunking.Overlap)
		if err != nil {
			return nil, err
		}

		aiServices, err := ai.Init(settings, !needLLM)
		if err != nil {
			return nil, err
		}

		indexer := services.NewIndexer(aiServices.EmbeddingService, memory.NewBuilder(), services.IndexerConfig{
			BatchSize:     settings.Embedding.BatchSize,
			Concurrency:   settings.Embedding.Concurrency,
			RatePerSecond: settings.Embedding.RatePerSecond,
			TopK:          settings.Retrieval.TopK,
		})

		p := &Pipeline{
			Ingest: services.NewIngestService(newChain(settings), chunk, indexer,
				services.WithBuildTimeout(time.Duration(settings.Ingest.BuildTimeoutSeconds)*time.Second)),
			ai: aiServices,
		}

		if needLLM {
			p.Answer = services.NewAnswerService(aiServices.LLMService, settings.Retrieval.TopK)
			if prompts != nil {
				p.Answer.SetPromptStore(prompts)
			}
		}

		return p, nil
	}
}

// newChain builds the extractor chain with the local OCR and conversion tools.
func newChain(settings *domain.AppSettings) *extractors.Chain {
	runner := command.NewRunner()
	return extractors.NewChain(
		extractors.DefaultTable(extractors.Dependencies{
			Runner: runner,
			OCR:    tesseract.New(runner, settings.OCR.TesseractPath),
			Config: settings.OCR,
		}),
		extractors.WithConcurrency(settings.Ingest.Concurrency),
	)
}
