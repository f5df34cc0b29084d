package services

import (
	"context"
	"errors"
	"sync"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// --- Mock implementations ---

var errMock = errors.New("mock failure")

// mockEmbeddingService implements driven.EmbeddingService for testing.
// Each text maps to a vector from vectors, or to a fixed vector otherwise.
type mockEmbeddingService struct {
	mu         sync.Mutex
	vectors    map[string][]float32
	dimensions int
	embedErr   error
	batchErr   error
	failOn     string
	batches    [][]string
}

func (m *mockEmbeddingService) vector(text string) []float32 {
	if v, ok := m.vectors[text]; ok {
		return v
	}
	v := make([]float32, m.dims())
	v[0] = 1
	return v
}

func (m *mockEmbeddingService) dims() int {
	if m.dimensions == 0 {
		return 2
	}
	return m.dimensions
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.vector(text), nil
}

func (m *mockEmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.batches = append(m.batches, texts)
	m.mu.Unlock()

	if m.batchErr != nil {
		return nil, m.batchErr
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if m.failOn != "" && t == m.failOn {
			return nil, errMock
		}
		out[i] = m.vector(t)
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int {
	return m.dims()
}

func (m *mockEmbeddingService) ModelName() string {
	return "mock-embed"
}

func (m *mockEmbeddingService) Ping(_ context.Context) error {
	return nil
}

func (m *mockEmbeddingService) Close() error {
	return nil
}

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	response    string
	generateErr error
	prompts     []string
	options     []driven.GenerateOptions
}

func (m *mockLLMService) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.prompts = append(m.prompts, prompt)
	m.options = append(m.options, opts)
	if m.generateErr != nil {
		return "", m.generateErr
	}
	return m.response, nil
}

func (m *mockLLMService) ModelName() string {
	return "mock-llm"
}

func (m *mockLLMService) Ping(_ context.Context) error {
	return nil
}

func (m *mockLLMService) Close() error {
	return nil
}

// mockRetriever implements driving.Retriever for testing.
type mockRetriever struct {
	result domain.RetrievalResult
	err    error
	gotK   int
}

func (m *mockRetriever) Retrieve(_ context.Context, _ string, k int) (domain.RetrievalResult, error) {
	m.gotK = k
	return m.result, m.err
}

func (m *mockRetriever) Len() int {
	return len(m.result)
}

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	prompts map[string]string
	loadErr error
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.loadErr != nil {
		return "", m.loadErr
	}
	p, ok := m.prompts[name]
	if !ok {
		return "", domain.ErrNotFound
	}
	return p, nil
}

// mockExtractorChain implements driven.ExtractorChain for testing.
// Every document's raw bytes are returned as its text.
type mockExtractorChain struct {
	err  error
	docs []*domain.SourceDocument
}

func (m *mockExtractorChain) ExtractAll(_ context.Context, docs []*domain.SourceDocument) (*domain.ExtractionBatch, error) {
	m.docs = docs
	if m.err != nil {
		return nil, m.err
	}
	batch := &domain.ExtractionBatch{}
	for _, d := range docs {
		batch.Texts = append(batch.Texts, domain.ExtractedText{
			SourceID: d.ID,
			Name:     d.OriginalName,
			Text:     string(d.RawBytes),
			Method:   domain.MethodUTF8,
		})
		batch.Diagnostics = append(batch.Diagnostics, domain.ExtractionDiagnostic{
			SourceID: d.ID,
			Name:     d.OriginalName,
			Kind:     domain.KindPlainText,
			Method:   domain.MethodUTF8,
		})
	}
	return batch, nil
}

// mockAIValidator implements driven.AIConfigValidator for testing.
type mockAIValidator struct {
	embeddingErr error
	llmErr       error
}

func (m *mockAIValidator) ValidateEmbedding(_ *domain.EmbeddingSettings) error {
	return m.embeddingErr
}

func (m *mockAIValidator) ValidateLLM(_ *domain.LLMSettings) error {
	return m.llmErr
}

// chunksOf builds sequential chunks with the given texts for one source.
func chunksOf(sourceID string, texts ...string) []domain.Chunk {
	out := make([]domain.Chunk, len(texts))
	offset := 0
	for i, t := range texts {
		out[i] = domain.Chunk{
			ID:          sourceID + "-" + string(rune('a'+i)),
			SourceID:    sourceID,
			Text:        t,
			StartOffset: offset,
			Length:      len([]rune(t)),
			Position:    i,
		}
		offset += len([]rune(t))
	}
	return out
}

// nopLLM is a stateless driven.LLMService, safe for concurrent use.
type nopLLM struct{}

func (nopLLM) Generate(_ context.Context, _ string, _ driven.GenerateOptions) (string, error) {
	return "ok", nil
}

func (nopLLM) ModelName() string            { return "nop" }
func (nopLLM) Ping(_ context.Context) error { return nil }
func (nopLLM) Close() error                 { return nil }
