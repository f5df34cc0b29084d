package mcp

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// mockSessionService is a mock implementation of driving.SessionService.
// A successful Ingest makes batch and chunks current.
type mockSessionService struct {
	batch    *domain.ExtractionBatch
	answer   *domain.Answer
	chunks   int
	err      error
	uploads  []domain.Upload
	question string
	resets   int

	current       *domain.ExtractionBatch
	currentChunks int

	// racing, when set, replaces the current batch right after Ingest
	// as another caller's Ingest would.
	racing *domain.ExtractionBatch
}

func (m *mockSessionService) Ingest(
	_ context.Context,
	uploads []domain.Upload,
	_ driving.ProgressFunc,
) (*domain.ExtractionBatch, int, error) {
	m.uploads = uploads
	if m.err != nil {
		return m.batch, 0, m.err
	}
	m.current, m.currentChunks = m.batch, m.chunks
	if m.racing != nil {
		m.current, m.currentChunks = m.racing, 7
	}
	return m.batch, m.chunks, nil
}

func (m *mockSessionService) Ask(_ context.Context, question string) (*domain.Answer, error) {
	m.question = question
	return m.answer, m.err
}

func (m *mockSessionService) Current() (*domain.ExtractionBatch, int) {
	return m.current, m.currentChunks
}

func (m *mockSessionService) Reset() {
	m.resets++
	m.current, m.currentChunks = nil, 0
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	values map[string]string
	err    error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := domain.DefaultAppSettings()
	return &s, m.err
}

func (m *mockSettingsService) Save(_ *domain.AppSettings) error { return m.err }

func (m *mockSettingsService) Set(_, _ string) error { return m.err }

func (m *mockSettingsService) Keys() []string {
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	return keys
}

func (m *mockSettingsService) Values() (map[string]string, error) {
	return m.values, m.err
}

func (m *mockSettingsService) SetEmbeddingProvider(_ domain.AIProvider, _, _ string) error {
	return m.err
}

func (m *mockSettingsService) SetLLMProvider(_ domain.AIProvider, _, _ string) error {
	return m.err
}

func (m *mockSettingsService) Validate() error { return m.err }

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *mockSettingsService) ValidateEmbeddingConfig() error { return m.err }

func (m *mockSettingsService) ValidateLLMConfig() error { return m.err }

// testBatch returns a batch with one clean and one degraded document.
func testBatch() *domain.ExtractionBatch {
	return &domain.ExtractionBatch{
		Texts: []domain.ExtractedText{
			{SourceID: "src-1", Name: "notes.txt", Text: "alpha beta gamma", Method: domain.MethodRawBytes},
		},
		Diagnostics: []domain.ExtractionDiagnostic{
			{SourceID: "src-1", Name: "notes.txt", Kind: domain.KindPlainText, Method: domain.MethodRawBytes},
			{
				SourceID: "src-2",
				Name:     "scan.png",
				Kind:     domain.KindImage,
				Method:   domain.MethodImageOCR,
				Degraded: true,
				Reason:   "tesseract not installed",
			},
		},
	}
}
