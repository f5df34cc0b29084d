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

var _ driving.AnswerService = (*AnswerService)(nil)

// DefaultAnswerTemplate is used when no prompt store overrides it.
const DefaultAnswerTemplate = domain.AnswerTemplate

// contextSeparator joins retrieved chunk texts in the prompt.
const contextSeparator = "\n\n"

// AnswerService retrieves context for a question and generates an answer.
type AnswerService struct {
	llm         driven.LLMService
	promptStore driven.PromptStore
	topK        int
}

// NewAnswerService creates an answer service.
// topK <= 0 uses the retriever's default.
func NewAnswerService(llm driven.LLMService, topK int) *AnswerService {
	return &AnswerService{
		llm:  llm,
		topK: topK,
	}
}

// SetPromptStore sets the prompt store for loading a custom answer template.
func (s *AnswerService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// Answer retrieves the most relevant chunks and asks the LLM to answer from them.
// Retrieval always completes before the prompt is assembled.
func (s *AnswerService) Answer(ctx context.Context, question string, retriever driving.Retriever) (*domain.Answer, error) {
	if retriever == nil {
		return nil, domain.ErrRetrievalUnavailable
	}
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}
	if s.llm == nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGenerationService, domain.ErrLLMUnavailable)
	}

	sources, err := retriever.Retrieve(ctx, question, s.topK)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}

	prompt := BuildAnswerPrompt(s.template(), question, sources.Texts())
	logger.Debug("answer: %d context chunks, prompt %d bytes", len(sources), len(prompt))

	text, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		Temperature: driven.Temperature(0),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGenerationService, err)
	}

	return &domain.Answer{
		Text:    text,
		Sources: sources,
	}, nil
}

// template returns the custom template if one is configured.
func (s *AnswerService) template() string {
	if s.promptStore == nil {
		return DefaultAnswerTemplate
	}
	tmpl, err := s.promptStore.Load(driven.PromptAnswer)
	if err != nil || strings.TrimSpace(tmpl) == "" {
		return DefaultAnswerTemplate
	}
	return tmpl
}

// BuildAnswerPrompt renders the template with the joined context and the question.
func BuildAnswerPrompt(template, question string, contextTexts []string) string {
	r := strings.NewReplacer(
		"{context}", strings.Join(contextTexts, contextSeparator),
		"{question}", question,
	)
	return r.Replace(template)
}
