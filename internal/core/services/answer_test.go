package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

func scored(texts ...string) domain.RetrievalResult {
	out := make(domain.RetrievalResult, len(texts))
	for i, t := range texts {
		out[i] = domain.ScoredChunk{Chunk: domain.Chunk{Text: t, Position: i}, Score: 1 - float64(i)/10}
	}
	return out
}

func TestBuildAnswerPrompt_ExactTemplate(t *testing.T) {
	got := BuildAnswerPrompt(DefaultAnswerTemplate, "What is X?", []string{"one", "two"})

	want := "\nYou are a helpful assistant. Use the context below to answer the question.\n\n" +
		"Context:\none\n\ntwo\n\n" +
		"Question:\nWhat is X?\n\n" +
		"Answer in a clear, concise way.\n  "
	assert.Equal(t, want, got)
}

func TestBuildAnswerPrompt_EmptyContext(t *testing.T) {
	got := BuildAnswerPrompt(DefaultAnswerTemplate, "Q?", nil)

	assert.Contains(t, got, "Context:\n\n\nQuestion:\nQ?")
}

func TestBuildAnswerPrompt_PlaceholdersInInputAreLiteral(t *testing.T) {
	got := BuildAnswerPrompt("{context}|{question}", "{context}", []string{"{question}"})

	assert.Equal(t, "{question}|{context}", got)
}

func TestAnswerService_Answer(t *testing.T) {
	llm := &mockLLMService{response: "Paris."}
	retriever := &mockRetriever{result: scored("Paris is the capital of France.", "France is in Europe.")}
	svc := NewAnswerService(llm, 2)

	answer, err := svc.Answer(context.Background(), "What is the capital of France?", retriever)

	require.NoError(t, err)
	assert.Equal(t, "Paris.", answer.Text)
	assert.Len(t, answer.Sources, 2)
	assert.Equal(t, 2, retriever.gotK)

	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "Paris is the capital of France.\n\nFrance is in Europe.")
	assert.Contains(t, llm.prompts[0], "Question:\nWhat is the capital of France?")

	require.NotNil(t, llm.options[0].Temperature)
	assert.Zero(t, *llm.options[0].Temperature)
}

func TestAnswerService_Answer_ReturnsTextVerbatim(t *testing.T) {
	llm := &mockLLMService{response: "  spaced answer \n"}
	svc := NewAnswerService(llm, 3)

	answer, err := svc.Answer(context.Background(), "q", &mockRetriever{})

	require.NoError(t, err)
	assert.Equal(t, "  spaced answer \n", answer.Text)
}

func TestAnswerService_Answer_EmptyContextStillGenerates(t *testing.T) {
	llm := &mockLLMService{response: "I don't know."}
	svc := NewAnswerService(llm, 3)

	answer, err := svc.Answer(context.Background(), "q", &mockRetriever{result: domain.RetrievalResult{}})

	require.NoError(t, err)
	assert.Equal(t, "I don't know.", answer.Text)
	assert.Empty(t, answer.Sources)
	require.Len(t, llm.prompts, 1)
}

func TestAnswerService_Answer_Errors(t *testing.T) {
	tests := []struct {
		name      string
		llm       driven.LLMService
		retriever *mockRetriever
		nilRetr   bool
		question  string
		wantIs    error
	}{
		{
			name:     "no index",
			llm:      &mockLLMService{},
			nilRetr:  true,
			question: "q",
			wantIs:   domain.ErrRetrievalUnavailable,
		},
		{
			name:      "empty question",
			llm:       &mockLLMService{},
			retriever: &mockRetriever{},
			question:  " ",
			wantIs:    domain.ErrInvalidInput,
		},
		{
			name:      "no llm",
			llm:       nil,
			retriever: &mockRetriever{},
			question:  "q",
			wantIs:    domain.ErrLLMUnavailable,
		},
		{
			name:      "embedding failure",
			llm:       &mockLLMService{},
			retriever: &mockRetriever{err: fmt.Errorf("%w: %w", domain.ErrEmbeddingService, errMock)},
			question:  "q",
			wantIs:    domain.ErrEmbeddingService,
		},
		{
			name:      "search failure",
			llm:       &mockLLMService{},
			retriever: &mockRetriever{err: context.Canceled},
			question:  "q",
			wantIs:    context.Canceled,
		},
		{
			name:      "generation failure",
			llm:       &mockLLMService{generateErr: errMock},
			retriever: &mockRetriever{},
			question:  "q",
			wantIs:    domain.ErrGenerationService,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewAnswerService(tt.llm, 3)

			var (
				answer *domain.Answer
				err    error
			)
			if tt.nilRetr {
				answer, err = svc.Answer(context.Background(), tt.question, nil)
			} else {
				answer, err = svc.Answer(context.Background(), tt.question, tt.retriever)
			}

			require.Error(t, err)
			assert.Nil(t, answer)
			assert.ErrorIs(t, err, tt.wantIs)
		})
	}
}

func TestAnswerService_Answer_GenerationNotCalledOnRetrievalFailure(t *testing.T) {
	llm := &mockLLMService{}
	svc := NewAnswerService(llm, 3)

	_, err := svc.Answer(context.Background(), "q", &mockRetriever{err: errors.New("boom")})

	require.Error(t, err)
	assert.Empty(t, llm.prompts)
}

func TestAnswerService_PromptStore(t *testing.T) {
	tests := []struct {
		name  string
		store *mockPromptStore
		want  string
	}{
		{
			name:  "custom template",
			store: &mockPromptStore{prompts: map[string]string{driven.PromptAnswer: "C={context} Q={question}"}},
			want:  "C=ctx Q=q",
		},
		{
			name:  "missing falls back",
			store: &mockPromptStore{prompts: map[string]string{}},
			want:  BuildAnswerPrompt(DefaultAnswerTemplate, "q", []string{"ctx"}),
		},
		{
			name:  "blank falls back",
			store: &mockPromptStore{prompts: map[string]string{driven.PromptAnswer: "  \n"}},
			want:  BuildAnswerPrompt(DefaultAnswerTemplate, "q", []string{"ctx"}),
		},
		{
			name:  "load error falls back",
			store: &mockPromptStore{loadErr: errMock},
			want:  BuildAnswerPrompt(DefaultAnswerTemplate, "q", []string{"ctx"}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &mockLLMService{response: "ok"}
			svc := NewAnswerService(llm, 3)
			svc.SetPromptStore(tt.store)

			_, err := svc.Answer(context.Background(), "q", &mockRetriever{result: scored("ctx")})

			require.NoError(t, err)
			require.Len(t, llm.prompts, 1)
			assert.Equal(t, tt.want, llm.prompts[0])
		})
	}
}
