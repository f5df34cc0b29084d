// Package extractive provides an offline LLM service that answers by
// selecting the context sentence that best matches the question.
//
// It understands prompts rendered from the answer template: the text between
// "Context:" and "Question:" is the context, the text after "Question:" up to
// the closing instruction is the question. Any other prompt is treated as
// context with no question.
package extractive

import (
	"context"
	"strings"
	"unicode"

	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/postprocessors/terms"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultModel = "extractive"

	// NoAnswer is returned when no context sentence shares a term with the question.
	NoAnswer = "I could not find the answer in the provided documents."
)

const (
	contextMarker     = "Context:\n"
	questionMarker    = "\n\nQuestion:\n"
	instructionMarker = "\n\nAnswer in"
)

// LLMService answers from the prompt's own context.
type LLMService struct{}

// NewLLMService creates a new extractive LLM service.
func NewLLMService() *LLMService {
	return &LLMService{}
}

// Generate returns the context sentence with the most question terms.
// Ties go to the earliest sentence. Options are ignored; output is always
// deterministic.
func (s *LLMService) Generate(ctx context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	contextText, question := parsePrompt(prompt)
	return answer(contextText, question), nil
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return DefaultModel
}

// Ping always succeeds; there is nothing to reach.
func (s *LLMService) Ping(_ context.Context) error {
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	return nil
}

// parsePrompt splits a rendered answer prompt into context and question.
func parsePrompt(prompt string) (contextText, question string) {
	start := strings.Index(prompt, contextMarker)
	if start < 0 {
		return prompt, ""
	}
	rest := prompt[start+len(contextMarker):]

	qi := strings.LastIndex(rest, questionMarker)
	if qi < 0 {
		return rest, ""
	}
	contextText = rest[:qi]
	question = rest[qi+len(questionMarker):]

	if ai := strings.LastIndex(question, instructionMarker); ai >= 0 {
		question = question[:ai]
	}
	return contextText, strings.TrimSpace(question)
}

// answer picks the best matching sentence from contextText.
func answer(contextText, question string) string {
	want := terms.Set(question)
	if len(want) == 0 {
		return NoAnswer
	}

	best, bestScore := "", 0
	for _, sentence := range sentences(contextText) {
		score := 0
		for t := range terms.Set(sentence) {
			if _, ok := want[t]; ok {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = sentence, score
		}
	}

	if bestScore == 0 {
		return NoAnswer
	}
	return best
}

// sentences splits text at sentence punctuation followed by whitespace
// and at blank lines.
func sentences(text string) []string {
	var (
		out   []string
		runes = []rune(text)
		start int
	)
	flush := func(end int) {
		if s := strings.TrimSpace(string(runes[start:end])); s != "" {
			out = append(out, strings.Join(strings.Fields(s), " "))
		}
		start = end
	}

	for i := 0; i < len(runes); i++ {
		switch {
		case strings.ContainsRune(".!?", runes[i]) && (i+1 == len(runes) || unicode.IsSpace(runes[i+1])):
			flush(i + 1)
		case runes[i] == '\n' && i+1 < len(runes) && runes[i+1] == '\n':
			flush(i)
		}
	}
	flush(len(runes))
	return out
}
