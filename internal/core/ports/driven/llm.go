// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import "context"

// LLMService writes the answer from the retrieved chunks. The extractive
// implementation needs no network and is the default.
type LLMService interface {
	// Generate answers a single prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	ModelName() string

	// Ping checks reachability and credentials without generating.
	Ping(ctx context.Context) error

	Close() error
}

// GenerateOptions tunes a single Generate call. Zero values leave the
// provider default.
type GenerateOptions struct {
	MaxTokens int

	// Temperature is a pointer so an explicit 0 can be sent.
	Temperature *float64

	StopWords []string
}

// Temperature returns a pointer to t, for use in GenerateOptions.
func Temperature(t float64) *float64 {
	return &t
}
