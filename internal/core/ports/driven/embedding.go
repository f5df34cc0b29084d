// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import "context"

// EmbeddingService turns chunk text and questions into vectors. Questions
// must be embedded by the same service that built the index.
type EmbeddingService interface {
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns one vector per text, index-aligned.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions is zero while the size is only known after the first call.
	Dimensions() int

	ModelName() string

	// Ping checks reachability and credentials without embedding anything.
	Ping(ctx context.Context) error

	Close() error
}
