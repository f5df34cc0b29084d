package driven

import "context"

// VectorIndex provides semantic similarity search over an immutable set of vectors.
// An index is read-only once built; concurrent Search calls are safe.
type VectorIndex interface {
	// Search finds the k most similar entries to the query vector,
	// ordered by descending similarity. Ties keep insertion order.
	// Returns all entries when fewer than k exist.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Len returns the number of indexed vectors.
	Len() int

	// Dimensions returns the vector size, or 0 for an empty index.
	Dimensions() int

	// Close releases resources.
	Close() error
}

// VectorIndexBuilder constructs a VectorIndex from a complete set of entries.
// Build either returns a fully populated index or an error; it never returns
// a partial index.
type VectorIndexBuilder interface {
	Build(ctx context.Context, entries []VectorEntry) (VectorIndex, error)
}

// VectorEntry is one vector to index, identified by its chunk.
type VectorEntry struct {
	ChunkID string
	Vector  []float32
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Position is the entry's insertion position in the index.
	Position int

	// Similarity is the cosine similarity score.
	Similarity float64
}
