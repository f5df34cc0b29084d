// Package memory provides an in-memory brute-force vector index.
//
// Every query scans all vectors and ranks them by cosine similarity.
// At the sizes produced by one upload batch (tens to low thousands of
// chunks) this is fast enough and exact.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Verify interface compliance.
var (
	_ driven.VectorIndex        = (*Index)(nil)
	_ driven.VectorIndexBuilder = (*Builder)(nil)
)

// Builder constructs in-memory indexes.
type Builder struct{}

// NewBuilder creates a new index builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build copies and normalises every entry into a new immutable index.
// All vectors must share one dimension.
func (b *Builder) Build(ctx context.Context, entries []driven.VectorEntry) (driven.VectorIndex, error) {
	idx := &Index{
		ids:     make([]string, len(entries)),
		vectors: make([][]float32, len(entries)),
	}

	for i, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(e.Vector) == 0 {
			return nil, fmt.Errorf("%w: entry %d (%s) has an empty vector", domain.ErrInvalidInput, i, e.ChunkID)
		}
		if i == 0 {
			idx.dims = len(e.Vector)
		} else if len(e.Vector) != idx.dims {
			return nil, fmt.Errorf("%w: entry %d (%s) has dimension %d, expected %d",
				domain.ErrInvalidInput, i, e.ChunkID, len(e.Vector), idx.dims)
		}
		idx.ids[i] = e.ChunkID
		idx.vectors[i] = normalise(e.Vector)
	}

	return idx, nil
}

// Index is an immutable set of unit-length vectors.
type Index struct {
	ids     []string
	vectors [][]float32
	dims    int
}

// Search ranks all vectors by cosine similarity to query.
func (idx *Index) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if len(idx.vectors) == 0 || k <= 0 {
		return []driven.VectorHit{}, nil
	}
	if len(query) != idx.dims {
		return nil, fmt.Errorf("%w: query has dimension %d, index has %d", domain.ErrInvalidInput, len(query), idx.dims)
	}

	q := normalise(query)
	hits := make([]driven.VectorHit, len(idx.vectors))
	for i, v := range idx.vectors {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		hits[i] = driven.VectorHit{
			ChunkID:    idx.ids[i],
			Position:   i,
			Similarity: dot(q, v),
		}
	}

	// Stable so equal scores keep insertion order.
	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Similarity > hits[b].Similarity
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// Len returns the number of indexed vectors.
func (idx *Index) Len() int {
	return len(idx.vectors)
}

// Dimensions returns the vector size.
func (idx *Index) Dimensions() int {
	return idx.dims
}

// Close releases resources.
func (idx *Index) Close() error {
	return nil
}

func normalise(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	out := make([]float32, len(v))
	if sum == 0 {
		return out
	}
	norm := math.Sqrt(sum)
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
