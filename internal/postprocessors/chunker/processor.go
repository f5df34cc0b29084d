// Package chunker provides a boundary-aware text chunking processor.
package chunker

import (
	"fmt"
	"strconv"
	"unicode"

	"github.com/google/uuid"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.Chunker = (*Processor)(nil)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = domain.DefaultChunkSize

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = domain.DefaultChunkOverlap

// chunkNamespace seeds deterministic chunk IDs.
var chunkNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("docqa:chunk"))

// Processor splits extracted text into overlapping chunks, preferring
// paragraph, then sentence, then word boundaries before a hard cut.
type Processor struct {
	chunkSize int
	overlap   int
	splitters []splitter
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
// An overlap that is not smaller than the chunk size is reduced to a quarter of it.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
		splitters: defaultSplitters,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// NewStrict creates a processor, rejecting parameters outside
// 0 <= overlap < size instead of adjusting them.
func NewStrict(size, overlap int) (*Processor, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrInvalidInput, size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: chunk overlap must be in [0, %d), got %d", domain.ErrInvalidInput, size, overlap)
	}
	return New(WithChunkSize(size), WithOverlap(overlap)), nil
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// ChunkSize returns the configured chunk size.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Overlap returns the configured overlap.
func (p *Processor) Overlap() int {
	return p.overlap
}

// Chunk splits text into chunks belonging to sourceID.
// Empty or whitespace-only text produces no chunks.
func (p *Processor) Chunk(sourceID, text string) []domain.Chunk {
	runes := []rune(text)
	n := len(runes)
	if n == 0 {
		return nil
	}

	chunks := make([]domain.Chunk, 0, n/(p.chunkSize-p.overlap)+1)

	start := 0
	for start < n {
		end := n
		if n-start > p.chunkSize {
			end = p.breakPoint(runes, start)
		}

		if !isBlank(runes[start:end]) {
			chunks = append(chunks, p.newChunk(sourceID, runes, start, end, len(chunks)))
		}

		if end == n {
			break
		}
		start = p.nextStart(runes, end)
	}

	return chunks
}

// breakPoint returns the end of the chunk starting at start.
// Each splitter searches backwards from the window limit; the first to find
// a break leaving a chunk longer than the overlap wins.
func (p *Processor) breakPoint(runes []rune, start int) int {
	limit := start + p.chunkSize
	lowest := start + p.overlap + 1

	for _, split := range p.splitters {
		for end := limit; end >= lowest; end-- {
			if split(runes, start, end) {
				return end
			}
		}
	}
	return limit
}

// nextStart backs off by the overlap from end, then snaps forward to the
// first word start before end.
func (p *Processor) nextStart(runes []rune, end int) int {
	from := end - p.overlap
	for i := from; i < end; i++ {
		if isWordStart(runes, i) {
			return i
		}
	}
	return from
}

func (p *Processor) newChunk(sourceID string, runes []rune, start, end, position int) domain.Chunk {
	return domain.Chunk{
		ID:          uuid.NewSHA1(chunkNamespace, []byte(sourceID+":"+strconv.Itoa(position))).String(),
		SourceID:    sourceID,
		Text:        string(runes[start:end]),
		StartOffset: start,
		Length:      end - start,
		Position:    position,
	}
}

// splitter reports whether a chunk spanning runes[start:end] ends on a boundary.
type splitter func(runes []rune, start, end int) bool

// defaultSplitters are tried in order of preference.
var defaultSplitters = []splitter{
	paragraphBreak,
	sentenceBreak,
	whitespaceBreak,
}

func paragraphBreak(runes []rune, start, end int) bool {
	return end-2 >= start && runes[end-1] == '\n' && runes[end-2] == '\n'
}

func sentenceBreak(runes []rune, start, end int) bool {
	if end-2 < start || !unicode.IsSpace(runes[end-1]) {
		return false
	}
	switch runes[end-2] {
	case '.', '!', '?':
		return true
	}
	return false
}

func whitespaceBreak(runes []rune, start, end int) bool {
	return end-1 >= start && unicode.IsSpace(runes[end-1]) && !unicode.IsSpace(runes[end])
}

func isWordStart(runes []rune, i int) bool {
	if unicode.IsSpace(runes[i]) {
		return false
	}
	return i == 0 || unicode.IsSpace(runes[i-1])
}

func isBlank(runes []rune) bool {
	for _, r := range runes {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
