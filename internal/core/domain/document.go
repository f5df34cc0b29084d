package domain

// Chunk is a bounded substring of one document's extracted text.
// Chunks never mix text from two SourceDocuments.
type Chunk struct {
	// ID is deterministic for a given source and position.
	ID string

	// SourceID links to the SourceDocument the text came from.
	SourceID string

	// Text is the chunk content. Its length in characters never exceeds the chunk size.
	Text string

	// StartOffset is the character offset of Text within the extracted text.
	StartOffset int

	// Length is the number of characters in Text.
	Length int

	// Position is the ordinal position within the document.
	Position int
}

// End returns the character offset just past the chunk.
func (c Chunk) End() int {
	return c.StartOffset + c.Length
}

// ScoredChunk is a chunk with its similarity to a question.
type ScoredChunk struct {
	Chunk Chunk

	// Score is the cosine similarity (higher is more relevant).
	Score float64
}

// RetrievalResult is an ordered sequence of chunks, descending by score.
type RetrievalResult []ScoredChunk

// Texts returns the chunk texts in ranked order.
func (r RetrievalResult) Texts() []string {
	texts := make([]string, len(r))
	for i := range r {
		texts[i] = r[i].Chunk.Text
	}
	return texts
}

// Answer is the synthesized response to a question.
type Answer struct {
	// Text is the generation service output, verbatim.
	Text string

	// Sources are the chunks the answer was grounded on.
	Sources RetrievalResult
}
