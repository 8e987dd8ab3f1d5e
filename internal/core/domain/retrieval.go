package domain

import "time"

// QueryOptions control a single retrieval request.
type QueryOptions struct {
	// TopK is the number of citations to return. Zero means the
	// configured default.
	TopK int

	// Collection restricts retrieval to one collection. Empty means all.
	Collection string

	// MinSimilarity overrides the configured similarity floor when > 0.
	MinSimilarity float64
}

// Citation is one ranked chunk backing an answer.
type Citation struct {
	// ChunkID identifies the cited chunk.
	ChunkID string

	// DocumentID identifies the chunk's parent document.
	DocumentID string

	// Position is the chunk's ordinal position within the document.
	Position int

	// Start and End are the chunk's rune offsets in the document.
	Start int
	End   int

	// Content is the chunk text used as grounding context.
	Content string

	// Similarity is the raw cosine similarity against the query.
	Similarity float64

	// RelevanceScore is the chunk's multiplier at query time.
	RelevanceScore float64

	// Adjusted is Similarity * RelevanceScore, the ranking key.
	Adjusted float64
}

// RetrievalResult is a persisted query outcome. Feedback must reference a
// result by ID, so every answered query is recorded.
type RetrievalResult struct {
	// ID is the unique identifier for this result.
	ID string

	// Query is the original query text.
	Query string

	// Answer is the synthesised answer, or the configured no-result text
	// when no chunk survived the threshold.
	Answer string

	// Citations are the ranked chunks behind the answer, best first.
	Citations []Citation

	// EmbeddingVersion tags the model the query was embedded with.
	EmbeddingVersion string

	// CreatedAt is when the query was answered.
	CreatedAt time.Time
}

// HasChunk reports whether the result cites the given chunk.
func (r *RetrievalResult) HasChunk(chunkID string) bool {
	for _, c := range r.Citations {
		if c.ChunkID == chunkID {
			return true
		}
	}
	return false
}
