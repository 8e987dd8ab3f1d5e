package domain

import (
	"strconv"
	"time"
)

// SourceType identifies the origin format of a document's text.
type SourceType string

// Supported source types.
const (
	SourcePDF     SourceType = "pdf"
	SourceDOCX    SourceType = "docx"
	SourceTXT     SourceType = "txt"
	SourceOCRPage SourceType = "ocr-page"
)

// Valid reports whether the source type is one of the supported values.
func (t SourceType) Valid() bool {
	switch t {
	case SourcePDF, SourceDOCX, SourceTXT, SourceOCRPage:
		return true
	}
	return false
}

// Document represents an ingested document with metadata.
// Documents are immutable once indexed except for the Deleted flag.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// SourceType records the origin format (pdf, docx, txt, ocr-page).
	SourceType SourceType

	// Collection is the owning collection tag used for query filtering.
	Collection string

	// Content is the full extracted text before chunking.
	Content string

	// Deleted marks the document as soft-deleted. Soft-deleted documents
	// leave the vector index but stay in storage so the score-adjustment
	// audit trail remains resolvable.
	Deleted bool

	// CreatedAt is when the document was first ingested.
	CreatedAt time.Time

	// UpdatedAt is when the document was last re-ingested.
	UpdatedAt time.Time
}

// Chunk represents a retrievable unit within a document.
// Documents are split into overlapping chunks for embedding and retrieval.
type Chunk struct {
	// ID is the unique identifier for the chunk. IDs are derived
	// deterministically from (DocumentID, Position) so that re-ingesting
	// the same document yields the same IDs.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Position is the ordinal position within the document.
	Position int

	// Start and End are rune offsets into the document content.
	// The half-open span [Start, End) is required for citations.
	Start int
	End   int

	// Content is the text of this chunk.
	Content string

	// Embedding is the vector representation for similarity search.
	Embedding []float32

	// EmbeddingVersion tags the model that produced the embedding.
	// Vectors with different version tags must never be compared.
	EmbeddingVersion string

	// RelevanceScore is the mutable per-chunk multiplier tuned by
	// feedback. Neutral is 1.0.
	RelevanceScore float64

	// CreatedAt is when the chunk was created.
	CreatedAt time.Time
}

// Relevance score bounds and the neutral default.
const (
	NeutralRelevanceScore = 1.0
	MinRelevanceScore     = 0.1
	MaxRelevanceScore     = 3.0
)

// ClampRelevanceScore bounds a relevance score to the permitted range.
func ClampRelevanceScore(score float64) float64 {
	if score < MinRelevanceScore {
		return MinRelevanceScore
	}
	if score > MaxRelevanceScore {
		return MaxRelevanceScore
	}
	return score
}

// ChunkID derives the deterministic chunk identifier for a document
// position. Re-ingesting the same document reuses the same IDs, which is
// what makes ingestion idempotent at the index level.
func ChunkID(documentID string, position int) string {
	return documentID + ":" + strconv.Itoa(position)
}

// StoreStats summarises document store contents.
type StoreStats struct {
	// DocumentCount is the number of live (not soft-deleted) documents.
	DocumentCount int

	// ChunkCount is the number of chunks belonging to live documents.
	ChunkCount int
}
