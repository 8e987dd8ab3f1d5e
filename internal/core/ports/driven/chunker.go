package driven

import "github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/domain"

// Chunker splits document text into overlapping retrievable units.
// Splitting is deterministic: the same text and settings always produce
// the same chunks with the same IDs.
type Chunker interface {
	// Chunk splits the document's content into chunks with [start, end)
	// rune offsets. Adjacent chunks share the configured overlap. Empty
	// content yields no chunks and no error.
	Chunk(doc *domain.Document) ([]domain.Chunk, error)
}
