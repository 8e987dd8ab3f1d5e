// Package chunker provides a fixed-size overlapping text chunker.
package chunker

import (
	"fmt"

	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/domain"
	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/ports/driven"
)

// DefaultChunkSize is the default number of runes per chunk.
const DefaultChunkSize = 500

// DefaultChunkOverlap is the default number of overlapping runes.
const DefaultChunkOverlap = 100

// Ensure Chunker implements the interface.
var _ driven.Chunker = (*Chunker)(nil)

// Chunker splits document content into fixed-size overlapping chunks.
// Offsets are rune-based so multi-byte text chunks cleanly.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk size in runes.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		c.chunkSize = size
	}
}

// WithOverlap sets the overlap between chunks in runes.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		c.overlap = overlap
	}
}

// New creates a chunker with the given options.
// Returns domain.ErrInvalidConfiguration when the size is not positive, the
// overlap is negative, or the overlap is not strictly less than the size.
func New(opts ...Option) (*Chunker, error) {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size %d: %w", c.chunkSize, domain.ErrInvalidConfiguration)
	}
	if c.overlap < 0 || c.overlap >= c.chunkSize {
		return nil, fmt.Errorf("overlap %d for size %d: %w",
			c.overlap, c.chunkSize, domain.ErrInvalidConfiguration)
	}

	return c, nil
}

// Chunk splits the document content into overlapping chunks.
// Chunk IDs derive from (documentID, position), so re-chunking the same
// document yields the same IDs.
func (c *Chunker) Chunk(doc *domain.Document) ([]domain.Chunk, error) {
	if doc.Content == "" {
		// Empty content produces no chunks
		return nil, nil
	}

	runes := []rune(doc.Content)
	contentLen := len(runes)
	step := c.chunkSize - c.overlap

	chunks := make([]domain.Chunk, 0, contentLen/step+1)

	position := 0
	for start := 0; start < contentLen; start += step {
		end := start + c.chunkSize
		if end > contentLen {
			end = contentLen
		}

		chunks = append(chunks, domain.Chunk{
			ID:             domain.ChunkID(doc.ID, position),
			DocumentID:     doc.ID,
			Position:       position,
			Start:          start,
			End:            end,
			Content:        string(runes[start:end]),
			RelevanceScore: domain.NeutralRelevanceScore,
			CreatedAt:      doc.UpdatedAt,
		})
		position++

		// The final chunk may be shorter than the step; nothing remains
		// past it.
		if end == contentLen {
			break
		}
	}

	return chunks, nil
}
