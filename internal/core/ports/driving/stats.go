package driving

import (
	"context"

	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/domain"
)

// StatsService aggregates corpus and feedback statistics for display.
type StatsService interface {
	// Stats returns current document, chunk, index, and rating figures.
	Stats(ctx context.Context) (*Stats, error)
}

// Stats is a snapshot of system state.
type Stats struct {
	// Store holds live document and chunk counts.
	Store domain.StoreStats

	// IndexedVectors is the number of vectors in the index.
	IndexedVectors int

	// Ratings aggregates accumulated feedback.
	Ratings domain.RatingStats

	// EmbeddingModel is the active embedding model name.
	EmbeddingModel string
}
