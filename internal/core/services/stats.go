package services

import (
	"context"
	"fmt"

	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/ports/driven"
	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/ports/driving"
)

// Ensure StatsService implements the interface.
var _ driving.StatsService = (*StatsService)(nil)

// StatsService aggregates corpus and feedback statistics.
type StatsService struct {
	docStore         driven.DocumentStore
	feedbackStore    driven.FeedbackStore
	vectorIndex      driven.VectorIndex
	embeddingService driven.EmbeddingService
}

// NewStatsService creates a new stats service.
func NewStatsService(
	docStore driven.DocumentStore,
	feedbackStore driven.FeedbackStore,
	vectorIndex driven.VectorIndex,
	embeddingService driven.EmbeddingService,
) *StatsService {
	return &StatsService{
		docStore:         docStore,
		feedbackStore:    feedbackStore,
		vectorIndex:      vectorIndex,
		embeddingService: embeddingService,
	}
}

// Stats returns current document, chunk, index, and rating figures.
func (s *StatsService) Stats(ctx context.Context) (*driving.Stats, error) {
	storeStats, err := s.docStore.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("store stats: %w", err)
	}

	ratingStats, err := s.feedbackStore.RatingStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("rating stats: %w", err)
	}

	return &driving.Stats{
		Store:          *storeStats,
		IndexedVectors: s.vectorIndex.Len(),
		Ratings:        *ratingStats,
		EmbeddingModel: s.embeddingService.ModelName(),
	}, nil
}
