package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/domain"
	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/ports/driven"
	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/ports/driving"
	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/logger"
)

// Ensure FeedbackService implements the interface.
var _ driving.FeedbackService = (*FeedbackService)(nil)

// FeedbackService records user judgements on retrieval results.
type FeedbackService struct {
	feedbackStore driven.FeedbackStore
	settings      domain.FeedbackSettings
}

// NewFeedbackService creates a new feedback service.
func NewFeedbackService(feedbackStore driven.FeedbackStore, settings domain.FeedbackSettings) *FeedbackService {
	return &FeedbackService{
		feedbackStore: feedbackStore,
		settings:      settings,
	}
}

// Submit validates and stores feedback for one cited chunk of one result.
func (s *FeedbackService) Submit(ctx context.Context, req driving.FeedbackRequest) (*domain.Feedback, error) {
	logger.Section("Feedback")

	if !domain.ValidRating(req.Rating) {
		return nil, fmt.Errorf("rating %d outside 1..5: %w", req.Rating, domain.ErrInvalidInput)
	}
	if req.ResultID == "" || req.ChunkID == "" {
		return nil, fmt.Errorf("result and chunk IDs required: %w", domain.ErrInvalidInput)
	}

	// The (result, chunk) pair must have actually been issued.
	result, err := s.feedbackStore.GetResult(ctx, req.ResultID)
	if err != nil {
		return nil, fmt.Errorf("result %s: %w", req.ResultID, domain.ErrUnknownResult)
	}
	if !result.HasChunk(req.ChunkID) {
		return nil, fmt.Errorf("chunk %s not cited by result %s: %w",
			req.ChunkID, req.ResultID, domain.ErrUnknownResult)
	}

	now := time.Now()
	fb := &domain.Feedback{
		ID:        uuid.NewString(),
		ResultID:  req.ResultID,
		ChunkID:   req.ChunkID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: now,
	}

	// Negative feedback enqueues retraining work in the same transaction
	// as the feedback row.
	var queued *domain.RetrainQueueItem
	if fb.Rating <= s.settings.NegativeThreshold {
		queued = &domain.RetrainQueueItem{
			ID:         uuid.NewString(),
			FeedbackID: fb.ID,
			ChunkID:    fb.ChunkID,
			Rating:     fb.Rating,
			State:      domain.QueuePending,
			CreatedAt:  now,
		}
		logger.Debug("Rating %d is negative, queueing chunk %s for retraining", fb.Rating, fb.ChunkID)
	}

	if err := s.feedbackStore.SaveFeedback(ctx, fb, queued); err != nil {
		return nil, fmt.Errorf("save feedback: %w", err)
	}

	logger.Info("Recorded feedback %s (rating %d) on chunk %s", fb.ID, fb.Rating, fb.ChunkID)
	return fb, nil
}
