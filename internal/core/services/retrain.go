package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/domain"
	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/ports/driven"
	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/ports/driving"
	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/logger"
)

// Ensure RetrainService implements the interface.
var _ driving.RetrainService = (*RetrainService)(nil)

// RetrainService drains the retrain queue and applies score adjustments.
type RetrainService struct {
	docStore      driven.DocumentStore
	feedbackStore driven.FeedbackStore

	mu      sync.Mutex
	running bool
}

// NewRetrainService creates a new retrain service.
func NewRetrainService(docStore driven.DocumentStore, feedbackStore driven.FeedbackStore) *RetrainService {
	return &RetrainService{
		docStore:      docStore,
		feedbackStore: feedbackStore,
	}
}

// Run processes all pending queue items. Only one run is active at a time;
// an overlapping call returns domain.ErrRetrainInProgress.
func (s *RetrainService) Run(ctx context.Context) (*driving.RetrainReport, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, domain.ErrRetrainInProgress
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	logger.Section("Retrain")

	items, err := s.feedbackStore.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}
	logger.Debug("Pending queue items: %d", len(items))

	report := &driving.RetrainReport{}
	if len(items) == 0 {
		return report, nil
	}

	// Group by chunk so one pass applies one diminishing sequence per
	// chunk regardless of how many items reference it.
	byChunk := make(map[string][]domain.RetrainQueueItem)
	order := make([]string, 0)
	for _, item := range items {
		if _, seen := byChunk[item.ChunkID]; !seen {
			order = append(order, item.ChunkID)
		}
		byChunk[item.ChunkID] = append(byChunk[item.ChunkID], item)
	}

	for _, chunkID := range order {
		group := byChunk[chunkID]
		adjusted, err := s.adjustChunk(ctx, chunkID, group)
		if err != nil {
			return nil, err
		}
		if adjusted {
			report.ChunksAdjusted++
		}

		// Items are marked processed only after the adjustment is
		// durable. A crash in between re-applies instead of losing work.
		for _, item := range group {
			if err := s.feedbackStore.MarkProcessed(ctx, item.ID); err != nil {
				return nil, fmt.Errorf("mark processed %s: %w", item.ID, err)
			}
			report.Processed++
		}
	}

	logger.Info("Retrain complete: %d items, %d chunks adjusted", report.Processed, report.ChunksAdjusted)
	return report, nil
}

// adjustChunk applies the diminishing penalty sequence for one chunk's
// pending items. Returns false when the chunk no longer exists.
func (s *RetrainService) adjustChunk(ctx context.Context, chunkID string, group []domain.RetrainQueueItem) (bool, error) {
	chunk, err := s.docStore.GetChunk(ctx, chunkID)
	if err != nil {
		// The chunk may have been replaced by re-ingestion; its queue
		// items are still marked processed by the caller.
		logger.Warn("Chunk %s gone, skipping %d queue items", chunkID, len(group))
		return false, nil
	}

	// Penalty position continues from the chunk's history, so repeated
	// passes keep diminishing instead of restarting at the full base.
	history, err := s.docStore.ListAdjustments(ctx, chunkID)
	if err != nil {
		return false, fmt.Errorf("list adjustments for %s: %w", chunkID, err)
	}

	applied := len(history)
	score := chunk.RelevanceScore

	for range group {
		applied++
		delta := domain.PenaltyDelta(applied)
		newScore := domain.ClampRelevanceScore(score + delta)

		adj := &domain.ScoreAdjustment{
			ID:        uuid.NewString(),
			ChunkID:   chunkID,
			Delta:     delta,
			OldScore:  score,
			NewScore:  newScore,
			Reason:    "negative feedback",
			CreatedAt: time.Now(),
		}
		if err := s.docStore.ApplyAdjustment(ctx, adj); err != nil {
			return false, fmt.Errorf("apply adjustment to %s: %w", chunkID, err)
		}

		logger.Debug("Chunk %s: %v -> %v (delta %v)", chunkID, score, newScore, delta)
		score = newScore
	}

	return true, nil
}
