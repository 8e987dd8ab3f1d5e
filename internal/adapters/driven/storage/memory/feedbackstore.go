package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/domain"
	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/ports/driven"
)

// Ensure FeedbackStore implements the interface.
var _ driven.FeedbackStore = (*FeedbackStore)(nil)

// FeedbackStore is an in-memory implementation of driven.FeedbackStore.
type FeedbackStore struct {
	mu       sync.RWMutex
	results  map[string]domain.RetrievalResult
	feedback map[string]domain.Feedback
	queue    map[string]domain.RetrainQueueItem
}

// NewFeedbackStore creates a new in-memory feedback store.
func NewFeedbackStore() *FeedbackStore {
	return &FeedbackStore{
		results:  make(map[string]domain.RetrievalResult),
		feedback: make(map[string]domain.Feedback),
		queue:    make(map[string]domain.RetrainQueueItem),
	}
}

// SaveResult persists a retrieval result.
func (s *FeedbackStore) SaveResult(_ context.Context, result *domain.RetrievalResult) error {
	if result == nil {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[result.ID] = *result
	return nil
}

// GetResult retrieves a retrieval result by ID.
func (s *FeedbackStore) GetResult(_ context.Context, id string) (*domain.RetrievalResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.results[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &result, nil
}

// SaveFeedback stores feedback and the optional retrain queue item together.
func (s *FeedbackStore) SaveFeedback(_ context.Context, fb *domain.Feedback, queued *domain.RetrainQueueItem) error {
	if fb == nil {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feedback[fb.ID] = *fb
	if queued != nil {
		s.queue[queued.ID] = *queued
	}
	return nil
}

// ListPending returns unprocessed retrain queue items, oldest first.
func (s *FeedbackStore) ListPending(_ context.Context) ([]domain.RetrainQueueItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []domain.RetrainQueueItem //nolint:prealloc // pending count unknown
	for _, item := range s.queue {
		if item.State == domain.QueuePending {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

// MarkProcessed transitions a queue item to processed.
func (s *FeedbackStore) MarkProcessed(_ context.Context, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.queue[itemID]
	if !ok {
		return domain.ErrNotFound
	}
	item.State = domain.QueueProcessed
	item.ProcessedAt = time.Now().UTC()
	s.queue[itemID] = item
	return nil
}

// RatingStats aggregates feedback counts and the pending queue depth.
func (s *FeedbackStore) RatingStats(_ context.Context) (*domain.RatingStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := &domain.RatingStats{
		Distribution: make(map[int]int),
	}
	var sum int
	for _, fb := range s.feedback {
		stats.Count++
		stats.Distribution[fb.Rating]++
		sum += fb.Rating
	}
	if stats.Count > 0 {
		stats.Average = float64(sum) / float64(stats.Count)
	}
	for _, item := range s.queue {
		if item.State == domain.QueuePending {
			stats.PendingRetrain++
		}
	}
	return stats, nil
}
