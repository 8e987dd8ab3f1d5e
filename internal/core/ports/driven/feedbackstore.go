package driven

import (
	"context"

	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/domain"
)

// FeedbackStore persists retrieval results, feedback, and the retrain queue.
// Backed by SQLite so feedback and queue writes share one transaction.
type FeedbackStore interface {
	// SaveResult persists a retrieval result so feedback can reference it.
	SaveResult(ctx context.Context, result *domain.RetrievalResult) error

	// GetResult retrieves a retrieval result by ID.
	// Returns domain.ErrNotFound when the result does not exist.
	GetResult(ctx context.Context, id string) (*domain.RetrievalResult, error)

	// SaveFeedback stores feedback and, when the feedback is negative,
	// the pending retrain queue item in the SAME transaction. Either both
	// rows land or neither does.
	SaveFeedback(ctx context.Context, fb *domain.Feedback, queued *domain.RetrainQueueItem) error

	// ListPending returns unprocessed retrain queue items, oldest first.
	ListPending(ctx context.Context) ([]domain.RetrainQueueItem, error)

	// MarkProcessed transitions a queue item to processed. Called only
	// after the corresponding score adjustment is durable, so a crash
	// between the two re-applies rather than loses the item.
	MarkProcessed(ctx context.Context, itemID string) error

	// RatingStats aggregates feedback counts, average, distribution, and
	// the pending queue depth.
	RatingStats(ctx context.Context) (*domain.RatingStats, error)
}
