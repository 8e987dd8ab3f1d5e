package domain

import "time"

// Rating bounds and the threshold below which feedback queues retraining.
const (
	MinRating = 1
	MaxRating = 5

	// NegativeRatingThreshold marks ratings at or below this value as
	// negative. Negative feedback enqueues the chunk for retraining.
	NegativeRatingThreshold = 2
)

// ValidRating reports whether a rating is within the 1..5 scale.
func ValidRating(rating int) bool {
	return rating >= MinRating && rating <= MaxRating
}

// Feedback is a user judgement on one cited chunk of one retrieval result.
type Feedback struct {
	// ID is the unique identifier for the feedback.
	ID string

	// ResultID references the RetrievalResult being judged.
	ResultID string

	// ChunkID references the cited chunk being judged.
	ChunkID string

	// Rating is the 1..5 judgement, 1 worst.
	Rating int

	// Comment is optional free text.
	Comment string

	// CreatedAt is when the feedback was submitted.
	CreatedAt time.Time
}

// Negative reports whether this feedback should trigger retraining.
func (f *Feedback) Negative() bool {
	return f.Rating <= NegativeRatingThreshold
}

// QueueState is the lifecycle state of a retrain queue item.
type QueueState string

// Retrain queue states.
const (
	QueuePending   QueueState = "pending"
	QueueProcessed QueueState = "processed"
)

// RetrainQueueItem is one unit of pending retraining work. Items are written
// in the same transaction as the negative feedback that caused them, so a
// recorded negative judgement is never lost before a retraining pass.
type RetrainQueueItem struct {
	// ID is the unique identifier for the queue item.
	ID string

	// FeedbackID references the feedback that enqueued this item.
	FeedbackID string

	// ChunkID is the chunk whose score will be adjusted.
	ChunkID string

	// Rating is the rating carried over from the feedback.
	Rating int

	// State is pending until a retraining pass durably applies the
	// adjustment, then processed.
	State QueueState

	// CreatedAt is when the item was enqueued.
	CreatedAt time.Time

	// ProcessedAt is when the item was marked processed.
	ProcessedAt time.Time
}

// ScoreAdjustment is one append-only audit row recording a relevance score
// change applied to a chunk.
type ScoreAdjustment struct {
	// ID is the unique identifier for the adjustment.
	ID string

	// ChunkID is the adjusted chunk.
	ChunkID string

	// Delta is the signed change applied before clamping.
	Delta float64

	// OldScore and NewScore bracket the applied change. NewScore is the
	// clamped value actually stored.
	OldScore float64
	NewScore float64

	// Reason describes why the adjustment happened (e.g. "negative feedback").
	Reason string

	// CreatedAt is when the adjustment was applied.
	CreatedAt time.Time
}

// Penalty base for negative feedback adjustments.
const PenaltyBase = 0.1

// PenaltyDelta returns the signed delta for the n-th cumulative penalty
// applied to a chunk (n counts from 1). Penalties diminish so repeated
// negative feedback converges instead of collapsing a score in one pass:
// -0.1, -0.05, -0.025 and so on.
func PenaltyDelta(n int) float64 {
	if n < 1 {
		n = 1
	}
	delta := PenaltyBase
	for i := 1; i < n; i++ {
		delta /= 2
	}
	return -delta
}

// RatingStats summarises accumulated feedback.
type RatingStats struct {
	// Count is the total number of feedback entries.
	Count int

	// Average is the mean rating, 0 when Count is 0.
	Average float64

	// Distribution maps rating value to occurrence count.
	Distribution map[int]int

	// PendingRetrain is the number of unprocessed queue items.
	PendingRetrain int
}
