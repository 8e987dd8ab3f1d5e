package driving

import (
	"context"

	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/domain"
)

// FeedbackService records user judgements on retrieval results.
type FeedbackService interface {
	// Submit validates and stores feedback for one cited chunk of one
	// result. Rating is 1..5; a rating at or below the negative threshold
	// also enqueues the chunk for retraining in the same transaction.
	// Returns domain.ErrUnknownResult when the (result, chunk) pair was
	// never issued.
	Submit(ctx context.Context, req FeedbackRequest) (*domain.Feedback, error)
}

// FeedbackRequest describes one feedback submission.
type FeedbackRequest struct {
	// ResultID references the retrieval result being judged.
	ResultID string

	// ChunkID references the cited chunk being judged.
	ChunkID string

	// Rating is the 1..5 judgement, 1 worst.
	Rating int

	// Comment is optional free text.
	Comment string
}
