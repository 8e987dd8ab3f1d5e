package driving

import "context"

// RetrainService drains the retrain queue and applies score adjustments.
type RetrainService interface {
	// Run processes all pending queue items: groups them by chunk,
	// applies diminishing penalties, and marks items processed once the
	// adjustments are durable. Returns domain.ErrRetrainInProgress when
	// another run is active.
	Run(ctx context.Context) (*RetrainReport, error)
}

// RetrainReport reports the outcome of a retraining pass.
type RetrainReport struct {
	// Processed is the number of queue items marked processed.
	Processed int

	// ChunksAdjusted is the number of distinct chunks whose score changed.
	ChunksAdjusted int
}
