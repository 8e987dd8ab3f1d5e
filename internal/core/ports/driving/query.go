package driving

import (
	"context"

	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/domain"
)

// QueryService answers natural-language queries over the indexed corpus.
type QueryService interface {
	// Query embeds the text, retrieves and re-ranks candidate chunks,
	// synthesises an answer, and persists the result so feedback can
	// reference it. A query matching nothing returns a valid result with
	// empty citations, not an error.
	Query(ctx context.Context, text string, opts domain.QueryOptions) (*domain.RetrievalResult, error)
}
