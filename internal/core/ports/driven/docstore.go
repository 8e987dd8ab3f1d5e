package driven

import (
	"context"

	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/domain"
)

// DocumentStore persists documents, chunks, and relevance score history.
// Backed by SQLite for durable storage.
type DocumentStore interface {
	// SaveDocument stores or updates a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// ReplaceChunks swaps a document's chunk set in one transaction.
	// Existing chunks for the document are removed first, so re-ingestion
	// never leaves a mix of old and new chunks behind.
	ReplaceChunks(ctx context.Context, documentID string, chunks []domain.Chunk) error

	// GetDocument retrieves a document by ID.
	// Returns domain.ErrNotFound when the document does not exist.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetChunks retrieves all chunks for a document, ordered by position.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// GetChunk retrieves a specific chunk by ID.
	// Returns domain.ErrNotFound when the chunk does not exist.
	GetChunk(ctx context.Context, id string) (*domain.Chunk, error)

	// GetChunksByIDs retrieves chunks by ID. Missing IDs are skipped.
	GetChunksByIDs(ctx context.Context, ids []string) ([]domain.Chunk, error)

	// SoftDeleteDocument marks a document deleted without removing its
	// rows, so score adjustment history stays resolvable.
	// Returns domain.ErrNotFound when the document does not exist.
	SoftDeleteDocument(ctx context.Context, id string) error

	// ListLiveDocuments returns all documents that are not soft-deleted.
	ListLiveDocuments(ctx context.Context) ([]domain.Document, error)

	// ApplyAdjustment updates a chunk's relevance score and appends the
	// audit row in one transaction. The stored score is the clamped
	// NewScore from the adjustment.
	ApplyAdjustment(ctx context.Context, adj *domain.ScoreAdjustment) error

	// ListAdjustments returns the adjustment history for a chunk,
	// oldest first.
	ListAdjustments(ctx context.Context, chunkID string) ([]domain.ScoreAdjustment, error)

	// Stats returns live document and chunk counts.
	Stats(ctx context.Context) (*domain.StoreStats, error)
}
