package driving

import (
	"context"

	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/domain"
)

// IngestService manages the document lifecycle: ingestion, deletion, and
// index rebuilds.
type IngestService interface {
	// Ingest chunks, embeds, and indexes a document. Re-ingesting an
	// existing document ID replaces its chunks and vectors atomically.
	// Returns the number of chunks produced.
	Ingest(ctx context.Context, req IngestRequest) (*IngestReceipt, error)

	// IngestRaw normalises raw bytes first, then ingests the result.
	IngestRaw(ctx context.Context, raw *domain.RawDocument) (*IngestReceipt, error)

	// Delete soft-deletes a document and removes its vectors from the
	// index. Returns domain.ErrNotFound when the document is absent.
	Delete(ctx context.Context, documentID string) error

	// Rebuild re-embeds every live chunk into a fresh index. Used after
	// an embedding model change or index loss.
	Rebuild(ctx context.Context) (*RebuildReport, error)
}

// IngestRequest describes a document to ingest.
type IngestRequest struct {
	// DocumentID is optional; a new UUID is assigned when empty.
	// Supplying the ID of an existing document re-ingests it.
	DocumentID string

	// SourceType records the origin format.
	SourceType domain.SourceType

	// Collection tags the document for filtered retrieval.
	Collection string

	// Content is the full extracted text.
	Content string
}

// IngestReceipt reports the outcome of an ingestion.
type IngestReceipt struct {
	// DocumentID is the assigned or reused document ID.
	DocumentID string

	// ChunkCount is the number of chunks produced and indexed.
	ChunkCount int

	// Replaced is true when an existing document was re-ingested.
	Replaced bool
}

// RebuildReport reports the outcome of an index rebuild.
type RebuildReport struct {
	// Documents is the number of live documents processed.
	Documents int

	// Chunks is the number of chunks re-embedded and indexed.
	Chunks int

	// EmbeddingVersion is the model tag the rebuilt index carries.
	EmbeddingVersion string
}
