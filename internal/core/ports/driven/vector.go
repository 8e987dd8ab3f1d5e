package driven

import "context"

// VectorIndex provides semantic similarity search operations.
// The index is a fast-access structure over the document store, not an
// independent source of truth. It can be rebuilt from stored chunks.
type VectorIndex interface {
	// Upsert inserts or atomically replaces the vector for a chunk.
	// Readers never observe a partially written entry.
	Upsert(ctx context.Context, chunkID string, embedding []float32, meta VectorMeta) error

	// Remove deletes a vector from the index. Removing an absent chunk
	// is a no-op.
	Remove(ctx context.Context, chunkID string) error

	// RemoveByDocument deletes all vectors belonging to a document.
	RemoveByDocument(ctx context.Context, documentID string) error

	// Search finds the k nearest neighbours to the query vector.
	// Results are ordered by similarity descending; equal similarities
	// keep insertion order. A zero-value filter matches everything.
	Search(ctx context.Context, query []float32, k int, filter VectorFilter) ([]VectorHit, error)

	// Len returns the number of vectors currently indexed.
	Len() int

	// Close releases resources.
	Close() error
}

// VectorMeta carries index-side metadata alongside a vector.
type VectorMeta struct {
	// DocumentID is the chunk's parent document.
	DocumentID string

	// Collection is the document's collection tag.
	Collection string
}

// VectorFilter restricts a search to a subset of the index.
type VectorFilter struct {
	// Collection limits hits to one collection when non-empty.
	Collection string
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// DocumentID is the chunk's parent document.
	DocumentID string

	// Similarity is the cosine similarity score.
	Similarity float64
}
