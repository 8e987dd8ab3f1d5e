// Package memory provides an in-memory brute-force vector index.
//
// The index is a fast-access structure over the document store, not a
// durable store in its own right. It is rebuilt from stored chunks on
// startup or after index loss.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/domain"
	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// entry is one indexed vector. Entries are replaced whole on upsert, so a
// reader holding the lock never observes a partially written vector.
type entry struct {
	chunkID string
	vector  []float32
	meta    driven.VectorMeta
	seq     uint64
}

// Index is a brute-force cosine similarity index guarded by a RWMutex.
// Exact search is fine at this scale; every query scans all entries.
type Index struct {
	mu      sync.RWMutex
	entries map[string]*entry
	nextSeq uint64
	closed  bool
}

// New creates an empty index.
func New() *Index {
	return &Index{entries: make(map[string]*entry)}
}

// Upsert inserts or atomically replaces the vector for a chunk.
// A replaced entry keeps its original insertion sequence so tie-breaks
// stay stable across re-ingestion.
func (idx *Index) Upsert(_ context.Context, chunkID string, embedding []float32, meta driven.VectorMeta) error {
	if chunkID == "" {
		return fmt.Errorf("empty chunk ID: %w", domain.ErrInvalidInput)
	}
	if len(embedding) == 0 {
		return fmt.Errorf("empty embedding for %s: %w", chunkID, domain.ErrInvalidInput)
	}

	vector := make([]float32, len(embedding))
	copy(vector, embedding)

	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.closed {
		return fmt.Errorf("index closed: %w", domain.ErrInvalidInput)
	}

	seq := idx.nextSeq
	if existing, ok := idx.entries[chunkID]; ok {
		seq = existing.seq
	} else {
		idx.nextSeq++
	}

	idx.entries[chunkID] = &entry{
		chunkID: chunkID,
		vector:  vector,
		meta:    meta,
		seq:     seq,
	}
	return nil
}

// Remove deletes a vector from the index. Absent chunks are a no-op.
func (idx *Index) Remove(_ context.Context, chunkID string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	delete(idx.entries, chunkID)
	return nil
}

// RemoveByDocument deletes all vectors belonging to a document.
func (idx *Index) RemoveByDocument(_ context.Context, documentID string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	for id, e := range idx.entries {
		if e.meta.DocumentID == documentID {
			delete(idx.entries, id)
		}
	}
	return nil
}

// Search finds the k nearest neighbours by cosine similarity.
// Equal similarities keep insertion order.
func (idx *Index) Search(_ context.Context, query []float32, k int, filter driven.VectorFilter) ([]driven.VectorHit, error) {
	if len(query) == 0 {
		return nil, fmt.Errorf("empty query vector: %w", domain.ErrInvalidInput)
	}
	if k <= 0 {
		return nil, nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	type scored struct {
		hit driven.VectorHit
		seq uint64
	}

	candidates := make([]scored, 0, len(idx.entries))
	for _, e := range idx.entries {
		if filter.Collection != "" && e.meta.Collection != filter.Collection {
			continue
		}
		if len(e.vector) != len(query) {
			// Dimension mismatch means a different model produced this
			// vector; it is not comparable.
			continue
		}
		candidates = append(candidates, scored{
			hit: driven.VectorHit{
				ChunkID:    e.chunkID,
				DocumentID: e.meta.DocumentID,
				Similarity: cosineSimilarity(query, e.vector),
			},
			seq: e.seq,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].hit.Similarity != candidates[j].hit.Similarity {
			return candidates[i].hit.Similarity > candidates[j].hit.Similarity
		}
		return candidates[i].seq < candidates[j].seq
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}

	hits := make([]driven.VectorHit, len(candidates))
	for i, c := range candidates {
		hits[i] = c.hit
	}
	return hits, nil
}

// Len returns the number of vectors currently indexed.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// Close releases resources.
func (idx *Index) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.closed = true
	idx.entries = make(map[string]*entry)
	return nil
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Zero vectors yield zero similarity.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
