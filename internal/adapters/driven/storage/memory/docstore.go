// Package memory provides in-memory implementations of the storage port
// interfaces. They back mock mode and tests; nothing survives a restart.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/domain"
	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu          sync.RWMutex
	documents   map[string]domain.Document
	chunks      map[string][]domain.Chunk
	adjustments map[string][]domain.ScoreAdjustment
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents:   make(map[string]domain.Document),
		chunks:      make(map[string][]domain.Chunk),
		adjustments: make(map[string][]domain.ScoreAdjustment),
	}
}

// SaveDocument stores or updates a document.
func (s *DocumentStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[doc.ID] = *doc
	return nil
}

// ReplaceChunks swaps a document's chunk set.
func (s *DocumentStore) ReplaceChunks(_ context.Context, documentID string, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	replacement := make([]domain.Chunk, len(chunks))
	copy(replacement, chunks)
	s.chunks[documentID] = replacement
	return nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// GetChunks retrieves all chunks for a document, ordered by position.
func (s *DocumentStore) GetChunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.chunks[documentID]
	if !ok {
		return nil, nil
	}
	chunks := make([]domain.Chunk, len(stored))
	copy(chunks, stored)
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].Position < chunks[j].Position })
	return chunks, nil
}

// GetChunk retrieves a specific chunk by ID.
func (s *DocumentStore) GetChunk(_ context.Context, id string) (*domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, chunks := range s.chunks {
		for _, chunk := range chunks {
			if chunk.ID == id {
				return &chunk, nil
			}
		}
	}
	return nil, domain.ErrNotFound
}

// GetChunksByIDs retrieves chunks by ID. Missing IDs are skipped.
func (s *DocumentStore) GetChunksByIDs(_ context.Context, ids []string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var found []domain.Chunk //nolint:prealloc // hit count unknown
	for _, chunks := range s.chunks {
		for _, chunk := range chunks {
			if wanted[chunk.ID] {
				found = append(found, chunk)
			}
		}
	}
	return found, nil
}

// SoftDeleteDocument marks a document deleted and clears chunk embeddings.
func (s *DocumentStore) SoftDeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[id]
	if !ok {
		return domain.ErrNotFound
	}
	doc.Deleted = true
	s.documents[id] = doc
	for i := range s.chunks[id] {
		s.chunks[id][i].Embedding = nil
	}
	return nil
}

// ListLiveDocuments returns all documents that are not soft-deleted.
func (s *DocumentStore) ListLiveDocuments(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var docs []domain.Document //nolint:prealloc // live count unknown
	for _, doc := range s.documents {
		if !doc.Deleted {
			docs = append(docs, doc)
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

// ApplyAdjustment updates a chunk's relevance score and appends the
// audit row.
func (s *DocumentStore) ApplyAdjustment(_ context.Context, adj *domain.ScoreAdjustment) error {
	if adj == nil {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for docID, chunks := range s.chunks {
		for i, chunk := range chunks {
			if chunk.ID == adj.ChunkID {
				s.chunks[docID][i].RelevanceScore = adj.NewScore
				s.adjustments[adj.ChunkID] = append(s.adjustments[adj.ChunkID], *adj)
				return nil
			}
		}
	}
	return domain.ErrNotFound
}

// ListAdjustments returns the adjustment history for a chunk, oldest first.
func (s *DocumentStore) ListAdjustments(_ context.Context, chunkID string) ([]domain.ScoreAdjustment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := make([]domain.ScoreAdjustment, len(s.adjustments[chunkID]))
	copy(history, s.adjustments[chunkID])
	return history, nil
}

// Stats returns live document and chunk counts.
func (s *DocumentStore) Stats(_ context.Context) (*domain.StoreStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := &domain.StoreStats{}
	for id, doc := range s.documents {
		if doc.Deleted {
			continue
		}
		stats.DocumentCount++
		stats.ChunkCount += len(s.chunks[id])
	}
	return stats, nil
}
