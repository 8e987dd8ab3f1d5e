package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/domain"
)

func saveDoc(t *testing.T, store *DocumentStore, id string) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, store.SaveDocument(context.Background(), &domain.Document{
		ID:         id,
		SourceType: domain.SourceTXT,
		Content:    "content",
		CreatedAt:  now,
		UpdatedAt:  now,
	}))
}

func chunk(docID string, position int) domain.Chunk {
	return domain.Chunk{
		ID:             domain.ChunkID(docID, position),
		DocumentID:     docID,
		Position:       position,
		Content:        "chunk",
		Embedding:      []float32{1, 0},
		RelevanceScore: domain.NeutralRelevanceScore,
	}
}

func TestDocumentStore_SaveAndGet(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()
	saveDoc(t, store, "doc-1")

	doc, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "doc-1", doc.ID)

	_, err = store.GetDocument(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_ReplaceChunks(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()
	saveDoc(t, store, "doc-1")

	require.NoError(t, store.ReplaceChunks(ctx, "doc-1", []domain.Chunk{
		chunk("doc-1", 0), chunk("doc-1", 1),
	}))
	require.NoError(t, store.ReplaceChunks(ctx, "doc-1", []domain.Chunk{chunk("doc-1", 0)}))

	chunks, err := store.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "doc-1:0", chunks[0].ID)
}

func TestDocumentStore_GetChunksByIDs_SkipsMissing(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()
	saveDoc(t, store, "doc-1")
	require.NoError(t, store.ReplaceChunks(ctx, "doc-1", []domain.Chunk{chunk("doc-1", 0)}))

	chunks, err := store.GetChunksByIDs(ctx, []string{"doc-1:0", "doc-1:9"})
	require.NoError(t, err)
	assert.Len(t, chunks, 1)
}

func TestDocumentStore_SoftDelete(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()
	saveDoc(t, store, "doc-1")
	require.NoError(t, store.ReplaceChunks(ctx, "doc-1", []domain.Chunk{chunk("doc-1", 0)}))

	require.NoError(t, store.SoftDeleteDocument(ctx, "doc-1"))

	doc, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.True(t, doc.Deleted)

	// Chunk rows survive with embeddings cleared.
	c, err := store.GetChunk(ctx, "doc-1:0")
	require.NoError(t, err)
	assert.Nil(t, c.Embedding)

	live, err := store.ListLiveDocuments(ctx)
	require.NoError(t, err)
	assert.Empty(t, live)

	assert.ErrorIs(t, store.SoftDeleteDocument(ctx, "missing"), domain.ErrNotFound)
}

func TestDocumentStore_ApplyAdjustment(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()
	saveDoc(t, store, "doc-1")
	require.NoError(t, store.ReplaceChunks(ctx, "doc-1", []domain.Chunk{chunk("doc-1", 0)}))

	adj := &domain.ScoreAdjustment{
		ID:       "adj-1",
		ChunkID:  "doc-1:0",
		Delta:    -0.1,
		OldScore: 1.0,
		NewScore: 0.9,
	}
	require.NoError(t, store.ApplyAdjustment(ctx, adj))

	c, err := store.GetChunk(ctx, "doc-1:0")
	require.NoError(t, err)
	assert.Equal(t, 0.9, c.RelevanceScore)

	history, err := store.ListAdjustments(ctx, "doc-1:0")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, -0.1, history[0].Delta)

	adj.ChunkID = "missing:0"
	assert.ErrorIs(t, store.ApplyAdjustment(ctx, adj), domain.ErrNotFound)
}

func TestDocumentStore_Stats(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()
	saveDoc(t, store, "doc-1")
	saveDoc(t, store, "doc-2")
	require.NoError(t, store.ReplaceChunks(ctx, "doc-1", []domain.Chunk{
		chunk("doc-1", 0), chunk("doc-1", 1),
	}))
	require.NoError(t, store.SoftDeleteDocument(ctx, "doc-2"))

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.DocumentCount)
	assert.Equal(t, 2, stats.ChunkCount)
}
