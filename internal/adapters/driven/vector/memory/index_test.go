package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/domain"
	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/ports/driven"
)

func meta(docID, collection string) driven.VectorMeta {
	return driven.VectorMeta{DocumentID: docID, Collection: collection}
}

func TestIndex_UpsertAndSearch(t *testing.T) {
	idx := New()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, "a", []float32{1, 0}, meta("d1", "")))
	require.NoError(t, idx.Upsert(ctx, "b", []float32{0, 1}, meta("d1", "")))
	assert.Equal(t, 2, idx.Len())

	hits, err := idx.Search(ctx, []float32{1, 0}, 10, driven.VectorFilter{})
	require.NoError(t, err)
	require.Len(t, hits, 2)

	assert.Equal(t, "a", hits[0].ChunkID)
	assert.Equal(t, "d1", hits[0].DocumentID)
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-9)
	assert.Equal(t, "b", hits[1].ChunkID)
	assert.InDelta(t, 0.0, hits[1].Similarity, 1e-9)
}

func TestIndex_Upsert_Replaces(t *testing.T) {
	idx := New()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, "a", []float32{1, 0}, meta("d1", "")))
	require.NoError(t, idx.Upsert(ctx, "a", []float32{0, 1}, meta("d1", "")))
	assert.Equal(t, 1, idx.Len())

	hits, err := idx.Search(ctx, []float32{0, 1}, 1, driven.VectorFilter{})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-9)
}

func TestIndex_Upsert_Invalid(t *testing.T) {
	idx := New()
	ctx := context.Background()

	assert.ErrorIs(t, idx.Upsert(ctx, "", []float32{1}, driven.VectorMeta{}), domain.ErrInvalidInput)
	assert.ErrorIs(t, idx.Upsert(ctx, "a", nil, driven.VectorMeta{}), domain.ErrInvalidInput)
}

func TestIndex_Remove(t *testing.T) {
	idx := New()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, "a", []float32{1, 0}, meta("d1", "")))
	require.NoError(t, idx.Remove(ctx, "a"))
	assert.Zero(t, idx.Len())

	// Removing an absent chunk is a no-op.
	assert.NoError(t, idx.Remove(ctx, "missing"))
}

func TestIndex_RemoveByDocument(t *testing.T) {
	idx := New()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, "a", []float32{1, 0}, meta("d1", "")))
	require.NoError(t, idx.Upsert(ctx, "b", []float32{0, 1}, meta("d1", "")))
	require.NoError(t, idx.Upsert(ctx, "c", []float32{1, 1}, meta("d2", "")))

	require.NoError(t, idx.RemoveByDocument(ctx, "d1"))
	assert.Equal(t, 1, idx.Len())

	hits, err := idx.Search(ctx, []float32{1, 1}, 10, driven.VectorFilter{})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "c", hits[0].ChunkID)
}

func TestIndex_Search_CollectionFilter(t *testing.T) {
	idx := New()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, "a", []float32{1, 0}, meta("d1", "books")))
	require.NoError(t, idx.Upsert(ctx, "b", []float32{1, 0}, meta("d2", "notes")))

	hits, err := idx.Search(ctx, []float32{1, 0}, 10, driven.VectorFilter{Collection: "books"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "a", hits[0].ChunkID)
}

func TestIndex_Search_TiesKeepInsertionOrder(t *testing.T) {
	idx := New()
	ctx := context.Background()

	// Identical vectors, identical similarity.
	require.NoError(t, idx.Upsert(ctx, "second", []float32{1, 0}, meta("d1", "")))
	require.NoError(t, idx.Upsert(ctx, "first", []float32{1, 0}, meta("d1", "")))

	hits, err := idx.Search(ctx, []float32{1, 0}, 10, driven.VectorFilter{})
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "second", hits[0].ChunkID)
	assert.Equal(t, "first", hits[1].ChunkID)
}

func TestIndex_Search_SkipsDimensionMismatch(t *testing.T) {
	idx := New()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, "a", []float32{1, 0}, meta("d1", "")))
	require.NoError(t, idx.Upsert(ctx, "b", []float32{1, 0, 0}, meta("d1", "")))

	hits, err := idx.Search(ctx, []float32{1, 0}, 10, driven.VectorFilter{})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "a", hits[0].ChunkID)
}

func TestIndex_Search_KLimit(t *testing.T) {
	idx := New()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, "a", []float32{1, 0}, meta("d1", "")))
	require.NoError(t, idx.Upsert(ctx, "b", []float32{0.9, 0.1}, meta("d1", "")))
	require.NoError(t, idx.Upsert(ctx, "c", []float32{0, 1}, meta("d1", "")))

	hits, err := idx.Search(ctx, []float32{1, 0}, 2, driven.VectorFilter{})
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "a", hits[0].ChunkID)
	assert.Equal(t, "b", hits[1].ChunkID)

	hits, err = idx.Search(ctx, []float32{1, 0}, 0, driven.VectorFilter{})
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestIndex_Close(t *testing.T) {
	idx := New()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, "a", []float32{1, 0}, meta("d1", "")))
	require.NoError(t, idx.Close())
	assert.Zero(t, idx.Len())

	err := idx.Upsert(ctx, "b", []float32{1, 0}, meta("d1", ""))
	assert.Error(t, err)
}
