package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/domain"
)

func newRetrainFixture(t *testing.T) (*RetrainService, *mockDocumentStore, *mockFeedbackStore) {
	t.Helper()
	docStore := newMockDocumentStore()
	feedbackStore := newMockFeedbackStore()
	svc := NewRetrainService(docStore, feedbackStore)
	return svc, docStore, feedbackStore
}

// enqueue adds a pending queue item for a chunk.
func enqueue(store *mockFeedbackStore, id, chunkID string, at time.Time) {
	store.queue[id] = &domain.RetrainQueueItem{
		ID:        id,
		ChunkID:   chunkID,
		Rating:    1,
		State:     domain.QueuePending,
		CreatedAt: at,
	}
}

// storeChunk places a chunk directly into the mock store.
func storeChunk(store *mockDocumentStore, chunkID string, score float64) {
	store.chunks[chunkID] = &domain.Chunk{
		ID:             chunkID,
		DocumentID:     "d1",
		RelevanceScore: score,
	}
}

func TestRetrainService_Run_EmptyQueue(t *testing.T) {
	svc, _, _ := newRetrainFixture(t)

	report, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.Processed)
	assert.Zero(t, report.ChunksAdjusted)
}

func TestRetrainService_Run_AppliesPenalty(t *testing.T) {
	svc, docStore, feedbackStore := newRetrainFixture(t)
	storeChunk(docStore, "c1", 1.0)
	enqueue(feedbackStore, "q1", "c1", time.Now())

	report, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, 1, report.ChunksAdjusted)

	chunk, err := docStore.GetChunk(context.Background(), "c1")
	require.NoError(t, err)
	assert.InDelta(t, 0.9, chunk.RelevanceScore, 1e-9)

	// Item marked processed, audit row written.
	assert.Equal(t, domain.QueueProcessed, feedbackStore.queue["q1"].State)
	adjs, err := docStore.ListAdjustments(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, adjs, 1)
	assert.InDelta(t, -0.1, adjs[0].Delta, 1e-9)
	assert.Equal(t, "negative feedback", adjs[0].Reason)
}

func TestRetrainService_Run_DiminishingPenalties(t *testing.T) {
	svc, docStore, feedbackStore := newRetrainFixture(t)
	storeChunk(docStore, "c1", 1.0)

	now := time.Now()
	enqueue(feedbackStore, "q1", "c1", now)
	enqueue(feedbackStore, "q2", "c1", now.Add(time.Second))
	enqueue(feedbackStore, "q3", "c1", now.Add(2*time.Second))

	report, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, report.Processed)
	assert.Equal(t, 1, report.ChunksAdjusted)

	// 1.0 - 0.1 - 0.05 - 0.025 = 0.825
	chunk, err := docStore.GetChunk(context.Background(), "c1")
	require.NoError(t, err)
	assert.InDelta(t, 0.825, chunk.RelevanceScore, 1e-9)
}

func TestRetrainService_Run_PenaltyContinuesAcrossRuns(t *testing.T) {
	svc, docStore, feedbackStore := newRetrainFixture(t)
	storeChunk(docStore, "c1", 1.0)

	enqueue(feedbackStore, "q1", "c1", time.Now())
	_, err := svc.Run(context.Background())
	require.NoError(t, err)

	// Second run picks the next point on the curve, not the full base.
	enqueue(feedbackStore, "q2", "c1", time.Now())
	_, err = svc.Run(context.Background())
	require.NoError(t, err)

	chunk, err := docStore.GetChunk(context.Background(), "c1")
	require.NoError(t, err)
	assert.InDelta(t, 0.85, chunk.RelevanceScore, 1e-9)
}

func TestRetrainService_Run_ClampsAtFloor(t *testing.T) {
	svc, docStore, feedbackStore := newRetrainFixture(t)
	storeChunk(docStore, "c1", 0.15)
	enqueue(feedbackStore, "q1", "c1", time.Now())

	_, err := svc.Run(context.Background())
	require.NoError(t, err)

	chunk, err := docStore.GetChunk(context.Background(), "c1")
	require.NoError(t, err)
	assert.InDelta(t, domain.MinRelevanceScore, chunk.RelevanceScore, 1e-9)
}

func TestRetrainService_Run_MissingChunkStillProcessed(t *testing.T) {
	svc, _, feedbackStore := newRetrainFixture(t)
	enqueue(feedbackStore, "q1", "gone", time.Now())

	report, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Processed)
	assert.Zero(t, report.ChunksAdjusted)
	assert.Equal(t, domain.QueueProcessed, feedbackStore.queue["q1"].State)
}

func TestRetrainService_Run_RejectsOverlap(t *testing.T) {
	svc, _, _ := newRetrainFixture(t)

	svc.mu.Lock()
	svc.running = true
	svc.mu.Unlock()

	_, err := svc.Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrRetrainInProgress)

	// Releasing the guard allows the next run.
	svc.mu.Lock()
	svc.running = false
	svc.mu.Unlock()

	_, err = svc.Run(context.Background())
	assert.NoError(t, err)
}
