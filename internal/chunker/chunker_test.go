package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/domain"
)

func TestNew_InvalidConfiguration(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{"zero size", []Option{WithChunkSize(0)}},
		{"negative size", []Option{WithChunkSize(-10)}},
		{"negative overlap", []Option{WithOverlap(-1)}},
		{"overlap equals size", []Option{WithChunkSize(100), WithOverlap(100)}},
		{"overlap exceeds size", []Option{WithChunkSize(100), WithOverlap(150)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts...)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
		})
	}
}

func TestChunker_Chunk_Empty(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	chunks, err := c.Chunk(&domain.Document{ID: "d1"})
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestChunker_Chunk_SingleShortChunk(t *testing.T) {
	c, err := New(WithChunkSize(100), WithOverlap(20))
	require.NoError(t, err)

	chunks, err := c.Chunk(&domain.Document{ID: "d1", Content: "short text"})
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	assert.Equal(t, "d1:0", chunks[0].ID)
	assert.Equal(t, 0, chunks[0].Start)
	assert.Equal(t, 10, chunks[0].End)
	assert.Equal(t, "short text", chunks[0].Content)
	assert.Equal(t, domain.NeutralRelevanceScore, chunks[0].RelevanceScore)
}

func TestChunker_Chunk_OverlapAndCoverage(t *testing.T) {
	c, err := New(WithChunkSize(10), WithOverlap(4))
	require.NoError(t, err)

	content := "abcdefghijklmnopqrstuvwxyz" // 26 runes
	chunks, err := c.Chunk(&domain.Document{ID: "d1", Content: content})
	require.NoError(t, err)

	// Step 6: starts at 0, 6, 12, 18; the chunk ending at the content
	// length is the last one.
	require.Len(t, chunks, 4)
	assert.Equal(t, "abcdefghij", chunks[0].Content)
	assert.Equal(t, "ghijklmnop", chunks[1].Content)
	assert.Equal(t, "stuvwxyz", chunks[3].Content)

	// Offsets are half-open and cover the whole text.
	assert.Equal(t, 0, chunks[0].Start)
	assert.Equal(t, 18, chunks[3].Start)
	assert.Equal(t, 26, chunks[3].End)

	// Adjacent chunks share at least the overlap.
	for i := 1; i < len(chunks); i++ {
		assert.Equal(t, chunks[i-1].End-4, chunks[i].Start)
	}
}

func TestChunker_Chunk_DefaultConfig(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	// 1200 runes at size 500 / overlap 100: starts at 0, 400, 800.
	doc := &domain.Document{ID: "d1", Content: strings.Repeat("a", 1200)}
	chunks, err := c.Chunk(doc)
	require.NoError(t, err)

	require.Len(t, chunks, 3)
	assert.Equal(t, 0, chunks[0].Start)
	assert.Equal(t, 500, chunks[0].End)
	assert.Equal(t, 400, chunks[1].Start)
	assert.Equal(t, 900, chunks[1].End)
	assert.Equal(t, 800, chunks[2].Start)
	assert.Equal(t, 1200, chunks[2].End)
}

func TestChunker_Chunk_Deterministic(t *testing.T) {
	c, err := New(WithChunkSize(10), WithOverlap(2))
	require.NoError(t, err)

	doc := &domain.Document{ID: "d1", Content: strings.Repeat("x", 50)}
	first, err := c.Chunk(doc)
	require.NoError(t, err)
	second, err := c.Chunk(doc)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestChunker_Chunk_MultiByteRunes(t *testing.T) {
	c, err := New(WithChunkSize(4), WithOverlap(1))
	require.NoError(t, err)

	content := "日本語のテキスト" // 8 runes
	chunks, err := c.Chunk(&domain.Document{ID: "d1", Content: content})
	require.NoError(t, err)

	// Step 3: starts at 0, 3, 6.
	require.Len(t, chunks, 3)
	assert.Equal(t, "日本語の", chunks[0].Content)
	assert.Equal(t, "のテキス", chunks[1].Content)
	assert.Equal(t, "スト", chunks[2].Content)
	assert.Equal(t, 8, chunks[2].End)
}

func TestChunker_Chunk_ExactBoundary(t *testing.T) {
	c, err := New(WithChunkSize(10), WithOverlap(0))
	require.NoError(t, err)

	chunks, err := c.Chunk(&domain.Document{ID: "d1", Content: strings.Repeat("a", 20)})
	require.NoError(t, err)

	require.Len(t, chunks, 2)
	assert.Equal(t, 10, chunks[0].End)
	assert.Equal(t, 10, chunks[1].Start)
	assert.Equal(t, 20, chunks[1].End)
}
