// Package mock provides a deterministic in-process embedding service.
// It backs mock mode and tests; no network calls are made.
package mock

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// DefaultDimensions is the vector size of the mock model.
const DefaultDimensions = 64

// Model identifies the mock model. It doubles as the embedding version
// tag, so mock and live vectors never mix at query time.
const Model = "mock-embed"

// EmbeddingService produces deterministic unit vectors from token hashes.
// The same text always embeds to the same vector, and texts sharing tokens
// land near each other, which is enough for retrieval to behave sensibly
// offline.
type EmbeddingService struct {
	dimensions int
}

// NewEmbeddingService creates a mock embedding service.
func NewEmbeddingService() *EmbeddingService {
	return &EmbeddingService{dimensions: DefaultDimensions}
}

// Embed generates a deterministic vector embedding for the given text.
func (s *EmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	vector := make([]float64, s.dimensions)

	for _, token := range strings.Fields(strings.ToLower(text)) {
		// Strip surrounding punctuation so "word" and "word." agree.
		token = strings.TrimFunc(token, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if token == "" {
			continue
		}

		h := fnv.New64a()
		h.Write([]byte(token))
		sum := h.Sum64()

		// Each token contributes to a handful of components.
		for i := 0; i < 4; i++ {
			index := int((sum >> (i * 16)) & 0xffff) % s.dimensions
			sign := 1.0
			if (sum>>(i*16+15))&1 == 1 {
				sign = -1.0
			}
			vector[index] += sign
		}
	}

	// Normalise to a unit vector; empty text gets a fixed basis vector.
	var norm float64
	for _, v := range vector {
		norm += v * v
	}
	if norm == 0 {
		vector[0] = 1
		norm = 1
	}
	norm = math.Sqrt(norm)

	embedding := make([]float32, s.dimensions)
	for i, v := range vector {
		embedding[i] = float32(v / norm)
	}
	return embedding, nil
}

// EmbedBatch generates embeddings for multiple texts.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embedding, err := s.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		embeddings[i] = embedding
	}
	return embeddings, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return Model
}

// Ping always succeeds; there is no backend to reach.
func (s *EmbeddingService) Ping(_ context.Context) error {
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}
