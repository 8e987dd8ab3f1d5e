// Package retry decorates an embedding service with request pacing and
// bounded retries for transient backend failures.
package retry

import (
	"context"
	"fmt"
	"math"
	"time"

	"golang.org/x/time/rate"

	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/domain"
	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultMaxRetries = 3
	DefaultBaseDelay  = 500 * time.Millisecond
)

// Config holds configuration for the retry decorator.
type Config struct {
	// MaxRetries bounds the retry budget per call (default: 3).
	MaxRetries int

	// BaseDelay is the first backoff delay; it doubles per attempt
	// (default: 500ms).
	BaseDelay time.Duration

	// RequestsPerSecond paces calls to the backend. Zero disables pacing.
	RequestsPerSecond float64
}

// EmbeddingService wraps another embedding service with rate limiting and
// exponential backoff. Exhausted retries surface as
// domain.ErrEmbeddingUnavailable so callers can distinguish backend outage
// from bad input.
type EmbeddingService struct {
	inner      driven.EmbeddingService
	limiter    *rate.Limiter
	maxRetries int
	baseDelay  time.Duration
}

// Wrap decorates an embedding service.
func Wrap(inner driven.EmbeddingService, cfg Config) *EmbeddingService {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = DefaultBaseDelay
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &EmbeddingService{
		inner:      inner,
		limiter:    limiter,
		maxRetries: cfg.MaxRetries,
		baseDelay:  cfg.BaseDelay,
	}
}

// Embed generates a vector embedding, retrying transient failures.
// The result is L2-normalised so downstream similarity maths can treat
// every vector as a unit vector regardless of backend.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	var embedding []float32
	err := s.do(ctx, func() error {
		var innerErr error
		embedding, innerErr = s.inner.Embed(ctx, text)
		return innerErr
	})
	if err != nil {
		return nil, err
	}
	normalise(embedding)
	return embedding, nil
}

// EmbedBatch generates embeddings for multiple texts, retrying the whole
// batch on transient failures. Results are L2-normalised.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	var embeddings [][]float32
	err := s.do(ctx, func() error {
		var innerErr error
		embeddings, innerErr = s.inner.EmbedBatch(ctx, texts)
		return innerErr
	})
	if err != nil {
		return nil, err
	}
	for _, embedding := range embeddings {
		normalise(embedding)
	}
	return embeddings, nil
}

// do runs fn under the rate limiter with exponential backoff.
func (s *EmbeddingService) do(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return fmt.Errorf("rate limit wait: %w", err)
			}
		}

		if lastErr = fn(); lastErr == nil {
			return nil
		}

		if ctx.Err() != nil {
			// Context cancellation is not transient.
			return lastErr
		}

		if attempt < s.maxRetries-1 {
			delay := s.baseDelay << attempt
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return lastErr
			}
		}
	}
	return fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, lastErr)
}

// normalise scales a vector to unit L2 length in place. Zero vectors are
// left untouched.
func normalise(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	norm := float32(math.Sqrt(sum))
	for i := range v {
		v[i] /= norm
	}
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.inner.Dimensions()
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.inner.ModelName()
}

// Ping validates the backing service is reachable.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

// Close releases resources held by the backing service.
func (s *EmbeddingService) Close() error {
	return s.inner.Close()
}
