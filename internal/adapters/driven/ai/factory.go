// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	mockembed "github.com/taiyousan15/kindle-text-extraction-sub001/internal/adapters/driven/embedding/mock"
	ollamaembed "github.com/taiyousan15/kindle-text-extraction-sub001/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/taiyousan15/kindle-text-extraction-sub001/internal/adapters/driven/embedding/openai"
	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/adapters/driven/embedding/retry"
	ollamallm "github.com/taiyousan15/kindle-text-extraction-sub001/internal/adapters/driven/llm/ollama"
	openaillm "github.com/taiyousan15/kindle-text-extraction-sub001/internal/adapters/driven/llm/openai"
	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/domain"
	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// CreateEmbeddingService creates the embedding service for the configured
// mode and provider. Mock mode gets the deterministic in-process service;
// live providers are wrapped with pacing and retries.
func CreateEmbeddingService(mode domain.Mode, settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if mode == domain.ModeMock {
		return mockembed.NewEmbeddingService(), nil
	}

	if settings == nil || !settings.IsConfigured() {
		return nil, fmt.Errorf("embedding provider not configured: %w", domain.ErrInvalidConfiguration)
	}

	var (
		svc driven.EmbeddingService
		err error
	)
	switch settings.Provider {
	case domain.AIProviderOllama:
		svc = ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: settings.Timeout,
		})

	case domain.AIProviderOpenAI:
		svc, err = openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: settings.Timeout,
		})
		if err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}

	return retry.Wrap(svc, retry.Config{
		MaxRetries:        settings.MaxRetries,
		RequestsPerSecond: settings.RequestsPerSecond,
	}), nil
}

// CreateLLMService creates the LLM service for the configured mode and
// provider. Mock mode returns nil; answers fall back to extracts.
func CreateLLMService(mode domain.Mode, settings *domain.LLMSettings) (driven.LLMService, error) {
	if mode == domain.ModeMock {
		return nil, nil
	}

	if settings == nil || !settings.IsConfigured() {
		return nil, fmt.Errorf("llm provider not configured: %w", domain.ErrInvalidConfiguration)
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

// CreateAndValidateEmbeddingService creates an embedding service and
// validates connectivity.
func CreateAndValidateEmbeddingService(mode domain.Mode, settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(mode, settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrEmbeddingUnavailable, err)
	}

	return svc, nil
}

// CreateAndValidateLLMService creates an LLM service and validates
// connectivity. A nil service (mock mode) passes through.
func CreateAndValidateLLMService(mode domain.Mode, settings *domain.LLMSettings) (driven.LLMService, error) {
	svc, err := CreateLLMService(mode, settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}
	if svc == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}
