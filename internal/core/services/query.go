package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/domain"
	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/ports/driven"
	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/ports/driving"
	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/logger"
)

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

// QueryService answers queries over the indexed corpus.
type QueryService struct {
	docStore         driven.DocumentStore
	feedbackStore    driven.FeedbackStore
	vectorIndex      driven.VectorIndex
	embeddingService driven.EmbeddingService
	llmService       driven.LLMService
	settings         domain.RetrievalSettings
}

// NewQueryService creates a new query service.
// The llmService parameter is optional (can be nil); without it answers are
// stitched from the top chunks instead of generated.
func NewQueryService(
	docStore driven.DocumentStore,
	feedbackStore driven.FeedbackStore,
	vectorIndex driven.VectorIndex,
	embeddingService driven.EmbeddingService,
	llmService driven.LLMService,
	settings domain.RetrievalSettings,
) *QueryService {
	return &QueryService{
		docStore:         docStore,
		feedbackStore:    feedbackStore,
		vectorIndex:      vectorIndex,
		embeddingService: embeddingService,
		llmService:       llmService,
		settings:         settings,
	}
}

// Query embeds the text, retrieves and re-ranks chunks, and synthesises an
// answer. The result is persisted so feedback can reference it.
func (s *QueryService) Query(
	ctx context.Context, text string, opts domain.QueryOptions,
) (*domain.RetrievalResult, error) {
	logger.Section("Query Execution")
	logger.Debug("Query: %q", text)

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("empty query: %w", domain.ErrInvalidInput)
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = s.settings.TopK
	}
	minSim := s.settings.MinSimilarity
	if opts.MinSimilarity > 0 {
		minSim = opts.MinSimilarity
	}
	logger.Debug("TopK: %d, MinSimilarity: %v, Collection: %q", topK, minSim, opts.Collection)

	queryVector, err := s.embedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %v", domain.ErrQueryFailed, err)
	}

	citations, err := s.retrieve(ctx, queryVector, topK, minSim, opts.Collection)
	if err != nil && !errors.Is(err, domain.ErrNoMatches) {
		return nil, fmt.Errorf("%w: retrieve: %v", domain.ErrQueryFailed, err)
	}

	result := &domain.RetrievalResult{
		ID:               uuid.NewString(),
		Query:            text,
		Citations:        citations,
		EmbeddingVersion: s.embeddingService.ModelName(),
		CreatedAt:        time.Now(),
	}

	if len(citations) == 0 {
		logger.Info("No chunks survived the similarity threshold")
		result.Answer = s.settings.NoResultText
	} else {
		result.Answer = s.synthesise(ctx, text, citations)
	}

	if err := s.feedbackStore.SaveResult(ctx, result); err != nil {
		return nil, fmt.Errorf("save result: %w", err)
	}

	logger.Info("Answered with %d citations (result %s)", len(result.Citations), result.ID)
	return result, nil
}

// embedQuery embeds the query text under the configured timeout.
func (s *QueryService) embedQuery(ctx context.Context, text string) ([]float32, error) {
	if s.settings.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.settings.QueryTimeout)
		defer cancel()
	}
	return s.embeddingService.Embed(ctx, text)
}

// retrieve searches the index, filters, re-ranks, and truncates to topK.
func (s *QueryService) retrieve(
	ctx context.Context, queryVector []float32, topK int, minSim float64, collection string,
) ([]domain.Citation, error) {
	k := s.settings.Candidates
	if k < topK {
		k = topK
	}

	hits, err := s.vectorIndex.Search(ctx, queryVector, k, driven.VectorFilter{Collection: collection})
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	logger.Debug("Index returned %d hits", len(hits))

	citations := make([]domain.Citation, 0, len(hits))
	version := s.embeddingService.ModelName()

	for _, hit := range hits {
		if hit.Similarity < minSim {
			continue
		}

		chunk, err := s.docStore.GetChunk(ctx, hit.ChunkID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// Stale index entry, skip it.
				continue
			}
			return nil, fmt.Errorf("get chunk %s: %w", hit.ChunkID, err)
		}
		if chunk.EmbeddingVersion != version {
			// A vector from a different model is not comparable.
			logger.Warn("Chunk %s has embedding version %q, want %q; skipping",
				chunk.ID, chunk.EmbeddingVersion, version)
			continue
		}

		doc, err := s.docStore.GetDocument(ctx, chunk.DocumentID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("get document %s: %w", chunk.DocumentID, err)
		}
		if doc.Deleted {
			continue
		}

		citations = append(citations, domain.Citation{
			ChunkID:        chunk.ID,
			DocumentID:     chunk.DocumentID,
			Position:       chunk.Position,
			Start:          chunk.Start,
			End:            chunk.End,
			Content:        chunk.Content,
			Similarity:     hit.Similarity,
			RelevanceScore: chunk.RelevanceScore,
			Adjusted:       hit.Similarity * chunk.RelevanceScore,
		})
	}

	if len(citations) == 0 {
		return nil, domain.ErrNoMatches
	}

	// Adjusted score decides the order; raw similarity then chunk ID break
	// ties so the ranking is stable across runs.
	sort.SliceStable(citations, func(i, j int) bool {
		if citations[i].Adjusted != citations[j].Adjusted {
			return citations[i].Adjusted > citations[j].Adjusted
		}
		if citations[i].Similarity != citations[j].Similarity {
			return citations[i].Similarity > citations[j].Similarity
		}
		return citations[i].ChunkID < citations[j].ChunkID
	})

	if len(citations) > topK {
		citations = citations[:topK]
	}
	return citations, nil
}

// synthesise produces an answer from the ranked citations.
func (s *QueryService) synthesise(ctx context.Context, query string, citations []domain.Citation) string {
	if s.llmService == nil {
		logger.Debug("LLM unavailable, stitching extract from top chunks")
		return stitchExtract(citations)
	}

	prompt := buildAnswerPrompt(query, citations)
	answer, err := s.llmService.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   512,
		Temperature: 0.2,
	})
	if err != nil || strings.TrimSpace(answer) == "" {
		logger.Warn("Answer synthesis failed: %v (falling back to extract)", err)
		return stitchExtract(citations)
	}
	return strings.TrimSpace(answer)
}

// buildAnswerPrompt assembles the grounding prompt for the LLM.
func buildAnswerPrompt(query string, citations []domain.Citation) string {
	var b strings.Builder
	b.WriteString("Answer the question using only the passages below. ")
	b.WriteString("If the passages do not contain the answer, say so.\n\n")
	for i, c := range citations {
		fmt.Fprintf(&b, "Passage %d:\n%s\n\n", i+1, c.Content)
	}
	fmt.Fprintf(&b, "Question: %s\nAnswer:", query)
	return b.String()
}

// stitchExtract joins the top chunk texts as a degraded answer.
func stitchExtract(citations []domain.Citation) string {
	parts := make([]string, 0, len(citations))
	for _, c := range citations {
		parts = append(parts, strings.TrimSpace(c.Content))
	}
	return strings.Join(parts, "\n\n")
}
