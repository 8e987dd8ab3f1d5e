package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	mockembed "github.com/taiyousan15/kindle-text-extraction-sub001/internal/adapters/driven/embedding/mock"
	memstore "github.com/taiyousan15/kindle-text-extraction-sub001/internal/adapters/driven/storage/memory"
	vectormem "github.com/taiyousan15/kindle-text-extraction-sub001/internal/adapters/driven/vector/memory"
	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/chunker"
	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/domain"
	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/ports/driven"
	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/services"
	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/normalisers/docx"
	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/normalisers/ocr"
	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/normalisers/plaintext"
)

// setupTestServices wires the package service variables with in-memory
// stores and the mock embedding service. initServices sees services
// present and skips real wiring.
func setupTestServices(t *testing.T) func() {
	t.Helper()

	defaults := domain.DefaultConfig()
	cfg = &defaults
	docStore = memstore.NewDocumentStore()
	feedbackStore = memstore.NewFeedbackStore()
	vectorIndex = vectormem.New()
	embeddingService = mockembed.NewEmbeddingService()
	llmService = nil

	textChunker, err := chunker.New()
	require.NoError(t, err)

	ingestService = services.NewIngestService(docStore, vectorIndex, embeddingService, textChunker,
		[]driven.Normaliser{plaintext.New(), docx.New(), ocr.New()})
	queryService = services.NewQueryService(docStore, feedbackStore, vectorIndex, embeddingService,
		nil, cfg.Retrieval)
	feedbackService = services.NewFeedbackService(feedbackStore, cfg.Feedback)
	retrainService = services.NewRetrainService(docStore, feedbackStore)
	statsService = services.NewStatsService(docStore, feedbackStore, vectorIndex, embeddingService)

	return func() {
		cfg = nil
		docStore = nil
		feedbackStore = nil
		vectorIndex = nil
		embeddingService = nil
		ingestService = nil
		queryService = nil
		feedbackService = nil
		retrainService = nil
		statsService = nil
	}
}

// execute runs the root command with args and returns captured output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}
