// Package cli implements the ktx command-line interface.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/adapters/driven/ai"
	configfile "github.com/taiyousan15/kindle-text-extraction-sub001/internal/adapters/driven/config/file"
	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/adapters/driven/storage/sqlite"
	vectormem "github.com/taiyousan15/kindle-text-extraction-sub001/internal/adapters/driven/vector/memory"
	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/chunker"
	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/domain"
	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/ports/driven"
	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/ports/driving"
	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/services"
	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/logger"
	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/normalisers/docx"
	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/normalisers/ocr"
	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/normalisers/plaintext"
)

// version is set from main at startup.
var version = "dev"

// Persistent flags.
var (
	verbose   bool
	configDir string
)

// Wired services. Nil until initServices runs; commands that need them
// call initServices in their RunE.
var (
	cfg              *domain.Config
	configStore      driven.ConfigStore
	store            *sqlite.Store
	docStore         driven.DocumentStore
	feedbackStore    driven.FeedbackStore
	schedulerStore   driven.SchedulerStore
	vectorIndex      *vectormem.Index
	embeddingService driven.EmbeddingService
	llmService       driven.LLMService

	ingestService   driving.IngestService
	queryService    driving.QueryService
	feedbackService driving.FeedbackService
	retrainService  driving.RetrainService
	statsService    driving.StatsService
)

var rootCmd = &cobra.Command{
	Use:   "ktx",
	Short: "Document retrieval with feedback-tuned ranking",
	Long: `ktx ingests documents (plain text, DOCX, OCR page text), embeds them
into a vector space, and answers natural-language queries with cited
extracts. Explicit feedback on citations continuously re-tunes ranking.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.ktx)")
}

// Execute runs the root command.
func Execute(v string) error {
	version = v
	defer teardown()
	return rootCmd.Execute()
}

// initServices wires configuration, storage, AI adapters, and the core
// services. Idempotent; the first caller pays the cost.
func initServices(ctx context.Context) error {
	if ingestService != nil {
		return nil
	}

	var err error
	configStore, err = configfile.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("open config store: %w", err)
	}
	cfg, err = configStore.Load()
	if err != nil {
		return err
	}

	store, err = sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	embeddingService, err = ai.CreateAndValidateEmbeddingService(cfg.Mode, &cfg.Embedding)
	if err != nil {
		return err
	}
	llmService, err = ai.CreateAndValidateLLMService(cfg.Mode, &cfg.LLM)
	if err != nil {
		return err
	}

	textChunker, err := chunker.New(
		chunker.WithChunkSize(cfg.Chunking.Size),
		chunker.WithOverlap(cfg.Chunking.Overlap),
	)
	if err != nil {
		return err
	}

	vectorIndex = vectormem.New()

	docStore = store.DocumentStore()
	feedbackStore = store.FeedbackStore()
	schedulerStore = store.SchedulerStore()

	ingestService = services.NewIngestService(docStore, vectorIndex, embeddingService, textChunker,
		[]driven.Normaliser{plaintext.New(), docx.New(), ocr.New()})
	queryService = services.NewQueryService(docStore, feedbackStore, vectorIndex, embeddingService,
		llmService, cfg.Retrieval)
	feedbackService = services.NewFeedbackService(feedbackStore, cfg.Feedback)
	retrainService = services.NewRetrainService(docStore, feedbackStore)
	statsService = services.NewStatsService(docStore, feedbackStore, vectorIndex, embeddingService)

	return loadIndex(ctx)
}

// loadIndex populates the in-memory vector index from stored chunks. Only
// vectors produced by the active embedding model are loaded; stale
// versions stay out of the index until a rebuild.
func loadIndex(ctx context.Context) error {
	docs, err := docStore.ListLiveDocuments(ctx)
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}

	activeVersion := embeddingService.ModelName()
	loaded, stale := 0, 0
	for i := range docs {
		chunks, err := docStore.GetChunks(ctx, docs[i].ID)
		if err != nil {
			return fmt.Errorf("load chunks for %s: %w", docs[i].ID, err)
		}
		for j := range chunks {
			if len(chunks[j].Embedding) == 0 {
				continue
			}
			if chunks[j].EmbeddingVersion != activeVersion {
				stale++
				continue
			}
			meta := driven.VectorMeta{
				DocumentID: docs[i].ID,
				Collection: docs[i].Collection,
			}
			if err := vectorIndex.Upsert(ctx, chunks[j].ID, chunks[j].Embedding, meta); err != nil {
				return fmt.Errorf("index chunk %s: %w", chunks[j].ID, err)
			}
			loaded++
		}
	}

	logger.Debug("Index loaded: %d vectors", loaded)
	if stale > 0 {
		logger.Warn("%d chunks carry a stale embedding version; run 'ktx rebuild'", stale)
	}
	return nil
}

// teardown releases resources acquired by initServices.
func teardown() {
	if embeddingService != nil {
		embeddingService.Close() //nolint:errcheck
	}
	if llmService != nil {
		llmService.Close() //nolint:errcheck
	}
	if vectorIndex != nil {
		vectorIndex.Close() //nolint:errcheck
	}
	if store != nil {
		store.Close() //nolint:errcheck
	}
}
