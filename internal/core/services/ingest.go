package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/domain"
	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/ports/driven"
	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/ports/driving"
	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService manages the document lifecycle.
type IngestService struct {
	docStore         driven.DocumentStore
	vectorIndex      driven.VectorIndex
	embeddingService driven.EmbeddingService
	chunker          driven.Chunker
	normalisers      []driven.Normaliser
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	docStore driven.DocumentStore,
	vectorIndex driven.VectorIndex,
	embeddingService driven.EmbeddingService,
	chunker driven.Chunker,
	normalisers []driven.Normaliser,
) *IngestService {
	return &IngestService{
		docStore:         docStore,
		vectorIndex:      vectorIndex,
		embeddingService: embeddingService,
		chunker:          chunker,
		normalisers:      normalisers,
	}
}

// Ingest chunks, embeds, and indexes a document.
func (s *IngestService) Ingest(ctx context.Context, req driving.IngestRequest) (*driving.IngestReceipt, error) {
	logger.Section("Ingest")

	if req.Content == "" {
		return nil, fmt.Errorf("empty content: %w", domain.ErrInvalidInput)
	}
	if !req.SourceType.Valid() {
		return nil, fmt.Errorf("source type %q: %w", req.SourceType, domain.ErrInvalidInput)
	}

	now := time.Now()
	doc := &domain.Document{
		ID:         req.DocumentID,
		SourceType: req.SourceType,
		Collection: req.Collection,
		Content:    req.Content,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	replaced := false
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	} else {
		existing, err := s.docStore.GetDocument(ctx, doc.ID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("lookup document: %w", err)
		}
		if existing != nil {
			replaced = true
			doc.CreatedAt = existing.CreatedAt
		}
	}
	logger.Debug("Document %s (%s), replace=%t", doc.ID, doc.SourceType, replaced)

	chunks, err := s.chunker.Chunk(doc)
	if err != nil {
		return nil, fmt.Errorf("chunk document %s: %w", doc.ID, err)
	}
	logger.Debug("Produced %d chunks", len(chunks))

	if err := s.embedChunks(ctx, chunks); err != nil {
		// Store and index untouched on embedding failure.
		return nil, fmt.Errorf("embed document %s: %w: %v", doc.ID, domain.ErrIndexingFailed, err)
	}

	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("save document %s: %w", doc.ID, err)
	}
	if err := s.docStore.ReplaceChunks(ctx, doc.ID, chunks); err != nil {
		return nil, fmt.Errorf("replace chunks for %s: %w", doc.ID, err)
	}

	// Re-ingestion can shrink the chunk set, so clear the document's old
	// vectors before upserting the new ones.
	if replaced {
		if err := s.vectorIndex.RemoveByDocument(ctx, doc.ID); err != nil {
			return nil, fmt.Errorf("clear vectors for %s: %w", doc.ID, err)
		}
	}
	if err := s.indexChunks(ctx, doc, chunks); err != nil {
		// A half-indexed document must never answer queries. Take its
		// vectors out entirely; the stored chunks carry embeddings, so a
		// rebuild or restart recovers a replaced document in full.
		if rmErr := s.vectorIndex.RemoveByDocument(ctx, doc.ID); rmErr != nil {
			logger.Warn("Rollback vectors for %s: %v", doc.ID, rmErr)
		}
		if !replaced {
			if delErr := s.docStore.SoftDeleteDocument(ctx, doc.ID); delErr != nil {
				logger.Warn("Rollback document %s: %v", doc.ID, delErr)
			}
		}
		return nil, fmt.Errorf("index document %s: %w: %v", doc.ID, domain.ErrIndexingFailed, err)
	}

	logger.Info("Ingested %s: %d chunks", doc.ID, len(chunks))
	return &driving.IngestReceipt{
		DocumentID: doc.ID,
		ChunkCount: len(chunks),
		Replaced:   replaced,
	}, nil
}

// IngestRaw normalises raw bytes first, then ingests the result.
func (s *IngestService) IngestRaw(ctx context.Context, raw *domain.RawDocument) (*driving.IngestReceipt, error) {
	norm := s.pickNormaliser(raw.MIMEType)
	if norm == nil {
		return nil, fmt.Errorf("no normaliser for %q: %w", raw.MIMEType, domain.ErrInvalidInput)
	}

	result, err := norm.Normalise(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("normalise %s: %w", raw.URI, err)
	}

	// A stable URI maps to a stable document ID, so picking up the same
	// file again replaces the document instead of duplicating it.
	var docID string
	if raw.URI != "" {
		docID = uuid.NewSHA1(uuid.NameSpaceURL, []byte(raw.URI)).String()
	}

	return s.Ingest(ctx, driving.IngestRequest{
		DocumentID: docID,
		SourceType: result.Document.SourceType,
		Collection: raw.Collection,
		Content:    result.Document.Content,
	})
}

// Delete soft-deletes a document and removes its vectors.
func (s *IngestService) Delete(ctx context.Context, documentID string) error {
	logger.Section("Delete Document")

	if err := s.docStore.SoftDeleteDocument(ctx, documentID); err != nil {
		return fmt.Errorf("soft delete %s: %w", documentID, err)
	}
	if err := s.vectorIndex.RemoveByDocument(ctx, documentID); err != nil {
		return fmt.Errorf("remove vectors for %s: %w", documentID, err)
	}

	logger.Info("Deleted document %s", documentID)
	return nil
}

// Rebuild re-embeds every live chunk into a fresh index.
func (s *IngestService) Rebuild(ctx context.Context) (*driving.RebuildReport, error) {
	logger.Section("Rebuild Index")

	docs, err := s.docStore.ListLiveDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	report := &driving.RebuildReport{
		EmbeddingVersion: s.embeddingService.ModelName(),
	}

	for i := range docs {
		doc := &docs[i]
		chunks, err := s.docStore.GetChunks(ctx, doc.ID)
		if err != nil {
			return nil, fmt.Errorf("get chunks for %s: %w", doc.ID, err)
		}

		if err := s.embedChunks(ctx, chunks); err != nil {
			return nil, fmt.Errorf("re-embed %s: %w: %v", doc.ID, domain.ErrIndexingFailed, err)
		}
		if err := s.docStore.ReplaceChunks(ctx, doc.ID, chunks); err != nil {
			return nil, fmt.Errorf("replace chunks for %s: %w", doc.ID, err)
		}
		if err := s.vectorIndex.RemoveByDocument(ctx, doc.ID); err != nil {
			return nil, fmt.Errorf("clear vectors for %s: %w", doc.ID, err)
		}
		if err := s.indexChunks(ctx, doc, chunks); err != nil {
			// Leave no partial vector set behind for this document.
			if rmErr := s.vectorIndex.RemoveByDocument(ctx, doc.ID); rmErr != nil {
				logger.Warn("Rollback vectors for %s: %v", doc.ID, rmErr)
			}
			return nil, fmt.Errorf("index %s: %w: %v", doc.ID, domain.ErrIndexingFailed, err)
		}

		report.Documents++
		report.Chunks += len(chunks)
		logger.Debug("Rebuilt %s: %d chunks", doc.ID, len(chunks))
	}

	logger.Info("Rebuild complete: %d documents, %d chunks", report.Documents, report.Chunks)
	return report, nil
}

// embedChunks fills in embeddings and the version tag for a chunk batch.
func (s *IngestService) embedChunks(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Content
	}

	vectors, err := s.embeddingService.EmbedBatch(ctx, texts)
	if err != nil {
		return err
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedding batch returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	version := s.embeddingService.ModelName()
	for i := range chunks {
		chunks[i].Embedding = vectors[i]
		chunks[i].EmbeddingVersion = version
	}
	return nil
}

// indexChunks upserts a document's chunks into the vector index.
func (s *IngestService) indexChunks(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) error {
	meta := driven.VectorMeta{
		DocumentID: doc.ID,
		Collection: doc.Collection,
	}
	for i := range chunks {
		if err := s.vectorIndex.Upsert(ctx, chunks[i].ID, chunks[i].Embedding, meta); err != nil {
			return fmt.Errorf("upsert chunk %s: %w", chunks[i].ID, err)
		}
	}
	return nil
}

// pickNormaliser selects the highest-priority normaliser for a MIME type.
func (s *IngestService) pickNormaliser(mimeType string) driven.Normaliser {
	var best driven.Normaliser
	for _, n := range s.normalisers {
		for _, mt := range n.SupportedMIMETypes() {
			if mt != mimeType {
				continue
			}
			if best == nil || n.Priority() > best.Priority() {
				best = n
			}
		}
	}
	return best
}
