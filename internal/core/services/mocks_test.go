package services

import (
	"context"
	"sort"
	"sync"

	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/domain"
	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockDocumentStore implements driven.DocumentStore for testing.
type mockDocumentStore struct {
	mu          sync.RWMutex
	docs        map[string]*domain.Document
	chunks      map[string]*domain.Chunk
	adjustments map[string][]domain.ScoreAdjustment

	saveDocErr   error
	replaceErr   error
	getChunkErr  error
	adjustErr    error
	listAdjErr   error
	statsErr     error
	replaceCalls int
}

func newMockDocumentStore() *mockDocumentStore {
	return &mockDocumentStore{
		docs:        make(map[string]*domain.Document),
		chunks:      make(map[string]*domain.Chunk),
		adjustments: make(map[string][]domain.ScoreAdjustment),
	}
}

func (m *mockDocumentStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveDocErr != nil {
		return m.saveDocErr
	}
	docCopy := *doc
	m.docs[doc.ID] = &docCopy
	return nil
}

func (m *mockDocumentStore) ReplaceChunks(_ context.Context, documentID string, chunks []domain.Chunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.replaceCalls++
	for id, c := range m.chunks {
		if c.DocumentID == documentID {
			delete(m.chunks, id)
		}
	}
	for i := range chunks {
		chunkCopy := chunks[i]
		if chunkCopy.RelevanceScore == 0 {
			chunkCopy.RelevanceScore = domain.NeutralRelevanceScore
		}
		m.chunks[chunkCopy.ID] = &chunkCopy
	}
	return nil
}

func (m *mockDocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, exists := m.docs[id]
	if !exists {
		return nil, domain.ErrNotFound
	}
	docCopy := *doc
	return &docCopy, nil
}

func (m *mockDocumentStore) GetChunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.Chunk
	for _, c := range m.chunks {
		if c.DocumentID == documentID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (m *mockDocumentStore) GetChunk(_ context.Context, id string) (*domain.Chunk, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.getChunkErr != nil {
		return nil, m.getChunkErr
	}
	chunk, exists := m.chunks[id]
	if !exists {
		return nil, domain.ErrNotFound
	}
	chunkCopy := *chunk
	return &chunkCopy, nil
}

func (m *mockDocumentStore) GetChunksByIDs(_ context.Context, ids []string) ([]domain.Chunk, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.Chunk
	for _, id := range ids {
		if c, exists := m.chunks[id]; exists {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *mockDocumentStore) SoftDeleteDocument(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, exists := m.docs[id]
	if !exists {
		return domain.ErrNotFound
	}
	doc.Deleted = true
	return nil
}

func (m *mockDocumentStore) ListLiveDocuments(_ context.Context) ([]domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.Document
	for _, d := range m.docs {
		if !d.Deleted {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockDocumentStore) ApplyAdjustment(_ context.Context, adj *domain.ScoreAdjustment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.adjustErr != nil {
		return m.adjustErr
	}
	chunk, exists := m.chunks[adj.ChunkID]
	if !exists {
		return domain.ErrNotFound
	}
	chunk.RelevanceScore = adj.NewScore
	m.adjustments[adj.ChunkID] = append(m.adjustments[adj.ChunkID], *adj)
	return nil
}

func (m *mockDocumentStore) ListAdjustments(_ context.Context, chunkID string) ([]domain.ScoreAdjustment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.listAdjErr != nil {
		return nil, m.listAdjErr
	}
	return append([]domain.ScoreAdjustment(nil), m.adjustments[chunkID]...), nil
}

func (m *mockDocumentStore) Stats(_ context.Context) (*domain.StoreStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.statsErr != nil {
		return nil, m.statsErr
	}
	stats := &domain.StoreStats{}
	for _, d := range m.docs {
		if d.Deleted {
			continue
		}
		stats.DocumentCount++
		for _, c := range m.chunks {
			if c.DocumentID == d.ID {
				stats.ChunkCount++
			}
		}
	}
	return stats, nil
}

// mockFeedbackStore implements driven.FeedbackStore for testing.
type mockFeedbackStore struct {
	mu       sync.RWMutex
	results  map[string]*domain.RetrievalResult
	feedback []domain.Feedback
	queue    map[string]*domain.RetrainQueueItem

	saveResultErr   error
	saveFeedbackErr error
	listPendingErr  error
	markErr         error
	statsErr        error
}

func newMockFeedbackStore() *mockFeedbackStore {
	return &mockFeedbackStore{
		results: make(map[string]*domain.RetrievalResult),
		queue:   make(map[string]*domain.RetrainQueueItem),
	}
}

func (m *mockFeedbackStore) SaveResult(_ context.Context, result *domain.RetrievalResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveResultErr != nil {
		return m.saveResultErr
	}
	resultCopy := *result
	m.results[result.ID] = &resultCopy
	return nil
}

func (m *mockFeedbackStore) GetResult(_ context.Context, id string) (*domain.RetrievalResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result, exists := m.results[id]
	if !exists {
		return nil, domain.ErrNotFound
	}
	resultCopy := *result
	return &resultCopy, nil
}

func (m *mockFeedbackStore) SaveFeedback(_ context.Context, fb *domain.Feedback, queued *domain.RetrainQueueItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveFeedbackErr != nil {
		return m.saveFeedbackErr
	}
	m.feedback = append(m.feedback, *fb)
	if queued != nil {
		itemCopy := *queued
		m.queue[queued.ID] = &itemCopy
	}
	return nil
}

func (m *mockFeedbackStore) ListPending(_ context.Context) ([]domain.RetrainQueueItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.listPendingErr != nil {
		return nil, m.listPendingErr
	}
	var out []domain.RetrainQueueItem
	for _, item := range m.queue {
		if item.State == domain.QueuePending {
			out = append(out, *item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *mockFeedbackStore) MarkProcessed(_ context.Context, itemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.markErr != nil {
		return m.markErr
	}
	item, exists := m.queue[itemID]
	if !exists {
		return domain.ErrNotFound
	}
	item.State = domain.QueueProcessed
	return nil
}

func (m *mockFeedbackStore) RatingStats(_ context.Context) (*domain.RatingStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.statsErr != nil {
		return nil, m.statsErr
	}
	stats := &domain.RatingStats{Distribution: make(map[int]int)}
	var sum int
	for _, fb := range m.feedback {
		stats.Count++
		sum += fb.Rating
		stats.Distribution[fb.Rating]++
	}
	if stats.Count > 0 {
		stats.Average = float64(sum) / float64(stats.Count)
	}
	for _, item := range m.queue {
		if item.State == domain.QueuePending {
			stats.PendingRetrain++
		}
	}
	return stats, nil
}

// mockVectorIndex implements driven.VectorIndex for testing.
type mockVectorIndex struct {
	mu        sync.RWMutex
	entries   map[string]driven.VectorMeta
	hits      []driven.VectorHit
	upsertErr error
	upsertOK  int // upserts allowed before upsertErr applies
	removeErr error
	searchErr error
	removed   []string
}

func newMockVectorIndex() *mockVectorIndex {
	return &mockVectorIndex{entries: make(map[string]driven.VectorMeta)}
}

func (m *mockVectorIndex) Upsert(_ context.Context, chunkID string, _ []float32, meta driven.VectorMeta) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		if m.upsertOK == 0 {
			return m.upsertErr
		}
		m.upsertOK--
	}
	m.entries[chunkID] = meta
	return nil
}

func (m *mockVectorIndex) Remove(_ context.Context, chunkID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.removeErr != nil {
		return m.removeErr
	}
	delete(m.entries, chunkID)
	m.removed = append(m.removed, chunkID)
	return nil
}

func (m *mockVectorIndex) RemoveByDocument(_ context.Context, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.removeErr != nil {
		return m.removeErr
	}
	for id, meta := range m.entries {
		if meta.DocumentID == documentID {
			delete(m.entries, id)
			m.removed = append(m.removed, id)
		}
	}
	return nil
}

func (m *mockVectorIndex) Search(_ context.Context, _ []float32, k int, _ driven.VectorFilter) ([]driven.VectorHit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if k > len(m.hits) {
		return m.hits, nil
	}
	return m.hits[:k], nil
}

func (m *mockVectorIndex) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *mockVectorIndex) Close() error {
	return nil
}

// mockEmbeddingService implements driven.EmbeddingService for testing.
type mockEmbeddingService struct {
	embedding []float32
	embedErr  error
	model     string
}

func (m *mockEmbeddingService) Embed(_ context.Context, _ string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.embedding, nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	result := make([][]float32, len(texts))
	for i := range texts {
		result[i] = m.embedding
	}
	return result, nil
}

func (m *mockEmbeddingService) Dimensions() int {
	return len(m.embedding)
}

func (m *mockEmbeddingService) ModelName() string {
	if m.model != "" {
		return m.model
	}
	return "mock-embed"
}

func (m *mockEmbeddingService) Ping(_ context.Context) error {
	return nil
}

func (m *mockEmbeddingService) Close() error {
	return nil
}

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	answer      string
	generateErr error
	prompts     []string
}

func (m *mockLLMService) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.generateErr != nil {
		return "", m.generateErr
	}
	return m.answer, nil
}

func (m *mockLLMService) ModelName() string {
	return "mock-llm"
}

func (m *mockLLMService) Ping(_ context.Context) error {
	return nil
}

func (m *mockLLMService) Close() error {
	return nil
}

// mockNormaliser implements driven.Normaliser for testing.
type mockNormaliser struct{}

func (mockNormaliser) SupportedMIMETypes() []string {
	return []string{"text/plain"}
}

func (mockNormaliser) Priority() int {
	return 1
}

func (mockNormaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	return &driven.NormaliseResult{
		Document: domain.Document{
			SourceType: domain.SourceTXT,
			Content:    string(raw.Content),
		},
	}, nil
}

// mockChunker implements driven.Chunker for testing.
type mockChunker struct {
	chunkErr error
}

// Chunk splits on no boundaries: the whole content becomes one chunk.
func (m *mockChunker) Chunk(doc *domain.Document) ([]domain.Chunk, error) {
	if m.chunkErr != nil {
		return nil, m.chunkErr
	}
	if doc.Content == "" {
		return nil, nil
	}
	runes := []rune(doc.Content)
	return []domain.Chunk{
		{
			ID:             domain.ChunkID(doc.ID, 0),
			DocumentID:     doc.ID,
			Position:       0,
			Start:          0,
			End:            len(runes),
			Content:        doc.Content,
			RelevanceScore: domain.NeutralRelevanceScore,
		},
	}, nil
}

// Ensure mocks implement interfaces.
var (
	_ driven.DocumentStore    = (*mockDocumentStore)(nil)
	_ driven.FeedbackStore    = (*mockFeedbackStore)(nil)
	_ driven.VectorIndex      = (*mockVectorIndex)(nil)
	_ driven.EmbeddingService = (*mockEmbeddingService)(nil)
	_ driven.LLMService       = (*mockLLMService)(nil)
	_ driven.Normaliser       = mockNormaliser{}
	_ driven.Chunker          = (*mockChunker)(nil)
)
