package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/domain"
	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to
// all metadata store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.ktx/data/metadata.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".ktx", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "metadata.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// FeedbackStore returns a FeedbackStore interface backed by this store.
func (s *Store) FeedbackStore() driven.FeedbackStore {
	return &feedbackStore{store: s}
}

// SchedulerStore returns a SchedulerStore interface backed by this store.
func (s *Store) SchedulerStore() driven.SchedulerStore {
	return &schedulerStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Document Store ====================

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// SaveDocument stores or updates a document.
func (s *documentStore) SaveDocument(ctx context.Context, doc *domain.Document) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO documents (id, source_type, collection, content, deleted, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source_type = excluded.source_type,
			collection = excluded.collection,
			content = excluded.content,
			deleted = excluded.deleted,
			updated_at = excluded.updated_at
	`, doc.ID, string(doc.SourceType), doc.Collection, doc.Content,
		boolToInt(doc.Deleted), doc.CreatedAt, doc.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// ReplaceChunks swaps a document's chunk set in one transaction.
func (s *documentStore) ReplaceChunks(ctx context.Context, documentID string, chunks []domain.Chunk) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE document_id = ?", documentID); err != nil {
		return fmt.Errorf("removing existing chunks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, document_id, position, start_offset, end_offset,
			content, embedding, embedding_version, relevance_score, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		embeddingBlob := float32SliceToBytes(chunk.Embedding)

		if _, err := stmt.ExecContext(ctx, chunk.ID, chunk.DocumentID,
			chunk.Position, chunk.Start, chunk.End, chunk.Content,
			embeddingBlob, chunk.EmbeddingVersion, chunk.RelevanceScore,
			chunk.CreatedAt); err != nil {
			return fmt.Errorf("saving chunk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *documentStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, source_type, collection, content, deleted, created_at, updated_at
		FROM documents WHERE id = ?
	`, id)

	return scanDocument(row)
}

// GetChunks retrieves all chunks for a document, ordered by position.
func (s *documentStore) GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, document_id, position, start_offset, end_offset,
			content, embedding, embedding_version, relevance_score, created_at
		FROM chunks WHERE document_id = ?
		ORDER BY position
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	return scanChunks(rows)
}

// GetChunk retrieves a specific chunk by ID.
func (s *documentStore) GetChunk(ctx context.Context, id string) (*domain.Chunk, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, document_id, position, start_offset, end_offset,
			content, embedding, embedding_version, relevance_score, created_at
		FROM chunks WHERE id = ?
	`, id)

	return scanChunkRow(row)
}

// GetChunksByIDs retrieves chunks by ID. Missing IDs are skipped.
func (s *documentStore) GetChunksByIDs(ctx context.Context, ids []string) ([]domain.Chunk, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.store.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, document_id, position, start_offset, end_offset,
			content, embedding, embedding_version, relevance_score, created_at
		FROM chunks WHERE id IN (%s)
	`, placeholders), args...)
	if err != nil {
		return nil, fmt.Errorf("querying chunks by ID: %w", err)
	}
	defer rows.Close()

	return scanChunks(rows)
}

// SoftDeleteDocument marks a document deleted and clears its chunk
// embeddings. The rows stay so adjustment history remains resolvable.
func (s *documentStore) SoftDeleteDocument(ctx context.Context, id string) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, `
		UPDATE documents SET deleted = 1, updated_at = ? WHERE id = ?
	`, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("marking document deleted: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE chunks SET embedding = NULL WHERE document_id = ?
	`, id); err != nil {
		return fmt.Errorf("clearing chunk embeddings: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ListLiveDocuments returns all documents that are not soft-deleted.
func (s *documentStore) ListLiveDocuments(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, source_type, collection, content, deleted, created_at, updated_at
		FROM documents WHERE deleted = 0
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		doc, err := scanDocumentRows(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return docs, nil
}

// ApplyAdjustment updates a chunk's relevance score and appends the audit
// row in one transaction.
func (s *documentStore) ApplyAdjustment(ctx context.Context, adj *domain.ScoreAdjustment) error {
	if adj == nil {
		return domain.ErrInvalidInput
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, `
		UPDATE chunks SET relevance_score = ? WHERE id = ?
	`, adj.NewScore, adj.ChunkID)
	if err != nil {
		return fmt.Errorf("updating relevance score: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO score_adjustments (id, chunk_id, delta, old_score, new_score, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, adj.ID, adj.ChunkID, adj.Delta, adj.OldScore, adj.NewScore,
		adj.Reason, adj.CreatedAt); err != nil {
		return fmt.Errorf("recording adjustment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ListAdjustments returns the adjustment history for a chunk, oldest first.
func (s *documentStore) ListAdjustments(ctx context.Context, chunkID string) ([]domain.ScoreAdjustment, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, chunk_id, delta, old_score, new_score, reason, created_at
		FROM score_adjustments WHERE chunk_id = ?
		ORDER BY created_at, id
	`, chunkID)
	if err != nil {
		return nil, fmt.Errorf("querying adjustments: %w", err)
	}
	defer rows.Close()

	var adjustments []domain.ScoreAdjustment //nolint:prealloc // size unknown from query
	for rows.Next() {
		var adj domain.ScoreAdjustment
		if err := rows.Scan(&adj.ID, &adj.ChunkID, &adj.Delta, &adj.OldScore,
			&adj.NewScore, &adj.Reason, &adj.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning adjustment: %w", err)
		}
		adjustments = append(adjustments, adj)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating adjustments: %w", err)
	}

	return adjustments, nil
}

// Stats returns live document and chunk counts.
func (s *documentStore) Stats(ctx context.Context) (*domain.StoreStats, error) {
	var stats domain.StoreStats

	err := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM documents WHERE deleted = 0").Scan(&stats.DocumentCount)
	if err != nil {
		return nil, fmt.Errorf("counting documents: %w", err)
	}

	err = s.store.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM chunks
		WHERE document_id IN (SELECT id FROM documents WHERE deleted = 0)
	`).Scan(&stats.ChunkCount)
	if err != nil {
		return nil, fmt.Errorf("counting chunks: %w", err)
	}

	return &stats, nil
}

// ==================== Feedback Store ====================

// feedbackStore implements driven.FeedbackStore.
type feedbackStore struct {
	store *Store
}

var _ driven.FeedbackStore = (*feedbackStore)(nil)

// SaveResult persists a retrieval result so feedback can reference it.
func (s *feedbackStore) SaveResult(ctx context.Context, result *domain.RetrievalResult) error {
	if result == nil {
		return domain.ErrInvalidInput
	}

	citationsJSON, err := json.Marshal(result.Citations)
	if err != nil {
		return fmt.Errorf("marshalling citations: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO retrieval_results (id, query, answer, citations, embedding_version, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, result.ID, result.Query, result.Answer, string(citationsJSON),
		result.EmbeddingVersion, result.CreatedAt)

	if err != nil {
		return fmt.Errorf("saving retrieval result: %w", err)
	}
	return nil
}

// GetResult retrieves a retrieval result by ID.
func (s *feedbackStore) GetResult(ctx context.Context, id string) (*domain.RetrievalResult, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, query, answer, citations, embedding_version, created_at
		FROM retrieval_results WHERE id = ?
	`, id)

	var result domain.RetrievalResult
	var citationsJSON string
	if err := row.Scan(&result.ID, &result.Query, &result.Answer,
		&citationsJSON, &result.EmbeddingVersion, &result.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning retrieval result: %w", err)
	}

	if err := json.Unmarshal([]byte(citationsJSON), &result.Citations); err != nil {
		return nil, fmt.Errorf("unmarshaling citations: %w", err)
	}

	return &result, nil
}

// SaveFeedback stores feedback and the optional retrain queue item in the
// same transaction.
func (s *feedbackStore) SaveFeedback(ctx context.Context, fb *domain.Feedback, queued *domain.RetrainQueueItem) error {
	if fb == nil {
		return domain.ErrInvalidInput
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO feedback (id, result_id, chunk_id, rating, comment, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, fb.ID, fb.ResultID, fb.ChunkID, fb.Rating, fb.Comment, fb.CreatedAt); err != nil {
		return fmt.Errorf("saving feedback: %w", err)
	}

	if queued != nil {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO retrain_queue (id, feedback_id, chunk_id, rating, state, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, queued.ID, queued.FeedbackID, queued.ChunkID, queued.Rating,
			string(queued.State), queued.CreatedAt); err != nil {
			return fmt.Errorf("queueing retrain item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ListPending returns unprocessed retrain queue items, oldest first.
func (s *feedbackStore) ListPending(ctx context.Context) ([]domain.RetrainQueueItem, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, feedback_id, chunk_id, rating, state, created_at, processed_at
		FROM retrain_queue WHERE state = ?
		ORDER BY created_at, id
	`, string(domain.QueuePending))
	if err != nil {
		return nil, fmt.Errorf("querying retrain queue: %w", err)
	}
	defer rows.Close()

	var items []domain.RetrainQueueItem //nolint:prealloc // size unknown from query
	for rows.Next() {
		var item domain.RetrainQueueItem
		var state string
		var processedAt sql.NullTime
		if err := rows.Scan(&item.ID, &item.FeedbackID, &item.ChunkID,
			&item.Rating, &state, &item.CreatedAt, &processedAt); err != nil {
			return nil, fmt.Errorf("scanning retrain queue item: %w", err)
		}
		item.State = domain.QueueState(state)
		if processedAt.Valid {
			item.ProcessedAt = processedAt.Time
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating retrain queue: %w", err)
	}

	return items, nil
}

// MarkProcessed transitions a queue item to processed.
func (s *feedbackStore) MarkProcessed(ctx context.Context, itemID string) error {
	res, err := s.store.db.ExecContext(ctx, `
		UPDATE retrain_queue SET state = ?, processed_at = ? WHERE id = ?
	`, string(domain.QueueProcessed), time.Now().UTC(), itemID)
	if err != nil {
		return fmt.Errorf("marking retrain item processed: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// RatingStats aggregates feedback counts, average, distribution, and the
// pending queue depth.
func (s *feedbackStore) RatingStats(ctx context.Context) (*domain.RatingStats, error) {
	stats := &domain.RatingStats{
		Distribution: make(map[int]int),
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT rating, COUNT(*) FROM feedback GROUP BY rating
	`)
	if err != nil {
		return nil, fmt.Errorf("querying rating distribution: %w", err)
	}
	defer rows.Close()

	var sum int
	for rows.Next() {
		var rating, count int
		if err := rows.Scan(&rating, &count); err != nil {
			return nil, fmt.Errorf("scanning rating distribution: %w", err)
		}
		stats.Distribution[rating] = count
		stats.Count += count
		sum += rating * count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rating distribution: %w", err)
	}

	if stats.Count > 0 {
		stats.Average = float64(sum) / float64(stats.Count)
	}

	err = s.store.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM retrain_queue WHERE state = ?
	`, string(domain.QueuePending)).Scan(&stats.PendingRetrain)
	if err != nil {
		return nil, fmt.Errorf("counting pending retrain items: %w", err)
	}

	return stats, nil
}

// ==================== Helper Functions ====================

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// scanDocument scans a single document row.
func scanDocument(row *sql.Row) (*domain.Document, error) {
	var doc domain.Document
	var sourceType string
	var deleted int

	if err := row.Scan(&doc.ID, &sourceType, &doc.Collection, &doc.Content,
		&deleted, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	doc.SourceType = domain.SourceType(sourceType)
	doc.Deleted = deleted == 1

	return &doc, nil
}

// scanDocumentRows scans a document from *sql.Rows.
func scanDocumentRows(rows *sql.Rows) (*domain.Document, error) {
	var doc domain.Document
	var sourceType string
	var deleted int

	if err := rows.Scan(&doc.ID, &sourceType, &doc.Collection, &doc.Content,
		&deleted, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	doc.SourceType = domain.SourceType(sourceType)
	doc.Deleted = deleted == 1

	return &doc, nil
}

// scanChunks scans multiple chunk rows.
func scanChunks(rows *sql.Rows) ([]domain.Chunk, error) {
	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var chunk domain.Chunk
		var embeddingBlob []byte
		var createdAt sql.NullTime

		if err := rows.Scan(&chunk.ID, &chunk.DocumentID, &chunk.Position,
			&chunk.Start, &chunk.End, &chunk.Content, &embeddingBlob,
			&chunk.EmbeddingVersion, &chunk.RelevanceScore, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}

		chunk.Embedding = bytesToFloat32Slice(embeddingBlob)
		if createdAt.Valid {
			chunk.CreatedAt = createdAt.Time
		}
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return chunks, nil
}

// scanChunkRow scans a chunk from *sql.Row.
func scanChunkRow(row *sql.Row) (*domain.Chunk, error) {
	var chunk domain.Chunk
	var embeddingBlob []byte
	var createdAt sql.NullTime

	if err := row.Scan(&chunk.ID, &chunk.DocumentID, &chunk.Position,
		&chunk.Start, &chunk.End, &chunk.Content, &embeddingBlob,
		&chunk.EmbeddingVersion, &chunk.RelevanceScore, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning chunk: %w", err)
	}

	chunk.Embedding = bytesToFloat32Slice(embeddingBlob)
	if createdAt.Valid {
		chunk.CreatedAt = createdAt.Time
	}

	return &chunk, nil
}
