// Package watcher monitors an inbox directory and feeds new files into
// the ingest pipeline.
package watcher

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/domain"
	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/ports/driving"
	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/logger"
)

// settleDelay is how long a file must be quiet before it is ingested.
// Editors and downloaders emit a Create followed by several Writes; the
// delay folds those into a single ingestion.
const settleDelay = 500 * time.Millisecond

// Watcher monitors an inbox directory for new and changed files.
type Watcher struct {
	inboxDir   string
	collection string
	ingest     driving.IngestService

	mu      sync.Mutex
	pending map[string]*time.Timer
	closed  bool
}

// New creates a watcher for the given inbox directory. Ingested documents
// are tagged with the given collection.
func New(inboxDir, collection string, ingest driving.IngestService) *Watcher {
	return &Watcher{
		inboxDir:   inboxDir,
		collection: collection,
		ingest:     ingest,
		pending:    make(map[string]*time.Timer),
	}
}

// Run watches the inbox until the context is cancelled. Files already in
// the inbox when the watcher starts are ingested first, so a backlog
// accumulated while the watcher was down is not lost.
func (w *Watcher) Run(ctx context.Context) error {
	info, err := os.Stat(w.inboxDir)
	if err != nil {
		return fmt.Errorf("inbox path error: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("inbox path %s is not a directory: %w", w.inboxDir, domain.ErrInvalidInput)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.inboxDir); err != nil {
		return fmt.Errorf("watch %s: %w", w.inboxDir, err)
	}

	logger.Section("Watch Inbox")
	logger.Info("Watching %s", w.inboxDir)

	if err := w.ingestBacklog(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			w.cancelPending()
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write) {
				w.schedule(ctx, event.Name)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// ingestBacklog ingests files already sitting in the inbox.
func (w *Watcher) ingestBacklog(ctx context.Context) error {
	entries, err := os.ReadDir(w.inboxDir)
	if err != nil {
		return fmt.Errorf("read inbox: %w", err)
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			return nil
		}
		if entry.IsDir() {
			continue
		}
		w.ingestFile(ctx, filepath.Join(w.inboxDir, entry.Name()))
	}
	return nil
}

// schedule arms (or re-arms) the settle timer for a path.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}

	if timer, ok := w.pending[path]; ok {
		timer.Stop()
	}
	w.pending[path] = time.AfterFunc(settleDelay, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		w.ingestFile(ctx, path)
	})
}

// cancelPending stops all armed settle timers.
func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
}

// ingestFile reads one file and hands it to the ingest pipeline. Failures
// are logged and skipped so one bad file cannot stall the inbox.
func (w *Watcher) ingestFile(ctx context.Context, path string) {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}

	mimeType := DetectMIMEType(path)
	if mimeType == "" {
		logger.Debug("Skipping %s: unsupported file type", name)
		return
	}

	content, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Read %s: %v", name, err)
		return
	}

	receipt, err := w.ingest.IngestRaw(ctx, &domain.RawDocument{
		URI:        path,
		MIMEType:   mimeType,
		Content:    content,
		Collection: w.collection,
	})
	if err != nil {
		logger.Warn("Ingest %s: %v", name, err)
		return
	}

	logger.Info("Ingested %s as %s (%d chunks)", name, receipt.DocumentID, receipt.ChunkCount)
}

// DetectMIMEType maps a file path to the MIME type used for normaliser
// selection. Returns empty for unsupported extensions.
func DetectMIMEType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".txt":
		return "text/plain"
	case ".md":
		return "text/markdown"
	case ".csv":
		return "text/csv"
	case ".json":
		return "application/json"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".ocr":
		// Page text dropped off by the external OCR step.
		return "text/x-ocr-page"
	}

	// Fall back to the platform registry for text types only; binary
	// formats without a normaliser are skipped.
	mimeType := mime.TypeByExtension(ext)
	if idx := strings.Index(mimeType, ";"); idx >= 0 {
		mimeType = strings.TrimSpace(mimeType[:idx])
	}
	if strings.HasPrefix(mimeType, "text/") {
		return mimeType
	}
	return ""
}
