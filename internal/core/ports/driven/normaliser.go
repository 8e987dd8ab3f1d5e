package driven

import (
	"context"

	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/domain"
)

// Normaliser transforms raw documents into ingestable form.
// Each normaliser handles specific MIME types (e.g., plain text, DOCX).
type Normaliser interface {
	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Specific format normalisers should return 50-89.
	// Fallback normalisers should return 1-9.
	Priority() int

	// Normalise transforms a raw document into a document with extracted
	// text content. Chunking happens later in the ingest pipeline.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)
}

// NormaliseResult contains the output of normalisation.
type NormaliseResult struct {
	// Document is the normalised document with Content populated.
	Document domain.Document
}
