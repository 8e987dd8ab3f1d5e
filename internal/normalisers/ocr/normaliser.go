package ocr

import (
	"context"
	"strings"
	"time"

	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/domain"
	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles page text produced by an external OCR step. The OCR
// engine itself is not part of this system; its output arrives as raw
// page text that needs cleanup before chunking.
type Normaliser struct{}

// New creates a new OCR page normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{
		"text/x-ocr-page",
	}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 60 // Above the plain text fallback
}

// Normalise cleans up OCR page text. Form feeds mark page boundaries in
// OCR output and become blank lines; trailing whitespace and runs of
// blank lines are collapsed so chunking does not produce empty chunks.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	content := cleanPageText(string(raw.Content))

	now := time.Now()
	return &driven.NormaliseResult{
		Document: domain.Document{
			SourceType: domain.SourceOCRPage,
			Collection: raw.Collection,
			Content:    content,
			CreatedAt:  now,
			UpdatedAt:  now,
		},
	}, nil
}

// cleanPageText normalises line endings, turns form feeds into paragraph
// breaks, strips trailing whitespace per line, and collapses runs of
// blank lines down to one.
func cleanPageText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\f", "\n\n")

	lines := strings.Split(text, "\n")
	var result strings.Builder
	blankRun := 0
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			blankRun++
			if blankRun > 1 {
				continue
			}
		} else {
			blankRun = 0
		}
		if result.Len() > 0 {
			result.WriteString("\n")
		}
		result.WriteString(line)
	}

	return strings.TrimSpace(result.String())
}
