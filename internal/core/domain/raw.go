package domain

// RawDocument represents opaque bytes picked up from an inbox or passed to
// ingestion. It is the input to normalisation.
type RawDocument struct {
	// URI is the original location (file path, OCR page reference, etc).
	URI string

	// MIMEType is the content type (e.g. "text/plain").
	MIMEType string

	// Content is the raw bytes.
	Content []byte

	// Collection is the collection the document should land in.
	Collection string

	// Metadata contains source-specific key-value pairs.
	Metadata map[string]any
}
