// Package normalisers provides implementations of the Normaliser interface
// for the supported input formats. Each normaliser knows how to extract
// text content from a specific MIME type; chunking happens later in the
// ingest pipeline.
package normalisers
