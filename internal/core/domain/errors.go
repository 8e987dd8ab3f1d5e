package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidConfiguration indicates a component was constructed with
	// inconsistent settings (e.g. chunk overlap >= chunk size).
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrEmbeddingUnavailable indicates the embedding backend could not be
	// reached or is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Answer synthesis is disabled without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrIndexingFailed indicates a document could not be ingested.
	// The store and index are left as they were before the attempt.
	ErrIndexingFailed = errors.New("indexing failed")

	// ErrQueryFailed indicates a query could not be executed, as opposed
	// to executing and finding nothing.
	ErrQueryFailed = errors.New("query failed")

	// ErrNoMatches indicates a query executed successfully but no chunk
	// survived the similarity threshold. A valid outcome, not a failure.
	ErrNoMatches = errors.New("no matches")

	// ErrUnknownResult indicates feedback referenced a retrieval result or
	// chunk that was never issued.
	ErrUnknownResult = errors.New("unknown retrieval result")

	// ErrRetrainInProgress indicates a retraining pass is already running.
	ErrRetrainInProgress = errors.New("retraining already in progress")
)
