package domain

import (
	"fmt"
	"time"
)

// Mode selects the backend wiring for the whole application.
type Mode string

// Available modes.
const (
	// ModeLive wires real embedding and LLM backends.
	ModeLive Mode = "live"

	// ModeMock wires deterministic in-process backends. Used for tests
	// and offline runs.
	ModeMock Mode = "mock"
)

// IsValid returns true if the mode is recognised.
func (m Mode) IsValid() bool {
	return m == ModeLive || m == ModeMock
}

// String returns the string representation.
func (m Mode) String() string {
	return string(m)
}

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	return p == AIProviderOllama || p == AIProviderOpenAI
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// ChunkingSettings control how documents are split.
type ChunkingSettings struct {
	// Size is the chunk length in runes.
	Size int

	// Overlap is the number of runes shared between adjacent chunks.
	// Must be strictly less than Size.
	Overlap int
}

// EmbeddingSettings hold embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Timeout bounds a single embedding call.
	Timeout time.Duration

	// MaxRetries bounds the retry budget for transient failures.
	MaxRetries int

	// RequestsPerSecond paces calls to the backend. Zero disables pacing.
	RequestsPerSecond float64
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings hold LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// RetrievalSettings control query execution.
type RetrievalSettings struct {
	// TopK is the default number of citations per answer.
	TopK int

	// Candidates is how many index hits to fetch before re-ranking.
	// Effective k is max(Candidates, TopK).
	Candidates int

	// MinSimilarity is the cosine similarity floor. Hits below it are
	// dropped before re-ranking.
	MinSimilarity float64

	// QueryTimeout bounds embedding the query text.
	QueryTimeout time.Duration

	// NoResultText is the answer returned when nothing survives the
	// threshold.
	NoResultText string
}

// FeedbackSettings control feedback handling.
type FeedbackSettings struct {
	// NegativeThreshold marks ratings at or below it as negative.
	NegativeThreshold int
}

// Config holds all application configuration.
type Config struct {
	// Mode selects live or mock backend wiring.
	Mode Mode

	// DataDir is where the sqlite database and inbox live.
	DataDir string

	// Chunking holds chunker settings.
	Chunking ChunkingSettings

	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// LLM holds LLM provider settings.
	LLM LLMSettings

	// Retrieval holds query settings.
	Retrieval RetrievalSettings

	// Feedback holds feedback settings.
	Feedback FeedbackSettings

	// Scheduler holds background task settings.
	Scheduler SchedulerConfig
}

// DefaultConfig returns a configuration with sensible defaults.
// Mock mode works out of the box; live mode points at a local Ollama.
func DefaultConfig() Config {
	return Config{
		Mode: ModeMock,
		Chunking: ChunkingSettings{
			Size:    500,
			Overlap: 100,
		},
		Embedding: EmbeddingSettings{
			Provider:          AIProviderOllama,
			Model:             "nomic-embed-text",
			BaseURL:           "http://localhost:11434",
			Timeout:           30 * time.Second,
			MaxRetries:        3,
			RequestsPerSecond: 10,
		},
		LLM: LLMSettings{
			Provider: AIProviderOllama,
			Model:    "llama3.2",
			BaseURL:  "http://localhost:11434",
		},
		Retrieval: RetrievalSettings{
			TopK:          5,
			Candidates:    50,
			MinSimilarity: 0.25,
			QueryTimeout:  15 * time.Second,
			NoResultText:  "No relevant passages were found for this query.",
		},
		Feedback: FeedbackSettings{
			NegativeThreshold: NegativeRatingThreshold,
		},
		Scheduler: DefaultSchedulerConfig(),
	}
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if !c.Mode.IsValid() {
		return fmt.Errorf("mode %q: %w", c.Mode, ErrInvalidConfiguration)
	}
	if c.Chunking.Size <= 0 {
		return fmt.Errorf("chunk size %d: %w", c.Chunking.Size, ErrInvalidConfiguration)
	}
	if c.Chunking.Overlap < 0 || c.Chunking.Overlap >= c.Chunking.Size {
		return fmt.Errorf("chunk overlap %d for size %d: %w",
			c.Chunking.Overlap, c.Chunking.Size, ErrInvalidConfiguration)
	}
	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("top-k %d: %w", c.Retrieval.TopK, ErrInvalidConfiguration)
	}
	if c.Retrieval.MinSimilarity < -1 || c.Retrieval.MinSimilarity > 1 {
		return fmt.Errorf("min similarity %v: %w", c.Retrieval.MinSimilarity, ErrInvalidConfiguration)
	}
	if c.Feedback.NegativeThreshold < MinRating || c.Feedback.NegativeThreshold > MaxRating {
		return fmt.Errorf("negative threshold %d: %w", c.Feedback.NegativeThreshold, ErrInvalidConfiguration)
	}
	if c.Mode == ModeLive {
		if !c.Embedding.IsConfigured() {
			return fmt.Errorf("embedding provider: %w", ErrInvalidConfiguration)
		}
		if !c.LLM.IsConfigured() {
			return fmt.Errorf("llm provider: %w", ErrInvalidConfiguration)
		}
	}
	return nil
}
