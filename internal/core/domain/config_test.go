package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefaultConfig_IsValid tests that defaults pass validation
func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ModeMock, cfg.Mode)
	assert.Equal(t, 500, cfg.Chunking.Size)
	assert.Equal(t, 100, cfg.Chunking.Overlap)
	assert.Equal(t, 5, cfg.Retrieval.TopK)
}

// TestConfig_Validate tests validation failures
func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"invalid mode", func(c *Config) { c.Mode = "staging" }},
		{"zero chunk size", func(c *Config) { c.Chunking.Size = 0 }},
		{"negative overlap", func(c *Config) { c.Chunking.Overlap = -1 }},
		{"overlap equals size", func(c *Config) { c.Chunking.Overlap = c.Chunking.Size }},
		{"overlap exceeds size", func(c *Config) { c.Chunking.Overlap = c.Chunking.Size + 1 }},
		{"zero top-k", func(c *Config) { c.Retrieval.TopK = 0 }},
		{"similarity above one", func(c *Config) { c.Retrieval.MinSimilarity = 1.5 }},
		{"threshold out of scale", func(c *Config) { c.Feedback.NegativeThreshold = 9 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfiguration)
		})
	}
}

// TestConfig_Validate_LiveMode tests live mode provider requirements
func TestConfig_Validate_LiveMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = ModeLive
	require.NoError(t, cfg.Validate())

	// OpenAI without an API key is not configured.
	cfg.Embedding.Provider = AIProviderOpenAI
	cfg.Embedding.APIKey = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	cfg.Embedding.APIKey = "sk-test"
	require.NoError(t, cfg.Validate())
}

// TestSchedulerConfig_GetTaskConfig tests per-task config lookup
func TestSchedulerConfig_GetTaskConfig(t *testing.T) {
	cfg := DefaultSchedulerConfig()

	tc := cfg.GetTaskConfig(TaskIDRetrain)
	assert.True(t, tc.Enabled)
	assert.NotZero(t, tc.Interval)

	// Unknown task yields a zero config.
	assert.Zero(t, cfg.GetTaskConfig("missing"))

	// Nil map is safe.
	empty := SchedulerConfig{}
	assert.Zero(t, empty.GetTaskConfig(TaskIDRetrain))
}
