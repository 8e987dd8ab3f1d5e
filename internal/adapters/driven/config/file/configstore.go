// Package file provides a TOML-backed configuration store.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/domain"
	"github.com/taiyousan15/kindle-text-extraction-sub001/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore persists application configuration as a TOML file.
type ConfigStore struct {
	mu       sync.Mutex
	filePath string
}

// tomlConfig is the on-disk configuration layout. Durations are stored as
// strings ("30s") so the file stays hand-editable.
type tomlConfig struct {
	Mode    string `toml:"mode"`
	DataDir string `toml:"data_dir,omitempty"`

	Chunking struct {
		Size    int `toml:"size"`
		Overlap int `toml:"overlap"`
	} `toml:"chunking"`

	Embedding struct {
		Provider          string  `toml:"provider"`
		Model             string  `toml:"model"`
		BaseURL           string  `toml:"base_url,omitempty"`
		APIKey            string  `toml:"api_key,omitempty"`
		Timeout           string  `toml:"timeout,omitempty"`
		MaxRetries        int     `toml:"max_retries,omitempty"`
		RequestsPerSecond float64 `toml:"requests_per_second,omitempty"`
	} `toml:"embedding"`

	LLM struct {
		Provider string `toml:"provider"`
		Model    string `toml:"model"`
		BaseURL  string `toml:"base_url,omitempty"`
		APIKey   string `toml:"api_key,omitempty"`
	} `toml:"llm"`

	Retrieval struct {
		TopK          int     `toml:"top_k"`
		Candidates    int     `toml:"candidates"`
		MinSimilarity float64 `toml:"min_similarity"`
		QueryTimeout  string  `toml:"query_timeout,omitempty"`
		NoResultText  string  `toml:"no_result_text,omitempty"`
	} `toml:"retrieval"`

	Feedback struct {
		NegativeThreshold int `toml:"negative_threshold"`
	} `toml:"feedback"`

	Scheduler struct {
		Enabled         bool   `toml:"enabled"`
		RetrainInterval string `toml:"retrain_interval,omitempty"`
	} `toml:"scheduler"`
}

// NewConfigStore creates a TOML config store.
// If configDir is empty, defaults to ~/.ktx/config.toml.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		configDir = filepath.Join(home, ".ktx")
	}

	// Ensure directory exists
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	return &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
	}, nil
}

// Load reads configuration from disk. A missing file yields the defaults.
func (s *ConfigStore) Load() (*domain.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := domain.DefaultConfig()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var raw tomlConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	applyRaw(&cfg, &raw)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", s.filePath, err)
	}

	return &cfg, nil
}

// Save persists the configuration to disk.
func (s *ConfigStore) Save(cfg *domain.Config) error {
	if cfg == nil {
		return domain.ErrInvalidInput
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	raw := toRaw(cfg)
	data, err := toml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	// API keys may be present; keep the file private.
	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}

// applyRaw overlays file values onto the defaults. Zero values in the file
// leave the default in place, so a partial config file works.
func applyRaw(cfg *domain.Config, raw *tomlConfig) {
	if raw.Mode != "" {
		cfg.Mode = domain.Mode(raw.Mode)
	}
	if raw.DataDir != "" {
		cfg.DataDir = raw.DataDir
	}

	if raw.Chunking.Size > 0 {
		cfg.Chunking.Size = raw.Chunking.Size
		cfg.Chunking.Overlap = raw.Chunking.Overlap
	}

	if raw.Embedding.Provider != "" {
		cfg.Embedding.Provider = domain.AIProvider(raw.Embedding.Provider)
	}
	if raw.Embedding.Model != "" {
		cfg.Embedding.Model = raw.Embedding.Model
	}
	if raw.Embedding.BaseURL != "" {
		cfg.Embedding.BaseURL = raw.Embedding.BaseURL
	}
	if raw.Embedding.APIKey != "" {
		cfg.Embedding.APIKey = raw.Embedding.APIKey
	}
	if d := parseDuration(raw.Embedding.Timeout); d > 0 {
		cfg.Embedding.Timeout = d
	}
	if raw.Embedding.MaxRetries > 0 {
		cfg.Embedding.MaxRetries = raw.Embedding.MaxRetries
	}
	if raw.Embedding.RequestsPerSecond > 0 {
		cfg.Embedding.RequestsPerSecond = raw.Embedding.RequestsPerSecond
	}

	if raw.LLM.Provider != "" {
		cfg.LLM.Provider = domain.AIProvider(raw.LLM.Provider)
	}
	if raw.LLM.Model != "" {
		cfg.LLM.Model = raw.LLM.Model
	}
	if raw.LLM.BaseURL != "" {
		cfg.LLM.BaseURL = raw.LLM.BaseURL
	}
	if raw.LLM.APIKey != "" {
		cfg.LLM.APIKey = raw.LLM.APIKey
	}

	if raw.Retrieval.TopK > 0 {
		cfg.Retrieval.TopK = raw.Retrieval.TopK
	}
	if raw.Retrieval.Candidates > 0 {
		cfg.Retrieval.Candidates = raw.Retrieval.Candidates
	}
	if raw.Retrieval.MinSimilarity != 0 {
		cfg.Retrieval.MinSimilarity = raw.Retrieval.MinSimilarity
	}
	if d := parseDuration(raw.Retrieval.QueryTimeout); d > 0 {
		cfg.Retrieval.QueryTimeout = d
	}
	if raw.Retrieval.NoResultText != "" {
		cfg.Retrieval.NoResultText = raw.Retrieval.NoResultText
	}

	if raw.Feedback.NegativeThreshold > 0 {
		cfg.Feedback.NegativeThreshold = raw.Feedback.NegativeThreshold
	}

	cfg.Scheduler.Enabled = raw.Scheduler.Enabled
	if d := parseDuration(raw.Scheduler.RetrainInterval); d > 0 {
		if task, ok := cfg.Scheduler.TaskConfigs[domain.TaskIDRetrain]; ok {
			task.Interval = d
			cfg.Scheduler.TaskConfigs[domain.TaskIDRetrain] = task
		}
	}
}

// toRaw converts domain configuration to the on-disk layout.
func toRaw(cfg *domain.Config) *tomlConfig {
	var raw tomlConfig
	raw.Mode = cfg.Mode.String()
	raw.DataDir = cfg.DataDir

	raw.Chunking.Size = cfg.Chunking.Size
	raw.Chunking.Overlap = cfg.Chunking.Overlap

	raw.Embedding.Provider = cfg.Embedding.Provider.String()
	raw.Embedding.Model = cfg.Embedding.Model
	raw.Embedding.BaseURL = cfg.Embedding.BaseURL
	raw.Embedding.APIKey = cfg.Embedding.APIKey
	raw.Embedding.Timeout = formatDuration(cfg.Embedding.Timeout)
	raw.Embedding.MaxRetries = cfg.Embedding.MaxRetries
	raw.Embedding.RequestsPerSecond = cfg.Embedding.RequestsPerSecond

	raw.LLM.Provider = cfg.LLM.Provider.String()
	raw.LLM.Model = cfg.LLM.Model
	raw.LLM.BaseURL = cfg.LLM.BaseURL
	raw.LLM.APIKey = cfg.LLM.APIKey

	raw.Retrieval.TopK = cfg.Retrieval.TopK
	raw.Retrieval.Candidates = cfg.Retrieval.Candidates
	raw.Retrieval.MinSimilarity = cfg.Retrieval.MinSimilarity
	raw.Retrieval.QueryTimeout = formatDuration(cfg.Retrieval.QueryTimeout)
	raw.Retrieval.NoResultText = cfg.Retrieval.NoResultText

	raw.Feedback.NegativeThreshold = cfg.Feedback.NegativeThreshold

	raw.Scheduler.Enabled = cfg.Scheduler.Enabled
	if task, ok := cfg.Scheduler.TaskConfigs[domain.TaskIDRetrain]; ok {
		raw.Scheduler.RetrainInterval = formatDuration(task.Interval)
	}

	return &raw
}

// parseDuration parses a duration string, returning zero on empty or
// malformed input.
func parseDuration(s string) time.Duration {
	if s == "" {
		return 0
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return d
}

// formatDuration renders a duration, or empty for zero.
func formatDuration(d time.Duration) string {
	if d == 0 {
		return ""
	}
	return d.String()
}
