package model

import "time"

// Config holds the complete application configuration.
type Config struct {
	LLM         LLMConfig         `yaml:"llm"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Cache       CacheConfig       `yaml:"cache"`
	Output      OutputConfig      `yaml:"output"`
}

// LLMConfig configures the remote classifier. An empty Provider disables the
// remote strategy entirely; runs then use the pattern classifier throughout.
type LLMConfig struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string `yaml:"provider"`

	// Model name (provider-specific)
	Model string `yaml:"model"`

	// APIKey for OpenAI/Anthropic. Passed explicitly into the client at
	// construction; never read from the environment in deep call paths.
	APIKey string `yaml:"api_key,omitempty"`

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string `yaml:"base_url,omitempty"`

	// Timeout per remote call, in seconds
	Timeout int `yaml:"timeout"`

	// MaxTokens for the classification reply
	MaxTokens int `yaml:"max_tokens"`

	// MaxRetries bounds retries of transient failures per call
	MaxRetries int `yaml:"max_retries"`

	// RequestsPerSecond rate-limits remote calls (0 = unlimited)
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	// Proxy settings
	HTTPProxy  string `yaml:"http_proxy,omitempty"`
	HTTPSProxy string `yaml:"https_proxy,omitempty"`
}

// ConcurrencyConfig bounds parallelism.
type ConcurrencyConfig struct {
	// ClassifyWorkers is the number of concurrent remote calls within one
	// run. 1 preserves strictly sequential classification.
	ClassifyWorkers int `yaml:"classify_workers"`

	// BatchWorkers is the number of transcripts analyzed in parallel by
	// the batch command.
	BatchWorkers int `yaml:"batch_workers"`
}

// CacheConfig configures the remote-response cache.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// OutputConfig configures rendering.
type OutputConfig struct {
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:          "", // Remote disabled by default
			Model:             "",
			Timeout:           30,
			MaxTokens:         200,
			MaxRetries:        2,
			RequestsPerSecond: 2,
		},
		Concurrency: ConcurrencyConfig{
			ClassifyWorkers: 1,
			BatchWorkers:    4,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "", // Defaults to <user cache dir>/nirva at construction
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Output: OutputConfig{
			Verbose: false,
		},
	}
}
