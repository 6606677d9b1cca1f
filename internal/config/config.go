// Package config handles lab configuration.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Provider backends.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// Config holds the embedding backend and analysis settings, typically read
// from cartographer.yml next to the mined data.
type Config struct {
	Provider string       `yaml:"provider,omitempty"`
	Ollama   OllamaConfig `yaml:"ollama,omitempty"`
	OpenAI   OpenAIConfig `yaml:"openai,omitempty"`

	// CachePath points the embedding cache at a sqlite file so vectors
	// survive process restarts. Empty keeps the cache in memory only.
	CachePath string `yaml:"cache_path,omitempty"`

	ClusterSeed int64 `yaml:"cluster_seed,omitempty"`
	DefaultK    int   `yaml:"default_k,omitempty"`
}

// OllamaConfig configures the local Ollama backend.
type OllamaConfig struct {
	BaseURL        string  `yaml:"base_url,omitempty"`
	Model          string  `yaml:"model,omitempty"`
	Dimensions     int     `yaml:"dimensions,omitempty"`
	TimeoutSeconds int     `yaml:"timeout_seconds,omitempty"`
	RateLimit      float64 `yaml:"rate_limit,omitempty"`
}

// OpenAIConfig configures the hosted OpenAI backend. The API key is never
// stored in the file; it comes from the environment.
type OpenAIConfig struct {
	Model  string `yaml:"model,omitempty"`
	APIKey string `yaml:"-"`
}

// Default returns the configuration used when no file is present: local
// Ollama with nomic-embed-text.
func Default() *Config {
	return &Config{
		Provider: ProviderOllama,
		Ollama: OllamaConfig{
			BaseURL:        "http://localhost:11434",
			Model:          "nomic-embed-text",
			Dimensions:     768,
			TimeoutSeconds: 30,
			RateLimit:      20,
		},
		ClusterSeed: 42,
		DefaultK:    3,
	}
}

// Load reads configuration from path, layering file values over defaults
// and environment values over both. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays environment variables, loading a .env file first if one
// is present.
func (c *Config) applyEnv() {
	_ = godotenv.Load()

	if v := os.Getenv("CARTOGRAPHER_PROVIDER"); v != "" {
		c.Provider = v
	}
	if v := os.Getenv("CARTOGRAPHER_OLLAMA_URL"); v != "" {
		c.Ollama.BaseURL = v
	}
	if v := os.Getenv("CARTOGRAPHER_MODEL"); v != "" {
		c.Ollama.Model = v
	}
	if v := os.Getenv("CARTOGRAPHER_DIMENSIONS"); v != "" {
		if dims, err := strconv.Atoi(v); err == nil && dims > 0 {
			c.Ollama.Dimensions = dims
		}
	}
	if v := os.Getenv("CARTOGRAPHER_CACHE_PATH"); v != "" {
		c.CachePath = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.OpenAI.APIKey = v
	}
}

func (c *Config) validate() error {
	switch c.Provider {
	case ProviderOllama:
		if c.Ollama.Dimensions <= 0 {
			return fmt.Errorf("ollama dimensions must be positive, got %d", c.Ollama.Dimensions)
		}
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("openai provider requires OPENAI_API_KEY")
		}
	default:
		return fmt.Errorf("unknown provider %q (expected %q or %q)",
			c.Provider, ProviderOllama, ProviderOpenAI)
	}
	if c.DefaultK <= 0 {
		return fmt.Errorf("default_k must be positive, got %d", c.DefaultK)
	}
	return nil
}
