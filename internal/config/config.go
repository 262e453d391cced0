// Package config loads scengen configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all scengen configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// LLM configuration (Gemini)
	LLM LLMConfig `yaml:"llm"`

	// Confluence source configuration
	Confluence ConfluenceConfig `yaml:"confluence"`

	// Output settings
	Output OutputConfig `yaml:"output"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// LLMConfig configures the Gemini client.
type LLMConfig struct {
	APIKey          string  `yaml:"api_key"`
	Model           string  `yaml:"model"`
	BaseURL         string  `yaml:"base_url"`
	Timeout         string  `yaml:"timeout"`
	Temperature     float64 `yaml:"temperature"`
	MaxOutputTokens int     `yaml:"max_output_tokens"`
}

// ConfluenceConfig configures the Confluence page loader.
type ConfluenceConfig struct {
	BaseURL  string `yaml:"base_url"`
	Username string `yaml:"username"`
	APIToken string `yaml:"api_token"`
	Timeout  string `yaml:"timeout"`
}

// OutputConfig configures where artifacts are written.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "scengen",
		Version: "1.0.0",

		LLM: LLMConfig{
			Model:           "gemini-2.5-pro",
			BaseURL:         "https://generativelanguage.googleapis.com/v1beta",
			Timeout:         "300s",
			Temperature:     0.3,
			MaxOutputTokens: 32768,
		},

		Confluence: ConfluenceConfig{
			Timeout: "60s",
		},

		Output: OutputConfig{
			Dir: "./output",
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields defaults;
// environment variables override either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	// GOOGLE_API_KEY is what the hosted API docs use; GEMINI_API_KEY wins
	// when both are set.
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		c.LLM.APIKey = key
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.LLM.APIKey = key
	}

	if url := os.Getenv("CONFLUENCE_URL"); url != "" {
		c.Confluence.BaseURL = url
	}
	if user := os.Getenv("CONFLUENCE_USERNAME"); user != "" {
		c.Confluence.Username = user
	}
	if token := os.Getenv("CONFLUENCE_API_TOKEN"); token != "" {
		c.Confluence.APIToken = token
	}

	if dir := os.Getenv("SCENGEN_OUTPUT_DIR"); dir != "" {
		c.Output.Dir = dir
	}
}

// Validate checks that required settings are present for a real run.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("missing Gemini API key (set GEMINI_API_KEY or llm.api_key)")
	}
	return nil
}

// GetLLMTimeout returns the LLM timeout as a duration.
func (c *Config) GetLLMTimeout() time.Duration {
	d, err := time.ParseDuration(c.LLM.Timeout)
	if err != nil {
		return 300 * time.Second
	}
	return d
}

// GetConfluenceTimeout returns the Confluence request timeout as a duration.
func (c *Config) GetConfluenceTimeout() time.Duration {
	d, err := time.ParseDuration(c.Confluence.Timeout)
	if err != nil {
		return 60 * time.Second
	}
	return d
}
