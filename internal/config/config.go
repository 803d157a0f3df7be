// Package config provides configuration loading and validation for the server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/justin/job-advisor/internal/llm"
)

// Config represents the application configuration that can be loaded from a
// JSON file. All fields are optional; missing values use defaults or come
// from environment variables.
type Config struct {
	// Server
	Port int `json:"port,omitempty"` // HTTP listen port

	// Credentials and connections
	DatabaseURL  string `json:"database_url,omitempty"`   // PostgreSQL connection URL
	GeminiAPIKey string `json:"gemini_api_key,omitempty"` // Gemini API key
	TavilyAPIKey string `json:"tavily_api_key,omitempty"` // Tavily search API key (optional; mock results without it)

	// Profile interview
	MaxTurns          int    `json:"max_turns,omitempty"`          // Question rounds before forced extraction
	GenerationTimeout string `json:"generation_timeout,omitempty"` // Per-call model timeout, e.g. "30s"

	// Model overrides per tier
	ModelLite     string `json:"model_lite,omitempty"`
	ModelStandard string `json:"model_standard,omitempty"`
	ModelAdvanced string `json:"model_advanced,omitempty"`
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are filled from
// environment variables after merging.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.MaxTurns < 0 {
		return fmt.Errorf("config error: 'max_turns' must be non-negative")
	}
	if c.GenerationTimeout != "" {
		if _, err := time.ParseDuration(c.GenerationTimeout); err != nil {
			return fmt.Errorf("config error: 'generation_timeout' is not a valid duration: %w", err)
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. This is used to apply config file values as defaults for CLI
// flags and environment variables.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}
	if result.TavilyAPIKey == "" {
		result.TavilyAPIKey = defaults.TavilyAPIKey
	}
	if result.GenerationTimeout == "" {
		result.GenerationTimeout = defaults.GenerationTimeout
	}
	if result.ModelLite == "" {
		result.ModelLite = defaults.ModelLite
	}
	if result.ModelStandard == "" {
		result.ModelStandard = defaults.ModelStandard
	}
	if result.ModelAdvanced == "" {
		result.ModelAdvanced = defaults.ModelAdvanced
	}

	// Int fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.MaxTurns == 0 {
		result.MaxTurns = defaults.MaxTurns
	}

	return result
}

// ApplyEnv fills credentials and connection fields that are still empty
// from environment variables.
func (c *Config) ApplyEnv() {
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if c.GeminiAPIKey == "" {
		c.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.TavilyAPIKey == "" {
		c.TavilyAPIKey = os.Getenv("TAVILY_API_KEY")
	}
}

// Timeout returns the generation timeout, falling back to the model
// client's default. Validate catches unparseable values earlier.
func (c *Config) Timeout() time.Duration {
	if c.GenerationTimeout == "" {
		return llm.DefaultTimeout
	}
	d, err := time.ParseDuration(c.GenerationTimeout)
	if err != nil {
		return llm.DefaultTimeout
	}
	return d
}

// ModelConfig builds the model client configuration, applying any per-tier
// overrides on top of the provider defaults.
func (c *Config) ModelConfig() *llm.Config {
	mc := llm.DefaultConfig()
	mc.Timeout = c.Timeout()
	if c.ModelLite != "" {
		mc.Models[llm.TierLite] = c.ModelLite
	}
	if c.ModelStandard != "" {
		mc.Models[llm.TierStandard] = c.ModelStandard
	}
	if c.ModelAdvanced != "" {
		mc.Models[llm.TierAdvanced] = c.ModelAdvanced
	}
	return mc
}
