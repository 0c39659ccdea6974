// Package config loads settings from .idea-blueprint.yaml, .env and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dhabedank/idea-blueprint/internal/core"
	"github.com/dhabedank/idea-blueprint/internal/llm"
)

// FileName is looked up in the working directory, then the home directory.
const FileName = ".idea-blueprint.yaml"

// Environment variables read by Load.
const (
	EnvGeminiKey    = "GOOGLE_AI_API_KEY"
	EnvAnthropicKey = "ANTHROPIC_API_KEY"
	EnvAddr         = "IDEA_BLUEPRINT_ADDR"
	EnvPort         = "PORT"
)

// Config is the resolved application configuration.
type Config struct {
	Provider  string       `yaml:"provider,omitempty"`
	Model     string       `yaml:"model,omitempty"`
	MaxTokens int          `yaml:"max_tokens,omitempty"`
	Server    ServerConfig `yaml:"server,omitempty"`
	Retry     RetryConfig  `yaml:"retry,omitempty"`
	Log       LogConfig    `yaml:"log,omitempty"`

	// Secrets come from the environment only.
	GeminiAPIKey    string `yaml:"-"`
	AnthropicAPIKey string `yaml:"-"`

	// Path is the config file that was loaded, if any.
	Path string `yaml:"-"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// RetryConfig configures retries of failed model calls.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts,omitempty"`
	BaseDelay   time.Duration `yaml:"base_delay,omitempty"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// Default returns the built-in defaults.
func Default() *Config {
	llmDefaults := llm.DefaultConfig()
	return &Config{
		Provider:  llmDefaults.Provider,
		MaxTokens: llmDefaults.MaxTokens,
		Server:    ServerConfig{Addr: ":8080"},
		Retry:     RetryConfig{MaxAttempts: 1, BaseDelay: 500 * time.Millisecond},
		Log:       LogConfig{Level: "info", Format: "text"},
	}
}

// Load resolves configuration: defaults, then the config file, then the
// environment. path overrides the file lookup; a missing explicit path is
// an error, a missing default file is not.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := Default()

	if path == "" {
		path = FindFile()
	}
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv returns the defaults with .env and environment values applied,
// ignoring any config file.
func FromEnv() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	cfg := Default()
	cfg.applyEnv()
	return cfg, nil
}

// loadDotEnv loads .env from the working directory if present. It never
// overrides variables already set.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// FindFile returns the first existing config file, or "".
func FindFile() string {
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}
	if home, err := os.UserHomeDir(); err == nil {
		homePath := filepath.Join(home, FileName)
		if _, err := os.Stat(homePath); err == nil {
			return homePath
		}
	}
	return ""
}

// DefaultPath is where setup saves the configuration.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return FileName
	}
	return filepath.Join(home, FileName)
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	// File values only replace defaults when set
	if file.Provider != "" {
		c.Provider = file.Provider
	}
	if file.Model != "" {
		c.Model = file.Model
	}
	if file.MaxTokens > 0 {
		c.MaxTokens = file.MaxTokens
	}
	if file.Server.Addr != "" {
		c.Server.Addr = file.Server.Addr
	}
	if file.Retry.MaxAttempts > 0 {
		c.Retry.MaxAttempts = file.Retry.MaxAttempts
	}
	if file.Retry.BaseDelay > 0 {
		c.Retry.BaseDelay = file.Retry.BaseDelay
	}
	if file.Log.Level != "" {
		c.Log.Level = file.Log.Level
	}
	if file.Log.Format != "" {
		c.Log.Format = file.Log.Format
	}
	c.Path = path
	return nil
}

func (c *Config) applyEnv() {
	c.GeminiAPIKey = os.Getenv(EnvGeminiKey)
	c.AnthropicAPIKey = os.Getenv(EnvAnthropicKey)

	if addr := os.Getenv(EnvAddr); addr != "" {
		c.Server.Addr = addr
	} else if port := os.Getenv(EnvPort); port != "" {
		c.Server.Addr = ":" + port
	}
}

// Validate checks enumerated values and the retry bounds.
func (c *Config) Validate() error {
	providers := append([]string{llm.ProviderAuto}, llm.Providers...)
	if !slices.Contains(providers, c.Provider) {
		return fmt.Errorf("invalid provider %q (use one of %v)", c.Provider, providers)
	}
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, c.Log.Level) {
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	if !slices.Contains([]string{"text", "json"}, c.Log.Format) {
		return fmt.Errorf("invalid log format %q", c.Log.Format)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be >= 1")
	}
	return nil
}

// RequireCredentials fails with ConfigurationMissing when an API provider
// is selected without its key.
func (c *Config) RequireCredentials() error {
	switch c.Provider {
	case llm.ProviderGemini:
		if c.GeminiAPIKey == "" {
			return core.NewError(core.KindConfigurationMissing, "config", fmt.Errorf("%s is not set", EnvGeminiKey))
		}
	case llm.ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			return core.NewError(core.KindConfigurationMissing, "config", fmt.Errorf("%s is not set", EnvAnthropicKey))
		}
	}
	return nil
}

// LLMConfig returns the adapter configuration.
func (c *Config) LLMConfig() llm.Config {
	return llm.Config{
		Provider:        c.Provider,
		Model:           c.Model,
		GeminiAPIKey:    c.GeminiAPIKey,
		AnthropicAPIKey: c.AnthropicAPIKey,
		MaxTokens:       c.MaxTokens,
	}
}

// Save writes the file-backed settings to path. Secrets are never written.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
