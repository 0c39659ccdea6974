package llm

import (
	"context"
)

// Adapter is the interface all LLM adapters must implement.
// Adapters return the model's raw text; extraction and validation happen later.
type Adapter interface {
	// Name returns the adapter identifier for logging.
	Name() string

	// IsAvailable checks if this adapter can be used (CLI installed, API key set, etc.)
	IsAvailable() bool

	// Generate sends the prompt to the model and returns its raw text output.
	Generate(ctx context.Context, prompt string) (string, error)
}

// Provider names accepted in configuration.
const (
	ProviderAuto      = "auto"
	ProviderGemini    = "gemini-api"
	ProviderAnthropic = "anthropic-api"
	ProviderClaudeCLI = "claude-cli"
	ProviderCodexCLI  = "codex-cli"
)

// SystemPrompt frames every request. The user prompt carries the schema and rules.
const SystemPrompt = "You are a senior software architect who turns product ideas into technical plans. You always answer with a single valid JSON object and nothing else."

// Config holds configuration for LLM adapters.
type Config struct {
	// Provider selects an adapter; "auto" picks the first available one.
	Provider string

	// Model specifies which model to use (optional, adapter chooses default).
	Model string

	// GeminiAPIKey and AnthropicAPIKey are passed in explicitly, never read from the environment here.
	GeminiAPIKey    string
	AnthropicAPIKey string

	// MaxTokens limits response length.
	MaxTokens int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:  ProviderAuto,
		MaxTokens: 8192,
	}
}
