package llm

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/dhabedank/idea-blueprint/internal/core"
)

// ModelInfo describes an available model.
type ModelInfo struct {
	ID          string // Model identifier (e.g., "gemini-2.5-flash")
	Name        string // Human-readable name (e.g., "Gemini 2.5 Flash")
	Description string // Brief description
	Provider    string // Adapter name (e.g., "gemini-api")
}

var geminiModels = []ModelInfo{
	{ID: "gemini-2.5-flash", Name: "Gemini 2.5 Flash", Description: "Fast and inexpensive, good default ($0.30/$2.50 per MTok)", Provider: ProviderGemini},
	{ID: "gemini-2.5-pro", Name: "Gemini 2.5 Pro", Description: "Highest quality Gemini model ($1.25/$10 per MTok)", Provider: ProviderGemini},
	{ID: "gemini-2.5-flash-lite", Name: "Gemini 2.5 Flash-Lite", Description: "Cheapest option ($0.10/$0.40 per MTok)", Provider: ProviderGemini},
}

var claudeModels = []ModelInfo{
	{ID: "claude-sonnet-4-5-20250929", Name: "Claude Sonnet 4.5", Description: "Best balance of speed and capability ($3/$15 per MTok)", Provider: ProviderAnthropic},
	{ID: "claude-opus-4-5-20251101", Name: "Claude Opus 4.5", Description: "Premium model, maximum intelligence ($5/$25 per MTok)", Provider: ProviderAnthropic},
	{ID: "claude-haiku-4-5-20251001", Name: "Claude Haiku 4.5", Description: "Fastest, most cost-effective ($1/$5 per MTok)", Provider: ProviderAnthropic},
}

var codexModels = []ModelInfo{
	{ID: "o3", Name: "O3", Description: "Most capable reasoning model", Provider: ProviderCodexCLI},
	{ID: "o3-mini", Name: "O3 Mini", Description: "Fast reasoning model", Provider: ProviderCodexCLI},
	{ID: "gpt-4o", Name: "GPT-4o", Description: "Fast multimodal model", Provider: ProviderCodexCLI},
	{ID: "gpt-4o-mini", Name: "GPT-4o Mini", Description: "Most cost-effective", Provider: ProviderCodexCLI},
}

// Providers lists the selectable providers in auto-detection order.
var Providers = []string{ProviderGemini, ProviderAnthropic, ProviderClaudeCLI, ProviderCodexCLI}

// ModelsForProvider returns the known models for a provider.
// The Claude CLI accepts the same model ids as the Anthropic API.
func ModelsForProvider(provider string) []ModelInfo {
	switch provider {
	case ProviderGemini:
		return geminiModels
	case ProviderAnthropic, ProviderClaudeCLI:
		return claudeModels
	case ProviderCodexCLI:
		return codexModels
	}
	return nil
}

// NewAdapter builds the adapter named by config.Provider.
// "auto" or "" defers to DetectBestAdapter.
func NewAdapter(ctx context.Context, config Config) (Adapter, error) {
	switch config.Provider {
	case "", ProviderAuto:
		return DetectBestAdapter(ctx, config)
	case ProviderGemini:
		return NewGeminiAPIAdapter(ctx, config)
	case ProviderAnthropic:
		return NewAnthropicAPIAdapter(config)
	case ProviderClaudeCLI:
		a := NewClaudeCLIAdapter(config)
		if !a.IsAvailable() {
			return nil, core.NewError(core.KindConfigurationMissing, "claude-cli adapter", fmt.Errorf("claude not found in PATH"))
		}
		return a, nil
	case ProviderCodexCLI:
		a := NewCodexCLIAdapter(config)
		if !a.IsAvailable() {
			return nil, core.NewError(core.KindConfigurationMissing, "codex-cli adapter", fmt.Errorf("codex not found in PATH"))
		}
		return a, nil
	}
	return nil, fmt.Errorf("unknown LLM provider: %s", config.Provider)
}

// DetectBestAdapter finds the best available LLM adapter.
// Priority: Gemini API > Anthropic API > Claude CLI > Codex CLI
func DetectBestAdapter(ctx context.Context, config Config) (Adapter, error) {
	if config.GeminiAPIKey != "" {
		return NewGeminiAPIAdapter(ctx, config)
	}

	if config.AnthropicAPIKey != "" {
		return NewAnthropicAPIAdapter(config)
	}

	claude := NewClaudeCLIAdapter(config)
	if claude.IsAvailable() {
		return claude, nil
	}

	codex := NewCodexCLIAdapter(config)
	if codex.IsAvailable() {
		return codex, nil
	}

	return nil, core.NewError(core.KindConfigurationMissing, "detect adapter",
		fmt.Errorf("no LLM adapter available - set GOOGLE_AI_API_KEY or ANTHROPIC_API_KEY, or install Claude Code or Codex"))
}

// ListAvailableAdapters returns all adapters that could be used.
func ListAvailableAdapters(config Config) []string {
	available := []string{}

	if config.GeminiAPIKey != "" {
		available = append(available, ProviderGemini)
	}
	if config.AnthropicAPIKey != "" {
		available = append(available, ProviderAnthropic)
	}
	if _, err := exec.LookPath("claude"); err == nil {
		available = append(available, ProviderClaudeCLI)
	}
	if _, err := exec.LookPath("codex"); err == nil {
		available = append(available, ProviderCodexCLI)
	}

	return available
}

// ModelFor returns the model an adapter named provider will use for config.
func ModelFor(provider string, config Config) string {
	if config.Model != "" {
		return config.Model
	}
	switch provider {
	case ProviderGemini:
		return DefaultGeminiModel
	case ProviderAnthropic, ProviderClaudeCLI:
		return DefaultClaudeModel
	case ProviderCodexCLI:
		return DefaultCodexModel
	}
	return ""
}
