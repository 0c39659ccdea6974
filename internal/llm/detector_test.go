package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhabedank/idea-blueprint/internal/core"
)

func TestNewAdapterMissingKeys(t *testing.T) {
	tests := []struct {
		provider string
		wantMsg  string
	}{
		{ProviderGemini, "GOOGLE_AI_API_KEY"},
		{ProviderAnthropic, "ANTHROPIC_API_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			_, err := NewAdapter(context.Background(), Config{Provider: tt.provider})
			require.Error(t, err)
			assert.True(t, errors.Is(err, core.ErrConfigurationMissing))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestNewAdapterUnknownProvider(t *testing.T) {
	_, err := NewAdapter(context.Background(), Config{Provider: "carrier-pigeon"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown LLM provider")
}

func TestDetectBestAdapterPrefersAPIKeys(t *testing.T) {
	a, err := DetectBestAdapter(context.Background(), Config{AnthropicAPIKey: "sk-test"})
	require.NoError(t, err)
	assert.Equal(t, "anthropic-api", a.Name())
	assert.True(t, a.IsAvailable())
}

func TestDetectBestAdapterNothingAvailable(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	_, err := DetectBestAdapter(context.Background(), Config{})
	require.Error(t, err)
	assert.Equal(t, core.KindConfigurationMissing, core.KindOf(err))
	assert.Empty(t, ListAvailableAdapters(Config{}))
}

func TestModelsForProvider(t *testing.T) {
	assert.Equal(t, DefaultGeminiModel, ModelsForProvider(ProviderGemini)[0].ID)
	assert.Equal(t, DefaultClaudeModel, ModelsForProvider(ProviderClaudeCLI)[0].ID)
	assert.Equal(t, DefaultCodexModel, ModelsForProvider(ProviderCodexCLI)[0].ID)
	assert.Nil(t, ModelsForProvider("unknown"))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, ProviderAuto, cfg.Provider)
	assert.Equal(t, 8192, cfg.MaxTokens)
}

func TestModelFor(t *testing.T) {
	assert.Equal(t, DefaultGeminiModel, ModelFor(ProviderGemini, Config{}))
	assert.Equal(t, DefaultClaudeModel, ModelFor(ProviderClaudeCLI, Config{}))
	assert.Equal(t, DefaultCodexModel, ModelFor(ProviderCodexCLI, Config{}))
	assert.Equal(t, "custom", ModelFor(ProviderAnthropic, Config{Model: "custom"}))
	assert.Empty(t, ModelFor("scripted", Config{}))
}
