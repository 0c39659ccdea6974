package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	genai "google.golang.org/genai"

	"github.com/dhabedank/idea-blueprint/internal/core"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

var errEmptyCandidate = errors.New("gemini returned no candidates")

// GeminiAPIAdapter uses the Gemini API through the official genai client.
type GeminiAPIAdapter struct {
	cli       *genai.Client
	apiKey    string
	model     string
	maxTokens int
}

// NewGeminiAPIAdapter creates a Gemini adapter. A missing key is a configuration error.
func NewGeminiAPIAdapter(ctx context.Context, config Config) (*GeminiAPIAdapter, error) {
	if config.GeminiAPIKey == "" {
		return nil, core.NewError(core.KindConfigurationMissing, "gemini adapter", errors.New("GOOGLE_AI_API_KEY not set"))
	}

	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := config.Model
	if model == "" {
		model = DefaultGeminiModel
	}
	maxTokens := config.MaxTokens
	if maxTokens == 0 {
		maxTokens = DefaultConfig().MaxTokens
	}

	return &GeminiAPIAdapter{
		cli:       cli,
		apiKey:    config.GeminiAPIKey,
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

func (a *GeminiAPIAdapter) Name() string {
	return "gemini-api"
}

func (a *GeminiAPIAdapter) IsAvailable() bool {
	return a.apiKey != ""
}

func (a *GeminiAPIAdapter) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := a.cli.Models.GenerateContent(ctx, a.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: SystemPrompt}}},
			MaxOutputTokens:   int32(a.maxTokens),
		},
	)
	if err != nil {
		return "", fmt.Errorf("gemini API error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errEmptyCandidate
	}

	var output strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			output.WriteString(part.Text)
		}
	}
	return output.String(), nil
}
