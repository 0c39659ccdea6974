package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestBuildBlueprintPrompt(t *testing.T) {
	req := GenerationRequest{Idea: "  Spotify listening analytics ", Depth: 1, FocusArea: strPtr("privacy")}

	prompt := BuildBlueprintPrompt(req)

	assert.Contains(t, prompt, "Product idea: Spotify listening analytics\n")
	assert.Contains(t, prompt, "Breakdown depth: 1")
	assert.Contains(t, prompt, "Focus area: privacy")
	assert.Contains(t, prompt, `"developmentSteps"`)
	assert.Contains(t, prompt, `"dataModel"`)
	assert.Contains(t, prompt, "1. Response must be ONLY the JSON object")
	assert.Contains(t, prompt, "Consider both development and production environments")
	assert.Contains(t, prompt, "Include error handling considerations")
}

func TestBuildBlueprintPromptWithoutFocus(t *testing.T) {
	prompt := BuildBlueprintPrompt(GenerationRequest{Idea: "Todo app"})

	assert.Contains(t, prompt, "Focus area: none")
	assert.Contains(t, prompt, "Breakdown depth: 1")
}

func TestBuildBlueprintPromptIsDeterministic(t *testing.T) {
	req := GenerationRequest{Idea: "Recipe planner", Depth: 2, FocusArea: strPtr("mobile")}

	first := BuildBlueprintPrompt(req)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, BuildBlueprintPrompt(req))
	}
	assert.NotEqual(t, first, BuildBlueprintPrompt(GenerationRequest{Idea: "Recipe planner", Depth: 2}))
}

func TestBuildComponentPrompt(t *testing.T) {
	req := ComponentRequest{
		ComponentName: "Checkout",
		Description:   "Collects payment",
		Requirements:  []string{"Stripe", "Receipts"},
		Type:          "frontend",
		Priority:      "p0",
	}

	prompt := BuildComponentPrompt(req)

	assert.True(t, strings.HasPrefix(prompt, "Provide a detailed breakdown for the Checkout (frontend) component with P0 priority."))
	assert.Contains(t, prompt, "Component Description: Collects payment")
	assert.Contains(t, prompt, "Requirements: Stripe, Receipts")
	assert.Contains(t, prompt, `"name": "Checkout"`)
	assert.Contains(t, prompt, `"implementationSteps"`)
	assert.Contains(t, prompt, "4. Include specific frontend framework")
	assert.Contains(t, prompt, "7. Consider both development and production environments")
	assert.Equal(t, prompt, BuildComponentPrompt(req))
}

func TestBuildComponentPromptStackRule(t *testing.T) {
	tests := []struct {
		kind string
		want string
	}{
		{"backend", "Include specific backend framework"},
		{"Frontend", "Include specific frontend framework"},
		{"worker", "Include specific implementation details for a worker component"},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			prompt := BuildComponentPrompt(ComponentRequest{ComponentName: "X", Type: tt.kind})
			assert.Contains(t, prompt, tt.want)
		})
	}
}
