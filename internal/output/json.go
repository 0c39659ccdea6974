package output

import (
	"encoding/json"
	"fmt"

	"github.com/dhabedank/idea-blueprint/internal/core"
)

// JSONAdapter exports the blueprint as indented JSON.
type JSONAdapter struct{}

// NewJSONAdapter creates a JSON adapter.
func NewJSONAdapter() *JSONAdapter {
	return &JSONAdapter{}
}

func (a *JSONAdapter) Name() string {
	return "json"
}

func (a *JSONAdapter) ContentType() string {
	return "application/json"
}

func (a *JSONAdapter) Render(b *core.Blueprint) ([]byte, error) {
	return JSON(b)
}

// JSON serializes b. ParseJSON(JSON(b)) equals b for any validated blueprint.
func JSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// ParseJSON imports a blueprint export. It goes through the same validation
// and repair as model output, so hand-edited files are accepted when they
// carry the required fields.
func ParseJSON(data []byte) (*core.Blueprint, error) {
	if !json.Valid(data) {
		return nil, core.NewError(core.KindMalformedOutput, "import json", fmt.Errorf("file is not valid JSON"))
	}
	return core.ValidateBlueprint(data)
}
