package llm

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/dhabedank/idea-blueprint/internal/core"
)

// ExtractJSON returns the substring from the first '{' to the last '}'.
// It is a greedy scan: prose before and after the object, including
// markdown fences, is dropped.
func ExtractJSON(output string) (string, error) {
	start := strings.Index(output, "{")
	end := strings.LastIndex(output, "}")
	if start == -1 || end == -1 || end < start {
		return "", core.NewError(core.KindNoStructuredOutput, "extract json", errors.New("no brace-delimited block in model output"))
	}
	return output[start : end+1], nil
}

// DecodeCandidate checks that candidate is well-formed JSON whose top-level
// value is an object, and returns it as raw bytes for validation.
func DecodeCandidate(candidate string) (json.RawMessage, error) {
	if !gjson.Valid(candidate) {
		var v any
		err := json.Unmarshal([]byte(candidate), &v)
		if err == nil {
			err = errors.New("invalid json")
		}
		return nil, core.NewError(core.KindMalformedOutput, "decode json", err)
	}
	if !gjson.Parse(candidate).IsObject() {
		return nil, core.NewError(core.KindMalformedOutput, "decode json", errors.New("top-level value is not an object"))
	}
	return json.RawMessage(candidate), nil
}

// ParseOutput runs extraction and decoding on raw model output.
func ParseOutput(output string) (json.RawMessage, error) {
	candidate, err := ExtractJSON(output)
	if err != nil {
		return nil, err
	}
	return DecodeCandidate(candidate)
}
