package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhabedank/idea-blueprint/internal/core"
)

// fakeAdapter returns a fixed output and counts calls.
type fakeAdapter struct {
	output  string
	err     error
	calls   int
	prompts []string
}

func (f *fakeAdapter) Name() string      { return "fake" }
func (f *fakeAdapter) IsAvailable() bool { return true }

func (f *fakeAdapter) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	return f.output, f.err
}

const spotifyResponse = "Sure! Here is the plan:\n```json\n" + `{
  "overview": "Personal listening analytics on top of the Spotify Web API",
  "priorities": {
    "p0": {
      "frontend": {"components": [
        {"name": "Listening Dashboard", "description": "Top artists and tracks", "requirements": ["Charts", "Date range"]},
        {"name": "Login", "description": "Spotify OAuth", "requirements": ["PKCE"]}
      ]},
      "backend": {"services": [{"name": "History Sync", "description": "Imports plays", "requirements": ["Cron"]}], "dataModel": ["Play"]}
    },
    "p1": {"frontend": {"components": []}, "backend": {"services": []}}
  },
  "developmentSteps": [{"phase": "MVP", "priority": "p0", "tasks": ["OAuth", "Dashboard"]}]
}` + "\n```\nLet me know if you need more."

func TestRunScenarioValidBlueprint(t *testing.T) {
	adapter := &fakeAdapter{output: spotifyResponse}
	svc := New(adapter, nil)

	out := svc.Run(context.Background(), core.GenerationRequest{Idea: "Spotify listening analytics", Depth: 1})

	require.True(t, out.OK(), out.Err)
	assert.Equal(t, http.StatusOK, out.HTTPStatus)
	assert.Equal(t, 1, adapter.calls)
	require.NotEmpty(t, out.Blueprint.Priorities.P0.Frontend.Components)
	assert.Equal(t, "Listening Dashboard", out.Blueprint.Priorities.P0.Frontend.Components[0].Name)
	assert.NotNil(t, out.Blueprint.Priorities.P1.Backend.DataModel)
	assert.NotNil(t, out.Blueprint.Priorities.P2.Frontend.Components)
	assert.Contains(t, adapter.prompts[0], "Product idea: Spotify listening analytics")
}

func TestRunScenarioMissingIdeaMakesNoModelCall(t *testing.T) {
	for _, idea := range []string{"", "   "} {
		adapter := &fakeAdapter{output: spotifyResponse}
		svc := New(adapter, nil)

		out := svc.Run(context.Background(), core.GenerationRequest{Idea: idea, Depth: 1})

		assert.False(t, out.OK())
		assert.Equal(t, http.StatusBadRequest, out.HTTPStatus)
		assert.Equal(t, "Invalid input: Missing required fields", out.Error)
		assert.True(t, errors.Is(out.Err, core.ErrInvalidInput))
		assert.Zero(t, adapter.calls)
	}
}

func TestRunScenarioProseWithoutJSON(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	adapter := &fakeAdapter{output: "I'm sorry, I can't produce a plan for that idea."}

	out := New(adapter, logger).Run(context.Background(), core.GenerationRequest{Idea: "x"})

	assert.Equal(t, http.StatusInternalServerError, out.HTTPStatus)
	assert.Equal(t, "Failed to parse the AI response. Please try again.", out.Error)
	assert.True(t, errors.Is(out.Err, core.ErrNoStructuredOutput))
	assert.Contains(t, logs.String(), "generation failed")
	assert.Contains(t, logs.String(), "raw_output=")
	assert.NotContains(t, out.Error, "sorry")
}

func TestRunFailureMapping(t *testing.T) {
	tests := []struct {
		name     string
		adapter  *fakeAdapter
		wantKind core.ErrorKind
		wantMsg  string
	}{
		{"malformed json", &fakeAdapter{output: `{"overview": "x",}`}, core.KindMalformedOutput, core.MsgParseFailure},
		{"missing overview", &fakeAdapter{output: `{"developmentSteps": []}`}, core.KindInvalidStructure, core.MsgParseFailure},
		{"transport", &fakeAdapter{err: errors.New("dial tcp: i/o timeout")}, core.KindTransportFailure, core.MsgUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := New(tt.adapter, nil).Run(context.Background(), core.GenerationRequest{Idea: "x"})

			assert.Equal(t, tt.wantKind, core.KindOf(out.Err))
			assert.Equal(t, tt.wantMsg, out.Error)
			assert.Equal(t, http.StatusInternalServerError, out.HTTPStatus)
			assert.Nil(t, out.Blueprint)
			assert.Equal(t, 1, tt.adapter.calls)
		})
	}
}

func TestExploreScenarioEmptyOptionalArrays(t *testing.T) {
	adapter := &fakeAdapter{output: `{"name":"X","description":"Y","implementationSteps":[]}`}
	svc := New(adapter, nil)

	breakdown, err := svc.Explore(context.Background(), core.ComponentRequest{
		ComponentName: "X",
		Description:   "Y",
		Requirements:  []string{"Fast"},
		Type:          "backend",
		Priority:      "p1",
	})
	require.NoError(t, err)

	assert.Equal(t, "X", breakdown.Name)
	assert.Empty(t, breakdown.ImplementationSteps)
	assert.NotNil(t, breakdown.SubComponents)
	assert.NotNil(t, breakdown.ThirdPartyServices)
	assert.Contains(t, adapter.prompts[0], "with P1 priority")
}

func TestExploreInvalidInputMakesNoModelCall(t *testing.T) {
	adapter := &fakeAdapter{output: `{"name":"X","description":"Y","implementationSteps":[]}`}

	_, err := New(adapter, nil).Explore(context.Background(), core.ComponentRequest{ComponentName: "X"})

	msg, status := core.PublicError(err)
	assert.Equal(t, core.MsgInvalidInput, msg)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Zero(t, adapter.calls)
}

func TestRunLogsStateTransitions(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	New(&fakeAdapter{output: spotifyResponse}, logger).Run(context.Background(), core.GenerationRequest{Idea: "x"})

	for _, state := range []State{StateValidatingInput, StateBuildingPrompt, StateAwaitingModel, StateExtractingJSON, StateValidatingSchema, StateSuccess} {
		assert.Contains(t, logs.String(), "to="+string(state))
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("a", maxLoggedOutputBytes+10)

	assert.Equal(t, "short", truncate("short", maxLoggedOutputBytes))
	assert.True(t, strings.HasSuffix(truncate(long, maxLoggedOutputBytes), "...(truncated)"))
	assert.Len(t, truncate(long, maxLoggedOutputBytes), maxLoggedOutputBytes+len("...(truncated)"))

	// "é" is two bytes; a cut at byte 2 lands inside it.
	assert.Equal(t, "a...(truncated)", truncate("aé tail", 2))
	wide := strings.Repeat("é", maxLoggedOutputBytes)
	cut := truncate(wide, maxLoggedOutputBytes+1)
	assert.True(t, utf8.ValidString(cut))
	assert.Equal(t, strings.Repeat("é", (maxLoggedOutputBytes+1)/2)+"...(truncated)", cut)
}

func TestServiceSatisfiesExplorer(t *testing.T) {
	var _ core.Explorer = New(&fakeAdapter{}, nil)
}
