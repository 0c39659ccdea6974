package cmd

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhabedank/idea-blueprint/internal/core"
	"github.com/dhabedank/idea-blueprint/internal/history"
	"github.com/dhabedank/idea-blueprint/internal/output"
	"github.com/dhabedank/idea-blueprint/internal/service"
)

const sessionBlueprint = `Here you go:
{
  "overview": "Listening analytics for Spotify users",
  "priorities": {
    "p0": {
      "frontend": {"components": [{"name": "Dashboard", "description": "Charts of listening time", "requirements": ["Recharts"]}]},
      "backend": {"services": [{"name": "Sync", "description": "Imports plays", "requirements": ["OAuth"]}], "dataModel": ["Play"]}
    },
    "p1": {
      "frontend": {"components": [{"name": "Sharing", "description": "Share cards", "requirements": []}]},
      "backend": {"services": [], "dataModel": []}
    }
  },
  "developmentSteps": [{"phase": "MVP", "priority": "p0", "tasks": ["Login", "Import"]}]
}`

const sessionComponent = `{"name": "Dashboard", "description": "Charts", "implementationSteps": [{"step": "Layout", "description": "Grid"}]}`

// scriptAdapter returns outputs in order, repeating the last one.
type scriptAdapter struct {
	outputs []string
	prompts []string
}

func (s *scriptAdapter) Name() string      { return "script" }
func (s *scriptAdapter) IsAvailable() bool { return true }

func (s *scriptAdapter) Generate(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	i := min(len(s.prompts)-1, len(s.outputs)-1)
	return s.outputs[i], nil
}

func newTestSession(input string, adapter *scriptAdapter) (*session, *bytes.Buffer) {
	var out bytes.Buffer
	return &session{
		svc:      service.New(adapter, nil),
		store:    history.NewStore(),
		expanded: core.DefaultExpanded(),
		in:       bufio.NewReader(strings.NewReader(input)),
		out:      &out,
		wait: func(label string, work func(context.Context) error) error {
			return work(context.Background())
		},
	}, &out
}

func TestSessionGenerateRefineAndNavigate(t *testing.T) {
	adapter := &scriptAdapter{outputs: []string{sessionBlueprint}}
	s, out := newTestSession("n Spotify listening analytics\nf authentication\nh\nh 0\nq\n", adapter)

	require.NoError(t, s.run(context.Background()))

	require.Len(t, adapter.prompts, 2)
	assert.Contains(t, adapter.prompts[0], "Spotify listening analytics")
	assert.Contains(t, adapter.prompts[1], "Focus area: authentication")

	require.Equal(t, 2, s.store.Len())
	assert.Equal(t, 0, s.store.CurrentIndex())
	entries := s.store.Entries()
	assert.Equal(t, "authentication", entries[1].Label())
	assert.Equal(t, entries[0].ID, entries[1].ParentID)

	text := out.String()
	assert.Contains(t, text, "Dashboard")
	assert.Contains(t, text, "* 1. authentication")
	assert.Contains(t, text, "#0 Spotify listening an...")
}

func TestSessionPromptsForMissingArguments(t *testing.T) {
	adapter := &scriptAdapter{outputs: []string{sessionBlueprint}}
	s, _ := newTestSession("n\nRecipe sharing\n", adapter)

	require.NoError(t, s.run(context.Background()))
	require.Equal(t, 1, s.store.Len())
	current, _ := s.store.Current()
	assert.Equal(t, "Recipe sharing", current.Request.Idea)
}

func TestSessionToggleExploreAndExport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.json")
	adapter := &scriptAdapter{outputs: []string{sessionBlueprint, sessionComponent}}
	s, out := newTestSession("n analytics\nt p1\nx Dashboard\ne json "+path+"\ne markdown\nq\n", adapter)

	require.NoError(t, s.run(context.Background()))

	assert.True(t, s.expanded["p1"])
	assert.Contains(t, out.String(), "Sharing")

	require.Len(t, adapter.prompts, 2)
	assert.Contains(t, adapter.prompts[1], `"Dashboard"`)
	assert.Contains(t, out.String(), "## Implementation Steps")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	bp, err := output.ParseJSON(data)
	require.NoError(t, err)
	assert.Equal(t, "Listening analytics for Spotify users", bp.Overview)
	assert.Contains(t, out.String(), "# Blueprint")
}

func TestSessionErrorsDoNotEndLoop(t *testing.T) {
	adapter := &scriptAdapter{outputs: []string{"sorry, no JSON today"}}
	s, out := newTestSession("f auth\nn idea\nh 3\nwhat\nq\n", adapter)

	require.NoError(t, s.run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "generate a blueprint first")
	assert.Contains(t, text, core.MsgParseFailure)
	assert.Contains(t, text, "history is empty")
	assert.Contains(t, text, `unknown command "what"`)
	assert.Zero(t, s.store.Len())
}

func TestSessionInvalidIdeaSkipsModel(t *testing.T) {
	adapter := &scriptAdapter{outputs: []string{sessionBlueprint}}
	s, out := newTestSession("n   \n   \nq\n", adapter)

	require.NoError(t, s.run(context.Background()))
	assert.Empty(t, adapter.prompts)
	assert.Contains(t, out.String(), core.MsgInvalidInput)
}

func TestFindItem(t *testing.T) {
	bp, err := core.ValidateBlueprint([]byte(sessionBlueprint[strings.Index(sessionBlueprint, "{"):]))
	require.NoError(t, err)

	item, err := findItem(bp, "sharing")
	require.NoError(t, err)
	assert.Equal(t, "p1.frontend.components[0]", item.Key)

	item, err = findItem(bp, "p0.backend.services[0]")
	require.NoError(t, err)
	assert.Equal(t, "Sync", item.Request.ComponentName)

	_, err = findItem(bp, "Billing")
	assert.Error(t, err)
}
