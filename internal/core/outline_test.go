package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func outlineFixture() *Blueprint {
	b := &Blueprint{Overview: "An app"}
	b.Priorities.P0.Frontend.Components = []Component{
		{Name: "Card", Description: "First card", Requirements: []string{"Image"}},
		{Name: "Card", Description: "Second card", Requirements: []string{}},
	}
	b.Priorities.P0.Backend.Services = []Service{{Name: "API", Requirements: []string{}}}
	b.Priorities.P0.Backend.DataModel = []string{"User"}
	b.DevelopmentSteps = []DevelopmentPhase{{Phase: "Build", Priority: "p0", Tasks: []string{"Scaffold"}}}
	return b
}

func keys(rows []OutlineRow) []string {
	var out []string
	for _, r := range rows {
		out = append(out, r.Key)
	}
	return out
}

func TestOutlineDefaultExpanded(t *testing.T) {
	rows := Outline(outlineFixture(), DefaultExpanded())

	assert.Equal(t, []string{
		"overview",
		"overview.text",
		"p0",
		"p0.frontend",
		"p0.frontend.components[0]",
		"p0.frontend.components[1]",
		"p0.backend",
		"p0.backend.services[0]",
		"p0.backend.dataModel",
		"p0.backend.dataModel[0]",
		"p1",
		"p2",
		"developmentSteps",
	}, keys(rows))
	assert.True(t, rows[0].Expanded)
	assert.Equal(t, "P0 Priority", rows[2].Text)
}

func TestOutlineSameNamedSiblingsExpandIndependently(t *testing.T) {
	expanded := DefaultExpanded().Toggle("p0.frontend.components[1]")

	rows := Outline(outlineFixture(), expanded)

	var texts []string
	for _, r := range rows {
		if r.Kind == RowText && r.Depth == 3 {
			texts = append(texts, r.Text)
		}
	}
	assert.Equal(t, []string{"Second card"}, texts)
}

func TestOutlineCollapsedAndSteps(t *testing.T) {
	rows := Outline(outlineFixture(), ExpandedSet{"developmentSteps": true, "developmentSteps[0]": true})

	assert.Equal(t, []string{
		"overview", "p0", "p1", "p2",
		"developmentSteps", "developmentSteps[0]", "developmentSteps[0].tasks[0]",
	}, keys(rows))
	assert.Equal(t, "Build (p0)", rows[5].Text)
	assert.Nil(t, Outline(nil, DefaultExpanded()))
}

func TestExpandedSetToggleDoesNotMutate(t *testing.T) {
	base := DefaultExpanded()

	next := base.Toggle("p0")
	require.False(t, next["p0"])
	assert.True(t, base["p0"])

	again := next.Toggle("p0")
	assert.True(t, again["p0"])
	assert.True(t, again["overview"])
}
