package core

import "fmt"

// Row kinds produced by Outline.
const (
	RowSection     = "section"
	RowGroup       = "group"
	RowItem        = "item"
	RowText        = "text"
	RowRequirement = "requirement"
	RowEntity      = "entity"
	RowPhase       = "phase"
	RowTask        = "task"
)

// ExpandedSet holds the structural keys of expanded outline nodes.
type ExpandedSet map[string]bool

// DefaultExpanded returns the initial expansion state: overview and p0 open.
func DefaultExpanded() ExpandedSet {
	return ExpandedSet{"overview": true, "p0": true}
}

// Toggle returns a copy of the set with key flipped. The receiver is not modified.
func (s ExpandedSet) Toggle(key string) ExpandedSet {
	out := make(ExpandedSet, len(s)+1)
	for k, v := range s {
		if v {
			out[k] = true
		}
	}
	if out[key] {
		delete(out, key)
	} else {
		out[key] = true
	}
	return out
}

// OutlineRow is one visible line of a rendered blueprint outline.
type OutlineRow struct {
	Key        string // Structural path, e.g. p0.frontend.components[2]
	Depth      int
	Kind       string
	Text       string
	Expandable bool
	Expanded   bool
}

// Outline returns the visible rows of b for the given expansion state.
// Keys are structural paths so same-named siblings never share state.
func Outline(b *Blueprint, expanded ExpandedSet) []OutlineRow {
	if b == nil {
		return nil
	}
	var rows []OutlineRow
	open := func(key string) bool { return expanded[key] }

	rows = append(rows, OutlineRow{Key: "overview", Kind: RowSection, Text: "Overview", Expandable: true, Expanded: open("overview")})
	if open("overview") {
		rows = append(rows, OutlineRow{Key: "overview.text", Depth: 1, Kind: RowText, Text: b.Overview})
	}

	for _, p := range PriorityKeys {
		level, _ := b.Priorities.Level(p)
		rows = append(rows, OutlineRow{Key: p, Kind: RowSection, Text: PriorityTitle(p), Expandable: true, Expanded: open(p)})
		if !open(p) {
			continue
		}

		rows = append(rows, OutlineRow{Key: p + ".frontend", Depth: 1, Kind: RowGroup, Text: "Frontend Components"})
		for i, c := range level.Frontend.Components {
			rows = appendItem(rows, fmt.Sprintf("%s.frontend.components[%d]", p, i), c.Name, c.Description, c.Requirements, open)
		}

		rows = append(rows, OutlineRow{Key: p + ".backend", Depth: 1, Kind: RowGroup, Text: "Backend Services"})
		for i, s := range level.Backend.Services {
			rows = appendItem(rows, fmt.Sprintf("%s.backend.services[%d]", p, i), s.Name, s.Description, s.Requirements, open)
		}

		if len(level.Backend.DataModel) > 0 {
			rows = append(rows, OutlineRow{Key: p + ".backend.dataModel", Depth: 1, Kind: RowGroup, Text: "Data Model"})
			for i, entity := range level.Backend.DataModel {
				rows = append(rows, OutlineRow{Key: fmt.Sprintf("%s.backend.dataModel[%d]", p, i), Depth: 2, Kind: RowEntity, Text: entity})
			}
		}
	}

	rows = append(rows, OutlineRow{Key: "developmentSteps", Kind: RowSection, Text: "Development Steps", Expandable: true, Expanded: open("developmentSteps")})
	if open("developmentSteps") {
		for i, step := range b.DevelopmentSteps {
			key := fmt.Sprintf("developmentSteps[%d]", i)
			text := step.Phase
			if step.Priority != "" {
				text = fmt.Sprintf("%s (%s)", step.Phase, step.Priority)
			}
			rows = append(rows, OutlineRow{Key: key, Depth: 1, Kind: RowPhase, Text: text, Expandable: len(step.Tasks) > 0, Expanded: open(key)})
			if open(key) {
				for j, task := range step.Tasks {
					rows = append(rows, OutlineRow{Key: fmt.Sprintf("%s.tasks[%d]", key, j), Depth: 2, Kind: RowTask, Text: task})
				}
			}
		}
	}

	return rows
}

func appendItem(rows []OutlineRow, key, name, description string, requirements []string, open func(string) bool) []OutlineRow {
	rows = append(rows, OutlineRow{Key: key, Depth: 2, Kind: RowItem, Text: name, Expandable: true, Expanded: open(key)})
	if !open(key) {
		return rows
	}
	if description != "" {
		rows = append(rows, OutlineRow{Key: key + ".description", Depth: 3, Kind: RowText, Text: description})
	}
	for i, req := range requirements {
		rows = append(rows, OutlineRow{Key: fmt.Sprintf("%s.requirements[%d]", key, i), Depth: 3, Kind: RowRequirement, Text: req})
	}
	return rows
}

// PriorityTitle returns the display title for a priority key, e.g. "P0 Priority".
func PriorityTitle(key string) string {
	switch key {
	case "p0":
		return "P0 Priority"
	case "p1":
		return "P1 Priority"
	case "p2":
		return "P2 Priority"
	}
	return key
}
