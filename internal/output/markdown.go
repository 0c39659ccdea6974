package output

import (
	"fmt"
	"strings"

	"github.com/dhabedank/idea-blueprint/internal/core"
)

// MarkdownAdapter exports the blueprint as a Markdown outline.
type MarkdownAdapter struct{}

// NewMarkdownAdapter creates a Markdown adapter.
func NewMarkdownAdapter() *MarkdownAdapter {
	return &MarkdownAdapter{}
}

func (a *MarkdownAdapter) Name() string {
	return "markdown"
}

func (a *MarkdownAdapter) ContentType() string {
	return "text/markdown; charset=utf-8"
}

func (a *MarkdownAdapter) Render(b *core.Blueprint) ([]byte, error) {
	return []byte(Markdown(b)), nil
}

// Markdown renders headings and lists mirroring the blueprint nesting.
func Markdown(b *core.Blueprint) string {
	var sb strings.Builder

	sb.WriteString("# Blueprint\n\n")
	sb.WriteString("## Overview\n\n")
	sb.WriteString(b.Overview)
	sb.WriteString("\n")

	for _, key := range core.PriorityKeys {
		level, _ := b.Priorities.Level(key)
		sb.WriteString(fmt.Sprintf("\n## Priority %s\n", strings.ToUpper(key)))

		sb.WriteString("\n### Frontend Components\n\n")
		if len(level.Frontend.Components) == 0 {
			sb.WriteString("_None_\n")
		}
		for _, c := range level.Frontend.Components {
			writeItem(&sb, c.Name, c.Description, c.Requirements)
		}

		sb.WriteString("\n### Backend Services\n\n")
		if len(level.Backend.Services) == 0 {
			sb.WriteString("_None_\n")
		}
		for _, s := range level.Backend.Services {
			writeItem(&sb, s.Name, s.Description, s.Requirements)
		}

		if len(level.Backend.DataModel) > 0 {
			sb.WriteString("\n### Data Model\n\n")
			for _, entity := range level.Backend.DataModel {
				sb.WriteString(fmt.Sprintf("- %s\n", entity))
			}
		}
	}

	sb.WriteString("\n## Development Steps\n\n")
	for i, step := range b.DevelopmentSteps {
		title := step.Phase
		if step.Priority != "" {
			title = fmt.Sprintf("%s (%s)", step.Phase, step.Priority)
		}
		sb.WriteString(fmt.Sprintf("%d. **%s**\n", i+1, title))
		for _, task := range step.Tasks {
			sb.WriteString(fmt.Sprintf("   - %s\n", task))
		}
	}

	return sb.String()
}

func writeItem(sb *strings.Builder, name, description string, requirements []string) {
	if description != "" {
		sb.WriteString(fmt.Sprintf("- **%s**: %s\n", name, description))
	} else {
		sb.WriteString(fmt.Sprintf("- **%s**\n", name))
	}
	for _, req := range requirements {
		sb.WriteString(fmt.Sprintf("  - %s\n", req))
	}
}

// ComponentMarkdown renders a component breakdown.
func ComponentMarkdown(c *core.ComponentBreakdown) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s\n\n%s\n", c.Name, c.Description))

	if len(c.SubComponents) > 0 {
		sb.WriteString("\n## Sub-components\n\n")
		for _, sub := range c.SubComponents {
			writeItem(&sb, sub.Name, sub.Description, sub.Requirements)
		}
	}

	sb.WriteString("\n## Implementation Steps\n\n")
	for i, step := range c.ImplementationSteps {
		sb.WriteString(fmt.Sprintf("%d. **%s**", i+1, step.Step))
		if step.Description != "" {
			sb.WriteString(": " + step.Description)
		}
		sb.WriteString("\n")
		if step.CodeExample != "" {
			sb.WriteString("\n```\n" + step.CodeExample + "\n```\n\n")
		}
		for _, note := range step.Notes {
			sb.WriteString(fmt.Sprintf("   - %s\n", note))
		}
	}

	if len(c.TechnicalConsiderations) > 0 {
		sb.WriteString("\n## Technical Considerations\n\n")
		for _, t := range c.TechnicalConsiderations {
			sb.WriteString(fmt.Sprintf("- **%s**: %s\n", t.Aspect, t.Details))
			if t.Mitigation != "" {
				sb.WriteString(fmt.Sprintf("  - Mitigation: %s\n", t.Mitigation))
			}
		}
	}

	if len(c.RequiredTechnologies) > 0 {
		sb.WriteString("\n## Required Technologies\n\n")
		for _, t := range c.RequiredTechnologies {
			sb.WriteString(fmt.Sprintf("- **%s**: %s\n", t.Name, t.Purpose))
			if len(t.Alternatives) > 0 {
				sb.WriteString(fmt.Sprintf("  - Alternatives: %s\n", strings.Join(t.Alternatives, ", ")))
			}
		}
	}

	if len(c.SuggestedLibraries) > 0 {
		sb.WriteString("\n## Suggested Libraries\n\n")
		for _, l := range c.SuggestedLibraries {
			sb.WriteString(fmt.Sprintf("- **%s**: %s\n", l.Name, l.Purpose))
			if l.Installation != "" {
				sb.WriteString(fmt.Sprintf("  - `%s`\n", l.Installation))
			}
		}
	}

	if len(c.ThirdPartyServices) > 0 {
		sb.WriteString("\n## Third-party Services\n\n")
		for _, s := range c.ThirdPartyServices {
			sb.WriteString(fmt.Sprintf("- **%s**: %s\n", s.Name, s.Purpose))
			if s.Integration != "" {
				sb.WriteString(fmt.Sprintf("  - Integration: %s\n", s.Integration))
			}
		}
	}

	return sb.String()
}
