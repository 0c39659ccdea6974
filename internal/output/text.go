package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dhabedank/idea-blueprint/internal/core"
)

// TextAdapter exports a paginated plain-text rendering for printing.
type TextAdapter struct {
	pageLines int
	width     int
}

// NewTextAdapter creates a print adapter.
func NewTextAdapter(config Config) *TextAdapter {
	defaults := DefaultConfig()
	if config.PageLines < 3 {
		config.PageLines = defaults.PageLines
	}
	if config.Width <= 0 {
		config.Width = defaults.Width
	}
	return &TextAdapter{pageLines: config.PageLines, width: config.Width}
}

func (a *TextAdapter) Name() string {
	return "text"
}

func (a *TextAdapter) ContentType() string {
	return "text/plain; charset=utf-8"
}

func (a *TextAdapter) Render(b *core.Blueprint) ([]byte, error) {
	return []byte(Paginate(a.lines(b), a.pageLines)), nil
}

func (a *TextAdapter) lines(b *core.Blueprint) []string {
	var lines []string
	add := func(indent int, text string) {
		prefix := strings.Repeat("  ", indent)
		for _, l := range a.wrap(text, a.width-len(prefix)) {
			lines = append(lines, prefix+l)
		}
	}

	add(0, "BLUEPRINT")
	add(0, "")
	add(0, "OVERVIEW")
	add(1, b.Overview)

	for _, key := range core.PriorityKeys {
		level, _ := b.Priorities.Level(key)
		add(0, "")
		add(0, strings.ToUpper(core.PriorityTitle(key)))
		add(1, "Frontend Components")
		for _, c := range level.Frontend.Components {
			a.item(add, c.Name, c.Description, c.Requirements)
		}
		add(1, "Backend Services")
		for _, s := range level.Backend.Services {
			a.item(add, s.Name, s.Description, s.Requirements)
		}
		if len(level.Backend.DataModel) > 0 {
			add(1, "Data Model")
			for _, entity := range level.Backend.DataModel {
				add(2, "- "+entity)
			}
		}
	}

	add(0, "")
	add(0, "DEVELOPMENT STEPS")
	for i, step := range b.DevelopmentSteps {
		add(1, fmt.Sprintf("%d. %s [%s]", i+1, step.Phase, step.Priority))
		for _, task := range step.Tasks {
			add(2, "- "+task)
		}
	}
	return lines
}

func (a *TextAdapter) item(add func(int, string), name, description string, requirements []string) {
	add(2, "* "+name)
	if description != "" {
		add(3, description)
	}
	for _, req := range requirements {
		add(3, "- "+req)
	}
}

// wrap word-wraps text to width using lipgloss and strips the padding it adds.
func (a *TextAdapter) wrap(text string, width int) []string {
	if text == "" {
		return []string{""}
	}
	if width < 20 {
		width = 20
	}
	rendered := lipgloss.NewStyle().Width(width).Render(text)
	out := strings.Split(rendered, "\n")
	for i, l := range out {
		out[i] = strings.TrimRight(l, " ")
	}
	return out
}

// Paginate splits lines into pages of pageLines lines. The last two lines
// of every page are a blank line and a "Page n of m" footer. Pages are
// separated by a form feed.
func Paginate(lines []string, pageLines int) string {
	body := pageLines - 2
	if body < 1 {
		body = 1
	}
	pages := (len(lines) + body - 1) / body
	if pages == 0 {
		pages = 1
	}

	var sb strings.Builder
	for p := 0; p < pages; p++ {
		start := p * body
		end := start + body
		if end > len(lines) {
			end = len(lines)
		}
		for _, l := range lines[start:end] {
			sb.WriteString(l)
			sb.WriteString("\n")
		}
		// Pad short final pages so footers line up.
		for i := end - start; i < body; i++ {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("\nPage %d of %d\n", p+1, pages))
		if p < pages-1 {
			sb.WriteString("\f")
		}
	}
	return sb.String()
}
