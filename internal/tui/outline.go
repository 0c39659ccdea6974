package tui

import (
	"fmt"
	"io"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dhabedank/idea-blueprint/internal/core"
)

// RenderRow renders one outline row with indentation and an expand marker.
func RenderRow(row core.OutlineRow) string {
	indent := strings.Repeat("  ", row.Depth)
	marker := "  "
	if row.Expandable {
		marker = "▸ "
		if row.Expanded {
			marker = "▾ "
		}
	}

	var text string
	switch row.Kind {
	case core.RowSection:
		if slices.Contains(core.PriorityKeys, row.Key) {
			text = PriorityStyle(row.Key).Render(row.Text)
		} else {
			text = TitleStyle.Render(row.Text)
		}
	case core.RowGroup:
		text = SubtitleStyle.Render(row.Text)
	case core.RowItem, core.RowPhase:
		text = NameStyle.Render(row.Text)
	case core.RowRequirement, core.RowTask:
		text = "- " + row.Text
	case core.RowText:
		text = HelpStyle.Render(row.Text)
	default:
		text = row.Text
	}
	return indent + marker + text
}

// RenderOutline renders all rows, one per line.
func RenderOutline(rows []core.OutlineRow) string {
	var sb strings.Builder
	for _, row := range rows {
		sb.WriteString(RenderRow(row))
		sb.WriteString("\n")
	}
	return sb.String()
}

// OutlineBrowser is a Bubble Tea model for navigating a blueprint outline.
// enter or space toggles the row under the cursor; x picks a component or
// service for exploration.
type OutlineBrowser struct {
	blueprint *core.Blueprint
	expanded  core.ExpandedSet
	rows      []core.OutlineRow
	cursor    int
	offset    int
	height    int
	picked    string
}

// NewOutlineBrowser creates a browser starting from the given expansion state.
func NewOutlineBrowser(b *core.Blueprint, expanded core.ExpandedSet) *OutlineBrowser {
	if expanded == nil {
		expanded = core.DefaultExpanded()
	}
	return &OutlineBrowser{
		blueprint: b,
		expanded:  expanded,
		rows:      core.Outline(b, expanded),
		height:    20,
	}
}

// Init implements tea.Model.
func (m *OutlineBrowser) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m *OutlineBrowser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-4, 5)
		m.scroll()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
		case "enter", " ":
			m.toggle()
		case "x":
			if len(m.rows) > 0 && m.rows[m.cursor].Kind == core.RowItem {
				m.picked = m.rows[m.cursor].Key
				return m, tea.Quit
			}
		}
		m.scroll()
	}
	return m, nil
}

func (m *OutlineBrowser) toggle() {
	if len(m.rows) == 0 || !m.rows[m.cursor].Expandable {
		return
	}
	key := m.rows[m.cursor].Key
	m.expanded = m.expanded.Toggle(key)
	m.rows = core.Outline(m.blueprint, m.expanded)
	for i, row := range m.rows {
		if row.Key == key {
			m.cursor = i
			break
		}
	}
}

func (m *OutlineBrowser) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

// View implements tea.Model.
func (m *OutlineBrowser) View() string {
	var sb strings.Builder
	end := min(m.offset+m.height, len(m.rows))
	for i := m.offset; i < end; i++ {
		line := RenderRow(m.rows[i])
		if i == m.cursor {
			line = SelectedStyle.Render("›") + line
		} else {
			line = " " + line
		}
		sb.WriteString(line + "\n")
	}
	sb.WriteString(HelpStyle.Render(fmt.Sprintf("\n  ↑/↓: navigate • enter: expand/collapse • x: explore item • q: back  (%d/%d)", m.cursor+1, len(m.rows))))
	return sb.String()
}

// Expanded returns the current expansion state.
func (m *OutlineBrowser) Expanded() core.ExpandedSet { return m.expanded }

// Picked returns the key of the item chosen with x, or "".
func (m *OutlineBrowser) Picked() string { return m.picked }

// BrowseOutline runs the browser until the user quits and returns the final
// expansion state and any item picked for exploration.
func BrowseOutline(out io.Writer, b *core.Blueprint, expanded core.ExpandedSet) (core.ExpandedSet, string, error) {
	m := NewOutlineBrowser(b, expanded)
	if _, err := tea.NewProgram(m, tea.WithOutput(out)).Run(); err != nil {
		return expanded, "", fmt.Errorf("outline browser failed: %w", err)
	}
	return m.Expanded(), m.Picked(), nil
}
