package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dhabedank/idea-blueprint/internal/history"
)

type historyItem struct {
	index   int
	entry   history.Entry
	current bool
}

func (i historyItem) Title() string {
	title := fmt.Sprintf("%d. %s", i.index+1, i.entry.Label())
	if i.current {
		title += " (current)"
	}
	return title
}

func (i historyItem) Description() string {
	return fmt.Sprintf("%s  %s", i.entry.CreatedAt.Format("15:04:05"), i.entry.Request.Idea)
}

func (i historyItem) FilterValue() string { return i.entry.Label() }

// HistoryPicker is a Bubble Tea list of history entries.
type HistoryPicker struct {
	list      list.Model
	chosen    int
	cancelled bool
}

// NewHistoryPicker lists entries with the cursor on current.
func NewHistoryPicker(entries []history.Entry, current int) *HistoryPicker {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = historyItem{index: i, entry: e, current: i == current}
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(ColorPrimary)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(ColorMuted)

	l := list.New(items, delegate, 72, 16)
	l.Title = "History"
	l.SetShowStatusBar(false)
	l.Styles.Title = TitleStyle
	if current >= 0 {
		l.Select(current)
	}

	return &HistoryPicker{list: l, chosen: -1}
}

// Init implements tea.Model.
func (m *HistoryPicker) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m *HistoryPicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height - 2)
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.cancelled = true
			return m, tea.Quit
		case "enter":
			if item, ok := m.list.SelectedItem().(historyItem); ok {
				m.chosen = item.index
			}
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *HistoryPicker) View() string {
	if m.cancelled {
		return ""
	}
	return m.list.View() + HelpStyle.Render("\n  ↑/↓: navigate • /: filter • enter: select • q: cancel")
}

// Chosen returns the selected index, or -1 if the picker was cancelled.
func (m *HistoryPicker) Chosen() int {
	if m.cancelled {
		return -1
	}
	return m.chosen
}

// PickHistory shows the picker and returns the chosen index, or -1.
func PickHistory(out io.Writer, entries []history.Entry, current int) (int, error) {
	if len(entries) == 0 {
		return -1, nil
	}
	m := NewHistoryPicker(entries, current)
	if _, err := tea.NewProgram(m, tea.WithOutput(out)).Run(); err != nil {
		return -1, fmt.Errorf("history picker failed: %w", err)
	}
	return m.Chosen(), nil
}
