package tui

import "github.com/charmbracelet/lipgloss"

// Color palette for TUI components.
var (
	// Primary colors
	ColorPrimary   = lipgloss.Color("#9b59b6") // Purple
	ColorSecondary = lipgloss.Color("#27ae60") // Green
	ColorMuted     = lipgloss.Color("#95a5a6") // Gray
	ColorWarning   = lipgloss.Color("#f39c12") // Amber
	ColorError     = lipgloss.Color("#e74c3c") // Red

	// Additional colors
	ColorInfo    = lipgloss.Color("#3498db") // Blue
	ColorSuccess = lipgloss.Color("#2ecc71") // Bright green
)

// Text styles for consistent formatting.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	SubtitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorMuted)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// SelectedStyle marks the cursor row in lists and the outline.
	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	UnselectedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)

	ModelStyle = lipgloss.NewStyle().
			Foreground(ColorInfo)

	CostStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary)

	// NameStyle renders component, service and phase names.
	NameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary)
)

// Priority badge styles. P0 is the most urgent.
var (
	P0Style = lipgloss.NewStyle().Bold(true).Foreground(ColorError)
	P1Style = lipgloss.NewStyle().Bold(true).Foreground(ColorWarning)
	P2Style = lipgloss.NewStyle().Bold(true).Foreground(ColorInfo)
)

// PriorityStyle returns the badge style for "p0", "p1" or "p2".
func PriorityStyle(key string) lipgloss.Style {
	switch key {
	case "p0":
		return P0Style
	case "p1":
		return P1Style
	case "p2":
		return P2Style
	}
	return SubtitleStyle
}
