package cmd

import (
	"fmt"
	"os"
	"slices"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dhabedank/idea-blueprint/internal/config"
	"github.com/dhabedank/idea-blueprint/internal/llm"
	"github.com/dhabedank/idea-blueprint/internal/tui"
)

var resetConfig bool

// SetupCmd represents the setup command.
var SetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive configuration wizard",
	Long: `Configure idea-blueprint with an interactive wizard.

The wizard asks for:
- Provider: Gemini API, Anthropic API, Claude CLI or Codex CLI
- Model: which of the provider's models to use

API keys are never written to the file; set GOOGLE_AI_API_KEY or
ANTHROPIC_API_KEY in the environment or a .env file.

Configuration is saved to ~/` + config.FileName,
	Args: cobra.NoArgs,
	RunE: runSetup,
}

func init() {
	SetupCmd.Flags().BoolVar(&resetConfig, "reset", false, "Reset configuration to defaults")
}

var providerDescriptions = map[string]string{
	llm.ProviderGemini:    "Google Gemini API (needs " + config.EnvGeminiKey + ")",
	llm.ProviderAnthropic: "Anthropic API (needs " + config.EnvAnthropicKey + ")",
	llm.ProviderClaudeCLI: "Claude Code CLI (uses your Claude subscription)",
	llm.ProviderCodexCLI:  "OpenAI Codex CLI",
}

func runSetup(cmd *cobra.Command, args []string) error {
	configPath := configFile
	if configPath == "" {
		configPath = config.DefaultPath()
	}

	if resetConfig {
		if err := os.Remove(configPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove config: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), tui.SuccessStyle.Render("✓")+" Configuration reset to defaults")
		fmt.Fprintf(cmd.OutOrStdout(), "  Removed: %s\n", configPath)
		return nil
	}

	// Start from the existing file so unrelated settings survive
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	if _, statErr := os.Stat(configPath); statErr == nil {
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	}

	available := llm.ListAvailableAdapters(cfg.LLMConfig())

	p := tea.NewProgram(newSetupModel(available))
	m, err := p.Run()
	if err != nil {
		return fmt.Errorf("wizard failed: %w", err)
	}

	final := m.(setupModel)
	if final.cancelled {
		fmt.Fprintln(cmd.OutOrStdout(), "Setup cancelled")
		return nil
	}

	cfg.Provider = final.provider
	cfg.Model = final.model
	if err := cfg.Save(configPath); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, tui.SuccessStyle.Render("✓")+" Configuration saved to "+configPath)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Provider: %s\n", tui.ModelStyle.Render(cfg.Provider))
	fmt.Fprintf(out, "  Model:    %s\n", tui.ModelStyle.Render(cfg.Model))
	if !slices.Contains(available, cfg.Provider) {
		fmt.Fprintf(out, "\n%s %s is not available yet: %s\n", tui.WarningStyle.Render("!"), cfg.Provider, providerDescriptions[cfg.Provider])
	}
	return nil
}

// Bubble Tea model for the setup wizard

type setupModel struct {
	step      int // 0=provider, 1=model
	providers list.Model
	models    list.Model
	provider  string
	model     string
	cancelled bool
	width     int
	height    int
}

type choiceItem struct {
	id    string
	title string
	desc  string
}

func (c choiceItem) Title() string       { return c.title }
func (c choiceItem) Description() string { return c.desc }
func (c choiceItem) FilterValue() string { return c.title }

func newChoiceList(title string, items []list.Item) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(tui.ColorPrimary)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(tui.ColorMuted)

	l := list.New(items, delegate, 64, 14)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = tui.TitleStyle
	return l
}

func newSetupModel(available []string) setupModel {
	items := make([]list.Item, len(llm.Providers))
	for i, p := range llm.Providers {
		desc := providerDescriptions[p]
		if slices.Contains(available, p) {
			desc = "✓ " + desc
		}
		items[i] = choiceItem{id: p, title: p, desc: desc}
	}

	return setupModel{
		providers: newChoiceList("Select Provider", items),
	}
}

func modelItems(provider string) []list.Item {
	models := llm.ModelsForProvider(provider)
	items := make([]list.Item, len(models))
	for i, m := range models {
		items[i] = choiceItem{id: m.ID, title: m.Name, desc: m.Description}
	}
	return items
}

func (m setupModel) Init() tea.Cmd {
	return nil
}

func (m setupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height-4
		m.providers.SetSize(m.width, m.height)
		if m.step == 1 {
			m.models.SetSize(m.width, m.height)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.cancelled = true
			return m, tea.Quit

		case "enter":
			if m.step == 0 {
				if item, ok := m.providers.SelectedItem().(choiceItem); ok {
					m.provider = item.id
					m.models = newChoiceList("Select Model ("+item.id+")", modelItems(item.id))
					if m.width > 0 {
						m.models.SetSize(m.width, m.height)
					}
					m.step = 1
				}
				return m, nil
			}
			if item, ok := m.models.SelectedItem().(choiceItem); ok {
				m.model = item.id
			}
			return m, tea.Quit

		case "left", "h":
			m.step = 0
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.step == 0 {
		m.providers, cmd = m.providers.Update(msg)
	} else {
		m.models, cmd = m.models.Update(msg)
	}
	return m, cmd
}

func (m setupModel) View() string {
	if m.cancelled {
		return ""
	}

	progress := "\n  "
	if m.step == 0 {
		progress += tui.SelectedStyle.Render("[Provider]") + " → " + tui.UnselectedStyle.Render("○ Model")
	} else {
		progress += tui.SuccessStyle.Render("✓ "+m.provider) + " → " + tui.SelectedStyle.Render("[Model]")
	}
	progress += "\n\n"

	help := tui.HelpStyle.Render("\n  ↑/↓: navigate • enter: select • ←: back • q: quit")

	current := m.providers
	if m.step == 1 {
		current = m.models
	}
	return progress + current.View() + help
}
