package version

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dhabedank/idea-blueprint/internal/config"
	"github.com/dhabedank/idea-blueprint/internal/tui"
)

// IsFirstRun reports whether neither a home config file nor the
// first-run marker exists.
func IsFirstRun() bool {
	home, err := os.UserHomeDir()
	if err != nil {
		return false
	}
	if _, err := os.Stat(filepath.Join(home, config.FileName)); err == nil {
		return false
	}
	if _, err := os.Stat(markerPath(".initialized")); err == nil {
		return false
	}
	return true
}

// MarkInitialized creates the first-run marker.
func MarkInitialized() {
	path := markerPath(".initialized")
	if path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return
	}
	_ = os.WriteFile(path, []byte{}, 0644)
}

// PrintFirstRunNotice writes a welcome message and marks the install as initialized.
func PrintFirstRunNotice(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s Welcome to idea-blueprint!\n", tui.TitleStyle.Render("*"))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Quick start:")
	fmt.Fprintf(w, "    1. Set %s or %s, or run %s\n",
		tui.ModelStyle.Render(config.EnvGeminiKey),
		tui.ModelStyle.Render(config.EnvAnthropicKey),
		tui.ModelStyle.Render("idea-blueprint setup"))
	fmt.Fprintf(w, "    2. Generate a blueprint: %s\n", tui.ModelStyle.Render(`idea-blueprint generate "a habit tracker for teams"`))
	fmt.Fprintf(w, "    3. Or start the API: %s\n", tui.ModelStyle.Render("idea-blueprint serve"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", tui.HelpStyle.Render("Run 'idea-blueprint --help' for all options"))
	fmt.Fprintln(w)

	MarkInitialized()
}
