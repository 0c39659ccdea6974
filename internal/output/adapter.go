package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dhabedank/idea-blueprint/internal/core"
)

// Adapter is the interface all export adapters must implement.
// Adapters only read the blueprint.
type Adapter interface {
	// Name returns the format identifier (json, markdown, text).
	Name() string

	// ContentType is the MIME type served over HTTP.
	ContentType() string

	// Render produces the export document.
	Render(b *core.Blueprint) ([]byte, error)
}

// Config configures export adapter behavior.
type Config struct {
	// PageLines is the page length of the text rendering, footer included.
	PageLines int

	// Width wraps long text in the text rendering.
	Width int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		PageLines: 60,
		Width:     80,
	}
}

// Formats lists the supported export formats.
var Formats = []string{"json", "markdown", "text"}

// NewAdapter returns the adapter for a format name.
func NewAdapter(format string, config Config) (Adapter, error) {
	switch strings.ToLower(format) {
	case "", "json":
		return NewJSONAdapter(), nil
	case "markdown", "md":
		return NewMarkdownAdapter(), nil
	case "text", "txt", "print":
		return NewTextAdapter(config), nil
	}
	return nil, fmt.Errorf("unknown export format: %s (use %s)", format, strings.Join(Formats, ", "))
}

// Write renders b and writes it to path, or to w when path is empty.
func Write(a Adapter, b *core.Blueprint, path string, w io.Writer) error {
	data, err := a.Render(b)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", a.Name(), err)
	}
	if path == "" {
		_, err = w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
