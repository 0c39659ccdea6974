package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhabedank/idea-blueprint/internal/config"
	"github.com/dhabedank/idea-blueprint/internal/core"
	"github.com/dhabedank/idea-blueprint/internal/llm"
)

// runLoadConfig executes a throwaway command tree with args and returns the
// config its child resolved.
func runLoadConfig(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()
	configFile = ""

	var cfg *config.Config
	root := &cobra.Command{Use: "root", SilenceUsage: true, SilenceErrors: true}
	AddPersistentFlags(root)
	root.AddCommand(&cobra.Command{
		Use: "child",
		RunE: func(c *cobra.Command, _ []string) error {
			var err error
			cfg, err = loadConfig(c)
			return err
		},
	})
	root.SetArgs(append([]string{"child"}, args...))
	err := root.Execute()
	return cfg, err
}

func TestLoadConfigFlagsOverrideFileOnlyWhenSet(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider: claude-cli\nmodel: file-model\nlog:\n  level: debug\n"), 0644))

	cfg, err := runLoadConfig(t, "--config", path, "--model", "flag-model")
	require.NoError(t, err)

	assert.Equal(t, llm.ProviderClaudeCLI, cfg.Provider)
	assert.Equal(t, "flag-model", cfg.Model)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, path, cfg.Path)
}

func TestLoadConfigRejectsUnknownProviderFlag(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)

	_, err := runLoadConfig(t, "--llm", "openai")
	assert.Error(t, err)
}

func TestUserError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"invalid input", core.NewError(core.KindInvalidInput, "validate", errors.New("idea")), core.MsgInvalidInput},
		{"malformed", core.NewError(core.KindMalformedOutput, "decode", errors.New("x")), core.MsgParseFailure},
		{"transport", core.NewError(core.KindTransportFailure, "generate", errors.New("503")), core.MsgUnexpected},
		{"cancelled", core.NewError(core.KindTransportFailure, "generate", context.Canceled), "cancelled"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.EqualError(t, userError(tt.err), tt.want)
		})
	}

	missing := core.NewError(core.KindConfigurationMissing, "config", errors.New("GOOGLE_AI_API_KEY is not set"))
	assert.Same(t, missing, userError(missing))
}
