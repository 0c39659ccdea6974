package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/dhabedank/idea-blueprint/internal/config"
	"github.com/dhabedank/idea-blueprint/internal/core"
	"github.com/dhabedank/idea-blueprint/internal/llm"
	"github.com/dhabedank/idea-blueprint/internal/logging"
	"github.com/dhabedank/idea-blueprint/internal/service"
	"github.com/dhabedank/idea-blueprint/internal/tui"
)

var (
	configFile  string // Config file path
	llmProvider string
	llmModel    string
	maxTokens   int
	logLevel    string
	logFormat   string
)

// AddPersistentFlags registers the flags shared by every subcommand.
func AddPersistentFlags(root *cobra.Command) {
	pf := root.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "Config file (default: "+config.FileName+")")
	pf.StringVarP(&llmProvider, "llm", "l", llm.ProviderAuto, "LLM provider (auto/gemini-api/anthropic-api/claude-cli/codex-cli)")
	pf.StringVarP(&llmModel, "model", "m", "", "Model to use (provider-specific)")
	pf.IntVar(&maxTokens, "max-tokens", 0, "Maximum response tokens")
	pf.StringVar(&logLevel, "log-level", "info", "Log level (debug/info/warn/error)")
	pf.StringVar(&logFormat, "log-format", "text", "Log format (text/json)")
}

// loadConfig resolves configuration. Flags override config file values only
// when explicitly set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("llm") {
		cfg.Provider = llmProvider
	}
	if flags.Changed("model") {
		cfg.Model = llmModel
	}
	if flags.Changed("max-tokens") && maxTokens > 0 {
		cfg.MaxTokens = maxTokens
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = logFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runtime bundles what a command needs to talk to the model.
type runtime struct {
	cfg    *config.Config
	logger *slog.Logger
	svc    *service.Service
	model  string
	meter  *tui.Meter
}

// newRuntime loads config, builds the logger and the decorated adapter.
// Terminal commands log at warn unless a level was chosen explicitly, so
// request logs do not interleave with progress output.
func newRuntime(cmd *cobra.Command, terminal bool) (*runtime, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if terminal && !cmd.Flags().Changed("log-level") && cfg.Log.Level == "info" {
		cfg.Log.Level = "warn"
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	if cfg.Path != "" {
		logger.Debug("loaded config", "path", cfg.Path)
	}

	if err := cfg.RequireCredentials(); err != nil {
		return nil, err
	}

	llmCfg := cfg.LLMConfig()
	adapter, err := llm.NewAdapter(cmd.Context(), llmCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM adapter: %w", err)
	}

	model := llm.ModelFor(adapter.Name(), llmCfg)
	meter := tui.NewMeter(model)
	wrapped := llm.Wrap(adapter,
		llm.Logging(logger),
		llm.Retry(cfg.Retry.MaxAttempts, cfg.Retry.BaseDelay),
		meter.Middleware(),
	)

	return &runtime{
		cfg:    cfg,
		logger: logger,
		svc:    service.New(wrapped, logger),
		model:  model,
		meter:  meter,
	}, nil
}

// wait runs work behind a spinner when stderr is a terminal.
func (rt *runtime) wait(cmd *cobra.Command, label string, work func(context.Context) error) error {
	out := cmd.ErrOrStderr()
	if isTerminal(out) {
		return tui.RunWithSpinner(cmd.Context(), out, label, rt.model, work)
	}
	return tui.RunPlain(cmd.Context(), out, label, rt.model, work)
}

func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// userError turns a pipeline error into the message shown on the terminal.
// Details were already logged by the service.
func userError(err error) error {
	if errors.Is(err, context.Canceled) {
		return errors.New("cancelled")
	}
	if core.KindOf(err) == core.KindConfigurationMissing {
		return err
	}
	msg, _ := core.PublicError(err)
	return errors.New(msg)
}
