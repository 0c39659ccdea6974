// Package service runs the blueprint generation pipeline: validate the
// request, build the prompt, call the model, extract and validate its JSON.
package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"unicode/utf8"

	"github.com/dhabedank/idea-blueprint/internal/core"
	"github.com/dhabedank/idea-blueprint/internal/llm"
)

// State is a step of the generation pipeline.
type State string

const (
	StateIdle             State = "idle"
	StateValidatingInput  State = "validating_input"
	StateBuildingPrompt   State = "building_prompt"
	StateAwaitingModel    State = "awaiting_model"
	StateExtractingJSON   State = "extracting_json"
	StateValidatingSchema State = "validating_schema"
	StateSuccess          State = "success"
	StateFailed           State = "failed"
)

// maxLoggedOutputBytes caps how much raw model output is written to the log.
const maxLoggedOutputBytes = 2000

// Outcome is the terminal result of a Run: either Blueprint is set, or
// Error and HTTPStatus carry the user-safe failure.
type Outcome struct {
	Blueprint  *core.Blueprint
	Err        error  // Internal error, for logs and errors.Is only
	Error      string // User-safe message
	HTTPStatus int
}

// OK reports whether the run succeeded.
func (o Outcome) OK() bool { return o.Err == nil }

// Service orchestrates prompt building, generation and validation.
type Service struct {
	adapter llm.Adapter
	logger  *slog.Logger
}

// New creates a Service. A nil logger discards logs.
func New(adapter llm.Adapter, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{adapter: adapter, logger: logger}
}

// Adapter returns the underlying model adapter.
func (s *Service) Adapter() llm.Adapter { return s.adapter }

// Run executes one generation. Invalid input fails before any model call;
// every other failure is mapped to a user-safe message.
func (s *Service) Run(ctx context.Context, req core.GenerationRequest) Outcome {
	bp, err := s.Generate(ctx, req)
	if err != nil {
		msg, status := core.PublicError(err)
		return Outcome{Err: err, Error: msg, HTTPStatus: status}
	}
	return Outcome{Blueprint: bp, HTTPStatus: http.StatusOK}
}

// Generate is Run with a plain error return.
func (s *Service) Generate(ctx context.Context, req core.GenerationRequest) (*core.Blueprint, error) {
	r := s.newRun(ctx, "blueprint")

	r.enter(StateValidatingInput)
	if err := req.Validate(); err != nil {
		return nil, r.fail(err, "")
	}
	req = req.Normalize()

	r.enter(StateBuildingPrompt)
	prompt := core.BuildBlueprintPrompt(req)

	raw, output, err := r.callModel(s.adapter, prompt)
	if err != nil {
		return nil, err
	}

	r.enter(StateValidatingSchema)
	bp, err := core.ValidateBlueprint(raw)
	if err != nil {
		return nil, r.fail(err, output)
	}

	r.enter(StateSuccess)
	return bp, nil
}

// Explore produces a detailed breakdown of one component or service.
func (s *Service) Explore(ctx context.Context, req core.ComponentRequest) (*core.ComponentBreakdown, error) {
	r := s.newRun(ctx, "component")

	r.enter(StateValidatingInput)
	if err := req.Validate(); err != nil {
		return nil, r.fail(err, "")
	}

	r.enter(StateBuildingPrompt)
	prompt := core.BuildComponentPrompt(req)

	raw, output, err := r.callModel(s.adapter, prompt)
	if err != nil {
		return nil, err
	}

	r.enter(StateValidatingSchema)
	breakdown, err := core.ValidateComponent(raw)
	if err != nil {
		return nil, r.fail(err, output)
	}

	r.enter(StateSuccess)
	return breakdown, nil
}

// run tracks the state of one pipeline invocation for logging.
type run struct {
	ctx     context.Context
	logger  *slog.Logger
	variant string
	state   State
}

func (s *Service) newRun(ctx context.Context, variant string) *run {
	return &run{ctx: ctx, logger: s.logger, variant: variant, state: StateIdle}
}

func (r *run) enter(state State) {
	r.logger.DebugContext(r.ctx, "generation state", "variant", r.variant, "from", r.state, "to", state)
	r.state = state
}

func (r *run) callModel(adapter llm.Adapter, prompt string) (json.RawMessage, string, error) {
	r.enter(StateAwaitingModel)
	output, err := adapter.Generate(r.ctx, prompt)
	if err != nil {
		return nil, "", r.fail(core.NewError(core.KindTransportFailure, "generate", err), "")
	}

	r.enter(StateExtractingJSON)
	raw, err := llm.ParseOutput(output)
	if err != nil {
		return nil, output, r.fail(err, output)
	}
	return raw, output, nil
}

// fail logs the internal error, and the raw model output when present, then
// returns err unchanged.
func (r *run) fail(err error, output string) error {
	failedIn := r.state
	r.state = StateFailed

	attrs := []any{"variant", r.variant, "state", failedIn, "kind", core.KindOf(err), "error", err}
	if output != "" {
		attrs = append(attrs, "raw_output", truncate(output, maxLoggedOutputBytes))
	}
	if core.KindOf(err) == core.KindInvalidInput {
		r.logger.InfoContext(r.ctx, "generation rejected", attrs...)
	} else {
		r.logger.ErrorContext(r.ctx, "generation failed", attrs...)
	}
	return err
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "...(truncated)"
}
