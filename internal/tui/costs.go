package tui

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dhabedank/idea-blueprint/internal/llm"
)

// ModelPricing contains pricing per 1M tokens in USD.
var ModelPricing = map[string]struct {
	InputPer1M  float64
	OutputPer1M float64
}{
	// Gemini
	"gemini-2.5-pro":        {InputPer1M: 1.25, OutputPer1M: 10.0},
	"gemini-2.5-flash":      {InputPer1M: 0.30, OutputPer1M: 2.50},
	"gemini-2.5-flash-lite": {InputPer1M: 0.10, OutputPer1M: 0.40},

	// Claude
	"claude-opus-4-5-20251101":   {InputPer1M: 5.0, OutputPer1M: 25.0},
	"claude-sonnet-4-5-20250929": {InputPer1M: 3.0, OutputPer1M: 15.0},
	"claude-haiku-4-5-20251001":  {InputPer1M: 1.0, OutputPer1M: 5.0},

	// OpenAI (codex CLI)
	"gpt-4o":      {InputPer1M: 2.5, OutputPer1M: 10.0},
	"gpt-4o-mini": {InputPer1M: 0.15, OutputPer1M: 0.60},
	"o3":          {InputPer1M: 10.0, OutputPer1M: 40.0},
	"o3-mini":     {InputPer1M: 1.10, OutputPer1M: 4.40},

	// Conservative estimate for unknown models
	"default": {InputPer1M: 5.0, OutputPer1M: 15.0},
}

// EstimateTokens estimates token count from character count.
// Uses the approximation that 1 token ≈ 4 characters.
func EstimateTokens(chars int) int {
	if chars <= 0 {
		return 0
	}
	return chars / 4
}

// EstimateCost returns the estimated USD cost of one call.
func EstimateCost(model string, inputTokens, outputTokens int) float64 {
	pricing, ok := ModelPricing[model]
	if !ok {
		pricing = ModelPricing["default"]
	}

	inputCost := float64(inputTokens) * pricing.InputPer1M / 1_000_000
	outputCost := float64(outputTokens) * pricing.OutputPer1M / 1_000_000

	return inputCost + outputCost
}

// FormatCost formats a cost in USD for display.
func FormatCost(cost float64) string {
	switch {
	case cost < 0.001:
		return fmt.Sprintf("$%.4f", cost)
	case cost < 0.01:
		return fmt.Sprintf("$%.3f", cost)
	}
	return fmt.Sprintf("$%.2f", cost)
}

// FormatTokens formats a token count for display, with a k suffix for thousands.
func FormatTokens(tokens int) string {
	if tokens < 1000 {
		return fmt.Sprintf("%d", tokens)
	}
	if tokens < 10000 {
		return fmt.Sprintf("%.1fk", float64(tokens)/1000)
	}
	return fmt.Sprintf("%dk", tokens/1000)
}

// Call records the size and duration of one model call.
type Call struct {
	PromptChars int
	OutputChars int
	Duration    time.Duration
	Failed      bool
}

// Meter records model calls made through its middleware.
type Meter struct {
	mu    sync.Mutex
	model string
	calls []Call
}

// NewMeter creates a meter pricing calls as model.
func NewMeter(model string) *Meter {
	return &Meter{model: model}
}

// Middleware wraps an adapter so every Generate call is recorded.
func (m *Meter) Middleware() llm.Middleware {
	return func(next llm.Adapter) llm.Adapter {
		return &metered{next: next, meter: m}
	}
}

// Calls returns a copy of the recorded calls.
func (m *Meter) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// Summary renders token, cost and time totals for the recorded calls.
func (m *Meter) Summary() string {
	calls := m.Calls()

	var inputTokens, outputTokens int
	var total time.Duration
	for _, c := range calls {
		inputTokens += EstimateTokens(c.PromptChars)
		outputTokens += EstimateTokens(c.OutputChars)
		total += c.Duration
	}
	cost := EstimateCost(m.model, inputTokens, outputTokens)

	return fmt.Sprintf("%s  Calls: %d  Tokens: ~%s in / ~%s out  Est. cost: %s  Time: %s",
		ModelStyle.Render(m.model),
		len(calls),
		FormatTokens(inputTokens),
		FormatTokens(outputTokens),
		CostStyle.Render(FormatCost(cost)),
		total.Truncate(time.Second).String(),
	)
}

func (m *Meter) record(c Call) {
	m.mu.Lock()
	m.calls = append(m.calls, c)
	m.mu.Unlock()
}

type metered struct {
	next  llm.Adapter
	meter *Meter
}

func (a *metered) Name() string      { return a.next.Name() }
func (a *metered) IsAvailable() bool { return a.next.IsAvailable() }

func (a *metered) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	out, err := a.next.Generate(ctx, prompt)
	a.meter.record(Call{
		PromptChars: len(prompt),
		OutputChars: len(out),
		Duration:    time.Since(start),
		Failed:      err != nil,
	})
	return out, err
}
