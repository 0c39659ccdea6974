package llm

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedAdapter struct {
	outputs []string
	errs    []error
	calls   int
}

func (s *scriptedAdapter) Name() string      { return "scripted" }
func (s *scriptedAdapter) IsAvailable() bool { return true }

func (s *scriptedAdapter) Generate(ctx context.Context, prompt string) (string, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.outputs) {
		return s.outputs[i], nil
	}
	return "", errors.New("script exhausted")
}

func TestRetrySingleAttemptByDefault(t *testing.T) {
	inner := &scriptedAdapter{errs: []error{errors.New("connection reset")}, outputs: []string{"", "{}"}}
	a := Retry(0, time.Millisecond)(inner)

	_, err := a.Generate(context.Background(), "p")
	require.Error(t, err)
	assert.Equal(t, 1, inner.calls)
}

func TestRetryRecoversFromTransientFailure(t *testing.T) {
	inner := &scriptedAdapter{
		errs:    []error{errors.New("503"), errors.New("503"), nil},
		outputs: []string{"", "", `{"ok":true}`},
	}
	a := Retry(3, time.Millisecond)(inner)

	out, err := a.Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, out)
	assert.Equal(t, 3, inner.calls)
	assert.Equal(t, "scripted", a.Name())
}

func TestRetryGivesUpAfterMaxAttempts(t *testing.T) {
	last := errors.New("third")
	inner := &scriptedAdapter{errs: []error{errors.New("first"), errors.New("second"), last}}

	_, err := Retry(3, time.Millisecond)(inner).Generate(context.Background(), "p")
	assert.Equal(t, last, err)
	assert.Equal(t, 3, inner.calls)
}

func TestRetryStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	inner := &scriptedAdapter{errs: []error{errors.New("first"), errors.New("second")}}

	_, err := Retry(5, time.Hour)(inner).Generate(ctx, "p")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, inner.calls)
}

func TestRetryBackoffIsCapped(t *testing.T) {
	r := Retry(10, 500*time.Millisecond)(&scriptedAdapter{}).(*retrying)

	first := r.backoff(0)
	assert.GreaterOrEqual(t, first, 500*time.Millisecond)
	assert.LessOrEqual(t, first, 750*time.Millisecond)

	second := r.backoff(1)
	assert.GreaterOrEqual(t, second, time.Second)
	assert.LessOrEqual(t, second, 1500*time.Millisecond)

	for _, attempt := range []int{8, 9, 63, 200} {
		delay := r.backoff(attempt)
		assert.Greater(t, delay, time.Duration(0), "attempt %d", attempt)
		assert.LessOrEqual(t, delay, maxRetryDelay, "attempt %d", attempt)
	}
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	inner := &scriptedAdapter{outputs: []string{"hello"}}

	a := Wrap(inner, Logging(logger), Retry(1, time.Millisecond))
	out, err := a.Generate(context.Background(), "prompt")
	require.NoError(t, err)

	assert.Equal(t, "hello", out)
	assert.Contains(t, buf.String(), "llm request")
	assert.Contains(t, buf.String(), "adapter=scripted")
	assert.Contains(t, buf.String(), "output_bytes=5")
	assert.NotContains(t, buf.String(), "prompt=")
}
