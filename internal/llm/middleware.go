package llm

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"
)

// Middleware decorates an Adapter with a cross-cutting concern.
type Middleware func(Adapter) Adapter

// Wrap applies middlewares in left-to-right order.
// Example: Wrap(inner, A, B) => A(B(inner))
func Wrap(inner Adapter, mws ...Middleware) Adapter {
	out := inner
	for i := len(mws) - 1; i >= 0; i-- {
		out = mws[i](out)
	}
	return out
}

// maxRetryDelay bounds a single backoff wait, jitter included.
const maxRetryDelay = 30 * time.Second

// Retry retries Generate up to maxAttempts with exponential backoff and
// jitter starting at baseDelay. Only adapter errors are retried; parsing
// happens after the adapter so malformed output is never retried here.
// maxAttempts of 1 keeps the single-attempt behaviour.
func Retry(maxAttempts int, baseDelay time.Duration) Middleware {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if baseDelay <= 0 {
		baseDelay = 500 * time.Millisecond
	}
	return func(next Adapter) Adapter {
		return &retrying{next: next, max: maxAttempts, base: baseDelay}
	}
}

type retrying struct {
	next Adapter
	max  int
	base time.Duration
}

func (r *retrying) Name() string      { return r.next.Name() }
func (r *retrying) IsAvailable() bool { return r.next.IsAvailable() }

func (r *retrying) Generate(ctx context.Context, prompt string) (string, error) {
	var last error
	for i := 0; i < r.max; i++ {
		out, err := r.next.Generate(ctx, prompt)
		if err == nil {
			return out, nil
		}
		last = err
		if i == r.max-1 {
			break
		}

		timer := time.NewTimer(r.backoff(i))
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}
	return "", last
}

// backoff returns the wait after the given zero-based failed attempt:
// baseDelay doubled per attempt plus up to 50% jitter, capped at
// maxRetryDelay.
func (r *retrying) backoff(attempt int) time.Duration {
	delay := r.base
	for i := 0; i < attempt && delay < maxRetryDelay; i++ {
		delay *= 2
	}
	delay = min(delay, maxRetryDelay)
	delay += time.Duration(rand.Int64N(int64(delay)/2 + 1))
	return min(delay, maxRetryDelay)
}

// Logging logs each call with its duration and output size.
func Logging(logger *slog.Logger) Middleware {
	return func(next Adapter) Adapter {
		return &logged{next: next, logger: logger}
	}
}

type logged struct {
	next   Adapter
	logger *slog.Logger
}

func (l *logged) Name() string      { return l.next.Name() }
func (l *logged) IsAvailable() bool { return l.next.IsAvailable() }

func (l *logged) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	l.logger.DebugContext(ctx, "llm request", "adapter", l.next.Name(), "prompt_bytes", len(prompt))

	out, err := l.next.Generate(ctx, prompt)
	if err != nil {
		l.logger.WarnContext(ctx, "llm request failed", "adapter", l.next.Name(), "duration", time.Since(start), "error", err)
		return "", err
	}
	l.logger.InfoContext(ctx, "llm response", "adapter", l.next.Name(), "duration", time.Since(start), "output_bytes", len(out))
	return out, nil
}
