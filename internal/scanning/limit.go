package scanning

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/zombor/bill-splitter/internal/metrics"
)

// Limited wraps a Backend so that at most maxCalls model calls are in flight
// across the process. Callers waiting for a slot give up when their context
// is cancelled. A positive timeout bounds each individual call.
type Limited struct {
	backend Backend
	sem     *semaphore.Weighted
	timeout time.Duration
}

// NewLimited creates a Limited backend. maxCalls below 1 is treated as 1.
func NewLimited(backend Backend, maxCalls int64, timeout time.Duration) *Limited {
	if maxCalls < 1 {
		maxCalls = 1
	}
	return &Limited{
		backend: backend,
		sem:     semaphore.NewWeighted(maxCalls),
		timeout: timeout,
	}
}

func (l *Limited) call(ctx context.Context, fn func(context.Context) (string, error)) (string, error) {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("waiting for model slot: %w", err)
	}
	defer l.sem.Release(1)

	metrics.ModelCallsInFlight.Inc()
	defer metrics.ModelCallsInFlight.Dec()

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}
	return fn(ctx)
}

// ExtractText implements Scanner
func (l *Limited) ExtractText(ctx context.Context, imageData []byte, contentType string) (string, error) {
	return l.call(ctx, func(ctx context.Context) (string, error) {
		return l.backend.ExtractText(ctx, imageData, contentType)
	})
}

// ExtractStructuredSummary implements Scanner
func (l *Limited) ExtractStructuredSummary(ctx context.Context, imageData []byte, contentType string) (string, error) {
	return l.call(ctx, func(ctx context.Context) (string, error) {
		return l.backend.ExtractStructuredSummary(ctx, imageData, contentType)
	})
}

// Complete implements Completer
func (l *Limited) Complete(ctx context.Context, prompt string) (string, error) {
	return l.call(ctx, func(ctx context.Context) (string, error) {
		return l.backend.Complete(ctx, prompt)
	})
}

// Close closes the wrapped backend
func (l *Limited) Close() error {
	return l.backend.Close()
}
