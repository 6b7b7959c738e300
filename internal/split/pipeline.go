// Package split turns a receipt image and a group roster into a bill split.
//
// The pipeline makes two model calls in sequence: a vision call that describes
// the receipt, then a text call that returns the split as JSON. The JSON is
// validated against a roster-specific schema. When it does not conform, the
// pipeline reads the receipt again as plain text and answers with an all-zero
// split instead of failing the request.
package split

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/zombor/bill-splitter/internal/metrics"
	"github.com/zombor/bill-splitter/internal/scanning"
)

var (
	// ErrEmptyExtraction is returned when the receipt summary comes back empty
	ErrEmptyExtraction = errors.New("extraction produced no content")
	// ErrEmptyRoster is returned when there is nobody to split the bill between
	ErrEmptyRoster = errors.New("roster must contain at least one member")
)

// Pipeline splits receipts using a vision scanner and a text completer
type Pipeline struct {
	scanner   scanning.Scanner
	completer scanning.Completer
}

// NewPipeline creates a new Pipeline
func NewPipeline(scanner scanning.Scanner, completer scanning.Completer) *Pipeline {
	return &Pipeline{
		scanner:   scanner,
		completer: completer,
	}
}

// SplitReceipt extracts the receipt in imageData and splits it across roster.
// A model answer that fails schema validation yields the fallback result, not
// an error. The returned GroupMembers is always a copy of roster.
func (p *Pipeline) SplitReceipt(ctx context.Context, imageData []byte, contentType string, roster []string) (*BillSplitResult, error) {
	result, outcome, err := p.split(ctx, imageData, contentType, roster)
	if err != nil {
		metrics.SplitsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("splitting receipt: %w", err)
	}
	metrics.SplitsTotal.WithLabelValues(outcome).Inc()
	return result, nil
}

func (p *Pipeline) split(ctx context.Context, imageData []byte, contentType string, roster []string) (*BillSplitResult, string, error) {
	if len(roster) == 0 {
		return nil, "", ErrEmptyRoster
	}

	summary, err := p.scanner.ExtractStructuredSummary(ctx, imageData, contentType)
	if err != nil {
		return nil, "", err
	}
	if strings.TrimSpace(summary) == "" {
		return nil, "", ErrEmptyExtraction
	}
	slog.Debug("Extracted receipt summary", "length", len(summary), "members", len(roster))

	prompt, err := BuildPrompt(summary, roster)
	if err != nil {
		return nil, "", fmt.Errorf("building prompt: %w", err)
	}

	answer, err := p.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, "", fmt.Errorf("structuring receipt: %w", err)
	}

	decoded, err := Decode(answer, roster)
	if err != nil {
		return nil, "", err
	}
	if !decoded.Structured() {
		slog.Warn("Model output failed schema validation, using fallback split",
			"violations", decoded.Violations,
			"answer_length", len(answer),
		)
		return p.fallback(ctx, imageData, contentType, roster), metrics.OutcomeFallback, nil
	}

	result := decoded.Result
	result.GroupMembers = copyRoster(roster)

	if problems := Reconcile(result); len(problems) > 0 {
		slog.Warn("Split does not reconcile", "problems", problems)
	}

	return result, metrics.OutcomeStructured, nil
}

// fallback re-reads the receipt as plain text and returns the all-zero split.
// It cannot fail: an extraction error is only logged.
func (p *Pipeline) fallback(ctx context.Context, imageData []byte, contentType string, roster []string) *BillSplitResult {
	text, err := p.scanner.ExtractText(ctx, imageData, contentType)
	if err != nil {
		slog.Warn("Fallback text extraction failed", "error", err)
	} else {
		slog.Debug("Fallback text extraction", "length", len(text))
	}
	return fallbackResult(roster)
}
