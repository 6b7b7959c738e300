package scanning

import (
	"context"
	"errors"
)

// ErrUndecodableImage is returned when the uploaded bytes are not a decodable image
var ErrUndecodableImage = errors.New("image could not be decoded")

// Scanner defines the vision operations used to read a receipt image
type Scanner interface {
	// ExtractText returns a plain OCR dump of the receipt. An empty model
	// response yields an empty string, not an error.
	ExtractText(ctx context.Context, imageData []byte, contentType string) (string, error)
	// ExtractStructuredSummary returns a free-text description of the receipt
	// focused on the establishment, line items and totals
	ExtractStructuredSummary(ctx context.Context, imageData []byte, contentType string) (string, error)
	// Close closes the scanner and releases resources
	Close() error
}

// Completer sends a single text prompt to a language model
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Close() error
}

// Backend is a model provider that can both read images and complete prompts
type Backend interface {
	Scanner
	Completer
}
