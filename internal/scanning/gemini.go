package scanning

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/zombor/bill-splitter/internal/metrics"
)

// Gemini implements Backend using Google Gemini
type Gemini struct {
	client *genai.Client
	vision *genai.GenerativeModel
	text   *genai.GenerativeModel
}

// NewGemini creates a new Gemini backend instance
func NewGemini(apiKey string, modelName string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = "gemini-2.5-pro"
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	// The split prompt asks for arithmetic, so keep the text model close to deterministic
	text := client.GenerativeModel(modelName)
	text.SetTemperature(0.1)

	return &Gemini{
		client: client,
		vision: client.GenerativeModel(modelName),
		text:   text,
	}, nil
}

// ExtractText returns the verbatim text of a receipt image
func (g *Gemini) ExtractText(ctx context.Context, imageData []byte, contentType string) (string, error) {
	text, err := g.readImage(ctx, "extract_text", textExtractionPrompt, imageData, contentType)
	if err != nil {
		return "", fmt.Errorf("extracting text from image: %w", err)
	}
	return text, nil
}

// ExtractStructuredSummary returns a structured description of a receipt image
func (g *Gemini) ExtractStructuredSummary(ctx context.Context, imageData []byte, contentType string) (string, error) {
	text, err := g.readImage(ctx, "structured_summary", structuredSummaryPrompt, imageData, contentType)
	if err != nil {
		return "", fmt.Errorf("analyzing receipt structure: %w", err)
	}
	return text, nil
}

func (g *Gemini) readImage(ctx context.Context, operation, prompt string, imageData []byte, contentType string) (text string, err error) {
	pngData, err := prepareImageData(imageData, contentType)
	if err != nil {
		return "", err
	}

	start := time.Now()
	defer func() { metrics.ObserveModelCall("gemini", operation, start, err) }()

	// genai.ImageData expects just the format suffix, and prepareImageData always yields PNG
	resp, err := g.vision.GenerateContent(ctx, genai.Text(prompt), genai.ImageData("png", pngData))
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}
	return responseText(resp), nil
}

// Complete sends a text-only prompt to the Gemini text model
func (g *Gemini) Complete(ctx context.Context, prompt string) (text string, err error) {
	start := time.Now()
	defer func() { metrics.ObserveModelCall("gemini", "complete", start, err) }()

	resp, err := g.text.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generating completion: %w", err)
	}
	return responseText(resp), nil
}

// responseText joins the text parts of the first candidate. A response
// without candidates or text parts yields an empty string.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	content := resp.Candidates[0].Content
	if content == nil {
		return ""
	}

	var responseText strings.Builder
	for _, part := range content.Parts {
		if text, ok := part.(genai.Text); ok {
			responseText.WriteString(string(text))
		}
	}
	return strings.TrimSpace(responseText.String())
}

// Close closes the Gemini client
func (g *Gemini) Close() error {
	return g.client.Close()
}
