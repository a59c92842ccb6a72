package generation

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiConfig configures the Gemini generative client.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// Gemini invokes the Gemini API for answer generation.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini client. The API key must be non-empty; the
// model defaults to gemini-2.0-flash.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("gemini generate: missing API key")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}
	return &Gemini{client: client, model: cfg.Model}, nil
}

// Generate sends the prompt and returns the trimmed response text.
func (g *Gemini) Generate(prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(
		context.Background(),
		g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		nil,
	)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return strings.TrimSpace(resp.Text()), nil
}
