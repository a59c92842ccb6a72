package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Config configures the Gemini embeddings client.
type Config struct {
	APIKey string
	Model  string
}

// Client produces embeddings via the Gemini API.
type Client struct {
	client    *genai.Client
	model     string
	dimension int
}

// NewClient creates a Gemini embeddings client. The model defaults to
// text-embedding-004.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("gemini embeddings: missing API key")
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-004"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini embeddings: %w", err)
	}
	return &Client{client: client, model: cfg.Model}, nil
}

// Name identifies this embedder in index manifests.
func (c *Client) Name() string { return "gemini/" + c.model }

// Dimension reports the vector size, known after the first embed call.
func (c *Client) Dimension() int { return c.dimension }

// Embed returns the embedding vector for the given text.
func (c *Client) Embed(text string) ([]float64, error) {
	resp, err := c.client.Models.EmbedContent(
		context.Background(),
		c.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: text}}}},
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("gemini embeddings: %w", err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return nil, fmt.Errorf("gemini embeddings: no embedding values returned")
	}
	values := resp.Embeddings[0].Values
	vec := make([]float64, len(values))
	for i, v := range values {
		vec[i] = float64(v)
	}
	if c.dimension == 0 {
		c.dimension = len(vec)
	}
	return vec, nil
}
