package ocr

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Gemini performs OCR with a Google Gemini model
type Gemini struct {
	apiKey  string
	model   string
	baseURL string
}

// NewGemini creates a Gemini recognizer
func NewGemini(config *Config) (*Gemini, error) {
	if config.GeminiAPIKey == "" {
		return nil, fmt.Errorf("gemini (set GEMINI_API_KEY): %w", ErrMissingKey)
	}

	model := config.GeminiModel
	if model == "" {
		model = DefaultConfig().GeminiModel
	}

	return &Gemini{
		apiKey:  config.GeminiAPIKey,
		model:   model,
		baseURL: config.GeminiBaseURL,
	}, nil
}

// Recognize uploads the image inline and returns the generated text
func (g *Gemini) Recognize(ctx context.Context, imagePath string) (string, error) {
	data, mimeType, err := readImage(imagePath)
	if err != nil {
		return "", err
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  g.apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if g.baseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: g.baseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return "", fmt.Errorf("failed to create gemini client: %w", err)
	}

	parts := []*genai.Part{
		genai.NewPartFromBytes(data, mimeType),
		genai.NewPartFromText(instruction),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("gemini OCR request failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini OCR returned no text")
	}

	return text, nil
}
