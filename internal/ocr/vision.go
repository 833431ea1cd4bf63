package ocr

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// Vision performs OCR with a vision capable chat model behind an
// OpenAI-compatible API.
type Vision struct {
	client *openai.Client
	model  string
}

// NewVision creates a vision recognizer
func NewVision(config *Config) (*Vision, error) {
	if config.VisionAPIKey == "" {
		return nil, fmt.Errorf("vision (set OPENAI_API_KEY): %w", ErrMissingKey)
	}

	cfg := openai.DefaultConfig(config.VisionAPIKey)
	if config.VisionBaseURL != "" {
		cfg.BaseURL = config.VisionBaseURL
	}

	model := config.VisionModel
	if model == "" {
		model = DefaultConfig().VisionModel
	}

	return &Vision{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}, nil
}

// Recognize sends the image as a data URL and returns the model's answer
func (v *Vision) Recognize(ctx context.Context, imagePath string) (string, error) {
	data, mimeType, err := readImage(imagePath)
	if err != nil {
		return "", err
	}

	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))

	req := openai.ChatCompletionRequest{
		Model: v.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: instruction,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    dataURL,
							Detail: openai.ImageURLDetailHigh,
						},
					},
				},
			},
		},
	}

	resp, err := v.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("vision OCR request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("vision OCR returned no text")
	}

	return resp.Choices[0].Message.Content, nil
}
