//go:build !notesseract

package ocr

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract runs the local Tesseract engine
type Tesseract struct {
	language string
}

// NewTesseract creates a Tesseract recognizer. An empty language keeps
// the engine default.
func NewTesseract(language string) *Tesseract {
	return &Tesseract{language: language}
}

// Recognize returns the text Tesseract finds in imagePath, untrimmed
func (t *Tesseract) Recognize(ctx context.Context, imagePath string) (string, error) {
	if _, err := DetectFormat(imagePath); err != nil {
		return "", err
	}

	// gosseract clients are not safe for concurrent use, one per call
	client := gosseract.NewClient()
	defer client.Close()

	if t.language != "" {
		if err := client.SetLanguage(t.language); err != nil {
			return "", fmt.Errorf("failed to set OCR language: %w", err)
		}
	}

	if err := client.SetImage(imagePath); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract failed: %w", err)
	}

	return text, nil
}
