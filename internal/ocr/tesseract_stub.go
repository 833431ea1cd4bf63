//go:build notesseract

package ocr

import (
	"context"
	"errors"
)

// ErrTesseractNotEnabled is returned when the binary was built without
// Tesseract support.
var ErrTesseractNotEnabled = errors.New("tesseract support not compiled in; rebuild without -tags notesseract or set ocr.engine to vision or gemini")

// Tesseract is a stub used with the notesseract build tag
type Tesseract struct {
	language string
}

// NewTesseract creates the stub recognizer
func NewTesseract(language string) *Tesseract {
	return &Tesseract{language: language}
}

// Recognize always fails with ErrTesseractNotEnabled
func (t *Tesseract) Recognize(ctx context.Context, imagePath string) (string, error) {
	return "", ErrTesseractNotEnabled
}
