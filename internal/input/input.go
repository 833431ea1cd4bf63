// Package input turns what the user entered into the text to translate:
// either the typed text or the text recognized in an image.
package input

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/apex/log"

	"codeberg.org/snonux/deeptranslate/internal/ocr"
)

// Mode selects where the source text comes from
type Mode int

const (
	TextMode Mode = iota
	ImageMode
)

func (m Mode) String() string {
	switch m {
	case ImageMode:
		return "image"
	default:
		return "text"
	}
}

// ErrMissingImage is returned in image mode when no image was selected
var ErrMissingImage = errors.New("请先选择图片文件")

// OcrError is returned when the OCR engine cannot process the image
type OcrError struct {
	Path string
	Err  error
}

func (e *OcrError) Error() string {
	return fmt.Sprintf("OCR failed for %s: %v", e.Path, e.Err)
}

func (e *OcrError) Unwrap() error {
	return e.Err
}

// Resolver produces the source text of a request
type Resolver struct {
	recognizer ocr.Recognizer
}

// NewResolver creates a resolver that uses recognizer for image input
func NewResolver(recognizer ocr.Recognizer) *Resolver {
	return &Resolver{recognizer: recognizer}
}

// Resolve returns the trimmed text in text mode and the verbatim OCR
// result in image mode.
func (r *Resolver) Resolve(ctx context.Context, mode Mode, text, imagePath string) (string, error) {
	if mode == TextMode {
		return strings.TrimSpace(text), nil
	}

	if imagePath == "" {
		return "", ErrMissingImage
	}

	if r.recognizer == nil {
		return "", &OcrError{Path: imagePath, Err: errors.New("no OCR engine configured")}
	}

	result, err := r.recognizer.Recognize(ctx, imagePath)
	if err != nil {
		return "", &OcrError{Path: imagePath, Err: err}
	}

	log.WithFields(log.Fields{
		"image": imagePath,
		"chars": len([]rune(result)),
	}).Debug("image recognized")

	return result, nil
}
