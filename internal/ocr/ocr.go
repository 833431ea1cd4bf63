package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"
)

// Engine names accepted in the configuration
const (
	EngineTesseract = "tesseract"
	EngineVision    = "vision"
	EngineGemini    = "gemini"
)

// ErrMissingKey is returned when an LLM based engine has no API key
var ErrMissingKey = errors.New("OCR engine needs an API key")

// Recognizer turns an image file into text
type Recognizer interface {
	Recognize(ctx context.Context, imagePath string) (string, error)
}

// Config selects and configures an OCR engine
type Config struct {
	Engine string

	// Tesseract language(s), e.g. "chi_sim+eng". Empty keeps the
	// Tesseract default.
	Language string

	// Vision engine (OpenAI-compatible chat completions with image input)
	VisionBaseURL string
	VisionModel   string
	VisionAPIKey  string

	// Gemini engine
	GeminiModel   string
	GeminiAPIKey  string
	GeminiBaseURL string
}

// DefaultConfig returns the default OCR configuration
func DefaultConfig() *Config {
	return &Config{
		Engine:        EngineTesseract,
		VisionBaseURL: "https://api.openai.com/v1",
		VisionModel:   "gpt-4o-mini",
		GeminiModel:   "gemini-2.5-flash",
	}
}

// New creates the recognizer selected by config.Engine
func New(config *Config) (Recognizer, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch strings.ToLower(config.Engine) {
	case "", EngineTesseract:
		return NewTesseract(config.Language), nil
	case EngineVision:
		return NewVision(config)
	case EngineGemini:
		return NewGemini(config)
	default:
		return nil, fmt.Errorf("unknown OCR engine: %s", config.Engine)
	}
}

// Unavailable returns a recognizer that fails every image with err. It
// stands in for an engine that could not be set up so that text input
// keeps working.
func Unavailable(err error) Recognizer {
	return unavailable{err: err}
}

type unavailable struct {
	err error
}

func (u unavailable) Recognize(ctx context.Context, imagePath string) (string, error) {
	return "", u.err
}

// instruction is sent to the LLM based engines along with the image
const instruction = "Perform OCR on this image. Return ONLY the raw extracted text with:\n" +
	"- No formatting\n" +
	"- No markdown\n" +
	"- No explanations\n" +
	"- Preserve line breaks accurately from the visual layout."

// DetectFormat checks that imagePath is a readable PNG or JPEG image and
// returns its MIME type.
func DetectFormat(imagePath string) (string, error) {
	f, err := os.Open(imagePath)
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	_, format, err := image.DecodeConfig(f)
	if err != nil {
		return "", fmt.Errorf("unsupported or corrupt image %s: %w", imagePath, err)
	}

	switch format {
	case "png":
		return "image/png", nil
	case "jpeg":
		return "image/jpeg", nil
	default:
		return "", fmt.Errorf("unsupported image format: %s", format)
	}
}

// readImage loads an image file for the LLM based engines
func readImage(imagePath string) ([]byte, string, error) {
	mimeType, err := DetectFormat(imagePath)
	if err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image: %w", err)
	}

	return data, mimeType, nil
}
