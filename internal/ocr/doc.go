// Package ocr extracts text from PNG and JPEG images. Three engines are
// available: a local Tesseract engine (gosseract), an OpenAI-compatible
// vision model and Google Gemini.
//
// The Tesseract engine needs libtesseract at build time. Build with the
// notesseract tag to leave it out:
//
//	go build -tags notesseract ./cmd/deeptranslate
package ocr
