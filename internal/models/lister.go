package models

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Lister handles listing available models
type Lister struct {
	apiKey string
	client *openai.Client
}

// NewLister creates a new model lister for the endpoint at baseURL
func NewLister(apiKey, baseURL string) *Lister {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &Lister{
		apiKey: apiKey,
		client: openai.NewClientWithConfig(cfg),
	}
}

// ListAvailableModels writes the available models to w, chat models first
func (l *Lister) ListAvailableModels(ctx context.Context, w io.Writer) error {
	if l.apiKey == "" {
		return fmt.Errorf("API key not found. Set DEEPTRANSLATE_API_KEY or DEEPSEEK_API_KEY")
	}

	models, err := l.client.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	chatModels := []string{}
	otherModels := []string{}

	for _, model := range models.Models {
		if isChatModel(model.ID) {
			chatModels = append(chatModels, model.ID)
		} else {
			otherModels = append(otherModels, model.ID)
		}
	}

	sort.Strings(chatModels)
	sort.Strings(otherModels)

	fmt.Fprintln(w, "Chat/Translation Models:")
	if len(chatModels) == 0 {
		fmt.Fprintln(w, "  No chat models found")
	}
	for _, model := range chatModels {
		fmt.Fprintf(w, "  %s\n", model)
	}

	if len(otherModels) > 0 {
		fmt.Fprintln(w, "\nOther Models:")
		for _, model := range otherModels {
			fmt.Fprintf(w, "  %s\n", model)
		}
	}

	return nil
}

func isChatModel(id string) bool {
	for _, marker := range []string{"chat", "gpt", "reasoner", "deepseek", "claude", "qwen"} {
		if strings.Contains(id, marker) {
			return true
		}
	}
	return false
}
