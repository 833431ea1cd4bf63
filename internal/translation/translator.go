package translation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/apex/log"
	"github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
)

const (
	// DefaultBaseURL is the DeepSeek OpenAI-compatible endpoint
	DefaultBaseURL = "https://api.deepseek.com"
	// DefaultModel is the chat model used for translations
	DefaultModel = "deepseek-chat"
)

// ErrNoAPIKey is wrapped in an APIError when Translate is called without a key
var ErrNoAPIKey = errors.New("API key not set")

// APIError is returned for any failure talking to the translation provider:
// transport errors, authentication, quota, non-2xx responses and malformed
// response bodies.
type APIError struct {
	StatusCode int
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("translation API error (HTTP %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("translation API error: %v", e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Config holds the translation client configuration
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration

	// BreakerFailures is the number of consecutive provider failures after
	// which calls fail fast for BreakerCooldown.
	BreakerFailures uint32
	BreakerCooldown time.Duration

	// HTTPClient overrides the HTTP client (tests)
	HTTPClient *http.Client
}

// DefaultConfig returns the default client configuration
func DefaultConfig() *Config {
	return &Config{
		BaseURL:         DefaultBaseURL,
		Model:           DefaultModel,
		Timeout:         120 * time.Second,
		BreakerFailures: 5,
		BreakerCooldown: 30 * time.Second,
	}
}

// Client sends one chat completion per translation
type Client struct {
	config     *Config
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

// NewClient creates a new translation client. The API key is passed per
// call since it is supplied by the user at runtime.
func NewClient(config *Config) *Client {
	defaults := DefaultConfig()
	if config == nil {
		config = defaults
	} else {
		cfg := *config
		if cfg.BaseURL == "" {
			cfg.BaseURL = defaults.BaseURL
		}
		if cfg.Model == "" {
			cfg.Model = defaults.Model
		}
		if cfg.BreakerFailures == 0 {
			cfg.BreakerFailures = defaults.BreakerFailures
		}
		if cfg.BreakerCooldown == 0 {
			cfg.BreakerCooldown = defaults.BreakerCooldown
		}
		config = &cfg
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	failures := config.BreakerFailures
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "translation",
		Timeout: config.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: isProviderHealthy,
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(log.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("circuit breaker state changed")
		},
	})

	return &Client{
		config:     config,
		httpClient: httpClient,
		breaker:    breaker,
	}
}

// Model returns the configured model identifier
func (c *Client) Model() string {
	return c.config.Model
}

// Translate sends systemPrompt and userText as a two-message chat and
// returns the content of the first choice verbatim.
func (c *Client) Translate(ctx context.Context, systemPrompt, userText, apiKey string) (string, error) {
	if apiKey == "" {
		return "", &APIError{Err: ErrNoAPIKey}
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.complete(ctx, systemPrompt, userText, apiKey)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", &APIError{Err: fmt.Errorf("provider unavailable, try again later: %w", err)}
		}
		return "", err
	}

	return result.(string), nil
}

func (c *Client) complete(ctx context.Context, systemPrompt, userText, apiKey string) (string, error) {
	client := c.newOpenAIClient(apiKey)

	req := openai.ChatCompletionRequest{
		Model: c.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userText,
			},
		},
	}

	start := time.Now()
	resp, err := client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", wrapOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return "", &APIError{Err: fmt.Errorf("no translation returned")}
	}

	log.WithFields(log.Fields{
		"model":    c.config.Model,
		"duration": time.Since(start).Round(time.Millisecond).String(),
		"tokens":   resp.Usage.TotalTokens,
	}).Debug("translation completed")

	return resp.Choices[0].Message.Content, nil
}

func (c *Client) newOpenAIClient(apiKey string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = c.config.BaseURL
	cfg.HTTPClient = c.httpClient
	return openai.NewClientWithConfig(cfg)
}

// wrapOpenAIError converts go-openai errors into an APIError carrying the
// HTTP status when there is one.
func wrapOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &APIError{StatusCode: apiErr.HTTPStatusCode, Err: err}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &APIError{StatusCode: reqErr.HTTPStatusCode, Err: err}
	}

	return &APIError{Err: err}
}

// isProviderHealthy reports whether err should count as a success for the
// circuit breaker. Client-side rejections such as a wrong key say nothing
// about the provider being down, and neither does a cancelled request.
func isProviderHealthy(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		code := apiErr.StatusCode
		return code >= 400 && code < 500 && code != http.StatusTooManyRequests
	}
	return false
}

// SaveTranslation writes a translation to outputFile
func SaveTranslation(outputFile, translation string) error {
	if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(outputFile, []byte(translation), 0644); err != nil {
		return fmt.Errorf("failed to write translation file: %w", err)
	}

	return nil
}
