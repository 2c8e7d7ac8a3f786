// Package llmclient wraps the OpenAI SDK as a plain text oracle against an
// OpenRouter-compatible endpoint. The model is chosen per call, so one
// client serves every pipeline stage.
package llmclient

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type Config struct {
	BaseURL             string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey              string        `envconfig:"API_KEY" split_words:"true"`
	MaxCompletionTokens int64         `envconfig:"MAX_COMPLETION_TOKENS" split_words:"true" default:"2000"`
	Temperature         float64       `envconfig:"TEMPERATURE" split_words:"true" default:"0.5"`
	Timeout             time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	SiteURL             string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName            string        `envconfig:"SITE_NAME" split_words:"true"`
}

type Client struct {
	sdk         *openaisdk.Client
	maxTokens   int64
	temperature float64
}

// New builds the client. A missing API key yields a client that reports
// not ready instead of an error, so the caller decides how to degrade.
func New(cfg Config) *Client {
	c := &Client{
		maxTokens:   cfg.MaxCompletionTokens,
		temperature: cfg.Temperature,
	}

	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return c
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if trimmed := strings.TrimRight(cfg.BaseURL, "/"); trimmed != "" {
		opts = append(opts, option.WithBaseURL(trimmed))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	if cfg.SiteURL != "" {
		opts = append(opts, option.WithHeader("HTTP-Referer", cfg.SiteURL))
	}
	if cfg.SiteName != "" {
		opts = append(opts, option.WithHeader("X-Title", cfg.SiteName))
	}

	sdk := openaisdk.NewClient(opts...)
	c.sdk = &sdk
	return c
}

// Ready reports whether the client holds credentials.
func (c *Client) Ready() bool {
	return c != nil && c.sdk != nil
}

// Generate runs one chat completion and returns the raw text of the first
// choice.
func (c *Client) Generate(ctx context.Context, model string, prompt string) (string, error) {
	if !c.Ready() {
		return "", errors.New("llm client is not configured")
	}
	if strings.TrimSpace(model) == "" {
		return "", errors.New("model name is required")
	}

	resp, err := c.sdk.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Model: openaisdk.ChatModel(model),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.UserMessage(prompt),
		},
		MaxCompletionTokens: openaisdk.Int(c.maxTokens),
		Temperature:         openaisdk.Float(c.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
