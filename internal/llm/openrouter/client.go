// Package openrouter implements llm.Client on an OpenAI-compatible
// chat-completions endpoint (OpenRouter by default).
package openrouter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"resume-tracker/internal/llm"
)

const (
	providerName    = "openrouter"
	defaultBaseURL  = "https://openrouter.ai/api/v1"
	defaultModel    = "google/gemini-flash-1.5"
	defaultTimeout  = 120 * time.Second
	completionsPath = "/chat/completions"
)

// Config is resolved once at startup. APIKey is never logged.
type Config struct {
	APIKey     string
	Model      string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client implements llm.Client.
type Client struct {
	rest    *resty.Client
	model   string
	timeout time.Duration
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	TopK        int           `json:"top_k"`
	TopP        float64       `json:"top_p"`
	MaxTokens   int           `json:"max_tokens"`
}

// NewClient builds an OpenRouter client. A missing API key yields llm.ErrNotConfigured.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("OPENROUTER_API_KEY: %w", llm.ErrNotConfigured)
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	var rest *resty.Client
	if cfg.HTTPClient != nil {
		rest = resty.NewWithClient(cfg.HTTPClient)
	} else {
		rest = resty.New()
	}
	rest.SetBaseURL(baseURL).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{rest: rest, model: model, timeout: timeout}, nil
}

// Model reports the configured model id.
func (c *Client) Model() string { return c.model }

// Complete sends prompt as a single user message and returns
// choices[0].message.content, or "" when the response carries none.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(chatRequest{
			Model:       c.model,
			Messages:    []chatMessage{{Role: "user", Content: prompt}},
			Temperature: 1,
			TopK:        40,
			TopP:        0.95,
			MaxTokens:   8192,
		}).
		Post(completionsPath)
	if err != nil {
		return "", &llm.TransportError{Provider: providerName, Err: err}
	}
	if resp.IsError() {
		msg := gjson.GetBytes(resp.Body(), "error.message").String()
		if msg == "" {
			msg = resp.Status()
		}
		return "", &llm.TransportError{
			Provider:   providerName,
			StatusCode: resp.StatusCode(),
			Err:        errors.New(msg),
		}
	}
	return gjson.GetBytes(resp.Body(), "choices.0.message.content").String(), nil
}

var _ llm.Client = (*Client)(nil)
