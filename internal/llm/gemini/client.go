// Package gemini implements llm.Client on the Google Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"resume-tracker/internal/llm"
)

const (
	providerName      = "gemini"
	defaultModel      = "gemini-1.5-flash"
	defaultAPIVersion = "v1beta"
	defaultTimeout    = 120 * time.Second
)

// Generation parameters are fixed for every analysis call.
var generationConfig = genai.GenerateContentConfig{
	Temperature:      genai.Ptr(float32(1)),
	TopK:             genai.Ptr(float32(40)),
	TopP:             genai.Ptr(float32(0.95)),
	MaxOutputTokens:  8192,
	ResponseMIMEType: "text/plain",
}

// Config is resolved once at startup. APIKey is never logged.
type Config struct {
	APIKey     string
	Model      string
	BaseURL    string
	APIVersion string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client implements llm.Client using generateContent.
type Client struct {
	genai   *genai.Client
	model   string
	timeout time.Duration
}

// NewClient builds a Gemini client. A missing API key yields llm.ErrNotConfigured.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY: %w", llm.ErrNotConfigured)
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	version := strings.TrimSpace(cfg.APIVersion)
	if version == "" {
		version = defaultAPIVersion
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    strings.TrimSpace(cfg.BaseURL),
			APIVersion: version,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Client{genai: gc, model: model, timeout: timeout}, nil
}

// Model reports the configured model id.
func (c *Client) Model() string { return c.model }

// Complete sends prompt as a single user turn and returns the text of the
// first part of the first candidate, or "" when the response carries none.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cfg := generationConfig
	resp, err := c.genai.Models.GenerateContent(ctx, c.model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		&cfg,
	)
	if err != nil {
		return "", transportError(err)
	}
	return firstText(resp), nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil || len(cand.Content.Parts) == 0 || cand.Content.Parts[0] == nil {
		return ""
	}
	return cand.Content.Parts[0].Text
}

func transportError(err error) error {
	te := &llm.TransportError{Provider: providerName, Err: err}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		te.StatusCode = apiErr.Code
		te.Err = errors.New(apiErr.Message)
	}
	return te
}

var _ llm.Client = (*Client)(nil)
