// Package openai implements llm.Completer on top of the OpenAI Chat
// Completions HTTP API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jobkit/cv-copilot/internal/llm"

	"go.uber.org/zap"
)

const (
	apiURL         = "https://api.openai.com/v1/chat/completions"
	providerName   = "openai"
	defaultModel   = "gpt-4o-mini"
	defaultTimeout = 120 * time.Second
)

type modelDefaults struct {
	maxTokens   int
	temperature float64
}

// Per-model defaults, keyed by model identifier. Unknown models fall back to
// hardDefaults unless the caller supplies explicit values.
var modelConfigs = map[string]modelDefaults{
	"gpt-4o-mini":   {maxTokens: 4000, temperature: 0.7},
	"gpt-4":         {maxTokens: 4000, temperature: 0.7},
	"gpt-3.5-turbo": {maxTokens: 2000, temperature: 0.7},
}

var hardDefaults = modelDefaults{maxTokens: 2000, temperature: 0.7}

// Client calls the OpenAI chat completions endpoint. Safe for concurrent use.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient builds a client for the given model. An empty model selects the
// default one.
func NewClient(apiKey, model string, logger *zap.Logger) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("openai api key is required")
	}
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: apiURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}, nil
}

func (c *Client) Name() string { return providerName }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Complete performs exactly one outbound API call and returns the first
// choice's text.
func (c *Client) Complete(ctx context.Context, req llm.Request) (string, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return "", &llm.ProviderError{Provider: providerName, Err: errors.New("prompt must not be empty")}
	}

	messages := make([]chatMessage, 0, 2)
	if req.SystemMessage != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.SystemMessage})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	defaults, ok := modelConfigs[c.model]
	if !ok {
		defaults = hardDefaults
	}

	body := chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: defaults.temperature,
		MaxTokens:   defaults.maxTokens,
	}
	if req.Temperature != nil {
		body.Temperature = *req.Temperature
	}
	if req.MaxTokens > 0 {
		body.MaxTokens = req.MaxTokens
	}
	if req.JSONOnly {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", &llm.ProviderError{Provider: providerName, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &llm.ProviderError{Provider: providerName, Err: fmt.Errorf("read response body: %w", err)}
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", &llm.ProviderError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("decode response: %w", err),
		}
	}

	if resp.StatusCode != http.StatusOK {
		msg := "request failed"
		if parsed.Error != nil {
			msg = parsed.Error.Message
		}
		return "", &llm.ProviderError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			Err:        errors.New(msg),
		}
	}

	if len(parsed.Choices) == 0 {
		return "", &llm.ProviderError{Provider: providerName, Err: errors.New("response contains no choices")}
	}

	if c.logger != nil && parsed.Usage != nil {
		c.logger.Debug("openai completion usage",
			zap.String("model", parsed.Model),
			zap.Int("prompt_tokens", parsed.Usage.PromptTokens),
			zap.Int("completion_tokens", parsed.Usage.CompletionTokens),
			zap.Int("total_tokens", parsed.Usage.TotalTokens),
		)
	}

	return parsed.Choices[0].Message.Content, nil
}
