package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/natasquad/buyergpt/internal/config"
	"github.com/natasquad/buyergpt/internal/logger"
	"github.com/natasquad/buyergpt/internal/metrics"
)

// Client calls an OpenAI-compatible chat completions endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     *logger.Logger
}

var _ Completer = (*Client)(nil)

// NewClient creates a new language-service client from config.
func NewClient(cfg *config.Config, log *logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(cfg.OpenAIBaseURL, "/"),
		apiKey:  cfg.OpenAIAPIKey,
		model:   cfg.OpenAIModel,
		httpClient: &http.Client{
			Timeout: cfg.LLMTimeout,
		},
		logger: log.WithComponent("llm"),
	}
}

// Complete renders the request template and issues a single completion call.
// The rendered prompt is sent as one user message; the first choice's
// content is returned with surrounding whitespace trimmed.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("OpenAI API key not configured")
	}

	metrics.LLMCallsTotal.Inc()

	prompt := RenderTemplate(req.Template, req.Vars)

	payload := chatCompletionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		Temperature: req.Temperature,
		Stream:      false,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := c.baseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("call language service at %s: %w", url, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("language service returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}

	if completion.Error != nil {
		return "", fmt.Errorf("language service error: %s", completion.Error.Message)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("language service returned no choices")
	}

	result := strings.TrimSpace(completion.Choices[0].Message.Content)

	c.logger.WithContext(ctx).Debug("completion finished",
		slog.Duration("duration", time.Since(start)),
		slog.Int("prompt_len", len(prompt)),
		slog.Int("result_len", len(result)),
	)

	return result, nil
}

// RenderTemplate substitutes `{name}` placeholders from vars into template.
func RenderTemplate(template string, vars map[string]string) string {
	rendered := template
	for name, value := range vars {
		rendered = strings.ReplaceAll(rendered, "{"+name+"}", value)
	}
	return rendered
}
