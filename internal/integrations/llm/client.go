// Package llm proxies chat completions to an OpenAI-compatible endpoint,
// keeping the API key on the server.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Dan9191/neuroledger/internal/config"
	"github.com/sirupsen/logrus"
)

// DefaultMaxTokens applies when a request does not ask for a budget.
const DefaultMaxTokens = 1000

// MaxTokensCeiling bounds every request, whatever the configuration says.
const MaxTokensCeiling = 1500

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is what callers send to Stream.
type Request struct {
	Messages  []Message
	MaxTokens int
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	Stream      bool      `json:"stream"`
}

// Client calls the completion endpoint
type Client struct {
	url       string
	apiKey    string
	model     string
	maxTokens int
	client    *http.Client
	retry     RetryConfig
	log       *logrus.Logger
}

// NewClient initializes a new completion client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		url:       cfg.LLMURL,
		apiKey:    cfg.LLMAPIKey,
		model:     cfg.LLMModel,
		maxTokens: cfg.LLMMaxTokens,
		client: &http.Client{
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				ResponseHeaderTimeout: 30 * time.Second,
			},
		},
		retry: DefaultRetryConfig,
		log:   log,
	}
}

// WithRetryConfig replaces the retry policy
func (c *Client) WithRetryConfig(cfg RetryConfig) *Client {
	c.retry = cfg
	return c
}

// TokenBudget caps the requested token count at the configured maximum and
// at MaxTokensCeiling
func (c *Client) TokenBudget(requested int) int {
	if requested <= 0 {
		requested = DefaultMaxTokens
	}
	limit := MaxTokensCeiling
	if c.maxTokens > 0 {
		limit = min(limit, c.maxTokens)
	}
	return min(requested, limit)
}

// Stream starts a streaming completion and returns the raw SSE body. The
// caller must close it. Retries only happen before any byte is streamed.
func (c *Client) Stream(ctx context.Context, req Request) (io.ReadCloser, error) {
	if c.apiKey == "" {
		return nil, &Error{Code: ErrNotConfigured, Message: "API key not configured on server"}
	}

	payload, err := json.Marshal(completionRequest{
		Model:       c.model,
		Messages:    req.Messages,
		MaxTokens:   c.TokenBudget(req.MaxTokens),
		Temperature: 0.7,
		Stream:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode completion request: %w", err)
	}

	return WithRetry(ctx, c.retry, func(ctx context.Context) (io.ReadCloser, error) {
		return c.send(ctx, payload)
	})
}

func (c *Client) send(ctx context.Context, payload []byte) (io.ReadCloser, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, &Error{Code: ErrRejected, Message: "failed to create request", Cause: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.log.Warnf("Completion request failed: %v", err)
		return nil, &Error{Code: ErrUnavailable, Message: "request failed", Retryable: ctx.Err() == nil, Cause: err}
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		c.log.Warnf("Completion endpoint returned %d", resp.StatusCode)
		return nil, statusError(resp.StatusCode, body)
	}
	return resp.Body, nil
}
