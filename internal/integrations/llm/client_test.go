package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Dan9191/neuroledger/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastRetry = RetryConfig{MaxRetries: 2, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, BackoffFactor: 2}

func newTestClient(url, key string) *Client {
	log := logrus.New()
	log.SetOutput(io.Discard)
	cfg := &config.Config{LLMURL: url, LLMAPIKey: key, LLMModel: "test-model", LLMMaxTokens: 1500}
	return NewClient(cfg, log).WithRetryConfig(fastRetry)
}

func TestClient_StreamPassesThroughSSE(t *testing.T) {
	const events = "data: {\"choices\":[{\"delta\":{\"content\":\"Hi\"}}]}\n\ndata: [DONE]\n\n"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		var body completionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "test-model", body.Model)
		assert.Equal(t, 1500, body.MaxTokens)
		assert.True(t, body.Stream)
		if assert.Len(t, body.Messages, 2) {
			assert.Equal(t, "system", body.Messages[0].Role)
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte(events))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, "sk-test")
	stream, err := c.Stream(context.Background(), Request{
		Messages:  []Message{{Role: "system", Content: "ctx"}, {Role: "user", Content: "hello"}},
		MaxTokens: 4000,
	})
	require.NoError(t, err)
	defer stream.Close()

	got, err := io.ReadAll(stream)
	require.NoError(t, err)
	assert.Equal(t, events, string(got))
}

func TestClient_TokenBudget(t *testing.T) {
	c := newTestClient("http://unused", "k")
	assert.Equal(t, DefaultMaxTokens, c.TokenBudget(0))
	assert.Equal(t, 200, c.TokenBudget(200))
	assert.Equal(t, 1500, c.TokenBudget(9000))
}

func TestClient_TokenBudgetBounds(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	tests := []struct {
		name       string
		configured int
		requested  int
		want       int
	}{
		{"config above ceiling", 4000, 3000, MaxTokensCeiling},
		{"config below ceiling", 800, 3000, 800},
		{"zero config", 0, 3000, MaxTokensCeiling},
		{"negative config", -10, 200, 200},
		{"negative config default request", -10, 0, DefaultMaxTokens},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(&config.Config{LLMAPIKey: "k", LLMMaxTokens: tt.configured}, log)
			got := c.TokenBudget(tt.requested)
			assert.Equal(t, tt.want, got)
			assert.Positive(t, got)
		})
	}
}

func TestClient_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("data: [DONE]\n\n"))
	}))
	defer srv.Close()

	stream, err := newTestClient(srv.URL, "k").Stream(context.Background(), Request{Messages: []Message{{Role: "user", Content: "x"}}})
	require.NoError(t, err)
	stream.Close()
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_DoesNotRetryRejections(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"bad model"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, "k").Stream(context.Background(), Request{})
	var llmErr *Error
	require.True(t, errors.As(err, &llmErr))
	assert.Equal(t, ErrRejected, llmErr.Code)
	assert.Equal(t, http.StatusBadRequest, llmErr.Status)
	assert.JSONEq(t, `{"error":"bad model"}`, string(llmErr.Body))
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, "k").Stream(context.Background(), Request{})
	var llmErr *Error
	require.True(t, errors.As(err, &llmErr))
	assert.Equal(t, ErrRateLimited, llmErr.Code)
	assert.Equal(t, int32(fastRetry.MaxRetries+1), calls.Load())
}

func TestClient_NotConfigured(t *testing.T) {
	_, err := newTestClient("http://unused", "").Stream(context.Background(), Request{})
	var llmErr *Error
	require.True(t, errors.As(err, &llmErr))
	assert.Equal(t, ErrNotConfigured, llmErr.Code)
}

func TestWithRetry_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := RetryConfig{MaxRetries: 5, InitialDelay: time.Hour, MaxDelay: time.Hour, BackoffFactor: 1}

	calls := 0
	_, err := WithRetry(ctx, cfg, func(context.Context) (int, error) {
		calls++
		return 0, errors.New("boom")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
