package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/Dan9191/neuroledger/internal/clock"
	"github.com/Dan9191/neuroledger/internal/finance"
	"github.com/Dan9191/neuroledger/internal/integrations/llm"
	"github.com/Dan9191/neuroledger/internal/models"
	"golang.org/x/time/rate"
)

// chatInterval is the minimum time between two chat requests of one user.
const chatInterval = 3 * time.Second

// chatLimiter keeps one token bucket per user.
type chatLimiter struct {
	clock clock.Clock
	mu    sync.Mutex
	users map[string]*rate.Limiter
}

func newChatLimiter(c clock.Clock) *chatLimiter {
	return &chatLimiter{clock: c, users: map[string]*rate.Limiter{}}
}

func (l *chatLimiter) allow(userID string) bool {
	l.mu.Lock()
	lim, ok := l.users[userID]
	if !ok {
		lim = rate.NewLimiter(rate.Every(chatInterval), 1)
		l.users[userID] = lim
	}
	l.mu.Unlock()
	return lim.AllowN(l.clock.Now(), 1)
}

// ChatRequest is a conversation sent by the client
type ChatRequest struct {
	Messages  []llm.Message   `json:"messages"`
	Month     models.MonthKey `json:"month"`
	MaxTokens int             `json:"maxTokens,omitempty"`
}

// Chat forwards the conversation to the model with the system prompt and the
// caller's financial context prepended. The returned stream is raw SSE and
// must be closed by the caller.
func (s *Service) Chat(ctx context.Context, userID string, req ChatRequest) (io.ReadCloser, error) {
	if s.chat == nil {
		return nil, fmt.Errorf("chat: %w", ErrNotFound)
	}
	if len(req.Messages) == 0 {
		return nil, invalid("messages required")
	}
	for i, m := range req.Messages {
		if m.Role != "user" && m.Role != "assistant" {
			return nil, invalid("message %d: role must be user or assistant", i+1)
		}
		if strings.TrimSpace(m.Content) == "" {
			return nil, invalid("message %d: content is required", i+1)
		}
	}
	if !s.limiter.allow(userID) {
		return nil, ErrRateLimited
	}

	financial, err := s.Context(ctx, userID, req.Month)
	if err != nil {
		return nil, err
	}
	messages := make([]llm.Message, 0, len(req.Messages)+1)
	messages = append(messages, llm.Message{Role: "system", Content: finance.SystemPrompt + "\n\n" + financial})
	messages = append(messages, req.Messages...)

	stream, err := s.chat.Stream(ctx, llm.Request{Messages: messages, MaxTokens: req.MaxTokens})
	if err != nil {
		return nil, fmt.Errorf("failed to start chat: %w", err)
	}
	s.log.Infof("Chat started for user %s with %d messages", userID, len(req.Messages))
	return stream, nil
}
