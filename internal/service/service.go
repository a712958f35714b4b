package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Dan9191/neuroledger/internal/clock"
	"github.com/Dan9191/neuroledger/internal/config"
	"github.com/Dan9191/neuroledger/internal/finance"
	"github.com/Dan9191/neuroledger/internal/integrations/llm"
	"github.com/Dan9191/neuroledger/internal/models"
	"github.com/Dan9191/neuroledger/internal/notify"
	"github.com/Dan9191/neuroledger/internal/repository"
	"github.com/sirupsen/logrus"
)

var (
	// ErrNotFound is returned when an entity does not exist for the caller.
	ErrNotFound = repository.ErrNotFound
	// ErrInvalidInput is returned when a request fails validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized is returned for bad credentials.
	ErrUnauthorized = errors.New("invalid credentials")
	// ErrConflict is returned when an entity already exists.
	ErrConflict = errors.New("already exists")
	// ErrRateLimited is returned when a user calls the chat too often.
	ErrRateLimited = errors.New("too many requests")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// KeyRateProvider returns the reference annual interest rate in percent.
type KeyRateProvider interface {
	GetKeyRate(ctx context.Context) (float64, error)
}

// ChatStreamer starts a streaming chat completion.
type ChatStreamer interface {
	Stream(ctx context.Context, req llm.Request) (io.ReadCloser, error)
}

// Service handles business logic
type Service struct {
	repo      repository.Store
	log       *logrus.Logger
	config    *config.Config
	clock     clock.Clock
	format    *finance.Formatter
	keyRate   KeyRateProvider
	chat      ChatStreamer
	notifiers []notify.Notifier
	limiter   *chatLimiter
}

// Option customizes a Service.
type Option func(*Service)

// WithClock replaces the wall clock.
func WithClock(c clock.Clock) Option { return func(s *Service) { s.clock = c } }

// WithKeyRate enables key rate lookups for advice.
func WithKeyRate(p KeyRateProvider) Option { return func(s *Service) { s.keyRate = p } }

// WithChat enables the chat proxy.
func WithChat(c ChatStreamer) Option { return func(s *Service) { s.chat = c } }

// WithNotifiers sets the reminder channels.
func WithNotifiers(n ...notify.Notifier) Option { return func(s *Service) { s.notifiers = n } }

// NewService initializes a new service
func NewService(repo repository.Store, log *logrus.Logger, cfg *config.Config, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		log:    log,
		config: cfg,
		clock:  clock.NewReal(),
		format: finance.NewFormatterFromConfig(cfg.Locale, cfg.Currency),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.limiter = newChatLimiter(s.clock)
	return s
}

// Formatter returns the money formatter used for user-facing text
func (s *Service) Formatter() *finance.Formatter {
	return s.format
}

// Today is the current calendar day according to the service clock
func (s *Service) Today() models.Date {
	return models.DateOf(s.clock.Now())
}

// month resolves the zero month to the current one.
func (s *Service) month(m models.MonthKey) models.MonthKey {
	if m.Year == 0 {
		return s.Today().MonthKey()
	}
	return m
}

func (s *Service) loadState(ctx context.Context, userID string) (*models.AppState, error) {
	state, err := s.repo.LoadState(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	return state, nil
}
