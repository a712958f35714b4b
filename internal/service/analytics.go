package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Dan9191/neuroledger/internal/finance"
	"github.com/Dan9191/neuroledger/internal/models"
	"github.com/Dan9191/neuroledger/internal/report"
)

// Dashboard gathers every read model of one month
type Dashboard struct {
	Month     models.MonthKey         `json:"month"`
	Snapshot  models.MonthlySnapshot  `json:"snapshot"`
	Indices   models.FinancialIndices `json:"indices"`
	Health    models.HealthScore      `json:"health"`
	Tips      []finance.Tip           `json:"tips"`
	CashFlow  []models.DayFlow        `json:"cashFlow"`
	Reminders []models.Reminder       `json:"reminders"`
	KeyRate   float64                 `json:"keyRate,omitempty"`
}

// monthView is the snapshot and indices of one month of a state.
type monthView struct {
	state   *models.AppState
	month   models.MonthKey
	today   models.Date
	snap    models.MonthlySnapshot
	indices models.FinancialIndices
}

func (s *Service) view(ctx context.Context, userID string, month models.MonthKey) (*monthView, error) {
	state, err := s.loadState(ctx, userID)
	if err != nil {
		return nil, err
	}
	v := &monthView{state: state, month: s.month(month), today: s.Today()}
	v.snap = finance.BuildSnapshot(state.Transactions, state.Bills, v.month, state.MonthlyBudget, v.today)
	v.indices = finance.ComputeIndices(*state, v.snap, v.today)
	return v, nil
}

// currentKeyRate returns zero when no provider is configured or it fails.
func (s *Service) currentKeyRate(ctx context.Context) float64 {
	if s.keyRate == nil {
		return 0
	}
	rate, err := s.keyRate.GetKeyRate(ctx)
	if err != nil {
		s.log.Warnf("Key rate unavailable: %v", err)
		return 0
	}
	return rate
}

// KeyRate returns the reference interest rate
func (s *Service) KeyRate(ctx context.Context) (float64, error) {
	if s.keyRate == nil {
		return 0, fmt.Errorf("key rate: %w", ErrNotFound)
	}
	rate, err := s.keyRate.GetKeyRate(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get key rate: %w", err)
	}
	return rate, nil
}

// Dashboard computes the month view shown on the main screen
func (s *Service) Dashboard(ctx context.Context, userID string, month models.MonthKey) (*Dashboard, error) {
	v, err := s.view(ctx, userID, month)
	if err != nil {
		return nil, err
	}
	keyRate := s.currentKeyRate(ctx)

	return &Dashboard{
		Month:    v.month,
		Snapshot: v.snap,
		Indices:  v.indices,
		Health:   finance.ComputeHealthScore(v.snap, v.state.MonthlyBudget),
		Tips: finance.Advise(finance.AdvisorInput{
			State:    *v.state,
			Snapshot: v.snap,
			Month:    v.month,
			Today:    v.today,
			KeyRate:  keyRate,
		}, s.format),
		CashFlow:  finance.CashFlow(*v.state, v.month, s.format),
		Reminders: finance.Reminders(v.snap, v.today),
		KeyRate:   keyRate,
	}, nil
}

// Plan allocates the month's expected income over its unpaid bills
func (s *Service) Plan(ctx context.Context, userID string, month models.MonthKey) (*finance.Plan, error) {
	state, err := s.loadState(ctx, userID)
	if err != nil {
		return nil, err
	}
	plan := finance.BillsPlan(*state, s.month(month), s.Today(), s.format)
	return &plan, nil
}

// SandboxPlan allocates hypothetical entries without touching stored data
func (s *Service) SandboxPlan(entries []finance.SandboxEntry) (*finance.Plan, error) {
	for i, e := range entries {
		if !e.Type.Valid() {
			return nil, invalid("entry %d: unknown type %q", i+1, e.Type)
		}
		if strings.TrimSpace(e.Title) == "" {
			return nil, invalid("entry %d: title is required", i+1)
		}
		if !e.Amount.IsPositive() {
			return nil, invalid("entry %d: amount must be positive", i+1)
		}
		if e.Date.IsZero() {
			return nil, invalid("entry %d: date is required", i+1)
		}
	}
	plan := finance.SandboxPlan(entries, s.Today(), s.format)
	return &plan, nil
}

// Context renders the financial context handed to the chat model
func (s *Service) Context(ctx context.Context, userID string, month models.MonthKey) (string, error) {
	v, err := s.view(ctx, userID, month)
	if err != nil {
		return "", err
	}
	profile, err := s.profileOrNil(ctx, userID)
	if err != nil {
		return "", err
	}
	return finance.BuildFinancialContext(*v.state, v.snap, v.indices, v.today, profile, s.format), nil
}

func (s *Service) profileOrNil(ctx context.Context, userID string) (*models.UserProfile, error) {
	profile, err := s.repo.LoadProfile(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return profile, nil
}

// ExportCSV writes the whole ledger as CSV
func (s *Service) ExportCSV(ctx context.Context, userID string, w io.Writer) error {
	state, err := s.loadState(ctx, userID)
	if err != nil {
		return err
	}
	if err := report.WriteCSV(w, *state, s.format); err != nil {
		return fmt.Errorf("failed to export csv: %w", err)
	}
	return nil
}

// MonthReport writes the HTML report of a month
func (s *Service) MonthReport(ctx context.Context, userID string, month models.MonthKey, w io.Writer) error {
	v, err := s.view(ctx, userID, month)
	if err != nil {
		return err
	}
	err = report.WriteHTML(w, report.MonthReport{
		Month:    v.month,
		Snapshot: v.snap,
		Indices:  v.indices,
		Health:   finance.ComputeHealthScore(v.snap, v.state.MonthlyBudget),
	}, s.format)
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}
