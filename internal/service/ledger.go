package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Dan9191/neuroledger/internal/finance"
	"github.com/Dan9191/neuroledger/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// State returns the whole ledger of the user
func (s *Service) State(ctx context.Context, userID string) (*models.AppState, error) {
	return s.loadState(ctx, userID)
}

func validAmount(name string, d decimal.Decimal) error {
	if !d.IsPositive() {
		return invalid("%s must be positive", name)
	}
	return nil
}

func validCategory(c *models.Category) error {
	if *c == "" {
		*c = models.CategoryOther
		return nil
	}
	if !c.Valid() {
		return invalid("unknown category %q", *c)
	}
	return nil
}

func validateTransaction(t *models.Transaction) error {
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		return invalid("title is required")
	}
	if err := validAmount("amount", t.Amount); err != nil {
		return err
	}
	if t.Date.IsZero() {
		return invalid("date is required")
	}
	if !t.Type.Valid() {
		return invalid("unknown transaction type %q", t.Type)
	}
	return validCategory(&t.Category)
}

// SaveTransaction validates and records a new transaction. Transactions are
// immutable, so any id sent by the client is replaced.
func (s *Service) SaveTransaction(ctx context.Context, userID string, t models.Transaction) (*models.Transaction, error) {
	if err := validateTransaction(&t); err != nil {
		return nil, err
	}
	t.ID = uuid.NewString()
	if err := s.repo.SaveTransaction(ctx, userID, &t); err != nil {
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}
	s.log.Infof("Transaction %s saved for user %s", t.ID, userID)
	return &t, nil
}

// DeleteTransaction removes a transaction
func (s *Service) DeleteTransaction(ctx context.Context, userID, id string) error {
	if err := s.repo.DeleteTransaction(ctx, userID, id); err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	s.log.Infof("Transaction %s deleted for user %s", id, userID)
	return nil
}

func validatePayment(p *models.Payment) error {
	if err := validAmount("payment amount", p.Amount); err != nil {
		return err
	}
	if p.Date.IsZero() {
		return invalid("payment date is required")
	}
	return nil
}

func validateBill(b *models.Bill) error {
	b.Title = strings.TrimSpace(b.Title)
	if b.Title == "" {
		return invalid("title is required")
	}
	if err := validAmount("amount", b.Amount); err != nil {
		return err
	}
	if b.DueDate.IsZero() {
		return invalid("due date is required")
	}
	if !b.Type.Valid() {
		return invalid("unknown bill type %q", b.Type)
	}
	for i := range b.Payments {
		if err := validatePayment(&b.Payments[i]); err != nil {
			return err
		}
	}
	return validCategory(&b.Category)
}

// SaveBill validates and stores a bill. The status is always derived from
// the payments, whatever the caller sent.
func (s *Service) SaveBill(ctx context.Context, userID string, b models.Bill) (*models.Bill, error) {
	if err := validateBill(&b); err != nil {
		return nil, err
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Payments == nil {
		b.Payments = []models.Payment{}
	}
	for i := range b.Payments {
		if b.Payments[i].ID == "" {
			b.Payments[i].ID = uuid.NewString()
		}
	}
	b.Status = finance.DeriveStatus(b)
	if err := s.repo.SaveBill(ctx, userID, &b); err != nil {
		return nil, fmt.Errorf("failed to save bill: %w", err)
	}
	s.log.Infof("Bill %s saved for user %s", b.ID, userID)
	return &b, nil
}

// DeleteBill removes a bill and its payments
func (s *Service) DeleteBill(ctx context.Context, userID, id string) error {
	if err := s.repo.DeleteBill(ctx, userID, id); err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	s.log.Infof("Bill %s deleted for user %s", id, userID)
	return nil
}

func findBill(state *models.AppState, id string) (*models.Bill, error) {
	for i := range state.Bills {
		if state.Bills[i].ID == id {
			return &state.Bills[i], nil
		}
	}
	return nil, fmt.Errorf("bill %s: %w", id, ErrNotFound)
}

// AddPayment records a payment against a bill and returns the updated bill
func (s *Service) AddPayment(ctx context.Context, userID, billID string, p models.Payment) (*models.Bill, error) {
	if p.Date.IsZero() {
		p.Date = s.Today()
	}
	if err := validatePayment(&p); err != nil {
		return nil, err
	}
	state, err := s.loadState(ctx, userID)
	if err != nil {
		return nil, err
	}
	bill, err := findBill(state, billID)
	if err != nil {
		return nil, err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	finance.AddPayment(bill, p)

	if err := s.repo.AddPayment(ctx, userID, billID, &p, bill.Status); err != nil {
		return nil, fmt.Errorf("failed to add payment: %w", err)
	}
	s.log.Infof("Payment of %s added to bill %s (%s)", p.Amount, billID, bill.Status)
	return bill, nil
}

func validateIncome(inc *models.RecurringIncome) error {
	inc.Title = strings.TrimSpace(inc.Title)
	if inc.Title == "" {
		return invalid("title is required")
	}
	if err := validAmount("amount", inc.Amount); err != nil {
		return err
	}
	if inc.PayDay < 1 || inc.PayDay > 31 {
		return invalid("pay day must be between 1 and 31")
	}
	if inc.Frequency == "" {
		inc.Frequency = models.FrequencyMonthly
	}
	if !inc.Frequency.Valid() {
		return invalid("unknown frequency %q", inc.Frequency)
	}
	return nil
}

// SaveIncome validates and stores a recurring income
func (s *Service) SaveIncome(ctx context.Context, userID string, inc models.RecurringIncome) (*models.RecurringIncome, error) {
	if err := validateIncome(&inc); err != nil {
		return nil, err
	}
	if inc.ID == "" {
		inc.ID = uuid.NewString()
		inc.Active = true
	}
	if err := s.repo.SaveIncome(ctx, userID, &inc); err != nil {
		return nil, fmt.Errorf("failed to save income: %w", err)
	}
	s.log.Infof("Income %s saved for user %s", inc.ID, userID)
	return &inc, nil
}

// DeleteIncome removes a recurring income
func (s *Service) DeleteIncome(ctx context.Context, userID, id string) error {
	if err := s.repo.DeleteIncome(ctx, userID, id); err != nil {
		return fmt.Errorf("failed to delete income: %w", err)
	}
	s.log.Infof("Income %s deleted for user %s", id, userID)
	return nil
}

// ToggleIncome flips whether a recurring income counts toward planning
func (s *Service) ToggleIncome(ctx context.Context, userID, id string) (*models.RecurringIncome, error) {
	state, err := s.loadState(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, inc := range state.RecurringIncomes {
		if inc.ID != id {
			continue
		}
		inc.Active = !inc.Active
		if err := s.repo.SaveIncome(ctx, userID, &inc); err != nil {
			return nil, fmt.Errorf("failed to toggle income: %w", err)
		}
		s.log.Infof("Income %s active=%t for user %s", id, inc.Active, userID)
		return &inc, nil
	}
	return nil, fmt.Errorf("income %s: %w", id, ErrNotFound)
}

func validateGoal(g *models.SavingsGoal) error {
	g.Title = strings.TrimSpace(g.Title)
	if g.Title == "" {
		return invalid("title is required")
	}
	if err := validAmount("target amount", g.TargetAmount); err != nil {
		return err
	}
	if g.CurrentAmount.IsNegative() {
		return invalid("current amount cannot be negative")
	}
	return nil
}

// SaveGoal validates and stores a savings goal
func (s *Service) SaveGoal(ctx context.Context, userID string, g models.SavingsGoal) (*models.SavingsGoal, error) {
	if err := validateGoal(&g); err != nil {
		return nil, err
	}
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = s.clock.Now().UTC()
	}
	if err := s.repo.SaveGoal(ctx, userID, &g); err != nil {
		return nil, fmt.Errorf("failed to save goal: %w", err)
	}
	s.log.Infof("Goal %s saved for user %s", g.ID, userID)
	return &g, nil
}

// DeleteGoal removes a savings goal
func (s *Service) DeleteGoal(ctx context.Context, userID, id string) error {
	if err := s.repo.DeleteGoal(ctx, userID, id); err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	s.log.Infof("Goal %s deleted for user %s", id, userID)
	return nil
}

// Deposit adds money to a savings goal
func (s *Service) Deposit(ctx context.Context, userID, goalID string, amount decimal.Decimal) (*models.SavingsGoal, error) {
	if err := validAmount("deposit", amount); err != nil {
		return nil, err
	}
	state, err := s.loadState(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, g := range state.SavingsGoals {
		if g.ID != goalID {
			continue
		}
		g.CurrentAmount = g.CurrentAmount.Add(amount)
		if err := s.repo.SaveGoal(ctx, userID, &g); err != nil {
			return nil, fmt.Errorf("failed to deposit: %w", err)
		}
		s.log.Infof("Deposited %s into goal %s for user %s", amount, goalID, userID)
		return &g, nil
	}
	return nil, fmt.Errorf("goal %s: %w", goalID, ErrNotFound)
}

// SetBudget stores the monthly spending target; zero clears it
func (s *Service) SetBudget(ctx context.Context, userID string, budget decimal.Decimal) error {
	if budget.IsNegative() {
		return invalid("budget cannot be negative")
	}
	if err := s.repo.SetBudget(ctx, userID, budget); err != nil {
		return fmt.Errorf("failed to set budget: %w", err)
	}
	s.log.Infof("Budget set to %s for user %s", budget, userID)
	return nil
}

// DeleteData wipes the ledger, budget and profile of the user
func (s *Service) DeleteData(ctx context.Context, userID string) error {
	if err := s.repo.DeleteUserData(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete data: %w", err)
	}
	s.log.Infof("All data deleted for user %s", userID)
	return nil
}
