package service

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Dan9191/neuroledger/internal/config"
	"github.com/Dan9191/neuroledger/internal/integrations/llm"
	"github.com/Dan9191/neuroledger/internal/models"
	"github.com/Dan9191/neuroledger/internal/notify"
	"github.com/Dan9191/neuroledger/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"go.uber.org/mock/gomock"
)

// testNow is mid October 2026, a Thursday.
var testNow = time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)

type movableClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *movableClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *movableClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func testConfig() *config.Config {
	return &config.Config{JWTSecret: "test-secret", Locale: "pt-BR", Currency: "BRL"}
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestService(t *testing.T, opts ...Option) (*Service, *repository.MockStore, *movableClock) {
	t.Helper()
	ctrl := gomock.NewController(t)
	store := repository.NewMockStore(ctrl)
	clk := &movableClock{now: testNow}
	opts = append([]Option{WithClock(clk)}, opts...)
	return NewService(store, quietLogger(), testConfig(), opts...), store, clk
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(s string) models.Date { return models.MustParseDate(s) }

// octoberState has a salary on the 5th, an overdue rent, a bill due tomorrow
// and a few expenses.
func octoberState() *models.AppState {
	return &models.AppState{
		Transactions: []models.Transaction{
			{ID: "t1", Title: "Market", Amount: dec("400"), Date: day("2026-10-03"), Type: models.TransactionExpense, Category: models.CategoryFood},
			{ID: "t2", Title: "Salary", Amount: dec("5000"), Date: day("2026-10-05"), Type: models.TransactionIncome, Category: models.CategorySalary},
		},
		Bills: []models.Bill{
			{ID: "rent", Title: "Rent", Amount: dec("1500"), DueDate: day("2026-10-10"), Type: models.BillPay, Category: models.CategoryHousing, Status: models.BillPending, Payments: []models.Payment{}},
			{ID: "power", Title: "Power", Amount: dec("200"), DueDate: day("2026-10-16"), Type: models.BillPay, Category: models.CategoryServices, Status: models.BillPending,
				Payments: []models.Payment{{ID: "p1", Amount: dec("50"), Date: day("2026-10-01")}}},
		},
		MonthlyBudget: dec("3000"),
		RecurringIncomes: []models.RecurringIncome{
			{ID: "i1", Title: "Salary", Amount: dec("5000"), PayDay: 5, Frequency: models.FrequencyMonthly, Active: true},
		},
		SavingsGoals: []models.SavingsGoal{
			{ID: "g1", Title: "Trip", TargetAmount: dec("3000"), CurrentAmount: dec("900"), CreatedAt: testNow.AddDate(0, -1, 0)},
		},
	}
}

type fakeKeyRate struct {
	rate float64
	err  error
}

func (f fakeKeyRate) GetKeyRate(context.Context) (float64, error) { return f.rate, f.err }

type fakeStreamer struct {
	requests []llm.Request
	err      error
}

func (f *fakeStreamer) Stream(_ context.Context, req llm.Request) (io.ReadCloser, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return io.NopCloser(strings.NewReader("data: [DONE]\n\n")), nil
}

type fakeNotifier struct {
	name string
	err  error
	sent []string
}

func (f *fakeNotifier) Name() string { return f.name }

func (f *fakeNotifier) Notify(_ context.Context, user models.User, d notify.Digest) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, user.ID+": "+d.Subject)
	return nil
}
