package repository

import (
	"context"
	"errors"

	"github.com/Dan9191/neuroledger/internal/models"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=store.go -destination=mock_store.go -package=repository

// ErrNotFound is returned when the requested row does not exist.
var ErrNotFound = errors.New("not found")

// Store persists users and their ledgers
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)

	LoadState(ctx context.Context, userID string) (*models.AppState, error)
	ReplaceState(ctx context.Context, userID string, state *models.AppState) error
	DeleteUserData(ctx context.Context, userID string) error

	SaveTransaction(ctx context.Context, userID string, t *models.Transaction) error
	DeleteTransaction(ctx context.Context, userID, id string) error

	SaveBill(ctx context.Context, userID string, b *models.Bill) error
	DeleteBill(ctx context.Context, userID, id string) error
	AddPayment(ctx context.Context, userID, billID string, p *models.Payment, status models.BillStatus) error

	SaveIncome(ctx context.Context, userID string, inc *models.RecurringIncome) error
	DeleteIncome(ctx context.Context, userID, id string) error

	SaveGoal(ctx context.Context, userID string, g *models.SavingsGoal) error
	DeleteGoal(ctx context.Context, userID, id string) error

	SetBudget(ctx context.Context, userID string, budget decimal.Decimal) error

	LoadProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	SaveProfile(ctx context.Context, userID string, p *models.UserProfile) error
}
