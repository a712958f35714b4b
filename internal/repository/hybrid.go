package repository

import (
	"context"
	"errors"

	"github.com/Dan9191/neuroledger/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// HybridStore reads and writes the remote store and keeps a local cache.
// Reads fall back to the cache when the remote store fails; cache writes
// are best-effort.
type HybridStore struct {
	remote Store
	cache  Store
	log    *logrus.Logger
}

// NewHybridStore combines a remote store with a local cache
func NewHybridStore(remote, cache Store, log *logrus.Logger) *HybridStore {
	return &HybridStore{remote: remote, cache: cache, log: log}
}

// fallback reports whether a remote read error should be served from cache.
func fallback(err error) bool {
	return err != nil && !errors.Is(err, ErrNotFound) && !errors.Is(err, context.Canceled)
}

func (h *HybridStore) mirror(op string, fn func(Store) error) {
	if err := fn(h.cache); err != nil {
		h.log.Warnf("Cache %s failed: %v", op, err)
	}
}

func (h *HybridStore) write(op string, fn func(Store) error) error {
	if err := fn(h.remote); err != nil {
		return err
	}
	h.mirror(op, fn)
	return nil
}

func (h *HybridStore) CreateUser(ctx context.Context, user *models.User) error {
	return h.write("create user", func(s Store) error { return s.CreateUser(ctx, user) })
}

func (h *HybridStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := h.remote.FindUserByEmail(ctx, email)
	if fallback(err) {
		h.log.Warnf("Remote user lookup failed, using cache: %v", err)
		return h.cache.FindUserByEmail(ctx, email)
	}
	return user, err
}

func (h *HybridStore) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := h.remote.FindUserByID(ctx, id)
	if fallback(err) {
		h.log.Warnf("Remote user lookup failed, using cache: %v", err)
		return h.cache.FindUserByID(ctx, id)
	}
	return user, err
}

func (h *HybridStore) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := h.remote.ListUsers(ctx)
	if fallback(err) {
		h.log.Warnf("Remote user listing failed, using cache: %v", err)
		return h.cache.ListUsers(ctx)
	}
	return users, err
}

// LoadState prefers the remote ledger and refreshes the cache with it
func (h *HybridStore) LoadState(ctx context.Context, userID string) (*models.AppState, error) {
	state, err := h.remote.LoadState(ctx, userID)
	if err != nil {
		if !fallback(err) {
			return nil, err
		}
		h.log.Warnf("Remote load failed for user %s, serving cached state: %v", userID, err)
		cached, cacheErr := h.cache.LoadState(ctx, userID)
		if cacheErr != nil {
			h.log.Errorf("Cache load failed for user %s: %v", userID, cacheErr)
			return nil, err
		}
		return cached, nil
	}
	h.mirror("refresh", func(s Store) error { return s.ReplaceState(ctx, userID, state) })
	return state, nil
}

func (h *HybridStore) ReplaceState(ctx context.Context, userID string, state *models.AppState) error {
	return h.write("replace state", func(s Store) error { return s.ReplaceState(ctx, userID, state) })
}

func (h *HybridStore) DeleteUserData(ctx context.Context, userID string) error {
	return h.write("delete data", func(s Store) error { return s.DeleteUserData(ctx, userID) })
}

func (h *HybridStore) SaveTransaction(ctx context.Context, userID string, t *models.Transaction) error {
	return h.write("save transaction", func(s Store) error { return s.SaveTransaction(ctx, userID, t) })
}

func (h *HybridStore) DeleteTransaction(ctx context.Context, userID, id string) error {
	return h.write("delete transaction", func(s Store) error { return s.DeleteTransaction(ctx, userID, id) })
}

func (h *HybridStore) SaveBill(ctx context.Context, userID string, b *models.Bill) error {
	return h.write("save bill", func(s Store) error { return s.SaveBill(ctx, userID, b) })
}

func (h *HybridStore) DeleteBill(ctx context.Context, userID, id string) error {
	return h.write("delete bill", func(s Store) error { return s.DeleteBill(ctx, userID, id) })
}

func (h *HybridStore) AddPayment(ctx context.Context, userID, billID string, p *models.Payment, status models.BillStatus) error {
	return h.write("add payment", func(s Store) error { return s.AddPayment(ctx, userID, billID, p, status) })
}

func (h *HybridStore) SaveIncome(ctx context.Context, userID string, inc *models.RecurringIncome) error {
	return h.write("save income", func(s Store) error { return s.SaveIncome(ctx, userID, inc) })
}

func (h *HybridStore) DeleteIncome(ctx context.Context, userID, id string) error {
	return h.write("delete income", func(s Store) error { return s.DeleteIncome(ctx, userID, id) })
}

func (h *HybridStore) SaveGoal(ctx context.Context, userID string, g *models.SavingsGoal) error {
	return h.write("save goal", func(s Store) error { return s.SaveGoal(ctx, userID, g) })
}

func (h *HybridStore) DeleteGoal(ctx context.Context, userID, id string) error {
	return h.write("delete goal", func(s Store) error { return s.DeleteGoal(ctx, userID, id) })
}

func (h *HybridStore) SetBudget(ctx context.Context, userID string, budget decimal.Decimal) error {
	return h.write("set budget", func(s Store) error { return s.SetBudget(ctx, userID, budget) })
}

func (h *HybridStore) LoadProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	p, err := h.remote.LoadProfile(ctx, userID)
	if fallback(err) {
		h.log.Warnf("Remote profile load failed, using cache: %v", err)
		return h.cache.LoadProfile(ctx, userID)
	}
	return p, err
}

func (h *HybridStore) SaveProfile(ctx context.Context, userID string, p *models.UserProfile) error {
	return h.write("save profile", func(s Store) error { return s.SaveProfile(ctx, userID, p) })
}
