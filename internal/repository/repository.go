package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Dan9191/neuroledger/internal/finance"
	"github.com/Dan9191/neuroledger/internal/models"
	"github.com/shopspring/decimal"
)

const (
	settingBudget  = "monthly_budget"
	settingProfile = "profile"
)

// Repository provides database operations over Postgres or SQLite
type Repository struct {
	db      *sql.DB
	dialect Dialect
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB, dialect Dialect) *Repository {
	return &Repository{db: db, dialect: dialect}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *Repository) exec(ctx context.Context, ex execer, query string, args ...any) (sql.Result, error) {
	return ex.ExecContext(ctx, r.dialect.rebind(query), args...)
}

func (r *Repository) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return r.db.QueryContext(ctx, r.dialect.rebind(query), args...)
}

func (r *Repository) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return r.db.QueryRowContext(ctx, r.dialect.rebind(query), args...)
}

// inTx runs fn inside a transaction, rolling back when it fails.
func (r *Repository) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func affectedOne(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}

// CreateUser creates a new user in the database
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	_, err := r.exec(ctx, r.db, `
		INSERT INTO users (id, username, email, password_hash, telegram_chat, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID, user.Username, user.Email, user.PasswordHash, user.TelegramChat, timestamp{&user.CreatedAt})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *Repository) findUser(ctx context.Context, column, value string) (*models.User, error) {
	user := &models.User{}
	err := r.queryRow(ctx, `
		SELECT id, username, email, password_hash, telegram_chat, created_at
		FROM users
		WHERE `+column+` = ?`, value).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.TelegramChat, timestamp{&user.CreatedAt})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// FindUserByEmail retrieves a user by email
func (r *Repository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findUser(ctx, "email", email)
}

// FindUserByID retrieves a user by id
func (r *Repository) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	return r.findUser(ctx, "id", id)
}

// ListUsers returns every registered user
func (r *Repository) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := r.query(ctx, `SELECT id, username, email, telegram_chat, created_at FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.TelegramChat, timestamp{&u.CreatedAt}); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// LoadState reads the whole ledger of a user. Bill statuses are re-derived
// from the payments and stale stored values are corrected.
func (r *Repository) LoadState(ctx context.Context, userID string) (*models.AppState, error) {
	state := &models.AppState{
		Transactions:     []models.Transaction{},
		Bills:            []models.Bill{},
		MonthlyBudget:    decimal.Zero,
		RecurringIncomes: []models.RecurringIncome{},
		SavingsGoals:     []models.SavingsGoal{},
	}
	var err error
	if state.Transactions, err = r.loadTransactions(ctx, userID); err != nil {
		return nil, err
	}
	if state.Bills, err = r.loadBills(ctx, userID); err != nil {
		return nil, err
	}
	if state.RecurringIncomes, err = r.loadIncomes(ctx, userID); err != nil {
		return nil, err
	}
	if state.SavingsGoals, err = r.loadGoals(ctx, userID); err != nil {
		return nil, err
	}
	if state.MonthlyBudget, err = r.loadBudget(ctx, userID); err != nil {
		return nil, err
	}

	stored := make(map[string]models.BillStatus, len(state.Bills))
	for _, b := range state.Bills {
		stored[b.ID] = b.Status
	}
	if finance.RepairState(state) > 0 {
		for _, b := range state.Bills {
			if stored[b.ID] == b.Status {
				continue
			}
			if _, err := r.exec(ctx, r.db, `UPDATE bills SET status = ? WHERE id = ? AND user_id = ?`, string(b.Status), b.ID, userID); err != nil {
				return nil, fmt.Errorf("failed to repair bill status: %w", err)
			}
		}
	}
	return state, nil
}

func (r *Repository) loadTransactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	rows, err := r.query(ctx, `
		SELECT id, title, amount, date, type, category, notes
		FROM transactions
		WHERE user_id = ?
		ORDER BY date, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	defer rows.Close()

	out := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.Title, &t.Amount, &t.Date, &t.Type, &t.Category, &t.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *Repository) loadBills(ctx context.Context, userID string) ([]models.Bill, error) {
	rows, err := r.query(ctx, `
		SELECT id, title, amount, due_date, type, category, status
		FROM bills
		WHERE user_id = ?
		ORDER BY due_date, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bills: %w", err)
	}
	defer rows.Close()

	bills := []models.Bill{}
	index := map[string]int{}
	for rows.Next() {
		b := models.Bill{Payments: []models.Payment{}}
		if err := rows.Scan(&b.ID, &b.Title, &b.Amount, &b.DueDate, &b.Type, &b.Category, &b.Status); err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		index[b.ID] = len(bills)
		bills = append(bills, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load bills: %w", err)
	}

	prows, err := r.query(ctx, `
		SELECT id, bill_id, amount, date, notes
		FROM payments
		WHERE user_id = ?
		ORDER BY bill_id, position, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}
	defer prows.Close()

	for prows.Next() {
		var p models.Payment
		var billID string
		if err := prows.Scan(&p.ID, &billID, &p.Amount, &p.Date, &p.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		if i, ok := index[billID]; ok {
			bills[i].Payments = append(bills[i].Payments, p)
		}
	}
	return bills, prows.Err()
}

func (r *Repository) loadIncomes(ctx context.Context, userID string) ([]models.RecurringIncome, error) {
	rows, err := r.query(ctx, `
		SELECT id, title, amount, pay_day, frequency, active
		FROM recurring_incomes
		WHERE user_id = ?
		ORDER BY pay_day, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load incomes: %w", err)
	}
	defer rows.Close()

	out := []models.RecurringIncome{}
	for rows.Next() {
		var inc models.RecurringIncome
		if err := rows.Scan(&inc.ID, &inc.Title, &inc.Amount, &inc.PayDay, &inc.Frequency, &inc.Active); err != nil {
			return nil, fmt.Errorf("failed to scan income: %w", err)
		}
		out = append(out, inc)
	}
	return out, rows.Err()
}

func (r *Repository) loadGoals(ctx context.Context, userID string) ([]models.SavingsGoal, error) {
	rows, err := r.query(ctx, `
		SELECT id, title, target_amount, current_amount, deadline, created_at
		FROM savings_goals
		WHERE user_id = ?
		ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load goals: %w", err)
	}
	defer rows.Close()

	out := []models.SavingsGoal{}
	for rows.Next() {
		var g models.SavingsGoal
		var deadline models.Date
		if err := rows.Scan(&g.ID, &g.Title, &g.TargetAmount, &g.CurrentAmount, &deadline, timestamp{&g.CreatedAt}); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		if !deadline.IsZero() {
			g.Deadline = &deadline
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *Repository) loadSetting(ctx context.Context, userID, key string) (string, bool, error) {
	var value string
	err := r.queryRow(ctx, `SELECT value FROM settings WHERE user_id = ? AND key = ?`, userID, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to load setting %s: %w", key, err)
	}
	return value, true, nil
}

func (r *Repository) saveSetting(ctx context.Context, ex execer, userID, key, value string) error {
	_, err := r.exec(ctx, ex, `
		INSERT INTO settings (user_id, key, value) VALUES (?, ?, ?)
		ON CONFLICT (user_id, key) DO UPDATE SET value = excluded.value`,
		userID, key, value)
	if err != nil {
		return fmt.Errorf("failed to save setting %s: %w", key, err)
	}
	return nil
}

func (r *Repository) loadBudget(ctx context.Context, userID string) (decimal.Decimal, error) {
	value, ok, err := r.loadSetting(ctx, userID, settingBudget)
	if err != nil || !ok {
		return decimal.Zero, err
	}
	budget, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid stored budget %q: %w", value, err)
	}
	return budget, nil
}

// SetBudget stores the monthly budget
func (r *Repository) SetBudget(ctx context.Context, userID string, budget decimal.Decimal) error {
	return r.saveSetting(ctx, r.db, userID, settingBudget, budget.String())
}

// LoadProfile returns ErrNotFound when the user has not completed onboarding
func (r *Repository) LoadProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	value, ok, err := r.loadSetting(ctx, userID, settingProfile)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("profile: %w", ErrNotFound)
	}
	var p models.UserProfile
	if err := json.Unmarshal([]byte(value), &p); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	return &p, nil
}

// SaveProfile stores the profile as a JSON document
func (r *Repository) SaveProfile(ctx context.Context, userID string, p *models.UserProfile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	return r.saveSetting(ctx, r.db, userID, settingProfile, string(data))
}

func (r *Repository) insertTransaction(ctx context.Context, ex execer, userID string, t *models.Transaction) error {
	_, err := r.exec(ctx, ex, `
		INSERT INTO transactions (id, user_id, title, amount, date, type, category, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, userID, t.Title, t.Amount, t.Date, string(t.Type), string(t.Category), t.Notes)
	if err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}
	return nil
}

// SaveTransaction inserts a transaction. Transactions are never updated in
// place, so a reused id fails.
func (r *Repository) SaveTransaction(ctx context.Context, userID string, t *models.Transaction) error {
	return r.insertTransaction(ctx, r.db, userID, t)
}

// DeleteTransaction removes a transaction of the user
func (r *Repository) DeleteTransaction(ctx context.Context, userID, id string) error {
	res, err := r.exec(ctx, r.db, `DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return affectedOne(res, "transaction")
}

func (r *Repository) insertBill(ctx context.Context, ex execer, userID string, b *models.Bill) error {
	res, err := r.exec(ctx, ex, `
		INSERT INTO bills (id, user_id, title, amount, due_date, type, category, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET title = excluded.title, amount = excluded.amount, due_date = excluded.due_date,
			type = excluded.type, category = excluded.category, status = excluded.status
		WHERE bills.user_id = excluded.user_id`,
		b.ID, userID, b.Title, b.Amount, b.DueDate, string(b.Type), string(b.Category), string(finance.DeriveStatus(*b)))
	if err != nil {
		return fmt.Errorf("failed to save bill: %w", err)
	}
	return affectedOne(res, "bill")
}

func (r *Repository) insertPayment(ctx context.Context, ex execer, userID, billID string, p *models.Payment, position int) error {
	_, err := r.exec(ctx, ex, `
		INSERT INTO payments (id, bill_id, user_id, amount, date, notes, position)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, billID, userID, p.Amount, p.Date, p.Notes, position)
	if err != nil {
		return fmt.Errorf("failed to save payment: %w", err)
	}
	return nil
}

// SaveBill inserts or replaces a bill together with any payments it carries
func (r *Repository) SaveBill(ctx context.Context, userID string, b *models.Bill) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if err := r.insertBill(ctx, tx, userID, b); err != nil {
			return err
		}
		if _, err := r.exec(ctx, tx, `DELETE FROM payments WHERE bill_id = ? AND user_id = ?`, b.ID, userID); err != nil {
			return fmt.Errorf("failed to reset payments: %w", err)
		}
		for i := range b.Payments {
			if err := r.insertPayment(ctx, tx, userID, b.ID, &b.Payments[i], i); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteBill removes a bill and its payments
func (r *Repository) DeleteBill(ctx context.Context, userID, id string) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := r.exec(ctx, tx, `DELETE FROM payments WHERE bill_id = ? AND user_id = ?`, id, userID); err != nil {
			return fmt.Errorf("failed to delete payments: %w", err)
		}
		res, err := r.exec(ctx, tx, `DELETE FROM bills WHERE id = ? AND user_id = ?`, id, userID)
		if err != nil {
			return fmt.Errorf("failed to delete bill: %w", err)
		}
		return affectedOne(res, "bill")
	})
}

// AddPayment appends a payment and stores the bill status derived after it
func (r *Repository) AddPayment(ctx context.Context, userID, billID string, p *models.Payment, status models.BillStatus) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		res, err := r.exec(ctx, tx, `UPDATE bills SET status = ? WHERE id = ? AND user_id = ?`, string(status), billID, userID)
		if err != nil {
			return fmt.Errorf("failed to update bill status: %w", err)
		}
		if err := affectedOne(res, "bill"); err != nil {
			return err
		}
		var position int
		if err := tx.QueryRowContext(ctx, r.dialect.rebind(`SELECT COUNT(*) FROM payments WHERE bill_id = ?`), billID).Scan(&position); err != nil {
			return fmt.Errorf("failed to count payments: %w", err)
		}
		return r.insertPayment(ctx, tx, userID, billID, p, position)
	})
}

func (r *Repository) insertIncome(ctx context.Context, ex execer, userID string, inc *models.RecurringIncome) error {
	res, err := r.exec(ctx, ex, `
		INSERT INTO recurring_incomes (id, user_id, title, amount, pay_day, frequency, active)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET title = excluded.title, amount = excluded.amount, pay_day = excluded.pay_day,
			frequency = excluded.frequency, active = excluded.active
		WHERE recurring_incomes.user_id = excluded.user_id`,
		inc.ID, userID, inc.Title, inc.Amount, inc.PayDay, string(inc.Frequency), inc.Active)
	if err != nil {
		return fmt.Errorf("failed to save income: %w", err)
	}
	return affectedOne(res, "income")
}

// SaveIncome inserts or replaces a recurring income
func (r *Repository) SaveIncome(ctx context.Context, userID string, inc *models.RecurringIncome) error {
	return r.insertIncome(ctx, r.db, userID, inc)
}

// DeleteIncome removes a recurring income
func (r *Repository) DeleteIncome(ctx context.Context, userID, id string) error {
	res, err := r.exec(ctx, r.db, `DELETE FROM recurring_incomes WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete income: %w", err)
	}
	return affectedOne(res, "income")
}

func (r *Repository) insertGoal(ctx context.Context, ex execer, userID string, g *models.SavingsGoal) error {
	res, err := r.exec(ctx, ex, `
		INSERT INTO savings_goals (id, user_id, title, target_amount, current_amount, deadline, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET title = excluded.title, target_amount = excluded.target_amount,
			current_amount = excluded.current_amount, deadline = excluded.deadline
		WHERE savings_goals.user_id = excluded.user_id`,
		g.ID, userID, g.Title, g.TargetAmount, g.CurrentAmount, g.Deadline, timestamp{&g.CreatedAt})
	if err != nil {
		return fmt.Errorf("failed to save goal: %w", err)
	}
	return affectedOne(res, "goal")
}

// SaveGoal inserts or replaces a savings goal
func (r *Repository) SaveGoal(ctx context.Context, userID string, g *models.SavingsGoal) error {
	return r.insertGoal(ctx, r.db, userID, g)
}

// DeleteGoal removes a savings goal
func (r *Repository) DeleteGoal(ctx context.Context, userID, id string) error {
	res, err := r.exec(ctx, r.db, `DELETE FROM savings_goals WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	return affectedOne(res, "goal")
}

var ledgerTables = []string{"transactions", "payments", "bills", "recurring_incomes", "savings_goals"}

func (r *Repository) clearLedger(ctx context.Context, tx *sql.Tx, userID string) error {
	for _, table := range ledgerTables {
		if _, err := r.exec(ctx, tx, `DELETE FROM `+table+` WHERE user_id = ?`, userID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

// DeleteUserData removes the ledger and settings of a user; the account stays
func (r *Repository) DeleteUserData(ctx context.Context, userID string) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if err := r.clearLedger(ctx, tx, userID); err != nil {
			return err
		}
		if _, err := r.exec(ctx, tx, `DELETE FROM settings WHERE user_id = ?`, userID); err != nil {
			return fmt.Errorf("failed to clear settings: %w", err)
		}
		return nil
	})
}

// ReplaceState overwrites the stored ledger of a user with state
func (r *Repository) ReplaceState(ctx context.Context, userID string, state *models.AppState) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if err := r.clearLedger(ctx, tx, userID); err != nil {
			return err
		}
		for i := range state.Transactions {
			if err := r.insertTransaction(ctx, tx, userID, &state.Transactions[i]); err != nil {
				return err
			}
		}
		for i := range state.Bills {
			b := &state.Bills[i]
			if err := r.insertBill(ctx, tx, userID, b); err != nil {
				return err
			}
			for j := range b.Payments {
				if err := r.insertPayment(ctx, tx, userID, b.ID, &b.Payments[j], j); err != nil {
					return err
				}
			}
		}
		for i := range state.RecurringIncomes {
			if err := r.insertIncome(ctx, tx, userID, &state.RecurringIncomes[i]); err != nil {
				return err
			}
		}
		for i := range state.SavingsGoals {
			if err := r.insertGoal(ctx, tx, userID, &state.SavingsGoals[i]); err != nil {
				return err
			}
		}
		return r.saveSetting(ctx, tx, userID, settingBudget, state.MonthlyBudget.String())
	})
}
