package repository

import (
	"context"
	"fmt"
	"strings"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		telegram_chat {bigint} NOT NULL DEFAULT 0,
		created_at {timestamp} NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		amount {money} NOT NULL,
		date {date} NOT NULL,
		type TEXT NOT NULL,
		category TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS bills (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		amount {money} NOT NULL,
		due_date {date} NOT NULL,
		type TEXT NOT NULL,
		category TEXT NOT NULL,
		status TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS payments (
		id TEXT PRIMARY KEY,
		bill_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		amount {money} NOT NULL,
		date {date} NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		position {bigint} NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS recurring_incomes (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		amount {money} NOT NULL,
		pay_day INTEGER NOT NULL,
		frequency TEXT NOT NULL,
		active {bool} NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS savings_goals (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		target_amount {money} NOT NULL,
		current_amount {money} NOT NULL,
		deadline {date},
		created_at {timestamp} NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS settings (
		user_id TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		PRIMARY KEY (user_id, key)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_user ON transactions (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_bills_user ON bills (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_payments_bill ON payments (bill_id)`,
}

func (d Dialect) columnTypes() *strings.Replacer {
	if d == Postgres {
		return strings.NewReplacer(
			"{money}", "NUMERIC(14,2)",
			"{date}", "DATE",
			"{timestamp}", "TIMESTAMPTZ",
			"{bool}", "BOOLEAN",
			"{bigint}", "BIGINT",
		)
	}
	return strings.NewReplacer(
		"{money}", "TEXT",
		"{date}", "TEXT",
		"{timestamp}", "TEXT",
		"{bool}", "INTEGER",
		"{bigint}", "INTEGER",
	)
}

// Migrate creates the tables when they do not exist yet.
func (r *Repository) Migrate(ctx context.Context) error {
	types := r.dialect.columnTypes()
	for _, stmt := range schema {
		if _, err := r.db.ExecContext(ctx, types.Replace(stmt)); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
