package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SavingsGoal represents a target amount the user is saving towards
type SavingsGoal struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	Deadline      *Date           `json:"deadline,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}
