package models

import "github.com/shopspring/decimal"

// IncomeFrequency is informational; projections place one event per month.
type IncomeFrequency string

const (
	FrequencyMonthly  IncomeFrequency = "monthly"
	FrequencyBiweekly IncomeFrequency = "biweekly"
	FrequencyWeekly   IncomeFrequency = "weekly"
)

// Valid reports whether f is a known frequency.
func (f IncomeFrequency) Valid() bool {
	switch f {
	case FrequencyMonthly, FrequencyBiweekly, FrequencyWeekly:
		return true
	}
	return false
}

// RecurringIncome represents a salary or other periodic income source.
// Amount is the monthly total.
type RecurringIncome struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Amount    decimal.Decimal `json:"amount"`
	PayDay    int             `json:"payDay"`
	Frequency IncomeFrequency `json:"frequency"`
	Active    bool            `json:"active"`
}
