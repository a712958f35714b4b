package models

import "github.com/shopspring/decimal"

// CategoryTotal is one row of a category breakdown.
type CategoryTotal struct {
	Category Category        `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// MonthlySnapshot is the derived view of one calendar month. It is never persisted.
type MonthlySnapshot struct {
	MonthKey           MonthKey          `json:"monthKey"`
	IncomesTotal       decimal.Decimal   `json:"incomesTotal"`
	ExpensesTotal      decimal.Decimal   `json:"expensesTotal"`
	BillsToReceive     decimal.Decimal   `json:"billsToReceive"`
	BillsToPay         decimal.Decimal   `json:"billsToPay"`
	BillsPaidSoFar     decimal.Decimal   `json:"billsPaidSoFar"`
	ProjectedBalance   decimal.Decimal   `json:"projectedBalance"`
	DailyBalanceSeries []decimal.Decimal `json:"dailyBalanceSeries"`
	OverdueBills       []Bill            `json:"overdueBills"`
	UpcomingBills      []Bill            `json:"upcomingBills"`
	BudgetUsagePercent float64           `json:"budgetUsagePercent"`
	CategoryBreakdown  []CategoryTotal   `json:"categoryBreakdown"`
	// MonthBills holds every bill due in the month, with re-derived status.
	MonthBills []Bill `json:"-"`
	// MonthTransactions holds every transaction dated in the month.
	MonthTransactions []Transaction `json:"-"`
}
