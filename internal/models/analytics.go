package models

import "github.com/shopspring/decimal"

// MonthProjection classifies the projected month-end balance.
type MonthProjection string

const (
	ProjectionSafe    MonthProjection = "safe"
	ProjectionCaution MonthProjection = "caution"
	ProjectionRisk    MonthProjection = "risk"
)

// FinancialIndices represents the composite scores computed for one month
type FinancialIndices struct {
	DisciplineScore     int             `json:"disciplineScore"`
	DisciplineLevel     string          `json:"disciplineLevel"`
	DisciplineLevelNum  int             `json:"disciplineLevelNum"`
	ImpulsivityIndex    int             `json:"impulsivityIndex"`
	RiskIndex           int             `json:"riskIndex"`
	MonthProjection     MonthProjection `json:"monthProjection"`
	ProjectedEndBalance decimal.Decimal `json:"projectedEndBalance"`
	SavingsRate         float64         `json:"savingsRate"` // percent, >= 0
}

// HealthScore represents the 0..1000 financial health score with its parts
type HealthScore struct {
	Score       int    `json:"score"`
	Label       string `json:"label"`
	IncomeRatio int    `json:"incomeRatio"`
	Budget      int    `json:"budget"`
	Timeliness  int    `json:"timeliness"`
	Savings     int    `json:"savings"`
}

// DayFlow represents inflow, outflow and running balance for one day
type DayFlow struct {
	Date    Date            `json:"date"`
	Inflow  decimal.Decimal `json:"inflow"`
	Outflow decimal.Decimal `json:"outflow"`
	Balance decimal.Decimal `json:"balance"`
	Labels  []string        `json:"labels,omitempty"`
}

// ReminderKind tells overdue reminders apart from upcoming ones.
type ReminderKind string

const (
	ReminderOverdue  ReminderKind = "overdue"
	ReminderUpcoming ReminderKind = "upcoming"
)

// Reminder represents a bill that needs the user's attention
type Reminder struct {
	Kind      ReminderKind    `json:"kind"`
	BillID    string          `json:"billId"`
	Title     string          `json:"title"`
	DueDate   Date            `json:"dueDate"`
	Remaining decimal.Decimal `json:"remaining"`
	// Days is days late for overdue bills and days left for upcoming ones.
	Days int `json:"days"`
}
