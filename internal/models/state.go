package models

import "github.com/shopspring/decimal"

// AppState is the full aggregate owned by one user.
type AppState struct {
	Transactions     []Transaction     `json:"transactions"`
	Bills            []Bill            `json:"bills"`
	MonthlyBudget    decimal.Decimal   `json:"monthlyBudget"`
	RecurringIncomes []RecurringIncome `json:"recurringIncomes"`
	SavingsGoals     []SavingsGoal     `json:"savingsGoals"`
}

// ActiveIncomes returns the recurring incomes that take part in projections.
func (s AppState) ActiveIncomes() []RecurringIncome {
	var out []RecurringIncome
	for _, inc := range s.RecurringIncomes {
		if inc.Active {
			out = append(out, inc)
		}
	}
	return out
}

// TotalActiveIncome sums the monthly amount of active recurring incomes.
func (s AppState) TotalActiveIncome() decimal.Decimal {
	total := decimal.Zero
	for _, inc := range s.ActiveIncomes() {
		total = total.Add(inc.Amount)
	}
	return total
}
