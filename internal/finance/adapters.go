package finance

import (
	"fmt"

	"github.com/Dan9191/neuroledger/internal/models"
	"github.com/shopspring/decimal"
)

// SandboxEntry is a hypothetical income or expense used for what-if planning.
type SandboxEntry struct {
	ID     string                 `json:"id,omitempty"`
	Type   models.TransactionType `json:"type"`
	Title  string                 `json:"title"`
	Amount decimal.Decimal        `json:"amount"`
	Date   models.Date            `json:"date"`
}

// SandboxPlan plans hypothetical entries: incomes become income events and
// expenses become obligations due on their date.
func SandboxPlan(entries []SandboxEntry, today models.Date, f *Formatter) Plan {
	var incomes []IncomeEvent
	var obligations []Obligation
	for i, e := range entries {
		switch e.Type {
		case models.TransactionIncome:
			incomes = append(incomes, IncomeEvent{Date: e.Date, Title: e.Title, Amount: e.Amount})
		case models.TransactionExpense:
			id := e.ID
			if id == "" {
				id = fmt.Sprintf("entry-%d", i+1)
			}
			obligations = append(obligations, Obligation{ID: id, Title: e.Title, DueDate: e.Date, Remaining: e.Amount})
		}
	}
	return Allocate(incomes, obligations, today, f)
}

// MonthIncomeEvents returns the income expected in month: each active
// recurring income on its pay day plus the open remainder of receivable bills.
func MonthIncomeEvents(state models.AppState, month models.MonthKey) []IncomeEvent {
	var events []IncomeEvent
	for _, inc := range state.ActiveIncomes() {
		events = append(events, IncomeEvent{Date: month.Day(inc.PayDay), Title: inc.Title, Amount: inc.Amount})
	}
	for _, b := range MonthBills(state.Bills, month) {
		if b.Type == models.BillReceive && b.Status != models.BillPaid {
			events = append(events, IncomeEvent{Date: b.DueDate, Title: b.Title, Amount: Remaining(b)})
		}
	}
	return events
}

// MonthObligations returns the open remainder of every payable bill due in month.
func MonthObligations(state models.AppState, month models.MonthKey) []Obligation {
	var out []Obligation
	for _, b := range MonthBills(state.Bills, month) {
		if b.Type == models.BillPay && b.Status != models.BillPaid {
			out = append(out, Obligation{ID: b.ID, Title: b.Title, DueDate: b.DueDate, Remaining: Remaining(b)})
		}
	}
	return out
}

// BillsPlan plans the real bills of month against the expected income.
func BillsPlan(state models.AppState, month models.MonthKey, today models.Date, f *Formatter) Plan {
	return Allocate(MonthIncomeEvents(state, month), MonthObligations(state, month), today, f)
}
