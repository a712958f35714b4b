// Package report renders exports of a user's ledger.
package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/Dan9191/neuroledger/internal/finance"
	"github.com/Dan9191/neuroledger/internal/models"
)

func transactionTypeLabel(t models.TransactionType) string {
	if t == models.TransactionIncome {
		return "Income"
	}
	return "Expense"
}

func billTypeLabel(t models.BillType) string {
	if t == models.BillReceive {
		return "Receive"
	}
	return "Pay"
}

// WriteCSV exports transactions, bills with their paid totals and the budget
func WriteCSV(w io.Writer, state models.AppState, f *finance.Formatter) error {
	cw := csv.NewWriter(w)

	rows := [][]string{
		{"--- TRANSACTIONS ---"},
		{"Title", "Type", "Category", "Amount", "Date"},
	}
	for _, t := range state.Transactions {
		rows = append(rows, []string{t.Title, transactionTypeLabel(t.Type), t.Category.Label(), t.Amount.StringFixed(2), f.Date(t.Date)})
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write transactions: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}

	rows = [][]string{
		{"--- BILLS ---"},
		{"Title", "Type", "Category", "Total", "Due date", "Status", "Paid"},
	}
	for _, b := range state.Bills {
		rows = append(rows, []string{
			b.Title, billTypeLabel(b.Type), b.Category.Label(), b.Amount.StringFixed(2),
			f.Date(b.DueDate), string(finance.DeriveStatus(b)), finance.PaidTotal(b).StringFixed(2),
		})
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write bills: %w", err)
	}

	if _, err := fmt.Fprintf(w, "\nMonthly budget: %s\n", f.Money(state.MonthlyBudget)); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}
