package finance

import (
	"testing"

	"github.com/Dan9191/neuroledger/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var testFmt = DefaultFormatter()

func day(s string) models.Date { return models.MustParseDate(s) }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func month(s string) models.MonthKey { return models.MustParseMonthKey(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s %v", want, got.String(), msgAndArgs)
}

func payBill(id, title, amount, due string, cat models.Category, payments ...string) models.Bill {
	return newBill(id, title, amount, due, models.BillPay, cat, payments...)
}

func receiveBill(id, title, amount, due string, payments ...string) models.Bill {
	return newBill(id, title, amount, due, models.BillReceive, models.CategoryFreelance, payments...)
}

func newBill(id, title, amount, due string, typ models.BillType, cat models.Category, payments ...string) models.Bill {
	b := models.Bill{
		ID:       id,
		Title:    title,
		Amount:   dec(amount),
		DueDate:  day(due),
		Type:     typ,
		Category: cat,
		Status:   models.BillPending,
	}
	for i, p := range payments {
		AddPayment(&b, models.Payment{ID: id + "-p" + string(rune('a'+i)), Amount: dec(p), Date: day(due)})
	}
	return b
}

func expense(title, amount, date string, cat models.Category) models.Transaction {
	return models.Transaction{ID: title + date, Title: title, Amount: dec(amount), Date: day(date), Type: models.TransactionExpense, Category: cat}
}

func income(title, amount, date string) models.Transaction {
	return models.Transaction{ID: title + date, Title: title, Amount: dec(amount), Date: day(date), Type: models.TransactionIncome, Category: models.CategorySalary}
}

func salary(title, amount string, payDay int) models.RecurringIncome {
	return models.RecurringIncome{ID: title, Title: title, Amount: dec(amount), PayDay: payDay, Frequency: models.FrequencyMonthly, Active: true}
}
