package finance

import (
	"fmt"

	"github.com/Dan9191/neuroledger/internal/models"
	"github.com/shopspring/decimal"
)

// CashFlow lays out one entry per day of month with the money coming in and
// going out: active recurring incomes on their pay day, the month's
// transactions and the remaining amount of unpaid bills.
func CashFlow(state models.AppState, month models.MonthKey, f *Formatter) []models.DayFlow {
	days := month.Days()
	flows := make([]models.DayFlow, days)
	for i := range flows {
		flows[i] = models.DayFlow{Date: month.Day(i + 1), Inflow: decimal.Zero, Outflow: decimal.Zero}
	}
	in := func(day int, title string, amount decimal.Decimal) {
		fl := &flows[day-1]
		fl.Inflow = fl.Inflow.Add(amount)
		fl.Labels = append(fl.Labels, fmt.Sprintf("%s: +%s", title, f.Money(amount)))
	}
	out := func(day int, title string, amount decimal.Decimal) {
		fl := &flows[day-1]
		fl.Outflow = fl.Outflow.Add(amount)
		fl.Labels = append(fl.Labels, fmt.Sprintf("%s: -%s", title, f.Money(amount)))
	}

	for _, inc := range state.ActiveIncomes() {
		in(month.Day(inc.PayDay).Day(), inc.Title, inc.Amount)
	}
	for _, t := range MonthTransactions(state.Transactions, month) {
		if t.Type == models.TransactionIncome {
			in(t.Date.Day(), t.Title, t.Amount)
		} else {
			out(t.Date.Day(), t.Title, t.Amount)
		}
	}
	for _, b := range MonthBills(state.Bills, month) {
		if b.Status == models.BillPaid {
			continue
		}
		if b.Type == models.BillPay {
			out(b.DueDate.Day(), b.Title, Remaining(b))
		} else {
			in(b.DueDate.Day(), b.Title, Remaining(b))
		}
	}

	running := decimal.Zero
	for i := range flows {
		running = running.Add(flows[i].Inflow).Sub(flows[i].Outflow)
		flows[i].Balance = running
	}
	return flows
}
