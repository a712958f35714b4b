package finance

import (
	"sort"

	"github.com/Dan9191/neuroledger/internal/models"
	"github.com/shopspring/decimal"
)

// MonthTransactions returns the transactions dated within month.
func MonthTransactions(txs []models.Transaction, month models.MonthKey) []models.Transaction {
	var out []models.Transaction
	for _, t := range txs {
		if month.Contains(t.Date) {
			out = append(out, t)
		}
	}
	return out
}

// MonthBills returns the bills due within month with their status re-derived.
func MonthBills(bills []models.Bill, month models.MonthKey) []models.Bill {
	var out []models.Bill
	for _, b := range bills {
		if month.Contains(b.DueDate) {
			b.Status = DeriveStatus(b)
			out = append(out, b)
		}
	}
	return out
}

// BuildSnapshot aggregates one calendar month. Overdue and upcoming bills are
// split on today, whichever month is being viewed.
func BuildSnapshot(txs []models.Transaction, bills []models.Bill, month models.MonthKey, budget decimal.Decimal, today models.Date) models.MonthlySnapshot {
	monthTxs := MonthTransactions(txs, month)
	monthBills := MonthBills(bills, month)

	snap := models.MonthlySnapshot{
		MonthKey:          month,
		IncomesTotal:      decimal.Zero,
		ExpensesTotal:     decimal.Zero,
		BillsToReceive:    decimal.Zero,
		BillsToPay:        decimal.Zero,
		BillsPaidSoFar:    decimal.Zero,
		OverdueBills:      []models.Bill{},
		UpcomingBills:     []models.Bill{},
		CategoryBreakdown: []models.CategoryTotal{},
		MonthBills:        monthBills,
		MonthTransactions: monthTxs,
	}

	for _, t := range monthTxs {
		switch t.Type {
		case models.TransactionIncome:
			snap.IncomesTotal = snap.IncomesTotal.Add(t.Amount)
		case models.TransactionExpense:
			snap.ExpensesTotal = snap.ExpensesTotal.Add(t.Amount)
		}
	}

	for _, b := range monthBills {
		unpaid := b.Status != models.BillPaid
		switch b.Type {
		case models.BillReceive:
			if unpaid {
				snap.BillsToReceive = snap.BillsToReceive.Add(Remaining(b))
			}
		case models.BillPay:
			if unpaid {
				snap.BillsToPay = snap.BillsToPay.Add(Remaining(b))
			}
			snap.BillsPaidSoFar = snap.BillsPaidSoFar.Add(PaidTotal(b))
		}
		if !unpaid {
			continue
		}
		if b.DueDate.Before(today) {
			snap.OverdueBills = append(snap.OverdueBills, b)
		} else {
			snap.UpcomingBills = append(snap.UpcomingBills, b)
		}
	}
	sort.SliceStable(snap.UpcomingBills, func(i, j int) bool {
		return snap.UpcomingBills[i].DueDate.Before(snap.UpcomingBills[j].DueDate)
	})

	snap.ProjectedBalance = snap.IncomesTotal.
		Sub(snap.ExpensesTotal).
		Add(snap.BillsToReceive).
		Sub(snap.BillsToPay)

	if budget.IsPositive() {
		spent := snap.ExpensesTotal.Add(snap.BillsPaidSoFar)
		snap.BudgetUsagePercent = spent.Div(budget).Mul(hundred).InexactFloat64()
	}

	snap.CategoryBreakdown = categoryBreakdown(monthTxs, monthBills)
	snap.DailyBalanceSeries = dailyBalanceSeries(monthTxs, monthBills, month)
	return snap
}

// categoryBreakdown merges expense transactions with the full amount of
// pay-type bills, largest first. Ties keep first-seen order.
func categoryBreakdown(txs []models.Transaction, bills []models.Bill) []models.CategoryTotal {
	out := []models.CategoryTotal{}
	index := map[models.Category]int{}
	add := func(c models.Category, amount decimal.Decimal) {
		i, ok := index[c]
		if !ok {
			i = len(out)
			index[c] = i
			out = append(out, models.CategoryTotal{Category: c, Total: decimal.Zero})
		}
		out[i].Total = out[i].Total.Add(amount)
	}
	for _, t := range txs {
		if t.Type == models.TransactionExpense {
			add(t.Category, t.Amount)
		}
	}
	for _, b := range bills {
		if b.Type == models.BillPay {
			add(b.Category, b.Amount)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total.GreaterThan(out[j].Total)
	})
	return out
}

// dailyBalanceSeries buckets signed transactions and signed remaining amounts
// of unpaid bills by day, then accumulates them over every day of the month.
func dailyBalanceSeries(txs []models.Transaction, bills []models.Bill, month models.MonthKey) []decimal.Decimal {
	days := month.Days()
	buckets := make([]decimal.Decimal, days+1)
	for i := range buckets {
		buckets[i] = decimal.Zero
	}
	for _, t := range txs {
		buckets[t.Date.Day()] = buckets[t.Date.Day()].Add(t.Signed())
	}
	for _, b := range bills {
		if b.Status == models.BillPaid {
			continue
		}
		rem := Remaining(b)
		if b.Type == models.BillPay {
			rem = rem.Neg()
		}
		buckets[b.DueDate.Day()] = buckets[b.DueDate.Day()].Add(rem)
	}
	series := make([]decimal.Decimal, 0, days)
	running := decimal.Zero
	for d := 1; d <= days; d++ {
		running = running.Add(buckets[d])
		series = append(series, running)
	}
	return series
}
