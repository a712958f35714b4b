package finance

import (
	"math"

	"github.com/Dan9191/neuroledger/internal/models"
	"github.com/shopspring/decimal"
)

// ComputeHealthScore rates a month from 0 to 1000 using the income to spending
// ratio, budget adherence, bill timeliness and savings rate.
func ComputeHealthScore(snap models.MonthlySnapshot, budget decimal.Decimal) models.HealthScore {
	var h models.HealthScore

	if snap.IncomesTotal.IsPositive() {
		spending := decimal.Max(snap.ExpensesTotal.Add(snap.BillsToPay), decimal.NewFromInt(1))
		r := math.Min(ratio(snap.IncomesTotal, spending), 3)
		h.IncomeRatio = roundInt(r / 3 * 300)
	}

	if budget.IsPositive() {
		used := snap.BudgetUsagePercent
		switch {
		case used <= 70:
			h.Budget = 300
		case used <= 90:
			h.Budget = 220
		case used <= 100:
			h.Budget = 120
		default:
			h.Budget = max(0, roundInt(60-(used-100)))
		}
	} else {
		h.Budget = 150
	}

	overdue := len(snap.OverdueBills)
	open := overdue + len(snap.UpcomingBills)
	if open == 0 {
		h.Timeliness = 200
	} else {
		// Overdue bills weigh twice in the denominator.
		onTime := 1 - float64(overdue)/float64(open+overdue)
		h.Timeliness = roundInt(onTime * 200)
	}

	if snap.IncomesTotal.IsPositive() {
		saved := snap.IncomesTotal.Sub(snap.ExpensesTotal).Sub(snap.BillsPaidSoFar)
		rate := math.Max(ratio(saved, snap.IncomesTotal), 0)
		h.Savings = roundInt(math.Min(rate, 0.5) * 400)
	}

	h.Score = clampInt(h.IncomeRatio+h.Budget+h.Timeliness+h.Savings, 0, maxDisciplineScore)
	h.Label = HealthLabel(h.Score)
	return h
}

// HealthLabel names a health score band.
func HealthLabel(score int) string {
	switch {
	case score >= 850:
		return "Excellent"
	case score >= 650:
		return "Good"
	case score >= 450:
		return "Fair"
	case score >= 250:
		return "Attention"
	default:
		return "Critical"
	}
}
