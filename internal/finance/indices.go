package finance

import (
	"math"

	"github.com/Dan9191/neuroledger/internal/models"
	"github.com/shopspring/decimal"
)

const maxDisciplineScore = 1000

type disciplineLevel struct {
	min   int
	label string
}

var disciplineLevels = []disciplineLevel{
	{0, "Survivor"},
	{201, "Organized"},
	{401, "Investor"},
	{601, "Strategist"},
	{801, "Elite"},
}

// LevelFor maps a discipline score to its level name and 1-based number.
func LevelFor(score int) (string, int) {
	label, num := disciplineLevels[0].label, 1
	for i, l := range disciplineLevels {
		if score >= l.min {
			label, num = l.label, i+1
		}
	}
	return label, num
}

// ComputeIndices derives the discipline, impulsivity and risk indices and the
// month-end projection for snap.MonthKey.
func ComputeIndices(state models.AppState, snap models.MonthlySnapshot, today models.Date) models.FinancialIndices {
	salary := state.TotalActiveIncome()
	incomeCount := len(state.ActiveIncomes())
	monthBills := MonthBills(state.Bills, snap.MonthKey)
	monthTxs := MonthTransactions(state.Transactions, snap.MonthKey)
	hasBudget := state.MonthlyBudget.IsPositive()

	score := budgetAdherencePoints(hasBudget, snap.BudgetUsagePercent) +
		timelinessPoints(monthBills, len(snap.OverdueBills)) +
		savingsPoints(salary, snap) +
		activityPoints(len(monthTxs), state.SavingsGoals, incomeCount)
	score = clampInt(score, 0, maxDisciplineScore)
	level, levelNum := LevelFor(score)

	impulsivity := ImpulsivityIndex(monthTxs)

	risk := 0
	if len(snap.OverdueBills) > 0 {
		risk += 30
	}
	if salary.IsPositive() && snap.ExpensesTotal.Add(snap.BillsToPay).GreaterThan(salary.Mul(decimal.RequireFromString("0.9"))) {
		risk += 25
	}
	if hasBudget && snap.BudgetUsagePercent > 90 {
		risk += 20
	}
	if len(state.SavingsGoals) == 0 && salary.IsPositive() {
		risk += 10
	}
	if incomeCount <= 1 && salary.IsPositive() {
		risk += 10
	}
	if impulsivity > 40 {
		risk += 5
	}
	risk = clampInt(risk, 0, 100)

	projection, endBalance := projectMonth(salary, snap, today)

	savingsRate := 0.0
	if salary.IsPositive() {
		savingsRate = math.Max(ratio(salary.Sub(snap.ExpensesTotal).Sub(snap.BillsToPay), salary)*100, 0)
	}

	return models.FinancialIndices{
		DisciplineScore:     score,
		DisciplineLevel:     level,
		DisciplineLevelNum:  levelNum,
		ImpulsivityIndex:    impulsivity,
		RiskIndex:           risk,
		MonthProjection:     projection,
		ProjectedEndBalance: endBalance,
		SavingsRate:         savingsRate,
	}
}

func budgetAdherencePoints(hasBudget bool, usage float64) int {
	if !hasBudget {
		return 80
	}
	switch {
	case usage <= 60:
		return 250
	case usage <= 80:
		return 200
	case usage <= 100:
		return 130
	default:
		return max(0, 50-roundInt(usage-100))
	}
}

func timelinessPoints(monthBills []models.Bill, overdue int) int {
	if len(monthBills) == 0 {
		return 125
	}
	paid := 0
	for _, b := range monthBills {
		if b.Status == models.BillPaid {
			paid++
		}
	}
	n := float64(len(monthBills))
	return roundInt(float64(paid)/n*200 + (1-float64(overdue)/n)*50)
}

func savingsPoints(salary decimal.Decimal, snap models.MonthlySnapshot) int {
	if !salary.IsPositive() {
		return 50
	}
	saved := decimal.Max(salary.Sub(snap.ExpensesTotal).Sub(snap.BillsToPay), decimal.Zero)
	return roundInt(math.Min(ratio(saved, salary), 0.4) * 625)
}

func activityPoints(txCount int, goals []models.SavingsGoal, incomeCount int) int {
	pts := 10
	switch {
	case txCount >= 15:
		pts = 80
	case txCount >= 8:
		pts = 60
	case txCount >= 3:
		pts = 30
	}

	progress := 0.0
	for _, g := range goals {
		target := decimal.Max(g.TargetAmount, decimal.NewFromInt(1))
		progress += math.Min(ratio(g.CurrentAmount, target), 1)
	}
	pts += min(roundInt(progress*60), 80)
	if len(goals) > 0 {
		pts += 30
	}

	switch {
	case incomeCount >= 2:
		pts += 60
	case incomeCount == 1:
		pts += 30
	}
	return min(pts, 250)
}

// ImpulsivityIndex is the share of expenses above twice the average expense, 0..100.
func ImpulsivityIndex(monthTxs []models.Transaction) int {
	var expenses []models.Transaction
	sum := decimal.Zero
	for _, t := range monthTxs {
		if t.Type == models.TransactionExpense {
			expenses = append(expenses, t)
			sum = sum.Add(t.Amount)
		}
	}
	if len(expenses) == 0 {
		return 0
	}
	large := len(ImpulsiveExpenses(expenses, sum))
	return min(roundInt(float64(large)/float64(len(expenses))*100), 100)
}

// ImpulsiveExpenses returns the expenses whose amount exceeds twice the
// average, given the expenses and their sum.
func ImpulsiveExpenses(expenses []models.Transaction, sum decimal.Decimal) []models.Transaction {
	if len(expenses) == 0 {
		return nil
	}
	// amount > 2*sum/n  <=>  amount*n > 2*sum
	n := decimal.NewFromInt(int64(len(expenses)))
	limit := sum.Mul(decimal.NewFromInt(2))
	var out []models.Transaction
	for _, t := range expenses {
		if t.Amount.Mul(n).GreaterThan(limit) {
			out = append(out, t)
		}
	}
	return out
}

// ElapsedDays returns how many days of month count as elapsed at today.
// Any month other than the current one counts as fully elapsed.
func ElapsedDays(month models.MonthKey, today models.Date) int {
	if today.MonthKey() == month {
		return today.Day()
	}
	return month.Days()
}

func projectMonth(salary decimal.Decimal, snap models.MonthlySnapshot, today models.Date) (models.MonthProjection, decimal.Decimal) {
	days := snap.MonthKey.Days()
	elapsed := ElapsedDays(snap.MonthKey, today)
	remaining := max(days-elapsed, 0)

	dailySpending := decimal.Zero
	if elapsed > 0 {
		dailySpending = snap.ExpensesTotal.Div(decimal.NewFromInt(int64(elapsed)))
	}
	projectedSpending := snap.ExpensesTotal.
		Add(dailySpending.Mul(decimal.NewFromInt(int64(remaining)))).
		Add(snap.BillsToPay)

	effectiveIncome := salary
	if !salary.IsPositive() {
		effectiveIncome = snap.IncomesTotal
	}
	endBalance := effectiveIncome.Sub(projectedSpending).Round(2)

	switch {
	case endBalance.IsNegative():
		return models.ProjectionRisk, endBalance
	case effectiveIncome.IsPositive() && endBalance.LessThan(effectiveIncome.Mul(decimal.RequireFromString("0.15"))):
		return models.ProjectionCaution, endBalance
	default:
		return models.ProjectionSafe, endBalance
	}
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
