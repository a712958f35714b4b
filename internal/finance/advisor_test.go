package finance

import (
	"strings"
	"testing"

	"github.com/Dan9191/neuroledger/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adviseFor(state models.AppState, m string, today string, keyRate float64) []Tip {
	mk := month(m)
	td := day(today)
	snap := BuildSnapshot(state.Transactions, state.Bills, mk, state.MonthlyBudget, td)
	return Advise(AdvisorInput{State: state, Snapshot: snap, Month: mk, Today: td, KeyRate: keyRate}, testFmt)
}

func tipsWithTitle(tips []Tip, prefix string) []Tip {
	var out []Tip
	for _, tip := range tips {
		if strings.HasPrefix(tip.Title, prefix) {
			out = append(out, tip)
		}
	}
	return out
}

func TestAdvise_Fallback(t *testing.T) {
	tips := adviseFor(models.AppState{}, "2026-10", "2026-10-15", 0)

	require.Len(t, tips, 1)
	assert.Equal(t, "Add more data", tips[0].Title)
	assert.Equal(t, PriorityLow, tips[0].Priority)
}

func busyState() models.AppState {
	return models.AppState{
		MonthlyBudget:    dec("2000"),
		RecurringIncomes: []models.RecurringIncome{salary("Salary", "1000", 5)},
		Transactions: []models.Transaction{
			expense("Rent share", "500", "2026-10-02", models.CategoryHousing),
			expense("Groceries", "200", "2026-10-03", models.CategoryFood),
			expense("Bus", "160", "2026-10-06", models.CategoryTransport),
			expense("Phone", "100", "2026-10-07", models.CategoryServices),
		},
		Bills: []models.Bill{
			payBill("early", "Water", "80", "2026-10-03", models.CategoryServices),
			payBill("card", "Card", "300", "2026-10-20", models.CategoryOther, "100"),
		},
	}
}

func TestAdvise_SortedByPriority(t *testing.T) {
	tips := adviseFor(busyState(), "2026-10", "2026-10-15", 0)

	require.Greater(t, len(tips), 3)
	for i := 1; i < len(tips); i++ {
		assert.LessOrEqual(t, tips[i-1].Priority.rank(), tips[i].Priority.rank())
	}
	for _, tip := range tips {
		assert.NotEmpty(t, tip.Body, tip.Title)
	}
}

func TestAdvise_BillsBeforePayDay(t *testing.T) {
	tips := adviseFor(busyState(), "2026-10", "2026-10-15", 0)

	found := tipsWithTitle(tips, "1 bill(s) due before payday")
	require.Len(t, found, 1)
	assert.Equal(t, PriorityHigh, found[0].Priority)
	assert.Contains(t, found[0].Body, "Water")
}

func TestAdvise_CategoryCutsOncePerCategory(t *testing.T) {
	tips := adviseFor(busyState(), "2026-10", "2026-10-15", 0)

	cuts := tipsWithTitle(tips, "Trim ")
	require.Len(t, cuts, 3)
	assert.Equal(t, "Trim Housing by 10%", cuts[0].Title)
}

func TestAdvise_OverdueAndSpendingAboveIncome(t *testing.T) {
	tips := adviseFor(busyState(), "2026-10", "2026-10-15", 0)

	assert.Len(t, tipsWithTitle(tips, "Urgent:"), 1)
	over := tipsWithTitle(tips, "Spending exceeds income")
	require.Len(t, over, 1)
	assert.Equal(t, PriorityHigh, over[0].Priority)
}

func TestAdvise_PastMonthBudgetPace(t *testing.T) {
	state := models.AppState{
		MonthlyBudget: dec("1000"),
		Transactions:  []models.Transaction{expense("Groceries", "500", "2026-09-10", models.CategoryFood)},
	}
	tips := adviseFor(state, "2026-09", "2026-10-15", 0)

	assert.Len(t, tipsWithTitle(tips, "Great spending control"), 1)
	assert.Empty(t, tipsWithTitle(tips, "You are spending too fast"))
}

func TestAdvise_SpendingTooFast(t *testing.T) {
	state := models.AppState{
		MonthlyBudget: dec("1000"),
		Transactions:  []models.Transaction{expense("TV", "900", "2026-10-02", models.CategoryEntertainment)},
	}
	tips := adviseFor(state, "2026-10", "2026-10-10", 0)

	fast := tipsWithTitle(tips, "You are spending too fast")
	require.Len(t, fast, 1)
	assert.Equal(t, PriorityHigh, tips[0].Priority)
}

func TestAdvise_IdleSurplusNeedsKeyRate(t *testing.T) {
	state := models.AppState{
		RecurringIncomes: []models.RecurringIncome{salary("Salary", "5000", 5)},
		Transactions:     []models.Transaction{expense("Groceries", "1000", "2026-10-06", models.CategoryFood)},
	}

	assert.Empty(t, tipsWithTitle(adviseFor(state, "2026-10", "2026-10-15", 0), "Put the surplus to work"))
	with := tipsWithTitle(adviseFor(state, "2026-10", "2026-10-15", 10.5), "Put the surplus to work")
	require.Len(t, with, 1)
	assert.Contains(t, with[0].Body, "10.50%")
}

func TestAdvise_Goals(t *testing.T) {
	deadline := day("2026-12-15")
	state := models.AppState{
		RecurringIncomes: []models.RecurringIncome{salary("Salary", "1000", 5), salary("Side", "500", 20)},
		SavingsGoals: []models.SavingsGoal{
			{ID: "car", Title: "Car", TargetAmount: dec("10000"), CurrentAmount: dec("1000"), Deadline: &deadline},
			{ID: "trip", Title: "Trip", TargetAmount: dec("1000"), CurrentAmount: dec("900")},
			{ID: "done", Title: "Done", TargetAmount: dec("100"), CurrentAmount: dec("100")},
		},
	}
	tips := adviseFor(state, "2026-10", "2026-10-15", 0)

	assert.Len(t, tipsWithTitle(tips, `Goal "Car" needs`), 1)
	assert.Len(t, tipsWithTitle(tips, `"Trip" is almost there`), 1)
	assert.Empty(t, tipsWithTitle(tips, `"Done"`))
	assert.Empty(t, tipsWithTitle(tips, "Single income source"))
	assert.Empty(t, tipsWithTitle(tips, "Create an emergency fund goal"))
}

func TestAdvise_WeekendSpending(t *testing.T) {
	state := models.AppState{
		Transactions: []models.Transaction{
			expense("Bar", "300", "2026-10-03", models.CategoryEntertainment),  // Saturday
			expense("Club", "200", "2026-10-04", models.CategoryEntertainment), // Sunday
			expense("Lunch", "50", "2026-10-06", models.CategoryFood),
		},
	}
	tips := adviseFor(state, "2026-10", "2026-10-15", 0)
	assert.Len(t, tipsWithTitle(tips, "Weekends weigh"), 1)
}

func TestAdvise_CustomRules(t *testing.T) {
	only := func(a *Advice) []Tip {
		return []Tip{{Title: "custom", Body: "b", Priority: PriorityLow}, {Title: "first", Body: "b", Priority: PriorityHigh}}
	}
	snap := BuildSnapshot(nil, nil, month("2026-10"), dec("0"), day("2026-10-15"))
	tips := Advise(AdvisorInput{Snapshot: snap, Month: month("2026-10"), Today: day("2026-10-15")}, testFmt, only)

	require.Len(t, tips, 2)
	assert.Equal(t, "first", tips[0].Title)
}
