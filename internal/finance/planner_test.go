package finance

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/Dan9191/neuroledger/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hasWarning(p Plan, substr string) bool {
	for _, w := range p.Warnings {
		if strings.Contains(w, substr) {
			return true
		}
	}
	return false
}

func TestAllocate_BillBeforeSingleIncome(t *testing.T) {
	plan := Allocate(
		[]IncomeEvent{{Date: day("2026-10-05"), Title: "Salary", Amount: dec("3000")}},
		[]Obligation{{ID: "rent", Title: "Rent", DueDate: day("2026-10-03"), Remaining: dec("1000")}},
		day("2026-10-01"), testFmt,
	)

	require.Len(t, plan.Steps, 1)
	step := plan.Steps[0]
	assert.Equal(t, "2026-10-05", step.Date.String())
	require.Len(t, step.Allocations, 2)
	assert.Equal(t, "Rent", step.Allocations[0].Target)
	assertDec(t, "1000", step.Allocations[0].Amount)
	assert.Equal(t, "Due 03/10/2026, due now", step.Allocations[0].Reason)
	assert.True(t, step.Allocations[1].Free)
	assert.Equal(t, FreeTarget, step.Allocations[1].Target)
	assertDec(t, "2000", step.Allocations[1].Amount)
	assertDec(t, "2000", step.CumulativeFree)

	assert.False(t, hasWarning(plan, "uncovered"))
	assert.True(t, hasWarning(plan, "before the first income on 05/10/2026"))
	assert.True(t, hasWarning(plan, "03/10/2026"))
	assertDec(t, "0", plan.Uncovered)
	assertDec(t, "2000", plan.FinalFree)
}

func TestAllocate_OverdueReason(t *testing.T) {
	plan := Allocate(
		[]IncomeEvent{{Date: day("2026-10-20"), Title: "Salary", Amount: dec("100")}},
		[]Obligation{{ID: "a", Title: "Water", DueDate: day("2026-10-10"), Remaining: dec("50")}},
		day("2026-10-15"), testFmt,
	)
	require.NotEmpty(t, plan.Steps[0].Allocations)
	assert.Equal(t, "Due 10/10/2026, already overdue", plan.Steps[0].Allocations[0].Reason)
}

func TestAllocate_TwoIncomes(t *testing.T) {
	plan := Allocate(
		[]IncomeEvent{
			{Date: day("2026-10-15"), Title: "Second half", Amount: dec("1000")},
			{Date: day("2026-10-01"), Title: "First half", Amount: dec("1000")},
		},
		[]Obligation{
			{ID: "a", Title: "Rent", DueDate: day("2026-10-10"), Remaining: dec("1500")},
			{ID: "b", Title: "Phone", DueDate: day("2026-10-05"), Remaining: dec("300")},
		},
		day("2026-09-30"), testFmt,
	)

	require.Len(t, plan.Steps, 2)
	first := plan.Steps[0]
	assert.Equal(t, "First half", first.Source)
	require.Len(t, first.Allocations, 2)
	assert.Equal(t, "Phone", first.Allocations[0].Target)
	assertDec(t, "300", first.Allocations[0].Amount)
	assert.Equal(t, "Due 05/10/2026, reserve now", first.Allocations[0].Reason)
	assert.Equal(t, "Rent", first.Allocations[1].Target)
	assertDec(t, "700", first.Allocations[1].Amount)
	assertDec(t, "0", first.RemainingFree)

	second := plan.Steps[1]
	require.Len(t, second.Allocations, 2)
	assert.Equal(t, "Rent", second.Allocations[0].Target)
	assertDec(t, "800", second.Allocations[0].Amount)
	assert.Equal(t, "Due 10/10/2026, due now", second.Allocations[0].Reason)
	assertDec(t, "200", second.Allocations[1].Amount)
	assertDec(t, "200", second.CumulativeFree)

	assert.Empty(t, plan.Warnings)
	require.Len(t, plan.Advice, 2)
	assert.True(t, strings.HasPrefix(plan.Advice[1], "Good!"))
}

func TestAllocate_LargestObligationAdvice(t *testing.T) {
	plan := Allocate(
		[]IncomeEvent{
			{Date: day("2026-10-01"), Title: "A", Amount: dec("1000")},
			{Date: day("2026-10-10"), Title: "B", Amount: dec("1000")},
		},
		[]Obligation{
			{ID: "car", Title: "Car", DueDate: day("2026-10-20"), Remaining: dec("1200")},
			{ID: "tv", Title: "TV", DueDate: day("2026-10-02"), Remaining: dec("100")},
		},
		day("2026-09-30"), testFmt,
	)
	found := false
	for _, a := range plan.Advice {
		if strings.Contains(a, `"Car"`) {
			found = true
		}
	}
	assert.True(t, found, "advice: %v", plan.Advice)
}

func TestAllocate_Deficit(t *testing.T) {
	plan := Allocate(
		[]IncomeEvent{{Date: day("2026-10-01"), Title: "Salary", Amount: dec("500")}},
		[]Obligation{{ID: "a", Title: "Rent", DueDate: day("2026-10-10"), Remaining: dec("800")}},
		day("2026-09-30"), testFmt,
	)

	require.Len(t, plan.Warnings, 2)
	assert.Contains(t, plan.Warnings[0], testFmt.Money(dec("300")))
	assert.Contains(t, plan.Warnings[1], `"Rent" will be left with`)
	assertDec(t, "300", plan.Uncovered)
	assertDec(t, "0", plan.FinalFree)
	assert.Empty(t, plan.Advice)
}

func TestAllocate_NoIncome(t *testing.T) {
	plan := Allocate(nil,
		[]Obligation{{ID: "a", Title: "Rent", DueDate: day("2026-10-10"), Remaining: dec("800")}},
		day("2026-09-30"), testFmt,
	)

	assert.Empty(t, plan.Steps)
	require.Len(t, plan.Warnings, 3)
	assert.Equal(t, "Add at least one income entry.", plan.Warnings[0])
	assertDec(t, "800", plan.Uncovered)
}

func TestAllocate_SavingsTiers(t *testing.T) {
	tests := []struct {
		obligation string
		prefix     string
	}{
		{"700", "Excellent!"},
		{"850", "Good!"},
		{"950", "Tight margin"},
	}
	for _, tt := range tests {
		t.Run(tt.obligation, func(t *testing.T) {
			plan := Allocate(
				[]IncomeEvent{{Date: day("2026-10-01"), Title: "Salary", Amount: dec("1000")}},
				[]Obligation{{ID: "a", Title: "Rent", DueDate: day("2026-10-10"), Remaining: dec(tt.obligation)}},
				day("2026-09-30"), testFmt,
			)
			require.Len(t, plan.Advice, 2)
			assert.True(t, strings.HasPrefix(plan.Advice[1], tt.prefix), plan.Advice[1])
		})
	}
}

func TestAllocate_ConservationAndFeasibility(t *testing.T) {
	r := rand.New(rand.NewPCG(42, 99))
	m := month("2026-10")
	amount := func() decimal.Decimal {
		return decimal.RequireFromString(fmt.Sprintf("%d.%02d", r.IntN(3000), r.IntN(100)))
	}
	for i := 0; i < 500; i++ {
		var incomes []IncomeEvent
		for j := 0; j < r.IntN(5); j++ {
			incomes = append(incomes, IncomeEvent{Date: m.Day(1 + r.IntN(31)), Title: fmt.Sprint("in", j), Amount: amount()})
		}
		var obligations []Obligation
		for j := 0; j < r.IntN(6); j++ {
			obligations = append(obligations, Obligation{ID: fmt.Sprint(j), Title: fmt.Sprint("ob", j), DueDate: m.Day(1 + r.IntN(31)), Remaining: amount()})
		}
		plan := Allocate(incomes, obligations, day("2026-10-15"), testFmt)

		all, free, paid := decimal.Zero, decimal.Zero, decimal.Zero
		for _, s := range plan.Steps {
			for _, a := range s.Allocations {
				assert.True(t, a.Amount.IsPositive(), "iteration %d", i)
				all = all.Add(a.Amount)
				if a.Free {
					free = free.Add(a.Amount)
				} else {
					paid = paid.Add(a.Amount)
				}
			}
		}
		assert.True(t, all.Equal(plan.TotalIncome), "iteration %d: %s vs %s", i, all, plan.TotalIncome)
		assert.True(t, free.Add(paid).Equal(plan.TotalIncome), "iteration %d", i)

		if plan.TotalIncome.GreaterThanOrEqual(plan.TotalObligations) {
			assert.True(t, plan.Uncovered.IsZero(), "iteration %d", i)
		} else {
			assert.True(t, plan.Uncovered.Equal(plan.TotalObligations.Sub(plan.TotalIncome)), "iteration %d", i)
		}
	}
}

func TestSandboxPlan(t *testing.T) {
	plan := SandboxPlan([]SandboxEntry{
		{Type: models.TransactionIncome, Title: "Salary", Amount: dec("3000"), Date: day("2026-10-05")},
		{Type: models.TransactionExpense, Title: "Rent", Amount: dec("1000"), Date: day("2026-10-03")},
	}, day("2026-10-01"), testFmt)

	require.Len(t, plan.Steps, 1)
	assert.Equal(t, "entry-2", plan.Steps[0].Allocations[0].ObligationID)
	assertDec(t, "2000", plan.FinalFree)
	assert.True(t, hasWarning(plan, "before the first income"))
}

func TestBillsPlan(t *testing.T) {
	inactive := salary("Old", "900", 1)
	inactive.Active = false
	state := models.AppState{
		RecurringIncomes: []models.RecurringIncome{salary("Salary", "3000", 5), inactive},
		Bills: []models.Bill{
			payBill("rent", "Rent", "1000", "2026-10-03", models.CategoryHousing),
			payBill("paid", "Paid", "200", "2026-10-04", models.CategoryServices, "200"),
			payBill("other", "Other month", "200", "2026-11-04", models.CategoryServices),
			receiveBill("inv", "Invoice", "500", "2026-10-20", "100"),
		},
	}
	plan := BillsPlan(state, month("2026-10"), day("2026-10-01"), testFmt)

	require.Len(t, plan.Steps, 2)
	assert.Equal(t, "Salary", plan.Steps[0].Source)
	assert.Equal(t, "Invoice", plan.Steps[1].Source)
	assertDec(t, "400", plan.Steps[1].Received)
	assertDec(t, "3400", plan.TotalIncome)
	assertDec(t, "1000", plan.TotalObligations)
	assert.True(t, hasWarning(plan, "Rent"))
}

func TestMonthIncomeEvents_ClampsPayDay(t *testing.T) {
	state := models.AppState{RecurringIncomes: []models.RecurringIncome{salary("Salary", "1000", 31)}}
	events := MonthIncomeEvents(state, month("2026-02"))
	require.Len(t, events, 1)
	assert.Equal(t, "2026-02-28", events[0].Date.String())
}
