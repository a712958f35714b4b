package finance

import (
	"fmt"
	"strings"
	"testing"

	"github.com/Dan9191/neuroledger/internal/models"
	"github.com/stretchr/testify/assert"
)

func contextFor(state models.AppState, profile *models.UserProfile) string {
	m := month("2026-10")
	today := day("2026-10-15")
	snap := BuildSnapshot(state.Transactions, state.Bills, m, state.MonthlyBudget, today)
	idx := ComputeIndices(state, snap, today)
	return BuildFinancialContext(state, snap, idx, today, profile, testFmt)
}

func TestBuildFinancialContext_Minimal(t *testing.T) {
	out := contextFor(models.AppState{}, nil)

	assert.Contains(t, out, "MONTH: 2026-10")
	assert.Contains(t, out, "Budget: not set")
	assert.Contains(t, out, "(none)")
	assert.Contains(t, out, "Pending: 0 bills")
	assert.Contains(t, out, "Score: 265/1000 Organized")
	assert.Contains(t, out, "Month projection: SAFE")
	assert.Contains(t, out, "Transactions: 0 total, 0 this month")
	assert.NotContains(t, out, "USER:")
	assert.NotContains(t, out, "OVERDUE:")
}

func TestBuildFinancialContext_Full(t *testing.T) {
	state := busyState()
	state.SavingsGoals = []models.SavingsGoal{{ID: "g", Title: "Trip", TargetAmount: dec("1000"), CurrentAmount: dec("250")}}

	profile := &models.UserProfile{
		FirstName: "Ana",
		LastName:  "Silva",
		Age:       30,
		Income:    models.IncomeSchedule{Type: models.ScheduleMonthly, Amount: dec("1000"), PayDay: 5},
		FixedExpenses: []models.FixedExpense{
			{ID: "f", Title: "Gym", Amount: dec("90"), DueDay: 10, Category: models.CategoryHealth},
		},
	}
	for i := 1; i <= 12; i++ {
		profile.Remember(fmt.Sprintf("note %02d", i))
	}

	out := contextFor(state, profile)
	lines := strings.Split(out, "\n")

	assert.Equal(t, "USER: Ana Silva, 30 years old", lines[0])
	assert.Contains(t, out, "Fixed expenses: Gym")
	assert.Contains(t, out, "AI_MEMORY: note 03 | ")
	assert.NotContains(t, out, "note 02")
	assert.Contains(t, out, "OVERDUE: Water")
	assert.Contains(t, out, "(12d)")
	assert.Contains(t, out, "Categories: Housing")
	assert.Contains(t, out, "Goals: Trip")
	assert.Contains(t, out, "(25%)")
	assert.Contains(t, out, "Transactions: 4 total, 4 this month")
}

func TestSystemPromptNamesLevels(t *testing.T) {
	for _, l := range disciplineLevels {
		assert.Contains(t, SystemPrompt, l.label)
	}
}
