package finance

import (
	"testing"

	"github.com/Dan9191/neuroledger/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeHealthScore_Empty(t *testing.T) {
	h := ComputeHealthScore(models.MonthlySnapshot{
		IncomesTotal:   decimal.Zero,
		ExpensesTotal:  decimal.Zero,
		BillsToPay:     decimal.Zero,
		BillsPaidSoFar: decimal.Zero,
	}, decimal.Zero)

	assert.Equal(t, 0, h.IncomeRatio)
	assert.Equal(t, 150, h.Budget)
	assert.Equal(t, 200, h.Timeliness)
	assert.Equal(t, 0, h.Savings)
	assert.Equal(t, 350, h.Score)
	assert.Equal(t, "Attention", h.Label)
}

func TestComputeHealthScore_Strong(t *testing.T) {
	txs := []models.Transaction{
		income("Salary", "5000", "2026-10-05"),
		expense("Groceries", "1000", "2026-10-06", models.CategoryFood),
	}
	snap := BuildSnapshot(txs, nil, month("2026-10"), dec("3000"), day("2026-10-15"))
	h := ComputeHealthScore(snap, dec("3000"))

	assert.Equal(t, 300, h.IncomeRatio)
	assert.Equal(t, 300, h.Budget)
	assert.Equal(t, 200, h.Timeliness)
	assert.Equal(t, 200, h.Savings)
	assert.Equal(t, 1000, h.Score)
	assert.Equal(t, "Excellent", h.Label)
}

func TestComputeHealthScore_Timeliness(t *testing.T) {
	bills := []models.Bill{
		payBill("late", "Late", "100", "2026-10-01", models.CategoryOther),
		payBill("soon", "Soon", "100", "2026-10-20", models.CategoryOther),
	}
	snap := BuildSnapshot(nil, bills, month("2026-10"), decimal.Zero, day("2026-10-15"))
	h := ComputeHealthScore(snap, decimal.Zero)

	assert.Equal(t, 133, h.Timeliness)
}

func TestComputeHealthScore_OverBudget(t *testing.T) {
	txs := []models.Transaction{expense("Trip", "2500", "2026-10-06", models.CategoryEntertainment)}
	snap := BuildSnapshot(txs, nil, month("2026-10"), dec("1000"), day("2026-10-15"))
	h := ComputeHealthScore(snap, dec("1000"))

	assert.Equal(t, 0, h.Budget)
	assert.GreaterOrEqual(t, h.Score, 0)
}

func TestHealthLabel(t *testing.T) {
	tests := map[int]string{
		1000: "Excellent",
		850:  "Excellent",
		849:  "Good",
		650:  "Good",
		450:  "Fair",
		250:  "Attention",
		249:  "Critical",
		0:    "Critical",
	}
	for score, want := range tests {
		assert.Equal(t, want, HealthLabel(score), score)
	}
}
