package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/Dan9191/neuroledger/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestSaveProfile_KeepsMemory(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)
	created := testNow.AddDate(0, -2, 0)
	store.EXPECT().LoadProfile(ctx, "u1").Return(&models.UserProfile{FirstName: "Ana", AIMemory: []string{"likes travel"}, CreatedAt: created}, nil)
	store.EXPECT().SaveProfile(ctx, "u1", gomock.Any()).Return(nil)

	p, err := svc.SaveProfile(ctx, "u1", models.UserProfile{
		FirstName: "Ana",
		Age:       32,
		Income:    models.IncomeSchedule{Amount: dec("5000"), PayDay: 5},
		FixedExpenses: []models.FixedExpense{
			{Title: "Rent", Amount: dec("1500"), DueDay: 10},
		},
		AIMemory: []string{"injected"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"likes travel"}, p.AIMemory)
	assert.True(t, created.Equal(p.CreatedAt))
	assert.Equal(t, models.ScheduleMonthly, p.Income.Type)
	assert.NotEmpty(t, p.FixedExpenses[0].ID)
	assert.Equal(t, models.CategoryOther, p.FixedExpenses[0].Category)
}

func TestSaveProfile_Validation(t *testing.T) {
	tests := []struct {
		name string
		p    models.UserProfile
	}{
		{"no first name", models.UserProfile{Age: 30}},
		{"bad age", models.UserProfile{FirstName: "A", Age: -1}},
		{"bad schedule", models.UserProfile{FirstName: "A", Income: models.IncomeSchedule{Type: "yearly"}}},
		{"bad work day", models.UserProfile{FirstName: "A", Income: models.IncomeSchedule{WorkDays: []int{7}}}},
		{"bad due day", models.UserProfile{FirstName: "A", FixedExpenses: []models.FixedExpense{{Title: "x", Amount: dec("1"), DueDay: 0}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestService(t)
			_, err := svc.SaveProfile(context.Background(), "u1", tt.p)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestRemember(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a profile when missing", func(t *testing.T) {
		svc, store, _ := newTestService(t)
		store.EXPECT().LoadProfile(ctx, "u1").Return(nil, fmt.Errorf("profile: %w", ErrNotFound))
		store.EXPECT().SaveProfile(ctx, "u1", gomock.Any()).Return(nil)

		p, err := svc.Remember(ctx, "u1", "prefers short answers")
		require.NoError(t, err)
		assert.Equal(t, []string{"prefers short answers"}, p.AIMemory)
	})

	t.Run("keeps the newest notes", func(t *testing.T) {
		svc, store, _ := newTestService(t)
		full := &models.UserProfile{FirstName: "Ana"}
		for i := 0; i < models.MaxAIMemory; i++ {
			full.AIMemory = append(full.AIMemory, fmt.Sprintf("note %d", i))
		}
		store.EXPECT().LoadProfile(ctx, "u1").Return(full, nil)
		store.EXPECT().SaveProfile(ctx, "u1", gomock.Any()).Return(nil)

		p, err := svc.Remember(ctx, "u1", "latest")
		require.NoError(t, err)
		assert.Len(t, p.AIMemory, models.MaxAIMemory)
		assert.Equal(t, "note 1", p.AIMemory[0])
		assert.Equal(t, "latest", p.AIMemory[models.MaxAIMemory-1])
	})

	t.Run("empty note", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		_, err := svc.Remember(ctx, "u1", " ")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
