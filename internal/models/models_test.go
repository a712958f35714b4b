package models

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryLabelIsTotal(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range AllCategories {
		assert.True(t, c.Valid(), c)
		label := c.Label()
		assert.NotEmpty(t, label)
		assert.False(t, seen[label], "duplicate label %s", label)
		seen[label] = true
	}
	assert.Equal(t, "Other", Category("bogus").Label())
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("food")
	require.NoError(t, err)
	assert.Equal(t, CategoryFood, c)

	_, err = ParseCategory("groceries")
	assert.Error(t, err)
	assert.Equal(t, CategoryOther, Category("groceries").OrOther())
}

func TestDateJSON(t *testing.T) {
	var v struct {
		D Date `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"d":"2026-10-15T10:00:00Z"}`), &v))
	assert.Equal(t, "2026-10-15", v.D.String())

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":"2026-10-15"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"d":"15/10/2026"}`), &v))
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2026-03-01", d.String())

	require.NoError(t, d.Scan([]byte("2026-04-02")))
	assert.Equal(t, "2026-04-02", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))

	v, err := MustParseDate("2026-05-06").Value()
	require.NoError(t, err)
	assert.Equal(t, "2026-05-06", v)
}

func TestDateArithmetic(t *testing.T) {
	a := MustParseDate("2026-02-27")
	assert.Equal(t, "2026-03-01", a.AddDays(2).String())
	assert.Equal(t, 2, a.DaysUntil(a.AddDays(2)))
	assert.Equal(t, -2, a.AddDays(2).DaysUntil(a))
	assert.True(t, a.Before(a.AddDays(1)))
	assert.Equal(t, "2026-02", a.MonthKey().String())
}

func TestMonthKey(t *testing.T) {
	feb := MustParseMonthKey("2026-02")
	assert.Equal(t, 28, feb.Days())
	assert.Equal(t, "2026-02-28", feb.Day(31).String())
	assert.Equal(t, "2026-02-01", feb.Day(0).String())
	assert.True(t, feb.Contains(MustParseDate("2026-02-14")))
	assert.False(t, feb.Contains(MustParseDate("2026-03-01")))
	assert.Equal(t, 29, MustParseMonthKey("2028-02").Days())

	_, err := ParseMonthKey("2026-13")
	assert.Error(t, err)
}

func TestUserProfileRemember(t *testing.T) {
	var p UserProfile
	for i := 0; i < MaxAIMemory+5; i++ {
		p.Remember(fmt.Sprint(i))
	}
	require.Len(t, p.AIMemory, MaxAIMemory)
	assert.Equal(t, "5", p.AIMemory[0])
	assert.Equal(t, fmt.Sprint(MaxAIMemory+4), p.AIMemory[MaxAIMemory-1])
}

func TestAppStateActiveIncomes(t *testing.T) {
	s := AppState{RecurringIncomes: []RecurringIncome{
		{ID: "a", Active: true},
		{ID: "b", Active: false},
	}}
	require.Len(t, s.ActiveIncomes(), 1)
	assert.Equal(t, "a", s.ActiveIncomes()[0].ID)
	assert.True(t, s.TotalActiveIncome().IsZero())
}
