package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxAIMemory is how many memory notes a profile keeps.
const MaxAIMemory = 50

// ScheduleType describes how often a person is paid.
type ScheduleType string

const (
	ScheduleMonthly  ScheduleType = "monthly"
	ScheduleBiweekly ScheduleType = "biweekly"
	ScheduleWeekly   ScheduleType = "weekly"
	ScheduleDaily    ScheduleType = "daily"
)

// IncomeSchedule is the income declared during onboarding.
// PayDay is a day of month for monthly schedules and a weekday (0=Sunday) for weekly ones.
type IncomeSchedule struct {
	Type     ScheduleType    `json:"type"`
	Amount   decimal.Decimal `json:"amount"`
	PayDay   int             `json:"payDay"`
	WorkDays []int           `json:"workDays,omitempty"`
}

// FixedExpense is a recurring cost declared during onboarding.
type FixedExpense struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Amount   decimal.Decimal `json:"amount"`
	DueDay   int             `json:"dueDay"`
	Category Category        `json:"category"`
}

// UserProfile represents the personal data used to personalize advice
type UserProfile struct {
	FirstName          string         `json:"firstName"`
	LastName           string         `json:"lastName"`
	Age                int            `json:"age"`
	Income             IncomeSchedule `json:"income"`
	FixedExpenses      []FixedExpense `json:"fixedExpenses"`
	OnboardingComplete bool           `json:"onboardingComplete"`
	CreatedAt          time.Time      `json:"createdAt"`
	AIMemory           []string       `json:"aiMemory"`
}

// Remember appends a memory note, keeping only the newest MaxAIMemory entries.
func (p *UserProfile) Remember(note string) {
	p.AIMemory = append(p.AIMemory, note)
	if n := len(p.AIMemory); n > MaxAIMemory {
		p.AIMemory = append([]string(nil), p.AIMemory[n-MaxAIMemory:]...)
	}
}
