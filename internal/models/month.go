package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// MonthKey identifies a calendar month, serialized as YYYY-MM.
type MonthKey struct {
	Year  int
	Month time.Month
}

// MonthKeyOf returns the month containing t.
func MonthKeyOf(t time.Time) MonthKey {
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

// ParseMonthKey parses a YYYY-MM string.
func ParseMonthKey(s string) (MonthKey, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return MonthKey{}, fmt.Errorf("invalid month %q: %w", s, err)
	}
	return MonthKey{Year: t.Year(), Month: t.Month()}, nil
}

// MustParseMonthKey is ParseMonthKey for literals.
func MustParseMonthKey(s string) MonthKey {
	m, err := ParseMonthKey(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Days returns the number of days in the month.
func (m MonthKey) Days() int {
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Contains reports whether d falls within the month.
func (m MonthKey) Contains(d Date) bool {
	return !d.IsZero() && d.Year() == m.Year && d.Month() == m.Month
}

// Day returns the given day of the month, clamped to [1, Days()].
func (m MonthKey) Day(day int) Date {
	if day < 1 {
		day = 1
	}
	if last := m.Days(); day > last {
		day = last
	}
	return NewDate(m.Year, m.Month, day)
}

func (m MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

func (m MonthKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *MonthKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*m = MonthKey{}
		return nil
	}
	parsed, err := ParseMonthKey(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
