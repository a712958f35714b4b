// Package clock provides the wall clock used to decide what "today" is.
//
// Analytics code takes a Clock instead of calling time.Now so that date
// partitioning (overdue vs upcoming, month elapsed) can be pinned in tests.
package clock

import "time"

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// Real returns the system time.
type Real struct{}

// Now returns the current system time.
func (Real) Now() time.Time {
	return time.Now()
}

// Fixed always returns the same instant.
type Fixed struct {
	T time.Time
}

// Now returns the fixed time.
func (c Fixed) Now() time.Time {
	return c.T
}

// NewReal returns a Clock backed by the system time.
func NewReal() Clock {
	return Real{}
}

// NewFixed returns a Clock that always reports t.
func NewFixed(t time.Time) Clock {
	return Fixed{T: t}
}
