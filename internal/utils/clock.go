package utils

import "time"

// Clock abstracts time.Now so commands that default to "today", such as
// transaction dates and report ranges, stay testable.
type Clock interface {
	Now() time.Time
}

// NewSystemClock returns the wall clock the application runs on.
func NewSystemClock() Clock {
	return systemClock{}
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// MockClock is a Clock pinned to a fixed instant.
type MockClock struct {
	FixedNow time.Time
}

func (m *MockClock) Now() time.Time {
	return m.FixedNow
}

func (m *MockClock) SetNow(now time.Time) {
	m.FixedNow = now
}
