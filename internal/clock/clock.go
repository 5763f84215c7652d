package clock

import "time"

// Clock is the injectable time source used for validity-window and countdown
// checks. Services never call time.Now directly so tests can pin the clock.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// New returns a Clock backed by the system time in UTC
func New() Clock {
	return realClock{}
}

// Mock is a Clock pinned to a settable instant
type Mock struct {
	now time.Time
}

// NewMock returns a Mock pinned to the given instant
func NewMock(now time.Time) *Mock {
	return &Mock{now: now.UTC()}
}

func (m *Mock) Now() time.Time {
	return m.now
}

// Set pins the mock to a new instant
func (m *Mock) Set(now time.Time) {
	m.now = now.UTC()
}

// Advance moves the mock forward by d
func (m *Mock) Advance(d time.Duration) {
	m.now = m.now.Add(d)
}
