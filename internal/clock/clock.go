// Package clock centralizes wall-clock access so "today" and "now" can be
// controlled in tests.
package clock

import (
	"sync"
	"time"
)

// DayLayout is the layout of calendar-day keys (dailyStats, lastPlayDate, daily sets).
const DayLayout = "2006-01-02"

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System returns the wall clock.
func System() Clock { return systemClock{} }

// DayKey returns the calendar-day key of t in t's location.
func DayKey(t time.Time) string {
	return t.Format(DayLayout)
}

// Today returns the day key for c's current instant.
func Today(c Clock) string {
	return DayKey(c.Now())
}

// Yesterday returns the day key of the calendar day before c's current instant.
func Yesterday(c Clock) string {
	return DayKey(c.Now().AddDate(0, 0, -1))
}

// Manual is a Clock whose time only moves when told to.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

// NewManual returns a Manual clock set to t.
func NewManual(t time.Time) *Manual {
	return &Manual{now: t}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Set moves the clock to t.
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	m.now = t
	m.mu.Unlock()
}

// Advance moves the clock forward by d.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}
