package services

import (
	"carecompanion/internal/repository"
	"time"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// newTestTracker returns a tracker over an unbounded memory store whose clock
// starts at start.
func newTestTracker(start time.Time) (*ActivityTracker, *fakeClock) {
	clock := &fakeClock{now: start}
	tracker := NewActivityTracker(repository.NewMemoryActivityRepository(0), TrackerConfig{Location: time.UTC})
	tracker.SetClock(clock.Now)
	return tracker, clock
}

var testNoon = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
