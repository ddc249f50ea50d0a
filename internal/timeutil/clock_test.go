package timeutil

import (
	"testing"
	"time"
)

func TestRealClock(t *testing.T) {
	c := RealClock{}
	before := time.Now()
	now := c.Now()
	if now.Before(before) {
		t.Error("RealClock.Now went backwards")
	}
	if c.Since(before) < 0 {
		t.Error("RealClock.Since returned a negative duration")
	}
}

func TestMockClock(t *testing.T) {
	start := time.Date(2021, 7, 24, 6, 0, 0, 0, time.UTC)
	c := NewMockClock(start)

	if !c.Now().Equal(start) {
		t.Errorf("Now = %v, want %v", c.Now(), start)
	}

	c.Advance(90 * time.Minute)
	if got := c.Since(start); got != 90*time.Minute {
		t.Errorf("Since = %v, want 90m", got)
	}

	later := start.Add(24 * time.Hour)
	c.Set(later)
	if !c.Now().Equal(later) {
		t.Errorf("Now after Set = %v, want %v", c.Now(), later)
	}
}
