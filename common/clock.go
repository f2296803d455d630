package common

import (
	"sync"
	"time"
)

// Clock supplies the current time to components that gate behavior on elapsed wall-clock
// duration. Production code uses SystemClock; tests inject a ManualClock.
type Clock interface {
	// Now returns the current time. Implementations backed by time.Now carry a monotonic reading.
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// SystemClock returns a Clock backed by time.Now.
//
// Returns:
//   - Clock: the process clock
func SystemClock() Clock {
	return systemClock{}
}

// ManualClock is a Clock whose time only moves when Advance or Set is called.
// It is safe for concurrent use.
type ManualClock struct {
	mu  *sync.Mutex
	now time.Time
}

var _ Clock = &ManualClock{}

// NewManualClock creates a ManualClock starting at the given time.
//
// Parameters:
//   - start: the initial time reported by Now
//
// Returns:
//   - *ManualClock: the new clock
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{mu: &sync.Mutex{}, now: start}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
//
// Parameters:
//   - d: the duration to add
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set jumps the clock to t.
//
// Parameters:
//   - t: the new current time
func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
