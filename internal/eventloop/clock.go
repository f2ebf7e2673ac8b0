package eventloop

import (
	"sync"
	"time"
)

// Clock provides the current time to a Loop.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// SystemClock returns the real monotonic clock.
func SystemClock() Clock {
	return systemClock{}
}

// ManualClock provides a controllable time source for testing
type ManualClock struct {
	mu          sync.RWMutex
	currentTime time.Time
}

func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{currentTime: start}
}

func (m *ManualClock) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentTime
}

func (m *ManualClock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = t
}

// NewManual returns a loop on a fresh ManualClock.
func NewManual() (*Loop, *ManualClock) {
	clock := NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	return New(clock), clock
}
