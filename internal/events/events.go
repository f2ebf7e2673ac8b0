package events

import "time"

// OutcomeEvent is published once per finished target.
type OutcomeEvent struct {
	SessionID string
	TargetID  string
	Kind      string
	Outcome   string
	Reaction  time.Duration
	At        time.Time
}

type Bus struct {
	Outcomes chan OutcomeEvent
}

func NewBus() *Bus {
	return &Bus{
		Outcomes: make(chan OutcomeEvent, 64),
	}
}

// Publish queues ev without blocking. It returns false and drops the event
// when the buffer is full.
func (b *Bus) Publish(ev OutcomeEvent) bool {
	if b == nil {
		return false
	}
	select {
	case b.Outcomes <- ev:
		return true
	default:
		return false
	}
}
