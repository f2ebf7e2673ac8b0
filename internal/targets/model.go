package targets

import (
	"time"

	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/profile"
)

type Outcome int

const (
	OutcomeNone Outcome = iota
	// OutcomeMissed means the animation ran to its end without activation.
	OutcomeMissed
	// OutcomeHit means the target was activated and its flourish finished.
	OutcomeHit
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMissed:
		return "missed"
	case OutcomeHit:
		return "hit"
	}
	return "none"
}

type Target struct {
	ID         string
	Kind       profile.Kind
	X          float64
	Y          float64
	Width      float64
	Height     float64
	Phase      int
	Clicked    bool
	Expired    bool
	Outcome    Outcome
	SpawnedAt  time.Time
	ClickedAt  time.Time
	FinishedAt time.Time
}

// Reaction returns the time from spawn to activation, or zero if the target
// was never activated.
func (t *Target) Reaction() time.Duration {
	if !t.Clicked {
		return 0
	}
	return t.ClickedAt.Sub(t.SpawnedAt)
}
