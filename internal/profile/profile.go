package profile

import (
	"fmt"
	"time"
)

type Kind int

const (
	Tap Kind = iota
	Swipe
	Hold
)

// Kinds lists every target kind in pick order.
var Kinds = []Kind{Tap, Swipe, Hold}

func (k Kind) String() string {
	switch k {
	case Tap:
		return "tap"
	case Swipe:
		return "swipe"
	case Hold:
		return "hold"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Interactive reports whether targets of this kind accept activation input.
func (k Kind) Interactive() bool {
	return k == Tap || k == Hold
}

func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown target kind %q", s)
}

// Phase is one timed visual step. A phase with a Parent is nested: it starts
// Offset after its parent starts and never counts toward the total duration.
type Phase struct {
	Name     string
	Parent   string
	Offset   time.Duration
	Duration time.Duration
	Element  string
	Props    map[string]string
	Easing   string
}

func (p Phase) Nested() bool {
	return p.Parent != ""
}

type Profile struct {
	Kind   Kind
	Width  float64
	Height float64
	Phases []Phase
}

// TopLevel returns the sequential phases in order.
func (p Profile) TopLevel() []Phase {
	var out []Phase
	for _, ph := range p.Phases {
		if !ph.Nested() {
			out = append(out, ph)
		}
	}
	return out
}

// Children returns the sub-phases nested under the named phase.
func (p Profile) Children(parent string) []Phase {
	var out []Phase
	for _, ph := range p.Phases {
		if ph.Parent == parent {
			out = append(out, ph)
		}
	}
	return out
}

func (p Profile) TotalDuration() time.Duration {
	var total time.Duration
	for _, ph := range p.TopLevel() {
		total += ph.Duration
	}
	return total
}

// Elements returns the distinct sub-elements the profile animates.
func (p Profile) Elements() []string {
	seen := make(map[string]bool)
	var out []string
	for _, ph := range p.Phases {
		if ph.Element != "" && !seen[ph.Element] {
			seen[ph.Element] = true
			out = append(out, ph.Element)
		}
	}
	return out
}

func (p Profile) clone() Profile {
	c := p
	c.Phases = make([]Phase, len(p.Phases))
	copy(c.Phases, p.Phases)
	return c
}

// Table holds the immutable per-kind profiles and the success flourish.
type Table struct {
	profiles map[Kind]Profile
	flourish Profile
}

func (t *Table) Profile(kind Kind) Profile {
	return t.profiles[kind]
}

func (t *Table) TotalDuration(kind Kind) time.Duration {
	return t.profiles[kind].TotalDuration()
}

func (t *Table) Flourish() Profile {
	return t.flourish
}
