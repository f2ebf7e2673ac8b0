// Package animator drives a visual through the phases of a timing profile.
//
// A Run schedules each phase boundary relative to the run's start time, so a
// late callback never pushes later phases back. Nested sub-phases are
// scheduled from their parent's start and never hold the parent up. A run
// ends exactly once: either it completes (OnSettle, then OnComplete) or it is
// cancelled (OnSettle only).
package animator

import (
	"time"

	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/eventloop"
	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/host"
	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/profile"
)

type State int

const (
	Running State = iota
	Completed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	}
	return "unknown"
}

// Hooks are optional notifications from a Run. All run on the loop.
type Hooks struct {
	// OnPhase fires when top-level phase index starts.
	OnPhase func(index int, name string)
	// OnSettle fires once when the run stops, whether it completed or not.
	OnSettle func()
	// OnComplete fires once, only if the final phase ran to its end.
	OnComplete func()
}

type Run struct {
	loop    *eventloop.Loop
	phases  []profile.Phase
	nested  map[string][]profile.Phase
	starts  []time.Duration
	total   time.Duration
	apply   func(host.Step)
	hooks   Hooks
	start   time.Time
	index   int
	state   State
	pending map[*eventloop.Timer]struct{}
}

// Start begins animating p. apply receives every style step; it is the
// caller's job to drop steps for visuals that are already gone. The first
// phase's step is applied before Start returns; completion is always
// delivered from a later loop callback.
func Start(loop *eventloop.Loop, p profile.Profile, apply func(host.Step), hooks Hooks) *Run {
	r := &Run{
		loop:    loop,
		phases:  p.TopLevel(),
		nested:  make(map[string][]profile.Phase),
		apply:   apply,
		hooks:   hooks,
		start:   loop.Now(),
		index:   -1,
		pending: make(map[*eventloop.Timer]struct{}),
	}
	for _, ph := range p.Phases {
		if ph.Nested() {
			r.nested[ph.Parent] = append(r.nested[ph.Parent], ph)
		}
	}
	r.starts = make([]time.Duration, len(r.phases)+1)
	for i, ph := range r.phases {
		r.starts[i+1] = r.starts[i] + ph.Duration
	}
	r.total = r.starts[len(r.phases)]

	if len(r.phases) == 0 {
		r.at(0, r.complete)
		return r
	}
	r.enter(0)
	return r
}

func (r *Run) State() State {
	return r.state
}

// Phase returns the index of the current top-level phase, or -1 before the
// first one starts.
func (r *Run) Phase() int {
	return r.index
}

func (r *Run) Total() time.Duration {
	return r.total
}

// Progress returns the elapsed fraction of the run in [0, 1].
func (r *Run) Progress() float64 {
	if r.state == Completed || r.total <= 0 {
		return 1
	}
	elapsed := r.loop.Now().Sub(r.start)
	if elapsed <= 0 {
		return 0
	}
	if elapsed >= r.total {
		return 1
	}
	return float64(elapsed) / float64(r.total)
}

// Cancel stops every remaining phase and sub-phase. OnComplete will not fire.
// It returns false if the run had already ended.
func (r *Run) Cancel() bool {
	if r.state != Running {
		return false
	}
	r.state = Cancelled
	r.stopPending()
	if r.hooks.OnSettle != nil {
		r.hooks.OnSettle()
	}
	return true
}

func (r *Run) enter(i int) {
	ph := r.phases[i]
	r.index = i
	if r.hooks.OnPhase != nil {
		r.hooks.OnPhase(i, ph.Name)
	}
	r.apply(stepFor(ph))

	phaseStart := r.starts[i]
	for _, sub := range r.nested[ph.Name] {
		if sub.Offset <= 0 {
			r.apply(stepFor(sub))
			continue
		}
		sub := sub // per-iteration copy; go directive is 1.21 (pre-loopvar semantics)
		r.at(phaseStart+sub.Offset, func() { r.apply(stepFor(sub)) })
	}

	// A callback inside enter may have cancelled the run.
	if r.state != Running {
		return
	}
	if i+1 < len(r.phases) {
		r.at(r.starts[i+1], func() { r.enter(i + 1) })
	} else {
		r.at(r.starts[i+1], r.complete)
	}
}

func (r *Run) complete() {
	r.state = Completed
	r.stopPending()
	if r.hooks.OnSettle != nil {
		r.hooks.OnSettle()
	}
	if r.hooks.OnComplete != nil {
		r.hooks.OnComplete()
	}
}

// at schedules fn at offset from the run start.
func (r *Run) at(offset time.Duration, fn func()) {
	if r.state != Running {
		return
	}
	delay := r.start.Add(offset).Sub(r.loop.Now())
	var t *eventloop.Timer
	t = r.loop.AfterFunc(delay, func() {
		delete(r.pending, t)
		if r.state != Running {
			return
		}
		fn()
	})
	r.pending[t] = struct{}{}
}

func (r *Run) stopPending() {
	for t := range r.pending {
		t.Stop()
	}
	clear(r.pending)
}

func stepFor(ph profile.Phase) host.Step {
	return host.Step{
		Element:  ph.Element,
		Props:    ph.Props,
		Duration: ph.Duration,
		Easing:   ph.Easing,
	}
}
