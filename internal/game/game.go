// Package game paces targets for one player: it spawns one target at a time,
// waits for its outcome and schedules the next after a short gap.
//
// A Session is confined to its event loop. Every method except Snapshot must
// be called from a loop callback, or through Loop.Do from another goroutine.
package game

import (
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/eventloop"
	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/events"
	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/host"
	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/profile"
	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/registry"
	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/targets"

	"github.com/google/uuid"
)

type State string

const (
	StateInactive  = State("inactive")
	StateIdle      = State("idle")
	StateAnimating = State("animating")
)

type Config struct {
	StartDelay          time.Duration
	InterAnimationDelay time.Duration
	ExpireFactor        float64
}

func DefaultConfig() Config {
	return Config{
		StartDelay:          2 * time.Second,
		InterAnimationDelay: 500 * time.Millisecond,
		ExpireFactor:        4,
	}
}

// Picker chooses the kind of the next target.
type Picker func() profile.Kind

// Always returns a picker that always yields kind.
func Always(kind profile.Kind) Picker {
	return func() profile.Kind { return kind }
}

// UniformPicker picks uniformly among every kind.
func UniformPicker(rng *rand.Rand) Picker {
	return func() profile.Kind {
		return profile.Kinds[rng.Intn(len(profile.Kinds))]
	}
}

type Option func(*Session)

func WithPicker(p Picker) Option {
	return func(s *Session) { s.picker = p }
}

// WithBus publishes every outcome to bus.
func WithBus(bus *events.Bus) Option {
	return func(s *Session) { s.bus = bus }
}

func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// WithOutcomeHandler calls fn on the loop for every outcome.
func WithOutcomeHandler(fn func(events.OutcomeEvent)) Option {
	return func(s *Session) { s.onOutcome = fn }
}

// WithRand seeds target placement and the default picker.
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) { s.rng = rng }
}

// Snapshot is a copy of a session's state that is safe to read from any
// goroutine.
type Snapshot struct {
	ID               string        `json:"id"`
	State            State         `json:"state"`
	AnimationRunning bool          `json:"animationRunning"`
	CurrentSpeed     time.Duration `json:"currentSpeed"`
	Spawned          int           `json:"spawned"`
	Hits             int           `json:"hits"`
	Misses           int           `json:"misses"`
	Streak           int           `json:"streak"`
	BestStreak       int           `json:"bestStreak"`
	StartedAt        time.Time     `json:"startedAt"`
}

type Session struct {
	id        string
	loop      *eventloop.Loop
	reg       *registry.Registry
	profiles  *profile.Table
	ctrl      *targets.Controller
	cfg       Config
	picker    Picker
	rng       *rand.Rand
	bus       *events.Bus
	onOutcome func(events.OutcomeEvent)

	state            State
	active           bool
	animationRunning bool
	currentSpeed     time.Duration
	pacing           *registry.Handle
	disposers        map[string]func()

	mu   sync.Mutex
	snap Snapshot
}

func NewSession(loop *eventloop.Loop, profiles *profile.Table, h host.Host, cfg Config, opts ...Option) *Session {
	s := &Session{
		loop:      loop,
		reg:       registry.New(),
		profiles:  profiles,
		cfg:       cfg,
		state:     StateInactive,
		disposers: make(map[string]func()),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.id == "" {
		s.id = uuid.NewString()
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.picker == nil {
		s.picker = UniformPicker(s.rng)
	}
	s.ctrl = targets.NewController(loop, s.reg, profiles, h, targets.Config{ExpireFactor: cfg.ExpireFactor})
	s.ctrl.SetRand(s.rng)
	s.snap = Snapshot{ID: s.id, State: StateInactive}
	return s
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) State() State {
	return s.state
}

func (s *Session) Active() bool {
	return s.active
}

func (s *Session) AnimationRunning() bool {
	return s.animationRunning
}

// CurrentSpeed is the total duration of the kind most recently spawned.
func (s *Session) CurrentSpeed() time.Duration {
	return s.currentSpeed
}

// Registry exposes the session's outstanding handles.
func (s *Session) Registry() *registry.Registry {
	return s.reg
}

func (s *Session) Targets() *targets.Store {
	return s.ctrl.Targets()
}

// Start activates the session and arms the first spawn after StartDelay.
// It returns false if the session is already running.
func (s *Session) Start() bool {
	if s.state != StateInactive {
		return false
	}
	s.active = true
	s.setState(StateIdle)
	s.update(func(sn *Snapshot) { sn.StartedAt = s.loop.Now() })
	s.schedule(s.cfg.StartDelay)
	return true
}

// Stop deactivates the session and releases every timer, animation,
// listener and visual it owns. No outcome fires afterwards. Calling Stop on
// an inactive session does nothing.
func (s *Session) Stop() bool {
	if s.state == StateInactive && !s.active {
		return false
	}
	s.active = false
	s.animationRunning = false
	s.setState(StateInactive)

	s.pacing.Release()
	s.pacing = nil
	s.ctrl.Reset()
	for id, dispose := range s.disposers {
		dispose()
		delete(s.disposers, id)
	}
	if n := s.reg.ReleaseAll(); n > 0 {
		log.Printf("[Game] Session %s released %d leftover handles\n", s.id, n)
	}
	s.update(func(sn *Snapshot) { sn.AnimationRunning = false })
	return true
}

// Snapshot may be called from any goroutine.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// schedule replaces any pending pacing timer with one firing after d.
func (s *Session) schedule(d time.Duration) {
	s.pacing.Release()
	timer := s.loop.AfterFunc(d, s.cycle)
	s.pacing = s.reg.Track(registry.Timer, s.id, func() { timer.Stop() })
}

func (s *Session) cycle() {
	s.pacing.Release()
	s.pacing = nil

	if !s.active {
		return
	}
	if s.animationRunning {
		s.schedule(s.currentSpeed)
		return
	}
	if s.state != StateIdle {
		return
	}

	kind := s.picker()
	s.currentSpeed = s.profiles.TotalDuration(kind)
	s.animationRunning = true
	s.setState(StateAnimating)

	t, dispose, err := s.ctrl.Spawn(kind, targets.Callbacks{OnSettled: s.settled, OnFinished: s.finished})
	if err != nil {
		if errors.Is(err, targets.ErrReset) || !s.active {
			return
		}
		log.Printf("[Game] Session %s spawn error: %v\n", s.id, err)
		s.animationRunning = false
		s.setState(StateIdle)
		s.schedule(s.cfg.InterAnimationDelay)
		return
	}
	s.disposers[t.ID] = dispose
	s.update(func(sn *Snapshot) {
		sn.Spawned++
		sn.CurrentSpeed = s.currentSpeed
		sn.AnimationRunning = true
	})
}

// settled runs when the target's main timeline stops. A hit still plays its
// flourish after this; the state stays Animating until finished.
func (s *Session) settled(*targets.Target) {
	if !s.active {
		return
	}
	s.animationRunning = false
	s.update(func(sn *Snapshot) { sn.AnimationRunning = false })
}

func (s *Session) finished(t *targets.Target, outcome targets.Outcome) {
	if !s.active {
		return
	}
	s.animationRunning = false
	s.setState(StateIdle)
	s.pruneDisposers()

	ev := events.OutcomeEvent{
		SessionID: s.id,
		TargetID:  t.ID,
		Kind:      t.Kind.String(),
		Outcome:   outcome.String(),
		Reaction:  t.Reaction(),
		At:        s.loop.Now(),
	}
	s.update(func(sn *Snapshot) {
		sn.AnimationRunning = false
		switch outcome {
		case targets.OutcomeHit:
			sn.Hits++
			sn.Streak++
			sn.BestStreak = max(sn.BestStreak, sn.Streak)
		case targets.OutcomeMissed:
			sn.Misses++
			sn.Streak = 0
		}
	})
	if s.bus != nil && !s.bus.Publish(ev) {
		log.Printf("[Game] Session %s outcome bus full, dropped %s\n", s.id, t.ID)
	}
	if s.onOutcome != nil {
		s.onOutcome(ev)
	}

	// The handler may have stopped the session.
	if s.active {
		s.schedule(s.cfg.InterAnimationDelay)
	}
}

// pruneDisposers drops disposers of targets the controller has forgotten.
func (s *Session) pruneDisposers() {
	for id := range s.disposers {
		if !s.ctrl.Live(id) {
			delete(s.disposers, id)
		}
	}
}

func (s *Session) setState(st State) {
	s.state = st
	s.update(func(sn *Snapshot) { sn.State = st })
}

func (s *Session) update(fn func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.snap)
}
