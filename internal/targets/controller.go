package targets

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/animator"
	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/eventloop"
	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/host"
	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/profile"
	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/registry"

	"github.com/google/uuid"
)

// ErrReset is returned by Spawn when the controller was reset by a host
// call made during the spawn.
var ErrReset = errors.New("controller reset during spawn")

type Config struct {
	// ExpireFactor multiplies a kind's total duration to get its expire delay.
	ExpireFactor float64
}

func DefaultConfig() Config {
	return Config{ExpireFactor: 4}
}

// Callbacks are the per-target continuations. Both run on the loop.
type Callbacks struct {
	// OnSettled fires when the main animation stops, by completion or by
	// a successful activation. Reset suppresses it.
	OnSettled func(t *Target)
	// OnFinished fires exactly once per target that is not killed by Reset.
	OnFinished func(t *Target, outcome Outcome)
}

// Controller spawns targets onto a host and owns everything each target
// registers: its visual, animation runs, expire timer and input binding.
// All methods must run on the controller's loop.
type Controller struct {
	loop       *eventloop.Loop
	reg        *registry.Registry
	profiles   *profile.Table
	host       host.Host
	store      *Store
	rng        *rand.Rand
	cfg        Config
	generation uint64
}

func NewController(loop *eventloop.Loop, reg *registry.Registry, profiles *profile.Table, h host.Host, cfg Config) *Controller {
	if cfg.ExpireFactor <= 0 {
		cfg.ExpireFactor = DefaultConfig().ExpireFactor
	}
	return &Controller{
		loop:     loop,
		reg:      reg,
		profiles: profiles,
		host:     h,
		store:    NewStore(),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		cfg:      cfg,
	}
}

// SetRand replaces the position source.
func (c *Controller) SetRand(rng *rand.Rand) {
	c.rng = rng
}

func (c *Controller) Targets() *Store {
	return c.store
}

// Live reports whether the controller still tracks the target id.
func (c *Controller) Live(id string) bool {
	return c.store.get(id) != nil
}

// Spawn places a new target of kind on the play area and starts animating
// it. The returned disposer cancels the target's expire timer; calling it
// again does nothing.
func (c *Controller) Spawn(kind profile.Kind, cb Callbacks) (*Target, func(), error) {
	if c.host == nil {
		return nil, nil, fmt.Errorf("spawning %s: %w", kind, host.ErrMissingHost)
	}
	bounds, err := c.host.Bounds()
	if err != nil {
		return nil, nil, fmt.Errorf("spawning %s: %w", kind, err)
	}

	p := c.profiles.Profile(kind)
	pos := Place(bounds, p.Width, p.Height, c.rng.Float64)
	t := &Target{
		ID:        kind.String() + "-" + uuid.NewString(),
		Kind:      kind,
		X:         pos.X,
		Y:         pos.Y,
		Width:     p.Width,
		Height:    p.Height,
		Phase:     -1,
		SpawnedAt: c.loop.Now(),
	}

	gen := c.generation
	v, err := c.host.CreateVisual(kind, t.ID, pos)
	if err != nil {
		return nil, nil, fmt.Errorf("creating %s visual: %w", kind, err)
	}
	if gen != c.generation {
		if err := c.host.RemoveVisual(v); err != nil {
			log.Printf("[Targets] RemoveVisual %s error: %v\n", t.ID, err)
		}
		return nil, nil, ErrReset
	}

	e := &entry{target: t, visual: v, present: true, callbacks: cb}
	c.store.add(e)
	e.visualHandle = c.reg.Track(registry.Visual, t.ID, func() { c.removeVisual(e) })

	e.run = animator.Start(c.loop, p, c.applier(e), animator.Hooks{
		OnPhase: func(i int, _ string) { t.Phase = i },
		OnSettle: func() {
			if e.finished {
				return
			}
			if cb.OnSettled != nil {
				cb.OnSettled(t)
			}
		},
		OnComplete: func() { c.finish(e, OutcomeMissed) },
	})
	e.runHandle = c.reg.Track(registry.Animation, t.ID, func() { e.run.Cancel() })
	// The first style step reaches the host, which may reset us.
	if gen != c.generation {
		return nil, nil, c.abandon(e)
	}

	delay := time.Duration(float64(p.TotalDuration()) * c.cfg.ExpireFactor)
	timer := c.loop.AfterFunc(delay, func() { c.expire(e) })
	e.expireHandle = c.reg.Track(registry.Timer, t.ID, func() { timer.Stop() })

	if kind.Interactive() {
		unbind := c.host.Bind(v, func(ev host.InputEvent) { c.handleInput(e, ev) })
		e.listener = c.reg.Track(registry.Listener, t.ID, unbind)
		if gen != c.generation {
			return nil, nil, c.abandon(e)
		}
	}

	dispose := func() {
		if e.expireHandle.Release() {
			c.forgetIfDone(e)
		}
	}
	return t, dispose, nil
}

// Reset kills every target without firing continuations: runs and
// flourishes are cancelled, timers and bindings released and visuals removed.
func (c *Controller) Reset() {
	c.generation++
	for _, e := range c.store.all() {
		e.finished = true
		e.runHandle.Release()
		e.flourishHandle.Release()
		e.expireHandle.Release()
		e.listener.Release()
		e.visualHandle.Release()
	}
	c.store.Clear()
}

// abandon releases whatever a spawn interrupted by Reset managed to register
// after the reset ran.
func (c *Controller) abandon(e *entry) error {
	e.finished = true
	e.runHandle.Release()
	e.expireHandle.Release()
	e.listener.Release()
	e.visualHandle.Release()
	c.store.remove(e.target.ID)
	return ErrReset
}

func (c *Controller) handleInput(e *entry, ev host.InputEvent) {
	if e.finished || e.target.Clicked {
		return
	}
	switch ev.Type {
	case host.PointerDown:
		c.activate(e)
	case host.TouchStart:
		e.touchPending = true
	case host.TouchMove, host.TouchCancel:
		e.touchPending = false
	case host.TouchEnd:
		armed := e.touchPending
		e.touchPending = false
		if armed && ev.Inside {
			c.activate(e)
		}
	}
}

func (c *Controller) activate(e *entry) bool {
	if e.finished || e.target.Clicked || !e.target.Kind.Interactive() {
		return false
	}
	e.target.Clicked = true
	e.target.ClickedAt = c.loop.Now()

	e.runHandle.Release()
	e.listener.Release()

	e.flourish = animator.Start(c.loop, c.profiles.Flourish(), c.applier(e), animator.Hooks{
		OnComplete: func() { c.finish(e, OutcomeHit) },
	})
	e.flourishHandle = c.reg.Track(registry.Animation, e.target.ID, func() { e.flourish.Cancel() })
	return true
}

func (c *Controller) finish(e *entry, outcome Outcome) {
	if e.finished {
		return
	}
	e.finished = true
	e.target.Outcome = outcome
	e.target.FinishedAt = c.loop.Now()

	e.runHandle.Release()
	e.flourishHandle.Release()
	e.listener.Release()
	e.visualHandle.Release()
	c.forgetIfDone(e)

	if e.callbacks.OnFinished != nil {
		e.callbacks.OnFinished(e.target, outcome)
	}
}

// expire is the safety net: it reclaims the visual even if the animation
// never finished. The animation itself keeps running.
func (c *Controller) expire(e *entry) {
	if !e.expireHandle.Release() {
		return
	}
	e.target.Expired = true
	e.listener.Release()
	e.visualHandle.Release()
	c.forgetIfDone(e)
}

func (c *Controller) forgetIfDone(e *entry) {
	if e.finished && !e.expireHandle.Live() {
		c.store.remove(e.target.ID)
	}
}

func (c *Controller) removeVisual(e *entry) {
	if !e.present {
		return
	}
	e.present = false
	if err := c.host.RemoveVisual(e.visual); err != nil && !errors.Is(err, host.ErrUnknownVisual) {
		log.Printf("[Targets] RemoveVisual %s error: %v\n", e.target.ID, err)
	}
}

func (c *Controller) applier(e *entry) func(host.Step) {
	return func(step host.Step) {
		if !e.present {
			return
		}
		if step.Element != "" && !e.visual.Has(step.Element) {
			return
		}
		if err := c.host.ApplyStyleStep(e.visual, step); err != nil && !errors.Is(err, host.ErrUnknownVisual) {
			log.Printf("[Targets] ApplyStyleStep %s error: %v\n", e.target.ID, err)
		}
	}
}

// Place picks a random top-left corner so a w×h box fits inside b. A box
// larger than the area is pinned to 0 on that axis.
func Place(b host.Bounds, w, h float64, random func() float64) host.Position {
	maxX := max(0, b.Width-w)
	maxY := max(0, b.Height-h)
	return host.Position{X: random() * maxX, Y: random() * maxY}
}
