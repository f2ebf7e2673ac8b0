package host

import (
	"sync"

	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/profile"
)

// AppliedStep records one ApplyStyleStep call on a Memory host.
type AppliedStep struct {
	VisualID string
	Step     Step
}

// Memory is an in-process host that keeps visuals in a map and lets callers
// inject input.
type Memory struct {
	mu        sync.Mutex
	bounds    *Bounds
	visuals   map[string]Visual
	bindings  map[string]map[uint64]func(InputEvent)
	nextBind  uint64
	created   []string
	removed   map[string]int
	steps     []AppliedStep
	onCreate  func(Visual)
	onStep    func(Visual, Step)
	onBind    func(Visual)
	createErr error
}

func NewMemory(width, height float64) *Memory {
	m := &Memory{
		visuals:  make(map[string]Visual),
		bindings: make(map[string]map[uint64]func(InputEvent)),
		removed:  make(map[string]int),
	}
	if width > 0 || height > 0 {
		m.bounds = &Bounds{Width: width, Height: height}
	}
	return m
}

func (m *Memory) SetBounds(b Bounds) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bounds = &b
}

// OnCreate sets a hook run after each visual is created, outside the lock.
func (m *Memory) OnCreate(fn func(Visual)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onCreate = fn
}

// OnStep sets a hook run after each applied style step, outside the lock.
func (m *Memory) OnStep(fn func(Visual, Step)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onStep = fn
}

// OnBind sets a hook run after each Bind, outside the lock.
func (m *Memory) OnBind(fn func(Visual)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onBind = fn
}

// FailCreate makes every later CreateVisual return err; nil clears it.
func (m *Memory) FailCreate(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createErr = err
}

func (m *Memory) Bounds() (Bounds, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.bounds == nil {
		return Bounds{}, ErrMissingHost
	}
	return *m.bounds, nil
}

func (m *Memory) CreateVisual(kind profile.Kind, id string, pos Position) (Visual, error) {
	m.mu.Lock()
	if m.createErr != nil {
		err := m.createErr
		m.mu.Unlock()
		return Visual{}, err
	}
	v := Visual{ID: id, Kind: kind, Position: pos, Elements: Elements(kind)}
	m.visuals[id] = v
	m.created = append(m.created, id)
	hook := m.onCreate
	m.mu.Unlock()

	if hook != nil {
		hook(v)
	}
	return v, nil
}

func (m *Memory) RemoveVisual(v Visual) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.visuals[v.ID]; !ok {
		return ErrUnknownVisual
	}
	delete(m.visuals, v.ID)
	m.removed[v.ID]++
	return nil
}

func (m *Memory) ApplyStyleStep(v Visual, step Step) error {
	m.mu.Lock()
	if _, ok := m.visuals[v.ID]; !ok {
		m.mu.Unlock()
		return ErrUnknownVisual
	}
	m.steps = append(m.steps, AppliedStep{VisualID: v.ID, Step: step})
	hook := m.onStep
	m.mu.Unlock()

	if hook != nil {
		hook(v, step)
	}
	return nil
}

func (m *Memory) Bind(v Visual, fn func(InputEvent)) func() {
	m.mu.Lock()
	id := m.nextBind
	m.nextBind++
	if m.bindings[v.ID] == nil {
		m.bindings[v.ID] = make(map[uint64]func(InputEvent))
	}
	m.bindings[v.ID][id] = fn
	hook := m.onBind
	m.mu.Unlock()

	if hook != nil {
		hook(v)
	}
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.bindings[v.ID], id)
		if len(m.bindings[v.ID]) == 0 {
			delete(m.bindings, v.ID)
		}
	}
}

// Dispatch delivers events to every handler bound to the visual id.
func (m *Memory) Dispatch(id string, events ...InputEvent) {
	for _, ev := range events {
		m.mu.Lock()
		handlers := make([]func(InputEvent), 0, len(m.bindings[id]))
		for _, fn := range m.bindings[id] {
			handlers = append(handlers, fn)
		}
		m.mu.Unlock()
		for _, fn := range handlers {
			fn(ev)
		}
	}
}

// Live returns the ids of visuals currently on the play area.
func (m *Memory) Live() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.visuals))
	for id := range m.visuals {
		ids = append(ids, id)
	}
	return ids
}

func (m *Memory) Visual(id string) (Visual, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.visuals[id]
	return v, ok
}

// Created returns visual ids in creation order.
func (m *Memory) Created() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.created...)
}

// Removed returns how many times the visual id was removed.
func (m *Memory) Removed(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removed[id]
}

// Bindings returns the number of live input bindings across all visuals.
func (m *Memory) Bindings() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, b := range m.bindings {
		n += len(b)
	}
	return n
}

// Steps returns the steps applied to the visual id, in order.
func (m *Memory) Steps(id string) []Step {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Step
	for _, s := range m.steps {
		if s.VisualID == id {
			out = append(out, s.Step)
		}
	}
	return out
}
