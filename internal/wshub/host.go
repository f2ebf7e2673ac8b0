package wshub

import (
	"sync"

	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/host"
	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/profile"
)

// Sender delivers server messages to one browser.
type Sender interface {
	Enqueue(msg ServerMessage) bool
}

type binding struct {
	token uint64
	fn    func(host.InputEvent)
}

// Host renders targets by telling the browser what to draw and feeds the
// browser's pointer and touch events back to the game.
type Host struct {
	out Sender

	mu        sync.Mutex
	bounds    *host.Bounds
	visuals   map[string]host.Visual
	bindings  map[string]binding
	nextToken uint64
}

func NewHost(out Sender) *Host {
	return &Host{
		out:      out,
		visuals:  make(map[string]host.Visual),
		bindings: make(map[string]binding),
	}
}

// SetBounds records the play-area size reported by the browser. A zero size
// means the play area is gone.
func (h *Host) SetBounds(b host.Bounds) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if b.Width <= 0 && b.Height <= 0 {
		h.bounds = nil
		return
	}
	h.bounds = &b
}

func (h *Host) Bounds() (host.Bounds, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.bounds == nil {
		return host.Bounds{}, host.ErrMissingHost
	}
	return *h.bounds, nil
}

func (h *Host) CreateVisual(kind profile.Kind, id string, pos host.Position) (host.Visual, error) {
	v := host.Visual{ID: id, Kind: kind, Position: pos, Elements: host.Elements(kind)}
	h.mu.Lock()
	h.visuals[id] = v
	h.mu.Unlock()

	h.out.Enqueue(ServerMessage{Type: "create", ID: id, Kind: kind.String(), X: pos.X, Y: pos.Y})
	return v, nil
}

func (h *Host) RemoveVisual(v host.Visual) error {
	h.mu.Lock()
	_, ok := h.visuals[v.ID]
	delete(h.visuals, v.ID)
	delete(h.bindings, v.ID)
	h.mu.Unlock()
	if !ok {
		return host.ErrUnknownVisual
	}

	h.out.Enqueue(ServerMessage{Type: "remove", ID: v.ID})
	return nil
}

func (h *Host) ApplyStyleStep(v host.Visual, step host.Step) error {
	h.mu.Lock()
	_, ok := h.visuals[v.ID]
	h.mu.Unlock()
	if !ok {
		return host.ErrUnknownVisual
	}

	h.out.Enqueue(ServerMessage{
		Type:     "step",
		ID:       v.ID,
		Element:  step.Element,
		Props:    step.Props,
		Duration: step.Duration.Milliseconds(),
		Easing:   step.Easing,
	})
	return nil
}

// Bind routes input on v to fn. A later Bind on the same visual replaces fn.
func (h *Host) Bind(v host.Visual, fn func(host.InputEvent)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextToken++
	token := h.nextToken
	h.bindings[v.ID] = binding{token: token, fn: fn}

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if b, ok := h.bindings[v.ID]; ok && b.token == token {
			delete(h.bindings, v.ID)
		}
	}
}

// Input delivers a browser input message to the handler bound to its target.
// It returns false for unknown message types and unbound targets.
func (h *Host) Input(msg ClientMessage) bool {
	var ev host.InputEvent
	switch msg.Type {
	case "down":
		ev = host.InputEvent{Type: host.PointerDown, Inside: true}
	case "ts":
		ev = host.InputEvent{Type: host.TouchStart, Inside: true}
	case "tm":
		ev = host.InputEvent{Type: host.TouchMove, Inside: msg.Inside}
	case "te":
		ev = host.InputEvent{Type: host.TouchEnd, Inside: msg.Inside}
	case "tc":
		ev = host.InputEvent{Type: host.TouchCancel}
	default:
		return false
	}

	h.mu.Lock()
	b, ok := h.bindings[msg.ID]
	h.mu.Unlock()
	if !ok {
		return false
	}
	b.fn(ev)
	return true
}

// Visuals returns the number of visuals the browser is currently showing.
func (h *Host) Visuals() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.visuals)
}
