package wshub

import (
	"errors"
	"testing"
	"time"

	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/host"
	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/profile"
)

type recordingSender struct {
	msgs []ServerMessage
}

func (r *recordingSender) Enqueue(msg ServerMessage) bool {
	r.msgs = append(r.msgs, msg)
	return true
}

func (r *recordingSender) types() []string {
	out := make([]string, len(r.msgs))
	for i, m := range r.msgs {
		out[i] = m.Type
	}
	return out
}

var _ host.Host = (*Host)(nil)

func TestHost_BoundsMissingUntilResize(t *testing.T) {
	h := NewHost(&recordingSender{})
	if _, err := h.Bounds(); !errors.Is(err, host.ErrMissingHost) {
		t.Errorf("Bounds() error = %v, want ErrMissingHost", err)
	}

	h.SetBounds(host.Bounds{Width: 390, Height: 700})
	b, err := h.Bounds()
	if err != nil || b.Width != 390 || b.Height != 700 {
		t.Errorf("Bounds() = %+v, %v; want 390x700", b, err)
	}

	h.SetBounds(host.Bounds{})
	if _, err := h.Bounds(); !errors.Is(err, host.ErrMissingHost) {
		t.Errorf("Bounds() after zero resize error = %v, want ErrMissingHost", err)
	}
}

func TestHost_VisualMessages(t *testing.T) {
	out := &recordingSender{}
	h := NewHost(out)

	v, err := h.CreateVisual(profile.Hold, "hold-1", host.Position{X: 10, Y: 20})
	if err != nil {
		t.Fatalf("CreateVisual() error = %v", err)
	}
	if !v.Has("label") {
		t.Error("hold visual should have a label element")
	}
	step := host.Step{Element: "bubble", Props: map[string]string{"scale": "1.6"}, Duration: 2 * time.Second, Easing: "ease-in"}
	if err := h.ApplyStyleStep(v, step); err != nil {
		t.Fatalf("ApplyStyleStep() error = %v", err)
	}
	if err := h.RemoveVisual(v); err != nil {
		t.Fatalf("RemoveVisual() error = %v", err)
	}
	if err := h.RemoveVisual(v); !errors.Is(err, host.ErrUnknownVisual) {
		t.Errorf("second RemoveVisual() error = %v, want ErrUnknownVisual", err)
	}
	if err := h.ApplyStyleStep(v, step); !errors.Is(err, host.ErrUnknownVisual) {
		t.Errorf("ApplyStyleStep() after remove error = %v, want ErrUnknownVisual", err)
	}

	got := out.types()
	want := []string{"create", "step", "remove"}
	if len(got) != len(want) {
		t.Fatalf("messages = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("message %d = %q, want %q", i, got[i], want[i])
		}
	}

	create, st := out.msgs[0], out.msgs[1]
	if create.Kind != "hold" || create.X != 10 || create.Y != 20 {
		t.Errorf("create = %+v, want hold at 10,20", create)
	}
	if st.Element != "bubble" || st.Duration != 2000 || st.Props["scale"] != "1.6" || st.Easing != "ease-in" {
		t.Errorf("step = %+v", st)
	}
	if h.Visuals() != 0 {
		t.Errorf("Visuals() = %d, want 0", h.Visuals())
	}
}

func TestHost_InputRouting(t *testing.T) {
	h := NewHost(&recordingSender{})
	v, _ := h.CreateVisual(profile.Tap, "tap-1", host.Position{})

	var got []host.InputEvent
	unbind := h.Bind(v, func(ev host.InputEvent) { got = append(got, ev) })

	for _, msg := range []ClientMessage{
		{Type: "down", ID: "tap-1"},
		{Type: "ts", ID: "tap-1"},
		{Type: "tm", ID: "tap-1"},
		{Type: "te", ID: "tap-1", Inside: true},
		{Type: "tc", ID: "tap-1"},
	} {
		if !h.Input(msg) {
			t.Errorf("Input(%s) returned false", msg.Type)
		}
	}
	want := []host.InputType{host.PointerDown, host.TouchStart, host.TouchMove, host.TouchEnd, host.TouchCancel}
	if len(got) != len(want) {
		t.Fatalf("events = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Type != want[i] {
			t.Errorf("event %d type = %v, want %v", i, got[i].Type, want[i])
		}
	}
	if !got[3].Inside {
		t.Error("touch end should carry Inside")
	}

	if h.Input(ClientMessage{Type: "resize", ID: "tap-1"}) {
		t.Error("Input() should ignore non-input messages")
	}
	if h.Input(ClientMessage{Type: "down", ID: "other"}) {
		t.Error("Input() for an unbound target should return false")
	}

	unbind()
	unbind()
	if h.Input(ClientMessage{Type: "down", ID: "tap-1"}) {
		t.Error("Input() after unbind should return false")
	}
}

func TestHost_StaleUnbindKeepsNewBinding(t *testing.T) {
	h := NewHost(&recordingSender{})
	v, _ := h.CreateVisual(profile.Tap, "tap-1", host.Position{})

	old := h.Bind(v, func(host.InputEvent) {})
	calls := 0
	h.Bind(v, func(host.InputEvent) { calls++ })
	old()

	h.Input(ClientMessage{Type: "down", ID: "tap-1"})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
