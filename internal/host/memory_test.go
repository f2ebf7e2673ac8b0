package host

import (
	"errors"
	"testing"

	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/profile"
)

func TestMemory_NoBounds(t *testing.T) {
	m := NewMemory(0, 0)
	if _, err := m.Bounds(); !errors.Is(err, ErrMissingHost) {
		t.Errorf("Bounds() error = %v, want ErrMissingHost", err)
	}
	m.SetBounds(Bounds{Width: 300, Height: 200})
	b, err := m.Bounds()
	if err != nil {
		t.Fatalf("Bounds() error: %v", err)
	}
	if b.Width != 300 || b.Height != 200 {
		t.Errorf("Bounds() = %+v, want 300x200", b)
	}
}

func TestMemory_CreateRemove(t *testing.T) {
	m := NewMemory(100, 100)
	v, err := m.CreateVisual(profile.Hold, "hold-1", Position{X: 5, Y: 6})
	if err != nil {
		t.Fatalf("CreateVisual() error: %v", err)
	}
	if !v.Has("label") {
		t.Error("hold visual should have a label element")
	}
	if len(m.Live()) != 1 {
		t.Errorf("Live() = %d, want 1", len(m.Live()))
	}

	if err := m.RemoveVisual(v); err != nil {
		t.Fatalf("RemoveVisual() error: %v", err)
	}
	if err := m.RemoveVisual(v); !errors.Is(err, ErrUnknownVisual) {
		t.Errorf("second RemoveVisual() error = %v, want ErrUnknownVisual", err)
	}
	if m.Removed("hold-1") != 1 {
		t.Errorf("Removed() = %d, want 1", m.Removed("hold-1"))
	}
	if err := m.ApplyStyleStep(v, Step{Element: "bubble"}); !errors.Is(err, ErrUnknownVisual) {
		t.Errorf("ApplyStyleStep() on removed visual error = %v, want ErrUnknownVisual", err)
	}
}

func TestMemory_BindDispatchUnbind(t *testing.T) {
	m := NewMemory(100, 100)
	v, _ := m.CreateVisual(profile.Tap, "tap-1", Position{})

	var got []InputType
	unbind := m.Bind(v, func(ev InputEvent) { got = append(got, ev.Type) })
	m.Dispatch("tap-1", InputEvent{Type: TouchStart}, InputEvent{Type: TouchEnd, Inside: true})

	if len(got) != 2 || got[0] != TouchStart || got[1] != TouchEnd {
		t.Errorf("dispatched = %v, want [TouchStart TouchEnd]", got)
	}

	unbind()
	unbind()
	if m.Bindings() != 0 {
		t.Errorf("Bindings() = %d, want 0", m.Bindings())
	}
	m.Dispatch("tap-1", InputEvent{Type: PointerDown})
	if len(got) != 2 {
		t.Error("unbound handler still received input")
	}
}

func TestMemory_StepAndBindHooks(t *testing.T) {
	m := NewMemory(100, 100)
	var steps, binds int
	m.OnStep(func(Visual, Step) { steps++ })
	m.OnBind(func(Visual) { binds++ })

	v, _ := m.CreateVisual(profile.Tap, "tap-1", Position{})
	if err := m.ApplyStyleStep(v, Step{Element: "bubble"}); err != nil {
		t.Fatalf("ApplyStyleStep() error: %v", err)
	}
	m.Bind(v, func(InputEvent) {})

	m.RemoveVisual(v)
	if err := m.ApplyStyleStep(v, Step{Element: "bubble"}); err != ErrUnknownVisual {
		t.Errorf("ApplyStyleStep() on removed visual = %v, want ErrUnknownVisual", err)
	}
	if steps != 1 || binds != 1 {
		t.Errorf("hooks ran steps=%d binds=%d, want 1/1", steps, binds)
	}
}

func TestElements(t *testing.T) {
	if len(Elements(profile.Swipe)) != 4 {
		t.Errorf("swipe elements = %v", Elements(profile.Swipe))
	}
	if (Visual{Elements: Elements(profile.Tap)}).Has("label") {
		t.Error("tap visual should not have a label")
	}
}
