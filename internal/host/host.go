// Package host defines what the game core needs from the presentation layer:
// a place to put visuals, a source of input on them, and the play-area size.
package host

import (
	"errors"
	"time"

	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/profile"
)

var (
	// ErrMissingHost is returned when there is no play area to spawn into.
	ErrMissingHost = errors.New("play area unavailable")
	// ErrUnknownVisual is returned for a visual the host no longer has.
	ErrUnknownVisual = errors.New("unknown visual")
)

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Bounds struct {
	Width  float64 `json:"w"`
	Height float64 `json:"h"`
}

// Visual is the host's handle for one rendered target.
type Visual struct {
	ID       string
	Kind     profile.Kind
	Position Position
	Elements []string
}

// Has reports whether the visual contains the named sub-element.
func (v Visual) Has(element string) bool {
	for _, el := range v.Elements {
		if el == element {
			return true
		}
	}
	return false
}

// Step is one style transition applied to a sub-element of a visual.
type Step struct {
	Element  string
	Props    map[string]string
	Duration time.Duration
	Easing   string
}

type InputType int

const (
	PointerDown InputType = iota
	TouchStart
	TouchMove
	TouchEnd
	TouchCancel
)

// InputEvent is a press event on a bound visual. Inside reports whether the
// pointer was over the visual when the event happened.
type InputEvent struct {
	Type   InputType
	Inside bool
}

type Presenter interface {
	CreateVisual(kind profile.Kind, id string, pos Position) (Visual, error)
	RemoveVisual(v Visual) error
	ApplyStyleStep(v Visual, step Step) error
}

type Input interface {
	// Bind subscribes fn to input on v. The returned func unsubscribes it.
	Bind(v Visual, fn func(InputEvent)) (unbind func())
}

type BoundsProvider interface {
	Bounds() (Bounds, error)
}

// Host is the full collaborator set the lifecycle controller needs.
type Host interface {
	Presenter
	Input
	BoundsProvider
}

// Elements lists the sub-elements a visual of kind is built from.
func Elements(kind profile.Kind) []string {
	switch kind {
	case profile.Tap:
		return []string{"bubble", "border", "turbulence", "petals"}
	case profile.Hold:
		return []string{"bubble", "border", "turbulence", "petals", "label"}
	case profile.Swipe:
		return []string{"container", "line", "wave", "splash"}
	}
	return nil
}
