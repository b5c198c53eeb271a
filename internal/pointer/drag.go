// Package pointer implements the click/drag classifier shared by desktop
// icons and window title bars.
package pointer

import "github.com/1broseidon/retroshell/internal/geom"

// DefaultThreshold is the pointer travel, in pixels, that turns a click into
// a drag.
const DefaultThreshold = 5

// Outcome classifies a finished gesture.
type Outcome int

const (
	// OutcomeClick means the pointer never reached the drag threshold.
	OutcomeClick Outcome = iota
	// OutcomeDrag means the threshold was reached at some point.
	OutcomeDrag
)

// String returns the string representation of the outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeClick:
		return "click"
	case OutcomeDrag:
		return "drag"
	default:
		return "unknown"
	}
}

// Session tracks one pointer-down to pointer-up interaction.
type Session struct {
	Origin geom.Point // pointer position at pointer-down
	Offset geom.Point // pointer minus element position at pointer-down

	threshold float64
	disabled  bool
	dragged   bool
	ended     bool
}

// Begin starts a session for an element at elementPos grabbed at pointer.
// A disabled session never moves the element and always ends as a click.
func Begin(pointer, elementPos geom.Point, threshold float64, disabled bool) *Session {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Session{
		Origin:    pointer,
		Offset:    pointer.Sub(elementPos),
		threshold: threshold,
		disabled:  disabled,
	}
}

// ElementPosition returns where the element sits for a pointer position.
func ElementPosition(pointer, offset geom.Point) geom.Point {
	return pointer.Sub(offset)
}

// Move feeds a pointer position into the session. It returns the new element
// position and whether the element should move to it. Once the threshold is
// reached the session stays a drag even if the pointer returns to the origin.
func (s *Session) Move(pointer geom.Point) (geom.Point, bool) {
	if s.ended || s.disabled {
		return geom.Point{}, false
	}
	s.classify(pointer)
	if !s.dragged {
		return geom.Point{}, false
	}
	return ElementPosition(pointer, s.Offset), true
}

// End closes the session with the release position and classifies it.
func (s *Session) End(pointer geom.Point) Outcome {
	if !s.ended && !s.disabled {
		s.classify(pointer)
	}
	s.ended = true
	if s.disabled || !s.dragged {
		return OutcomeClick
	}
	return OutcomeDrag
}

// Dragged reports whether the threshold has been reached.
func (s *Session) Dragged() bool {
	return s.dragged
}

// Disabled reports whether dragging was disabled at session start.
func (s *Session) Disabled() bool {
	return s.disabled
}

func (s *Session) classify(pointer geom.Point) {
	if s.dragged {
		return
	}
	if pointer.Chebyshev(s.Origin) >= s.threshold {
		s.dragged = true
	}
}
