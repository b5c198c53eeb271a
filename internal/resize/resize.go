// Package resize computes window bounds for edge and corner resize handles.
package resize

import (
	"fmt"
	"math"
	"strings"

	"github.com/1broseidon/retroshell/internal/geom"
)

// Minimum window dimensions in pixels.
const (
	MinWidth  = 200
	MinHeight = 150
)

// DefaultMinSize is the smallest size a resize may produce.
var DefaultMinSize = geom.Size{Width: MinWidth, Height: MinHeight}

// Handle names the edge or corner being dragged.
type Handle string

const (
	HandleTop         Handle = "top"
	HandleBottom      Handle = "bottom"
	HandleLeft        Handle = "left"
	HandleRight       Handle = "right"
	HandleTopLeft     Handle = "top-left"
	HandleTopRight    Handle = "top-right"
	HandleBottomLeft  Handle = "bottom-left"
	HandleBottomRight Handle = "bottom-right"
)

// Handles lists every handle in render order.
var Handles = []Handle{
	HandleTop, HandleBottom, HandleLeft, HandleRight,
	HandleTopLeft, HandleTopRight, HandleBottomLeft, HandleBottomRight,
}

// ParseHandle validates a handle name.
func ParseHandle(s string) (Handle, error) {
	h := Handle(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Handles {
		if h == known {
			return h, nil
		}
	}
	return "", fmt.Errorf("unknown resize handle: %q", s)
}

// Top reports whether the handle drags the top edge.
func (h Handle) Top() bool { return h == HandleTop || h == HandleTopLeft || h == HandleTopRight }

// Bottom reports whether the handle drags the bottom edge.
func (h Handle) Bottom() bool {
	return h == HandleBottom || h == HandleBottomLeft || h == HandleBottomRight
}

// Left reports whether the handle drags the left edge.
func (h Handle) Left() bool { return h == HandleLeft || h == HandleTopLeft || h == HandleBottomLeft }

// Right reports whether the handle drags the right edge.
func (h Handle) Right() bool {
	return h == HandleRight || h == HandleTopRight || h == HandleBottomRight
}

// Apply returns the bounds produced by dragging handle to pointer, starting
// from start. Edges not named by the handle stay where they were; left and
// top are recomputed from the fixed far edge so the anchor never moves.
func Apply(h Handle, start geom.Rect, pointer geom.Point, min geom.Size) geom.Rect {
	if min.Width <= 0 {
		min.Width = MinWidth
	}
	if min.Height <= 0 {
		min.Height = MinHeight
	}

	out := start
	if h.Right() {
		out.Width = math.Max(pointer.X-start.X, min.Width)
	}
	if h.Bottom() {
		out.Height = math.Max(pointer.Y-start.Y, min.Height)
	}
	if h.Left() {
		right := start.Right()
		out.X = math.Min(pointer.X, right-min.Width)
		out.Width = right - out.X
	}
	if h.Top() {
		bottom := start.Bottom()
		out.Y = math.Min(pointer.Y, bottom-min.Height)
		out.Height = bottom - out.Y
	}
	return out
}

// Session is one resize gesture. Every update is computed from the bounds
// captured at the start so incremental moves never accumulate error.
type Session struct {
	Handle Handle
	Start  geom.Rect
	Min    geom.Size
}

// Begin captures the bounds for a new resize gesture.
func Begin(h Handle, start geom.Rect, min geom.Size) *Session {
	return &Session{Handle: h, Start: start, Min: min}
}

// Update returns the bounds for the current pointer position.
func (s *Session) Update(pointer geom.Point) geom.Rect {
	return Apply(s.Handle, s.Start, pointer, s.Min)
}
