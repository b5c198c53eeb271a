// Package viewport classifies the host viewport as mobile or desktop.
//
// The Detector is the single source of truth for the breakpoint: every
// interaction component asks it for the current Mode instead of comparing
// widths on its own.
package viewport

import (
	"sort"
	"sync"

	"github.com/1broseidon/retroshell/internal/geom"
)

// DefaultBreakpoint is the first width classified as desktop.
const DefaultBreakpoint = 768

// Mode is the binary viewport classification.
type Mode int

const (
	// ModeDesktop allows free dragging and stacked windows.
	ModeDesktop Mode = iota
	// ModeMobile disables dragging and shows one full-screen window.
	ModeMobile
)

// String returns the string representation of the mode
func (m Mode) String() string {
	switch m {
	case ModeDesktop:
		return "desktop"
	case ModeMobile:
		return "mobile"
	default:
		return "unknown"
	}
}

// Classify returns the mode for a viewport width.
func Classify(width float64, breakpoint int) Mode {
	if breakpoint <= 0 {
		breakpoint = DefaultBreakpoint
	}
	if width < float64(breakpoint) {
		return ModeMobile
	}
	return ModeDesktop
}

// Listener is notified after a mode transition.
type Listener func(prev, next Mode)

// Detector tracks the viewport size and its mode.
type Detector struct {
	mu         sync.RWMutex
	breakpoint int
	size       geom.Size
	mode       Mode

	nextListener int
	listeners    map[int]Listener
}

// NewDetector creates a detector for an initial viewport size.
func NewDetector(size geom.Size, breakpoint int) *Detector {
	if breakpoint <= 0 {
		breakpoint = DefaultBreakpoint
	}
	size = size.Sanitize()
	return &Detector{
		breakpoint: breakpoint,
		size:       size,
		mode:       Classify(size.Width, breakpoint),
		listeners:  make(map[int]Listener),
	}
}

// Mode returns the current classification.
func (d *Detector) Mode() Mode {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.mode
}

// Mobile reports whether the viewport is constrained.
func (d *Detector) Mobile() bool {
	return d.Mode() == ModeMobile
}

// Size returns the last reported viewport size.
func (d *Detector) Size() geom.Size {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.size
}

// Breakpoint returns the configured breakpoint width.
func (d *Detector) Breakpoint() int {
	return d.breakpoint
}

// Resize records a new viewport size and reports whether the mode changed.
// Listeners run after the lock is released, in registration order.
func (d *Detector) Resize(size geom.Size) bool {
	size = size.Sanitize()

	d.mu.Lock()
	prev := d.mode
	d.size = size
	d.mode = Classify(size.Width, d.breakpoint)
	next := d.mode
	var notify []Listener
	if prev != next {
		ids := make([]int, 0, len(d.listeners))
		for id := range d.listeners {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		for _, id := range ids {
			notify = append(notify, d.listeners[id])
		}
	}
	d.mu.Unlock()

	for _, fn := range notify {
		fn(prev, next)
	}
	return prev != next
}

// Subscribe registers fn for mode transitions. The returned func removes it.
func (d *Detector) Subscribe(fn Listener) func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.nextListener
	d.nextListener++
	d.listeners[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			delete(d.listeners, id)
			d.mu.Unlock()
		})
	}
}
