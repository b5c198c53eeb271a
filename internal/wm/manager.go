// Package wm owns the set of open windows: their geometry, stacking order and
// maximized state.
package wm

import (
	"sort"
	"sync"

	"github.com/1broseidon/retroshell/internal/catalog"
	"github.com/1broseidon/retroshell/internal/geom"
	"github.com/1broseidon/retroshell/internal/resize"
)

// Defaults for window sizing and placement.
const (
	DefaultWidth  = 640
	DefaultHeight = 480

	// BaseZ is the z-order given to the first window opened.
	BaseZ = 10

	DefaultWidthRatio   = 0.5
	DefaultHeightRatio  = 0.6
	DefaultCenterOffset = 50
)

// Options tunes sizing and placement.
type Options struct {
	DefaultSize  geom.Size
	MinSize      geom.Size
	WidthRatio   float64
	HeightRatio  float64
	CenterOffset float64
	BaseZ        int
}

// DefaultOptions returns the standard sizing rules.
func DefaultOptions() Options {
	return Options{
		DefaultSize:  geom.Size{Width: DefaultWidth, Height: DefaultHeight},
		MinSize:      resize.DefaultMinSize,
		WidthRatio:   DefaultWidthRatio,
		HeightRatio:  DefaultHeightRatio,
		CenterOffset: DefaultCenterOffset,
		BaseZ:        BaseZ,
	}
}

// normalized fills unset fields from DefaultOptions. A zero Options is the
// defaults as a whole, so CenterOffset 0 only applies when set alongside
// other fields.
func (o Options) normalized() Options {
	d := DefaultOptions()
	if o == (Options{}) {
		return d
	}
	if o.DefaultSize.Width <= 0 || o.DefaultSize.Height <= 0 {
		o.DefaultSize = d.DefaultSize
	}
	if o.MinSize.Width <= 0 || o.MinSize.Height <= 0 {
		o.MinSize = d.MinSize
	}
	if o.WidthRatio <= 0 || o.WidthRatio > 1 {
		o.WidthRatio = d.WidthRatio
	}
	if o.HeightRatio <= 0 || o.HeightRatio > 1 {
		o.HeightRatio = d.HeightRatio
	}
	if o.CenterOffset < 0 {
		o.CenterOffset = d.CenterOffset
	}
	if o.BaseZ <= 0 {
		o.BaseZ = d.BaseZ
	}
	return o
}

// Manager holds the open windows. At most one window exists per id, and z
// values are unique among open windows.
type Manager struct {
	mu      sync.RWMutex
	opts    Options
	windows []*Window
	// lastZ only grows while windows are open, so a freshly assigned z is
	// above every open window even after the previous top was closed.
	lastZ int
}

// NewManager creates an empty manager.
func NewManager(opts Options) *Manager {
	opts = opts.normalized()
	return &Manager{
		opts:  opts,
		lastZ: opts.BaseZ - 1,
	}
}

// Options returns the sizing rules in effect.
func (m *Manager) Options() Options {
	return m.opts
}

// Open brings the window for d to the front, creating it when it is not
// open. New windows are sized against viewport and left pending until the
// next Place. In single mode the new window replaces every open window.
// It reports whether a new window was created.
func (m *Manager) Open(d catalog.Descriptor, viewport geom.Size, single bool) (Window, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if w := m.findLocked(d.ID); w != nil {
		w.Z = m.nextZLocked()
		return w.clone(), false
	}

	if single {
		m.windows = m.windows[:0]
	}
	w := &Window{
		ID:      d.ID,
		Title:   d.Title,
		Glyph:   d.Glyph,
		Kind:    d.Kind,
		Size:    m.initialSize(d.DefaultSize, viewport),
		Z:       m.nextZLocked(),
		Pending: true,
	}
	if len(d.Params) > 0 {
		w.Params = make(map[string]string, len(d.Params))
		for k, v := range d.Params {
			w.Params[k] = v
		}
	}

	m.windows = append(m.windows, w)
	return w.clone(), true
}

// initialSize caps the requested size to a share of the viewport. Only a
// degenerate viewport falls back to the minimum size.
func (m *Manager) initialSize(requested *geom.Size, viewport geom.Size) geom.Size {
	size := m.opts.DefaultSize
	if requested != nil && requested.Width > 0 && requested.Height > 0 {
		size = *requested
	}
	viewport = viewport.Sanitize()
	return m.nonDegenerate(size.Min(viewport.Scale(m.opts.WidthRatio, m.opts.HeightRatio)))
}

// nonDegenerate replaces zero, negative and non-finite components with the
// minimum size. Other values pass through unchanged.
func (m *Manager) nonDegenerate(s geom.Size) geom.Size {
	s = s.Sanitize()
	if s.Width <= 0 {
		s.Width = m.opts.MinSize.Width
	}
	if s.Height <= 0 {
		s.Height = m.opts.MinSize.Height
	}
	return s
}

// Place centers every pending window in viewport, shifted up by the center
// offset, and clears the pending flag. It returns the ids it placed.
func (m *Manager) Place(viewport geom.Size) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	viewport = viewport.Sanitize()
	var placed []string
	for _, w := range m.windows {
		if !w.Pending {
			continue
		}
		w.Position = geom.Point{
			X: viewport.Width/2 - w.Size.Width/2,
			Y: viewport.Height/2 - w.Size.Height/2 - m.opts.CenterOffset,
		}
		w.Pending = false
		placed = append(placed, w.ID)
	}
	return placed
}

// Close removes a window. Unknown ids are ignored.
func (m *Manager) Close(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, w := range m.windows {
		if w.ID == id {
			m.windows = append(m.windows[:i], m.windows[i+1:]...)
			return true
		}
	}
	return false
}

// Focus raises a window above all others. A window already on top keeps its
// z value.
func (m *Manager) Focus(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	w := m.findLocked(id)
	if w == nil {
		return false
	}
	return m.raiseLocked(w)
}

// Move sets a window position. Maximized windows do not move.
func (m *Manager) Move(id string, pos geom.Point) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	w := m.findLocked(id)
	if w == nil || w.Maximized {
		return false
	}
	w.Position = pos
	w.Pending = false
	return true
}

// Resize sets a window size as given, except for degenerate components.
// Maximized windows keep their restore size.
func (m *Manager) Resize(id string, size geom.Size) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	w := m.findLocked(id)
	if w == nil || w.Maximized {
		return false
	}
	w.Size = m.nonDegenerate(size)
	w.Pending = false
	return true
}

// SetBounds moves and resizes a window in one step, as a resize from a left
// or top handle does.
func (m *Manager) SetBounds(id string, r geom.Rect) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	w := m.findLocked(id)
	if w == nil || w.Maximized {
		return false
	}
	w.Position = r.Pos()
	w.Size = m.nonDegenerate(r.Size())
	w.Pending = false
	return true
}

// SetMaximized sets the maximized flag. Position and size are kept so that
// restoring returns the window to where it was.
func (m *Manager) SetMaximized(id string, maximized bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	w := m.findLocked(id)
	if w == nil || w.Maximized == maximized {
		return false
	}
	w.Maximized = maximized
	return true
}

// Get returns a copy of a window.
func (m *Manager) Get(id string) (Window, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	w := m.findLocked(id)
	if w == nil {
		return Window{}, false
	}
	return w.clone(), true
}

// Snapshot returns copies of the open windows in open order.
func (m *Manager) Snapshot() []Window {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Window, 0, len(m.windows))
	for _, w := range m.windows {
		out = append(out, w.clone())
	}
	return out
}

// Ordered returns copies of the open windows from back to front.
func (m *Manager) Ordered() []Window {
	out := m.Snapshot()
	sort.Slice(out, func(i, j int) bool { return out[i].Z < out[j].Z })
	return out
}

// Top returns the front-most window.
func (m *Manager) Top() (Window, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var top *Window
	for _, w := range m.windows {
		if top == nil || w.Z > top.Z {
			top = w
		}
	}
	if top == nil {
		return Window{}, false
	}
	return top.clone(), true
}

// Len returns the number of open windows.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.windows)
}

// Reset closes every window and restarts z numbering.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.windows = nil
	m.lastZ = m.opts.BaseZ - 1
}

func (m *Manager) findLocked(id string) *Window {
	for _, w := range m.windows {
		if w.ID == id {
			return w
		}
	}
	return nil
}

func (m *Manager) maxZLocked() int {
	max := 0
	for _, w := range m.windows {
		if w.Z > max {
			max = w.Z
		}
	}
	return max
}

// nextZLocked hands out the next z value. With no windows open numbering
// restarts at the baseline.
func (m *Manager) nextZLocked() int {
	if len(m.windows) == 0 {
		m.lastZ = m.opts.BaseZ - 1
	}
	m.lastZ++
	return m.lastZ
}

func (m *Manager) raiseLocked(w *Window) bool {
	if w.Z == m.maxZLocked() {
		return false
	}
	w.Z = m.nextZLocked()
	return true
}
