// Package icons lays out desktop icons and tracks positions the user has
// dragged them to.
package icons

import (
	"sync"

	"github.com/1broseidon/retroshell/internal/catalog"
	"github.com/1broseidon/retroshell/internal/geom"
	"github.com/1broseidon/retroshell/internal/viewport"
)

// Column layout constants for desktop mode.
const (
	ColumnX = 16
	ColumnY = 16
	RowStep = 96
)

// Icon is one launcher on the desktop.
type Icon struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Glyph    string     `json:"glyph"`
	Position geom.Point `json:"position"`
	Moved    bool       `json:"moved,omitempty"`
}

// Snapshot is the icon layout for one viewport mode. When Reflow is set the
// positions are zero and presentation flows the icons itself.
type Snapshot struct {
	Mode   viewport.Mode `json:"-"`
	Reflow bool          `json:"reflow"`
	Icons  []Icon        `json:"icons"`
}

// Engine owns icon positions. Icons are created once from the catalog and
// never destroyed; only drags mutate them.
type Engine struct {
	mu        sync.RWMutex
	entries   []catalog.Descriptor
	overrides map[string]geom.Point
}

// NewEngine creates an engine with one icon per catalog descriptor, in
// catalog order.
func NewEngine(items []catalog.Descriptor) *Engine {
	e := &Engine{overrides: make(map[string]geom.Point)}
	e.entries = append(e.entries, items...)
	return e
}

// DefaultPosition returns the column slot for the icon at index i.
func DefaultPosition(i int) geom.Point {
	return geom.Point{X: ColumnX, Y: float64(ColumnY + i*RowStep)}
}

// Layout returns icon positions for mode.
func (e *Engine) Layout(mode viewport.Mode) Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	snap := Snapshot{
		Mode:   mode,
		Reflow: mode == viewport.ModeMobile,
		Icons:  make([]Icon, 0, len(e.entries)),
	}
	for i, d := range e.entries {
		icon := Icon{ID: d.ID, Title: d.Title, Glyph: d.Glyph}
		if !snap.Reflow {
			if pos, ok := e.overrides[d.ID]; ok {
				icon.Position = pos
				icon.Moved = true
			} else {
				icon.Position = DefaultPosition(i)
			}
		}
		snap.Icons = append(snap.Icons, icon)
	}
	return snap
}

// Position returns the current desktop-mode position of an icon.
func (e *Engine) Position(id string) (geom.Point, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	i := e.indexLocked(id)
	if i < 0 {
		return geom.Point{}, false
	}
	if pos, ok := e.overrides[id]; ok {
		return pos, true
	}
	return DefaultPosition(i), true
}

// Move records a dragged position. It is ignored in mobile mode and for
// unknown ids, and reports whether the position was stored.
func (e *Engine) Move(id string, pos geom.Point, mode viewport.Mode) bool {
	if mode == viewport.ModeMobile {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.indexLocked(id) < 0 {
		return false
	}
	e.overrides[id] = pos
	return true
}

// Descriptor returns the launch descriptor behind an icon.
func (e *Engine) Descriptor(id string) (catalog.Descriptor, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	i := e.indexLocked(id)
	if i < 0 {
		return catalog.Descriptor{}, false
	}
	return e.entries[i], true
}

// HitTest returns the id of the icon whose cell contains p in desktop mode.
// Later icons win so a dragged icon on top of another is picked first.
func (e *Engine) HitTest(p geom.Point, cell geom.Size) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for i := len(e.entries) - 1; i >= 0; i-- {
		id := e.entries[i].ID
		pos, ok := e.overrides[id]
		if !ok {
			pos = DefaultPosition(i)
		}
		if geom.RectFrom(pos, cell).Contains(p) {
			return id, true
		}
	}
	return "", false
}

// Reset clears all drag overrides.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.overrides = make(map[string]geom.Point)
}

// Replace swaps the catalog entries, keeping overrides for ids that survive.
func (e *Engine) Replace(items []catalog.Descriptor) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.entries = append(e.entries[:0:0], items...)
	for id := range e.overrides {
		if e.indexLocked(id) < 0 {
			delete(e.overrides, id)
		}
	}
}

func (e *Engine) indexLocked(id string) int {
	for i, d := range e.entries {
		if d.ID == id {
			return i
		}
	}
	return -1
}
