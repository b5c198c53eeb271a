package desktop

import (
	"fmt"
	"strings"

	"github.com/1broseidon/retroshell/internal/actionlog"
	"github.com/1broseidon/retroshell/internal/geom"
	"github.com/1broseidon/retroshell/internal/pointer"
	"github.com/1broseidon/retroshell/internal/resize"
)

// TargetKind is the kind of element under a pointer-down.
type TargetKind string

const (
	TargetIcon         TargetKind = "icon"
	TargetTitleBar     TargetKind = "title-bar"
	TargetResizeHandle TargetKind = "resize-handle"
	TargetWindowBody   TargetKind = "window-body"
	TargetBackground   TargetKind = "background"
)

// ParseTargetKind validates a target kind name.
func ParseTargetKind(s string) (TargetKind, error) {
	k := TargetKind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case TargetIcon, TargetTitleBar, TargetResizeHandle, TargetWindowBody, TargetBackground:
		return k, nil
	case "":
		return TargetBackground, nil
	}
	return "", fmt.Errorf("unknown pointer target %q", s)
}

// Target is the element a pointer-down landed on. ID names the icon or
// window; Handle is set for resize handles.
type Target struct {
	Kind   TargetKind    `json:"kind"`
	ID     string        `json:"id,omitempty"`
	Handle resize.Handle `json:"handle,omitempty"`
}

// PointerDown starts a gesture on t at p. Any live gesture is released
// first, and the context menu closes. It reports whether a gesture started.
func (d *Desktop) PointerDown(t Target, p geom.Point) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.gesture != nil {
		d.abortGestureLocked("superseded")
	}
	d.hideMenuLocked()
	defer d.commitLocked()

	mobile := d.detector.Mobile()
	switch t.Kind {
	case TargetIcon:
		pos, ok := d.icons.Position(t.ID)
		if !ok {
			return false
		}
		s := pointer.Begin(p, pos, d.threshold, mobile)
		d.beginGestureLocked(&gesture{kind: GestureIconDrag, id: t.ID, drag: s})
		return true

	case TargetTitleBar:
		w, ok := d.windows.Get(t.ID)
		if !ok {
			return false
		}
		d.focusLocked(t.ID)
		if mobile || w.Maximized {
			return false
		}
		s := pointer.Begin(p, w.Position, d.threshold, false)
		d.beginGestureLocked(&gesture{kind: GestureWindowDrag, id: t.ID, drag: s})
		return true

	case TargetResizeHandle:
		w, ok := d.windows.Get(t.ID)
		if !ok {
			return false
		}
		d.focusLocked(t.ID)
		if mobile || w.Maximized || t.Handle == "" {
			return false
		}
		s := resize.Begin(t.Handle, w.Bounds(), d.minSize())
		d.beginGestureLocked(&gesture{kind: GestureResize, id: t.ID, resize: s})
		return true

	case TargetWindowBody:
		d.focusLocked(t.ID)
	}
	return false
}

// PointerMove feeds a pointer position to the live gesture, if any.
func (d *Desktop) PointerMove(p geom.Point) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.moves.dispatch(p)
}

// PointerUp ends the live gesture. An icon gesture that never reached the
// drag threshold opens the icon's catalog entry.
func (d *Desktop) PointerUp(p geom.Point) GestureResult {
	d.mu.Lock()
	defer d.mu.Unlock()

	g := d.gesture
	if g == nil {
		return GestureResult{Result: "none"}
	}
	d.endGestureLocked()

	res := GestureResult{Kind: g.kind, ID: g.id, Outcome: pointer.OutcomeDrag}
	switch {
	case g.drag != nil:
		res.Outcome = g.drag.End(p)
	case g.resize != nil:
		if w, ok := d.windows.Get(g.id); ok {
			d.record(actionlog.ActionResize, g.id, map[string]any{
				"x": w.Position.X, "y": w.Position.Y, "width": w.Size.Width, "height": w.Size.Height,
			})
		}
	}
	res.Result = res.Outcome.String()

	if g.kind == GestureIconDrag && res.Outcome == pointer.OutcomeClick {
		if desc, ok := d.catalog.Lookup(g.id); ok {
			d.openLocked(desc)
			res.Opened = desc.ID
		}
	}
	d.record(actionlog.ActionGestureEnd, g.id, map[string]any{"kind": string(g.kind), "result": res.Result})
	d.commitLocked()
	return res
}

func (d *Desktop) beginGestureLocked(g *gesture) {
	g.release = d.moves.add(func(p geom.Point) { d.applyMoveLocked(g, p) })
	d.gesture = g
	d.logger.Debug("gesture started", "kind", g.kind, "id", g.id)
}

func (d *Desktop) applyMoveLocked(g *gesture, p geom.Point) {
	switch g.kind {
	case GestureIconDrag:
		if pos, ok := g.drag.Move(p); ok {
			if d.icons.Move(g.id, pos, d.detector.Mode()) {
				d.record(actionlog.ActionIconMove, g.id, map[string]any{"x": pos.X, "y": pos.Y})
			}
		}
	case GestureWindowDrag:
		if pos, ok := g.drag.Move(p); ok {
			if d.windows.Move(g.id, pos) {
				d.record(actionlog.ActionMove, g.id, map[string]any{"x": pos.X, "y": pos.Y})
			}
		}
	case GestureResize:
		r := g.resize.Update(p)
		d.windows.SetBounds(g.id, r)
	}
}

// endGestureLocked deregisters the live gesture's move listener.
func (d *Desktop) endGestureLocked() {
	if d.gesture == nil {
		return
	}
	d.gesture.release()
	d.gesture = nil
}

// abortGestureLocked ends the live gesture without a click or drag outcome.
func (d *Desktop) abortGestureLocked(reason string) {
	g := d.gesture
	if g == nil {
		return
	}
	d.endGestureLocked()
	d.logger.Debug("gesture aborted", "kind", g.kind, "id", g.id, "reason", reason)
	d.record(actionlog.ActionAbort, g.id, map[string]any{"kind": string(g.kind), "reason": reason})
}

// Listeners returns the number of registered pointer-move listeners.
func (d *Desktop) Listeners() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.moves.len()
}
