package desktop

import (
	"sync"

	"github.com/1broseidon/retroshell/internal/geom"
	"github.com/1broseidon/retroshell/internal/pointer"
	"github.com/1broseidon/retroshell/internal/resize"
)

// GestureKind identifies what a live pointer gesture is manipulating.
type GestureKind string

const (
	GestureIconDrag   GestureKind = "icon-drag"
	GestureWindowDrag GestureKind = "window-drag"
	GestureResize     GestureKind = "resize"
)

// GestureInfo describes the live gesture in a snapshot.
type GestureInfo struct {
	Kind     GestureKind   `json:"kind"`
	ID       string        `json:"id"`
	Handle   resize.Handle `json:"handle,omitempty"`
	Dragging bool          `json:"dragging"`
}

// GestureResult reports how a gesture finished.
type GestureResult struct {
	Kind    GestureKind     `json:"kind,omitempty"`
	ID      string          `json:"id,omitempty"`
	Outcome pointer.Outcome `json:"-"`
	Result  string          `json:"result"`
	// Opened is set when an icon click launched a window.
	Opened string `json:"opened,omitempty"`
}

type moveListener func(p geom.Point)

// moveListeners is the pointer-move fan-out. Each gesture adds exactly one
// listener when it starts and removes it on its terminal event.
type moveListeners struct {
	next int
	fns  map[int]moveListener
}

func (l *moveListeners) add(fn moveListener) func() {
	if l.fns == nil {
		l.fns = make(map[int]moveListener)
	}
	id := l.next
	l.next++
	l.fns[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() { delete(l.fns, id) })
	}
}

func (l *moveListeners) dispatch(p geom.Point) {
	for _, fn := range l.fns {
		fn(p)
	}
}

func (l *moveListeners) len() int {
	return len(l.fns)
}

// gesture is one pointer-down to pointer-up interaction. Exactly one of drag
// and resize is set.
type gesture struct {
	kind    GestureKind
	id      string
	drag    *pointer.Session
	resize  *resize.Session
	release func()
}

func (g *gesture) info() GestureInfo {
	info := GestureInfo{Kind: g.kind, ID: g.id}
	if g.drag != nil {
		info.Dragging = g.drag.Dragged()
	}
	if g.resize != nil {
		info.Handle = g.resize.Handle
		info.Dragging = true
	}
	return info
}
