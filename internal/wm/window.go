package wm

import (
	"github.com/1broseidon/retroshell/internal/catalog"
	"github.com/1broseidon/retroshell/internal/geom"
)

// Window is one open window.
type Window struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Glyph     string            `json:"glyph"`
	Kind      catalog.Kind      `json:"kind"`
	Params    map[string]string `json:"params,omitempty"`
	Position  geom.Point        `json:"position"`
	Size      geom.Size         `json:"size"`
	Z         int               `json:"z"`
	Maximized bool              `json:"maximized"`
	// Pending is set from open until the first placement pass.
	Pending bool `json:"pending"`
}

// Bounds returns the window rectangle in viewport coordinates.
func (w Window) Bounds() geom.Rect {
	return geom.RectFrom(w.Position, w.Size)
}

func (w Window) clone() Window {
	if w.Params != nil {
		params := make(map[string]string, len(w.Params))
		for k, v := range w.Params {
			params[k] = v
		}
		w.Params = params
	}
	return w
}
