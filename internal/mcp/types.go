package mcp

import (
	"github.com/1broseidon/retroshell/internal/catalog"
	"github.com/1broseidon/retroshell/internal/wm"
)

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct{}

// WindowInfo describes a single open window.
type WindowInfo struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Kind      string  `json:"kind"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Z         int     `json:"z"`
	Maximized bool    `json:"maximized"`
	Focused   bool    `json:"focused"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Mode           string       `json:"mode"`
	ViewportWidth  float64      `json:"viewport_width"`
	ViewportHeight float64      `json:"viewport_height"`
	Windows        []WindowInfo `json:"windows"`
	Focused        string       `json:"focused,omitempty"`
}

// ListCatalogInput is the input for the list_catalog tool.
type ListCatalogInput struct {
	Topics bool `json:"topics,omitempty" jsonschema:"When true, include article topics alongside launchable items"`
}

// CatalogItem describes one launchable desktop entry.
type CatalogItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Kind  string `json:"kind"`
}

// ListCatalogOutput is the output for the list_catalog tool.
type ListCatalogOutput struct {
	Items  []CatalogItem   `json:"items"`
	Topics []catalog.Topic `json:"topics,omitempty"`
}

// OpenWindowInput is the input for the open_window tool.
type OpenWindowInput struct {
	ID string `json:"id" jsonschema:"required,Catalog id of the window to open (see list_catalog)"`
}

// OpenArticleInput is the input for the open_article tool.
type OpenArticleInput struct {
	TopicID   string `json:"topic_id" jsonschema:"required,Topic id from the article browser"`
	ArticleID string `json:"article_id" jsonschema:"required,Article id within the topic"`
}

// WindowOutput is the output for tools that open a window.
type WindowOutput struct {
	Window WindowInfo `json:"window"`
}

// WindowIDInput addresses an open window.
type WindowIDInput struct {
	ID string `json:"id" jsonschema:"required,Window id (see list_windows)"`
}

// MoveWindowInput is the input for the move_window tool.
type MoveWindowInput struct {
	ID string  `json:"id" jsonschema:"required,Window id to move"`
	X  float64 `json:"x" jsonschema:"required,New left edge in viewport pixels"`
	Y  float64 `json:"y" jsonschema:"required,New top edge in viewport pixels"`
}

// ResizeWindowInput is the input for the resize_window tool.
type ResizeWindowInput struct {
	ID     string  `json:"id" jsonschema:"required,Window id to resize"`
	Width  float64 `json:"width" jsonschema:"required,New width in pixels (clamped to the minimum window size)"`
	Height float64 `json:"height" jsonschema:"required,New height in pixels (clamped to the minimum window size)"`
}

// MaximizeWindowInput is the input for the maximize_window tool.
type MaximizeWindowInput struct {
	ID        string `json:"id" jsonschema:"required,Window id to maximize or restore"`
	Maximized *bool  `json:"maximized,omitempty" jsonschema:"Target state. When omitted the current state is toggled."`
}

// ChangedOutput reports whether a tool changed desktop state.
type ChangedOutput struct {
	Changed bool `json:"changed"`
}

// SetViewportInput is the input for the set_viewport tool.
type SetViewportInput struct {
	Width  float64 `json:"width" jsonschema:"required,Viewport width in pixels"`
	Height float64 `json:"height" jsonschema:"required,Viewport height in pixels"`
}

// SetViewportOutput is the output for the set_viewport tool.
type SetViewportOutput struct {
	Mode        string `json:"mode"`
	ModeChanged bool   `json:"mode_changed"`
}

func windowInfo(w wm.Window, focused string) WindowInfo {
	return WindowInfo{
		ID:        w.ID,
		Title:     w.Title,
		Kind:      string(w.Kind),
		X:         w.Position.X,
		Y:         w.Position.Y,
		Width:     w.Size.Width,
		Height:    w.Size.Height,
		Z:         w.Z,
		Maximized: w.Maximized,
		Focused:   w.ID == focused,
	}
}
