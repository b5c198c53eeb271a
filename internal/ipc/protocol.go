package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/retroshell/internal/catalog"
	"github.com/1broseidon/retroshell/internal/desktop"
	"github.com/1broseidon/retroshell/internal/geom"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandGetStatus     CommandType = "GET_STATUS"
	CommandSnapshot      CommandType = "SNAPSHOT"
	CommandListCatalog   CommandType = "LIST_CATALOG"
	CommandOpen          CommandType = "OPEN"
	CommandOpenArticle   CommandType = "OPEN_ARTICLE"
	CommandClose         CommandType = "CLOSE"
	CommandFocus         CommandType = "FOCUS"
	CommandMove          CommandType = "MOVE"
	CommandResize        CommandType = "RESIZE"
	CommandMaximize      CommandType = "MAXIMIZE"
	CommandViewport      CommandType = "VIEWPORT"
	CommandPointer       CommandType = "POINTER"
	CommandContextMenu   CommandType = "CONTEXT_MENU"
	CommandContextSelect CommandType = "CONTEXT_SELECT"
	CommandReload        CommandType = "RELOAD"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	Mode          string    `json:"mode"`
	Viewport      geom.Size `json:"viewport"`
	WindowCount   int       `json:"window_count"`
	Focused       string    `json:"focused,omitempty"`
	CatalogSize   int       `json:"catalog_size"`
	UptimeSeconds int64     `json:"uptime_seconds"`
	DaemonRunning bool      `json:"daemon_running"`
}

// CatalogData represents the data returned by LIST_CATALOG
type CatalogData struct {
	Items  []catalog.Descriptor `json:"items"`
	Topics []catalog.Topic      `json:"topics"`
}

// IDPayload addresses a window or catalog entry.
type IDPayload struct {
	ID string `json:"id"`
}

type OpenArticlePayload struct {
	TopicID   string `json:"topic_id"`
	ArticleID string `json:"article_id"`
}

type MovePayload struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

type ResizePayload struct {
	ID     string  `json:"id"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// MaximizePayload sets the maximized flag, or toggles it when Maximized is
// omitted.
type MaximizePayload struct {
	ID        string `json:"id"`
	Maximized *bool  `json:"maximized,omitempty"`
}

type ViewportPayload struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PointerPhase is one step of a pointer gesture.
type PointerPhase string

const (
	PointerDown PointerPhase = "down"
	PointerMove PointerPhase = "move"
	PointerUp   PointerPhase = "up"
)

type PointerPayload struct {
	Phase  PointerPhase   `json:"phase"`
	Target desktop.Target `json:"target,omitempty"`
	X      float64        `json:"x"`
	Y      float64        `json:"y"`
}

type ContextMenuPayload struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Hide bool    `json:"hide,omitempty"`
}

type ContextSelectPayload struct {
	Label string `json:"label"`
}

// ChangedData reports whether a command changed desktop state.
type ChangedData struct {
	Changed bool `json:"changed"`
}

// ViewportData represents the data returned by VIEWPORT
type ViewportData struct {
	Mode        string `json:"mode"`
	ModeChanged bool   `json:"mode_changed"`
}

// PointerData represents the data returned by POINTER
type PointerData struct {
	Started bool                   `json:"started,omitempty"`
	Result  *desktop.GestureResult `json:"result,omitempty"`
}

// ReloadData represents the data returned by RELOAD
type ReloadData struct {
	Items int `json:"items"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

func decodePayload(raw json.RawMessage, out any) error {
	if len(raw) == 0 {
		return fmt.Errorf("payload is required")
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}
