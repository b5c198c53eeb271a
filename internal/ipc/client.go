package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/retroshell/internal/catalog"
	"github.com/1broseidon/retroshell/internal/desktop"
	"github.com/1broseidon/retroshell/internal/runtimepath"
	"github.com/1broseidon/retroshell/internal/wm"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client for the default socket
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientWithSocket(socketPath)
}

// NewClientWithSocket creates a client for an explicit socket path.
func NewClientWithSocket(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// call sends cmd with an optional payload and decodes the response data
// into out when out is non-nil.
func (c *Client) call(cmd CommandType, payload any, out any) error {
	req := &Request{Command: cmd}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", cmd, err)
		}
		req.Payload = raw
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return err
	}
	if out == nil || len(resp.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", cmd, err)
	}
	return nil
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Snapshot retrieves the full desktop state.
func (c *Client) Snapshot() (*desktop.Snapshot, error) {
	var snap desktop.Snapshot
	if err := c.call(CommandSnapshot, nil, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// ListCatalog retrieves launchable items and article topics.
func (c *Client) ListCatalog() (*CatalogData, error) {
	var data CatalogData
	if err := c.call(CommandListCatalog, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Open launches or raises a catalog entry.
func (c *Client) Open(id string) (*wm.Window, error) {
	var w wm.Window
	if err := c.call(CommandOpen, IDPayload{ID: id}, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// OpenArticle launches an article window.
func (c *Client) OpenArticle(topicID, articleID string) (*wm.Window, error) {
	var w wm.Window
	if err := c.call(CommandOpenArticle, OpenArticlePayload{TopicID: topicID, ArticleID: articleID}, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (c *Client) changed(cmd CommandType, payload any) (bool, error) {
	var data ChangedData
	if err := c.call(cmd, payload, &data); err != nil {
		return false, err
	}
	return data.Changed, nil
}

// Close closes a window.
func (c *Client) Close(id string) (bool, error) {
	return c.changed(CommandClose, IDPayload{ID: id})
}

// Focus raises a window.
func (c *Client) Focus(id string) (bool, error) {
	return c.changed(CommandFocus, IDPayload{ID: id})
}

// Move positions a window.
func (c *Client) Move(id string, x, y float64) (bool, error) {
	return c.changed(CommandMove, MovePayload{ID: id, X: x, Y: y})
}

// Resize sizes a window.
func (c *Client) Resize(id string, width, height float64) (bool, error) {
	return c.changed(CommandResize, ResizePayload{ID: id, Width: width, Height: height})
}

// Maximize sets the maximized flag, or toggles it when maximized is nil.
func (c *Client) Maximize(id string, maximized *bool) (bool, error) {
	return c.changed(CommandMaximize, MaximizePayload{ID: id, Maximized: maximized})
}

// SetViewport reports a viewport size to the daemon.
func (c *Client) SetViewport(width, height float64) (*ViewportData, error) {
	var data ViewportData
	if err := c.call(CommandViewport, ViewportPayload{Width: width, Height: height}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Pointer sends one pointer event.
func (c *Client) Pointer(payload PointerPayload) (*PointerData, error) {
	var data PointerData
	if err := c.call(CommandPointer, payload, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// ShowContextMenu opens the desktop context menu at x, y.
func (c *Client) ShowContextMenu(x, y float64) (*desktop.Menu, error) {
	var menu desktop.Menu
	if err := c.call(CommandContextMenu, ContextMenuPayload{X: x, Y: y}, &menu); err != nil {
		return nil, err
	}
	return &menu, nil
}

// HideContextMenu closes the desktop context menu.
func (c *Client) HideContextMenu() error {
	return c.call(CommandContextMenu, ContextMenuPayload{Hide: true}, nil)
}

// SelectMenuItem runs a context menu entry.
func (c *Client) SelectMenuItem(label string) error {
	return c.call(CommandContextSelect, ContextSelectPayload{Label: label}, nil)
}

// Reload asks the daemon to re-read its catalog files.
func (c *Client) Reload() (int, error) {
	var data ReloadData
	if err := c.call(CommandReload, nil, &data); err != nil {
		return 0, err
	}
	return data.Items, nil
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}

// Descriptor is a convenience lookup over ListCatalog.
func (c *Client) Descriptor(id string) (catalog.Descriptor, error) {
	data, err := c.ListCatalog()
	if err != nil {
		return catalog.Descriptor{}, err
	}
	for _, d := range data.Items {
		if d.ID == id {
			return d, nil
		}
	}
	return catalog.Descriptor{}, fmt.Errorf("unknown catalog id %q", id)
}
