package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/retroshell/internal/desktop"
	"github.com/1broseidon/retroshell/internal/ipc"
	"github.com/1broseidon/retroshell/internal/wm"
)

const (
	ServerName    = "retroshell"
	ServerVersion = "0.1.0"
)

// Controller is the daemon surface the tools drive. *ipc.Client satisfies it.
type Controller interface {
	Snapshot() (*desktop.Snapshot, error)
	ListCatalog() (*ipc.CatalogData, error)
	Open(id string) (*wm.Window, error)
	OpenArticle(topicID, articleID string) (*wm.Window, error)
	Close(id string) (bool, error)
	Focus(id string) (bool, error)
	Move(id string, x, y float64) (bool, error)
	Resize(id string, width, height float64) (bool, error)
	Maximize(id string, maximized *bool) (bool, error)
	SetViewport(width, height float64) (*ipc.ViewportData, error)
}

var _ Controller = (*ipc.Client)(nil)

// Server exposes the desktop window manager as MCP tools.
type Server struct {
	mcpServer *mcpsdk.Server
	ctrl      Controller
}

// NewServer creates an MCP server that forwards tool calls to ctrl.
func NewServer(ctrl Controller) *Server {
	s := &Server{ctrl: ctrl}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.RunTransport(ctx, &mcpsdk.StdioTransport{})
}

// RunTransport serves on an arbitrary transport.
func (s *Server) RunTransport(ctx context.Context, t mcpsdk.Transport) error {
	return s.mcpServer.Run(ctx, t)
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List open desktop windows back to front with their position, size, z-order and maximized state. Also reports the viewport mode (desktop or mobile).",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_catalog",
		Description: "List launchable desktop items (ids usable with open_window). Pass topics=true to include article topics for open_article.",
	}, s.handleListCatalog)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "open_window",
		Description: "Open the catalog item with the given id, or raise it if it is already open. In mobile mode the new window replaces any open window.",
	}, s.handleOpenWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "open_article",
		Description: "Open an article from the article browser in its own window.",
	}, s.handleOpenArticle)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Close an open window. Unknown ids are ignored.",
	}, s.handleCloseWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_window",
		Description: "Bring a window to the front of the z-order.",
	}, s.handleFocusWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_window",
		Description: "Move a window so its top-left corner is at (x, y). Maximized windows are not moved.",
	}, s.handleMoveWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "resize_window",
		Description: "Resize a window keeping its top-left corner fixed. Sizes below the minimum are clamped.",
	}, s.handleResizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "maximize_window",
		Description: "Maximize or restore a window. Omit maximized to toggle. Has no effect in mobile mode.",
	}, s.handleMaximizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_viewport",
		Description: "Report a new viewport size. Widths below the breakpoint switch the desktop into mobile mode.",
	}, s.handleSetViewport)
}
