package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/1broseidon/retroshell/internal/catalog"
	"github.com/1broseidon/retroshell/internal/desktop"
	"github.com/1broseidon/retroshell/internal/geom"
	"github.com/1broseidon/retroshell/internal/resize"
)

// Reloader rebuilds the launch catalog for RELOAD.
type Reloader func() (*catalog.Catalog, error)

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	desk         *desktop.Desktop
	reload       Reloader
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server bound to socketPath. reload may be nil,
// in which case RELOAD reports an error.
func NewServer(socketPath string, desk *desktop.Desktop, reload Reloader) (*Server, error) {
	if strings.TrimSpace(socketPath) == "" {
		return nil, fmt.Errorf("IPC socket path is empty")
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		desk:       desk,
		reload:     reload,
		startTime:  time.Now(),
	}, nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)

	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			log.Printf("IPC accept error: %v", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// One JSON request per line, one request per connection.
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandSnapshot:
		return ok(s.desk.Snapshot())
	case CommandListCatalog:
		return s.handleListCatalog()
	case CommandOpen:
		return s.handleOpen(req.Payload)
	case CommandOpenArticle:
		return s.handleOpenArticle(req.Payload)
	case CommandClose:
		return s.handleByID(req.Payload, s.desk.CloseWindow)
	case CommandFocus:
		return s.handleByID(req.Payload, s.desk.Focus)
	case CommandMove:
		return s.handleMove(req.Payload)
	case CommandResize:
		return s.handleResize(req.Payload)
	case CommandMaximize:
		return s.handleMaximize(req.Payload)
	case CommandViewport:
		return s.handleViewport(req.Payload)
	case CommandPointer:
		return s.handlePointer(req.Payload)
	case CommandContextMenu:
		return s.handleContextMenu(req.Payload)
	case CommandContextSelect:
		return s.handleContextSelect(req.Payload)
	case CommandReload:
		return s.handleReload()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func ok(data any) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

// handleGetStatus returns current daemon status
func (s *Server) handleGetStatus() *Response {
	snap := s.desk.Snapshot()
	status := StatusData{
		Mode:          snap.Mode,
		Viewport:      snap.Viewport,
		WindowCount:   len(snap.Windows),
		Focused:       snap.Focused,
		CatalogSize:   s.desk.Catalog().Len(),
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		DaemonRunning: true,
	}
	return ok(status)
}

func (s *Server) handleListCatalog() *Response {
	cat := s.desk.Catalog()
	return ok(CatalogData{Items: cat.Items(), Topics: cat.Topics()})
}

func (s *Server) handleOpen(payload json.RawMessage) *Response {
	var req IDPayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(err.Error())
	}
	w, err := s.desk.Open(req.ID)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to open: %v", err))
	}
	return ok(w)
}

func (s *Server) handleOpenArticle(payload json.RawMessage) *Response {
	var req OpenArticlePayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(err.Error())
	}
	w, err := s.desk.OpenArticle(req.TopicID, req.ArticleID)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to open article: %v", err))
	}
	return ok(w)
}

func (s *Server) handleByID(payload json.RawMessage, fn func(id string) bool) *Response {
	var req IDPayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(err.Error())
	}
	if req.ID == "" {
		return NewErrorResponse("id is required")
	}
	return ok(ChangedData{Changed: fn(req.ID)})
}

func (s *Server) handleMove(payload json.RawMessage) *Response {
	var req MovePayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(ChangedData{Changed: s.desk.Move(req.ID, geom.Point{X: req.X, Y: req.Y})})
}

func (s *Server) handleResize(payload json.RawMessage) *Response {
	var req ResizePayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(ChangedData{Changed: s.desk.Resize(req.ID, geom.Size{Width: req.Width, Height: req.Height})})
}

func (s *Server) handleMaximize(payload json.RawMessage) *Response {
	var req MaximizePayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(err.Error())
	}
	if req.Maximized == nil {
		return ok(ChangedData{Changed: s.desk.ToggleMaximize(req.ID)})
	}
	return ok(ChangedData{Changed: s.desk.SetMaximized(req.ID, *req.Maximized)})
}

func (s *Server) handleViewport(payload json.RawMessage) *Response {
	var req ViewportPayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(err.Error())
	}
	changed := s.desk.ViewportResize(req.Width, req.Height)
	return ok(ViewportData{Mode: s.desk.Mode().String(), ModeChanged: changed})
}

func (s *Server) handlePointer(payload json.RawMessage) *Response {
	var req PointerPayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(err.Error())
	}
	p := geom.Point{X: req.X, Y: req.Y}

	switch req.Phase {
	case PointerDown:
		kind, err := desktop.ParseTargetKind(string(req.Target.Kind))
		if err != nil {
			return NewErrorResponse(err.Error())
		}
		target := req.Target
		target.Kind = kind
		if kind == desktop.TargetResizeHandle {
			h, err := resize.ParseHandle(string(target.Handle))
			if err != nil {
				return NewErrorResponse(err.Error())
			}
			target.Handle = h
		}
		return ok(PointerData{Started: s.desk.PointerDown(target, p)})
	case PointerMove:
		s.desk.PointerMove(p)
		return ok(PointerData{})
	case PointerUp:
		res := s.desk.PointerUp(p)
		return ok(PointerData{Result: &res})
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown pointer phase: %q", req.Phase))
	}
}

func (s *Server) handleContextMenu(payload json.RawMessage) *Response {
	var req ContextMenuPayload
	if len(payload) > 0 {
		if err := decodePayload(payload, &req); err != nil {
			return NewErrorResponse(err.Error())
		}
	}
	if req.Hide {
		s.desk.HideContextMenu()
	} else if !s.desk.ShowContextMenu(geom.Point{X: req.X, Y: req.Y}) {
		return NewErrorResponse("context menu is unavailable in mobile mode")
	}
	return ok(s.desk.Snapshot().Menu)
}

func (s *Server) handleContextSelect(payload json.RawMessage) *Response {
	var req ContextSelectPayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(err.Error())
	}
	if err := s.desk.SelectMenuItem(req.Label); err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(nil)
}

// handleReload rebuilds the catalog from its source files
func (s *Server) handleReload() *Response {
	log.Println("IPC: Received RELOAD command")

	if s.reload == nil {
		return NewErrorResponse("reload is not configured")
	}
	cat, err := s.reload()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload catalog: %v", err))
	}
	s.desk.Reload(cat)

	log.Println("IPC: Catalog reloaded successfully")
	return ok(ReloadData{Items: cat.Len()})
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
