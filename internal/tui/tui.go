package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/retroshell/internal/catalog"
	"github.com/1broseidon/retroshell/internal/desktop"
	"github.com/1broseidon/retroshell/internal/geom"
	"github.com/1broseidon/retroshell/internal/ipc"
	"github.com/1broseidon/retroshell/internal/wm"
)

// Backend is the desktop surface the TUI drives. *ipc.Client satisfies it.
type Backend interface {
	Snapshot() (*desktop.Snapshot, error)
	ListCatalog() (*ipc.CatalogData, error)
	Open(id string) (*wm.Window, error)
	Close(id string) (bool, error)
	Focus(id string) (bool, error)
	Maximize(id string, maximized *bool) (bool, error)
}

var _ Backend = (*ipc.Client)(nil)

// Options configures the TUI.
type Options struct {
	// Recipient is the contact form's mailto address.
	Recipient string
	// Connected reports whether Backend is a running daemon.
	Connected bool
}

// TUI represents the terminal user interface.
type TUI struct {
	backend Backend
	opts    Options
}

// New creates a TUI over backend.
func New(backend Backend, opts Options) *TUI {
	return &TUI{backend: backend, opts: opts}
}

// Run starts the bubbletea program and blocks until the user quits.
func (t *TUI) Run() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	p := tea.NewProgram(newModel(t.backend, t.opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

// LocalBackend drives an in-process desktop when no daemon is running.
type LocalBackend struct {
	desk *desktop.Desktop
}

// NewLocalBackend wraps desk.
func NewLocalBackend(desk *desktop.Desktop) *LocalBackend {
	return &LocalBackend{desk: desk}
}

func (b *LocalBackend) Snapshot() (*desktop.Snapshot, error) {
	snap := b.desk.Snapshot()
	return &snap, nil
}

func (b *LocalBackend) ListCatalog() (*ipc.CatalogData, error) {
	cat := b.desk.Catalog()
	return &ipc.CatalogData{Items: cat.Items(), Topics: cat.Topics()}, nil
}

func (b *LocalBackend) Open(id string) (*wm.Window, error) {
	w, err := b.desk.Open(id)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (b *LocalBackend) Close(id string) (bool, error) {
	return b.desk.CloseWindow(id), nil
}

func (b *LocalBackend) Focus(id string) (bool, error) {
	return b.desk.Focus(id), nil
}

func (b *LocalBackend) Maximize(id string, maximized *bool) (bool, error) {
	if maximized == nil {
		return b.desk.ToggleMaximize(id), nil
	}
	return b.desk.SetMaximized(id, *maximized), nil
}

// TerminalViewport maps the controlling terminal's size onto a pixel
// viewport, assuming 8×16 cells. It returns desktop.DefaultViewport when
// stdout is not a terminal.
func TerminalViewport() geom.Size {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return desktop.DefaultViewport
	}
	return geom.Size{Width: float64(w * 8), Height: float64(h * 16)}
}

// catalogItems is a convenience used by tabs that only need launchable ids.
func catalogItems(b Backend) ([]catalog.Descriptor, error) {
	data, err := b.ListCatalog()
	if err != nil {
		return nil, err
	}
	return data.Items, nil
}
