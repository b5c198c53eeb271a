package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/retroshell/internal/desktop"
	"github.com/1broseidon/retroshell/internal/wm"
)

// windowItem implements list.Item for the open-window sidebar.
type windowItem struct {
	win     wm.Window
	focused bool
}

func (i windowItem) Title() string {
	prefix := "  "
	if i.focused {
		prefix = "* "
	}
	suffix := ""
	if i.win.Maximized {
		suffix = " [max]"
	}
	return prefix + i.win.Title + suffix
}

func (i windowItem) Description() string { return "" }
func (i windowItem) FilterValue() string { return i.win.Title }

// DesktopTab shows open windows beside a scaled preview of the desktop.
type DesktopTab struct {
	list    list.Model
	backend Backend
	snap    *desktop.Snapshot

	statusText string

	width  int
	height int
	ready  bool
}

// NewDesktopTab creates a DesktopTab sub-model.
func NewDesktopTab(backend Backend) DesktopTab {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Windows"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	dt := DesktopTab{list: l, backend: backend}
	dt.refresh()
	return dt
}

func (dt *DesktopTab) refresh() {
	if dt.backend == nil {
		return
	}
	snap, err := dt.backend.Snapshot()
	if err != nil {
		dt.statusText = fmt.Sprintf("error: %v", err)
		return
	}
	dt.snap = snap

	// Front-most window first.
	items := make([]list.Item, 0, len(snap.Windows))
	for i := len(snap.Windows) - 1; i >= 0; i-- {
		w := snap.Windows[i]
		items = append(items, windowItem{win: w, focused: w.ID == snap.Focused})
	}
	dt.list.SetItems(items)
}

// Update implements tea.Model.
func (dt DesktopTab) Update(msg tea.Msg) (DesktopTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		dt.width = msg.Width
		dt.height = msg.Height
		h := dt.height - 2
		if h < 1 {
			h = 1
		}
		dt.list.SetSize(dt.sidebarWidth(), h)
		dt.ready = true
		return dt, nil

	case statusMsg:
		dt.statusText = msg.text
		return dt, clearStatusAfter()

	case clearStatusMsg:
		dt.statusText = ""
		return dt, nil

	case refreshMsg:
		dt.refresh()
		return dt, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "f":
			return dt.act("focused", func(id string) (bool, error) { return dt.backend.Focus(id) })
		case "x":
			return dt.act("closed", func(id string) (bool, error) { return dt.backend.Close(id) })
		case "m":
			return dt.act("toggled maximize", func(id string) (bool, error) { return dt.backend.Maximize(id, nil) })
		case "r":
			dt.refresh()
			return dt, nil
		}
	}

	var cmd tea.Cmd
	dt.list, cmd = dt.list.Update(msg)
	return dt, cmd
}

func (dt DesktopTab) selectedID() string {
	item, ok := dt.list.SelectedItem().(windowItem)
	if !ok {
		return ""
	}
	return item.win.ID
}

func (dt DesktopTab) act(verb string, fn func(id string) (bool, error)) (DesktopTab, tea.Cmd) {
	id := dt.selectedID()
	if id == "" || dt.backend == nil {
		return dt, nil
	}
	changed, err := fn(id)
	switch {
	case err != nil:
		dt.statusText = fmt.Sprintf("error: %v", err)
	case !changed:
		dt.statusText = fmt.Sprintf("no change: %s", id)
	default:
		dt.statusText = fmt.Sprintf("%s: %s", verb, id)
	}
	return dt, tea.Batch(refreshCmd, clearStatusAfter())
}

func (dt DesktopTab) sidebarWidth() int {
	// Sidebar takes ~30% of width, min 20, max 36
	sw := dt.width * 30 / 100
	if sw < 20 {
		sw = 20
	}
	if sw > 36 {
		sw = 36
	}
	return sw
}

// View implements tea.Model.
func (dt DesktopTab) View() string {
	if !dt.ready || dt.width == 0 || dt.height == 0 {
		return ""
	}

	sidebarWidth := dt.sidebarWidth()
	previewWidth := dt.width - sidebarWidth - 3
	if previewWidth < 10 {
		previewWidth = 10
	}

	sidebar := lipgloss.NewStyle().
		Width(sidebarWidth).
		Height(dt.height - 2).
		Render(dt.list.View())

	sep := lipgloss.NewStyle().
		Foreground(lipgloss.Color("238")).
		Render(strings.Repeat("│\n", dt.height-2))

	columns := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " "+sep, dt.renderPreview(previewWidth))
	status := renderTabStatus(dt.statusText, "enter/f:focus  x:close  m:maximize  r:refresh", dt.width)
	return lipgloss.JoinVertical(lipgloss.Left, columns, status)
}

func (dt DesktopTab) renderPreview(previewWidth int) string {
	if dt.snap == nil {
		return ""
	}

	summary := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Render(" " + summarizeDesktop(dt.snap))

	previewHeight := dt.height - 5
	if previewHeight < 5 {
		previewHeight = 5
	}
	asciiWidth := previewWidth - 2
	if asciiWidth < 5 {
		asciiWidth = 5
	}
	lines := renderDesktopPreview(dt.snap, asciiWidth, previewHeight)

	previewBlock := lipgloss.NewStyle().
		Foreground(lipgloss.Color("247")).
		Render(strings.Join(lines, "\n"))

	return lipgloss.JoinVertical(lipgloss.Left, summary, "", previewBlock)
}
