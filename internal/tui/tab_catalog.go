package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/retroshell/internal/catalog"
)

// launchItem implements list.Item for the launch list.
type launchItem struct {
	desc catalog.Descriptor
	open bool
}

func (i launchItem) Title() string {
	prefix := "  "
	if i.open {
		prefix = "* "
	}
	return prefix + i.desc.Title
}

func (i launchItem) Description() string { return string(i.desc.Kind) + " • " + i.desc.ID }
func (i launchItem) FilterValue() string { return i.desc.Title }

// statusMsg is sent after a desktop action completes.
type statusMsg struct {
	text string
}

// clearStatusMsg clears the status message after a delay.
type clearStatusMsg struct{}

// refreshMsg asks every tab to re-read desktop state.
type refreshMsg struct{}

func clearStatusAfter() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

func refreshCmd() tea.Msg { return refreshMsg{} }

// CatalogTab lists launchable desktop items.
type CatalogTab struct {
	list    list.Model
	backend Backend

	statusText string

	width  int
	height int
	ready  bool
}

// NewCatalogTab creates a CatalogTab sub-model.
func NewCatalogTab(backend Backend) CatalogTab {
	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(0)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Launch"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()

	ct := CatalogTab{list: l, backend: backend}
	ct.rebuildItems()
	return ct
}

func (ct *CatalogTab) rebuildItems() {
	if ct.backend == nil {
		return
	}
	descs, err := catalogItems(ct.backend)
	if err != nil {
		ct.statusText = fmt.Sprintf("error: %v", err)
		return
	}
	open := map[string]bool{}
	if snap, err := ct.backend.Snapshot(); err == nil {
		for _, w := range snap.Windows {
			open[w.ID] = true
		}
	}
	items := make([]list.Item, 0, len(descs))
	for _, d := range descs {
		items = append(items, launchItem{desc: d, open: open[d.ID]})
	}
	ct.list.SetItems(items)
}

// Update implements tea.Model.
func (ct CatalogTab) Update(msg tea.Msg) (CatalogTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		ct.width = msg.Width
		ct.height = msg.Height
		h := ct.height - 2
		if h < 1 {
			h = 1
		}
		ct.list.SetSize(ct.width, h)
		ct.ready = true
		return ct, nil

	case statusMsg:
		ct.statusText = msg.text
		return ct, clearStatusAfter()

	case clearStatusMsg:
		ct.statusText = ""
		return ct, nil

	case refreshMsg:
		ct.rebuildItems()
		return ct, nil

	case tea.KeyMsg:
		if ct.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "enter", "o":
			return ct.openSelected()
		}
	}

	var cmd tea.Cmd
	ct.list, cmd = ct.list.Update(msg)
	return ct, cmd
}

func (ct CatalogTab) selectedID() string {
	item, ok := ct.list.SelectedItem().(launchItem)
	if !ok {
		return ""
	}
	return item.desc.ID
}

func (ct CatalogTab) openSelected() (CatalogTab, tea.Cmd) {
	id := ct.selectedID()
	if id == "" || ct.backend == nil {
		return ct, nil
	}
	w, err := ct.backend.Open(id)
	if err != nil {
		ct.statusText = fmt.Sprintf("error: %v", err)
		return ct, clearStatusAfter()
	}
	ct.statusText = fmt.Sprintf("opened: %s", w.Title)
	return ct, tea.Batch(refreshCmd, clearStatusAfter())
}

// View implements tea.Model.
func (ct CatalogTab) View() string {
	if !ct.ready || ct.width == 0 || ct.height == 0 {
		return ""
	}
	body := lipgloss.NewStyle().
		Width(ct.width).
		Height(ct.height - 2).
		Render(ct.list.View())
	status := renderTabStatus(ct.statusText, "enter/o:open  /:filter", ct.width)
	return lipgloss.JoinVertical(lipgloss.Left, body, status)
}
