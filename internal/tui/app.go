package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// model is the root bubbletea model for the TUI.
type model struct {
	backend   Backend
	connected bool

	activeTab Tab

	desktopTab DesktopTab
	catalogTab CatalogTab
	contactTab ContactTab

	width  int
	height int
}

func newModel(backend Backend, opts Options) model {
	return model{
		backend:    backend,
		connected:  opts.Connected,
		activeTab:  TabDesktop,
		desktopTab: NewDesktopTab(backend),
		catalogTab: NewCatalogTab(backend),
		contactTab: NewContactTab(opts.Recipient),
	}
}

// contentHeight returns the height available for tab content.
func (m model) contentHeight() int {
	// Approximate: status bar (1) + tab bar (2 with margin) + help bar (1) = 4 lines
	h := m.height - 4
	if h < 1 {
		h = 1
	}
	return h
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return nil
}

func (m model) resize(msg tea.WindowSizeMsg) model {
	m.width = msg.Width
	m.height = msg.Height
	subMsg := tea.WindowSizeMsg{Width: m.width, Height: m.contentHeight()}
	m.desktopTab, _ = m.desktopTab.Update(subMsg)
	m.catalogTab, _ = m.catalogTab.Update(subMsg)
	m.contactTab, _ = m.contactTab.Update(subMsg)
	return m
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The contact form and list filter consume keys; only ctrl+c escapes.
	capturing := (m.activeTab == TabContact && m.contactTab.editing) ||
		(m.activeTab == TabCatalog && m.catalogTab.list.SettingFilter())
	if capturing {
		switch msg := msg.(type) {
		case tea.KeyMsg:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
		case tea.WindowSizeMsg:
			return m.resize(msg), nil
		}
		var cmd tea.Cmd
		switch m.activeTab {
		case TabContact:
			m.contactTab, cmd = m.contactTab.Update(msg)
		case TabCatalog:
			m.catalogTab, cmd = m.catalogTab.Update(msg)
		}
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, refreshCmd
		case "shift+tab":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
			return m, refreshCmd
		case "1":
			m.activeTab = TabDesktop
			return m, refreshCmd
		case "2":
			m.activeTab = TabCatalog
			return m, refreshCmd
		case "3":
			m.activeTab = TabContact
			return m, nil
		}

	case tea.WindowSizeMsg:
		return m.resize(msg), nil

	case refreshMsg:
		// Every tab sees refreshes, not just the active one.
		m.desktopTab, _ = m.desktopTab.Update(msg)
		m.catalogTab, _ = m.catalogTab.Update(msg)
		return m, nil
	}

	var cmd tea.Cmd
	switch m.activeTab {
	case TabDesktop:
		m.desktopTab, cmd = m.desktopTab.Update(msg)
	case TabCatalog:
		m.catalogTab, cmd = m.catalogTab.Update(msg)
	case TabContact:
		m.contactTab, cmd = m.contactTab.Update(msg)
	}
	return m, cmd
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	mode, focused := "", ""
	if snap := m.desktopTab.snap; snap != nil {
		mode, focused = snap.Mode, snap.Focused
	}
	statusBar := renderStatusBar(m.connected, mode, focused, m.width)
	tabBar := renderTabBar(m.activeTab, m.width)
	helpBar := renderHelpBar(m.width)

	var content string
	switch m.activeTab {
	case TabDesktop:
		content = m.desktopTab.View()
	case TabCatalog:
		content = m.catalogTab.View()
	case TabContact:
		content = m.contactTab.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		statusBar,
		tabBar,
		content,
		helpBar,
	)
}
