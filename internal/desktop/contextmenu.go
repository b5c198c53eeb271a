package desktop

import (
	"errors"
	"fmt"
	"strings"

	"github.com/1broseidon/retroshell/internal/actionlog"
	"github.com/1broseidon/retroshell/internal/geom"
)

// Context menu entries.
const (
	MenuRefresh          = "Refresh"
	MenuAbout            = "About"
	MenuChangeBackground = "Change Background"
)

var (
	ErrMenuClosed       = errors.New("context menu is not open")
	ErrMenuItemDisabled = errors.New("context menu item is disabled")
)

// MenuItem is one context menu entry.
type MenuItem struct {
	Label    string `json:"label"`
	Disabled bool   `json:"disabled,omitempty"`
}

// Menu is the desktop context menu state.
type Menu struct {
	Visible  bool       `json:"visible"`
	Position geom.Point `json:"position"`
	Items    []MenuItem `json:"items,omitempty"`
}

func defaultMenuItems() []MenuItem {
	return []MenuItem{
		{Label: MenuRefresh},
		{Label: MenuAbout},
		{Label: MenuChangeBackground, Disabled: true},
	}
}

// ShowContextMenu opens the background context menu at p. It is unavailable
// in mobile mode.
func (d *Desktop) ShowContextMenu(p geom.Point) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.detector.Mobile() {
		return false
	}
	d.menu = Menu{Visible: true, Position: p, Items: defaultMenuItems()}
	d.record(actionlog.ActionMenu, "", map[string]any{"state": "open", "x": p.X, "y": p.Y})
	return true
}

// HideContextMenu closes the context menu.
func (d *Desktop) HideContextMenu() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hideMenuLocked()
}

func (d *Desktop) hideMenuLocked() {
	if !d.menu.Visible {
		return
	}
	d.menu = Menu{}
	d.record(actionlog.ActionMenu, "", map[string]any{"state": "closed"})
}

// SelectMenuItem runs a context menu entry by label and closes the menu.
func (d *Desktop) SelectMenuItem(label string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.menu.Visible {
		return ErrMenuClosed
	}

	var item *MenuItem
	for i := range d.menu.Items {
		if strings.EqualFold(d.menu.Items[i].Label, strings.TrimSpace(label)) {
			item = &d.menu.Items[i]
			break
		}
	}
	if item == nil {
		return fmt.Errorf("unknown context menu item %q", label)
	}
	if item.Disabled {
		return fmt.Errorf("%s: %w", item.Label, ErrMenuItemDisabled)
	}

	selected := item.Label
	d.hideMenuLocked()

	switch selected {
	case MenuRefresh:
		d.refreshLocked()
	case MenuAbout:
		if desc, ok := d.catalog.Lookup(d.aboutID); ok {
			d.openLocked(desc)
		}
	}
	d.commitLocked()
	return nil
}

// refreshLocked starts the session over: no windows, icons in their slots.
func (d *Desktop) refreshLocked() {
	d.abortGestureLocked("refresh")
	d.windows.Reset()
	d.icons.Reset()
	d.record(actionlog.ActionRefresh, "", nil)
}
