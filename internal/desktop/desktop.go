// Package desktop composes the viewport detector, launch catalog, icon layout
// and window manager into one desktop session, and routes pointer gestures to
// them.
package desktop

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/1broseidon/retroshell/internal/actionlog"
	"github.com/1broseidon/retroshell/internal/catalog"
	"github.com/1broseidon/retroshell/internal/geom"
	"github.com/1broseidon/retroshell/internal/icons"
	"github.com/1broseidon/retroshell/internal/pointer"
	"github.com/1broseidon/retroshell/internal/viewport"
	"github.com/1broseidon/retroshell/internal/wm"
)

// ErrUnknownID is returned when an id is not in the catalog.
var ErrUnknownID = errors.New("unknown catalog id")

// DefaultAboutID is the catalog entry opened by the About menu item.
const DefaultAboutID = "about"

// DefaultViewport is used until the first viewport report.
var DefaultViewport = geom.Size{Width: 1280, Height: 800}

// Recorder receives desktop state changes.
type Recorder interface {
	Record(action actionlog.Action, id string, details map[string]any)
}

// Options configures a Desktop.
type Options struct {
	Viewport      geom.Size
	Breakpoint    int
	DragThreshold float64
	Windows       wm.Options
	AboutID       string
	Recorder      Recorder
	Logger        *slog.Logger
}

// Desktop is one desktop session. All mutation is serialized under mu.
type Desktop struct {
	mu sync.Mutex

	detector  *viewport.Detector
	catalog   *catalog.Catalog
	icons     *icons.Engine
	windows   *wm.Manager
	threshold float64
	aboutID   string

	gesture *gesture
	moves   moveListeners
	menu    Menu

	recorder    Recorder
	logger      *slog.Logger
	unsubscribe func()
}

// New creates a desktop session over cat.
func New(cat *catalog.Catalog, opts Options) *Desktop {
	size := opts.Viewport
	if size.IsZero() {
		size = DefaultViewport
	}
	if opts.Breakpoint <= 0 {
		opts.Breakpoint = viewport.DefaultBreakpoint
	}
	if opts.DragThreshold <= 0 {
		opts.DragThreshold = pointer.DefaultThreshold
	}
	if opts.AboutID == "" {
		opts.AboutID = DefaultAboutID
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	d := &Desktop{
		detector:  viewport.NewDetector(size, opts.Breakpoint),
		catalog:   cat,
		icons:     icons.NewEngine(cat.Items()),
		windows:   wm.NewManager(opts.Windows),
		threshold: opts.DragThreshold,
		aboutID:   opts.AboutID,
		recorder:  opts.Recorder,
		logger:    opts.Logger,
	}
	// The detector only resizes from ViewportResize, which holds mu, so the
	// listener runs with the lock held.
	d.unsubscribe = d.detector.Subscribe(d.onModeChangeLocked)
	return d
}

// Close detaches the desktop from its detector.
func (d *Desktop) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.abortGestureLocked("close")
	if d.unsubscribe != nil {
		d.unsubscribe()
	}
}

// Catalog returns the current launch catalog.
func (d *Desktop) Catalog() *catalog.Catalog {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.catalog
}

// Mode returns the current viewport mode.
func (d *Desktop) Mode() viewport.Mode {
	return d.detector.Mode()
}

func (d *Desktop) record(action actionlog.Action, id string, details map[string]any) {
	if d.recorder == nil {
		return
	}
	d.recorder.Record(action, id, details)
}

// commitLocked runs the layout pass that places freshly opened windows.
func (d *Desktop) commitLocked() {
	size := d.detector.Size()
	for _, id := range d.windows.Place(size) {
		w, _ := d.windows.Get(id)
		d.record(actionlog.ActionPlace, id, map[string]any{"x": w.Position.X, "y": w.Position.Y})
	}
}

// Open launches the catalog entry id, or raises it when already open.
func (d *Desktop) Open(id string) (wm.Window, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	desc, ok := d.catalog.Lookup(id)
	if !ok {
		return wm.Window{}, fmt.Errorf("%w: %q", ErrUnknownID, id)
	}
	d.openLocked(desc)
	d.commitLocked()
	w, _ := d.windows.Get(id)
	return w, nil
}

// OpenArticle launches the window for one article from the article browser.
func (d *Desktop) OpenArticle(topicID, articleID string) (wm.Window, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	desc, ok := d.catalog.Article(topicID, articleID)
	if !ok {
		return wm.Window{}, fmt.Errorf("%w: article %q in topic %q", ErrUnknownID, articleID, topicID)
	}
	d.openLocked(desc)
	d.commitLocked()
	w, _ := d.windows.Get(desc.ID)
	return w, nil
}

func (d *Desktop) openLocked(desc catalog.Descriptor) {
	mobile := d.detector.Mobile()
	w, created := d.windows.Open(desc, d.detector.Size(), mobile)
	action := actionlog.ActionOpen
	if !created {
		action = actionlog.ActionFocus
	}
	d.record(action, w.ID, map[string]any{
		"title":  w.Title,
		"kind":   string(w.Kind),
		"z":      w.Z,
		"width":  w.Size.Width,
		"height": w.Size.Height,
		"mobile": mobile,
	})
}

// CloseWindow removes a window.
func (d *Desktop) CloseWindow(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.gesture != nil && d.gesture.id == id && d.gesture.kind != GestureIconDrag {
		d.abortGestureLocked("window closed")
	}
	if !d.windows.Close(id) {
		return false
	}
	d.record(actionlog.ActionClose, id, nil)
	d.commitLocked()
	return true
}

// Focus raises a window.
func (d *Desktop) Focus(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	changed := d.focusLocked(id)
	d.commitLocked()
	return changed
}

func (d *Desktop) focusLocked(id string) bool {
	if !d.windows.Focus(id) {
		return false
	}
	w, _ := d.windows.Get(id)
	d.record(actionlog.ActionFocus, id, map[string]any{"z": w.Z})
	return true
}

// Move sets a window position.
func (d *Desktop) Move(id string, pos geom.Point) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	changed := d.windows.Move(id, pos)
	if changed {
		d.record(actionlog.ActionMove, id, map[string]any{"x": pos.X, "y": pos.Y})
	}
	d.commitLocked()
	return changed
}

// Resize sets a window size. Sizes below the minimum are clamped up, as a
// resize handle would clamp them.
func (d *Desktop) Resize(id string, size geom.Size) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	changed := d.windows.Resize(id, size.Sanitize().Max(d.minSize()))
	if changed {
		w, _ := d.windows.Get(id)
		d.record(actionlog.ActionResize, id, map[string]any{"width": w.Size.Width, "height": w.Size.Height})
	}
	d.commitLocked()
	return changed
}

// SetMaximized sets or clears a window's maximized flag.
func (d *Desktop) SetMaximized(id string, maximized bool) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	changed := d.setMaximizedLocked(id, maximized)
	d.commitLocked()
	return changed
}

func (d *Desktop) setMaximizedLocked(id string, maximized bool) bool {
	if d.gesture != nil && d.gesture.id == id && d.gesture.kind != GestureIconDrag {
		d.abortGestureLocked("maximize")
	}
	if !d.windows.SetMaximized(id, maximized) {
		return false
	}
	d.record(actionlog.ActionMaximize, id, map[string]any{"maximized": maximized})
	return true
}

// ToggleMaximize flips the maximized flag. Mobile windows are always full
// screen, so the toggle does nothing there.
func (d *Desktop) ToggleMaximize(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.detector.Mobile() {
		return false
	}
	w, ok := d.windows.Get(id)
	if !ok {
		return false
	}
	changed := d.setMaximizedLocked(id, !w.Maximized)
	d.commitLocked()
	return changed
}

// MoveIcon sets an icon position directly. It is ignored in mobile mode.
func (d *Desktop) MoveIcon(id string, pos geom.Point) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.icons.Move(id, pos, d.detector.Mode()) {
		return false
	}
	d.record(actionlog.ActionIconMove, id, map[string]any{"x": pos.X, "y": pos.Y})
	return true
}

// ViewportResize reports a new viewport size. A mode transition aborts any
// live gesture and closes the context menu on mobile. It reports whether
// the mode changed.
func (d *Desktop) ViewportResize(width, height float64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	size := geom.Size{Width: width, Height: height}.Sanitize()
	changed := d.detector.Resize(size)
	d.record(actionlog.ActionViewport, "", map[string]any{"width": size.Width, "height": size.Height})
	d.commitLocked()
	return changed
}

func (d *Desktop) onModeChangeLocked(prev, next viewport.Mode) {
	d.logger.Info("viewport mode changed", "from", prev.String(), "to", next.String())
	d.record(actionlog.ActionMode, "", map[string]any{"from": prev.String(), "to": next.String()})
	d.abortGestureLocked("mode change")
	if next == viewport.ModeMobile {
		d.hideMenuLocked()
	}
}

// Reload swaps in a new catalog. Icon overrides survive for ids that remain;
// open windows are left alone.
func (d *Desktop) Reload(cat *catalog.Catalog) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.abortGestureLocked("reload")
	d.catalog = cat
	d.icons.Replace(cat.Items())
	d.record(actionlog.ActionReload, "", map[string]any{"items": cat.Len()})
}

// Refresh closes every window and returns icons to their slots.
func (d *Desktop) Refresh() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hideMenuLocked()
	d.refreshLocked()
}

// Snapshot is a read-only view of the whole desktop.
type Snapshot struct {
	Mode     string         `json:"mode"`
	Mobile   bool           `json:"mobile"`
	Viewport geom.Size      `json:"viewport"`
	Icons    icons.Snapshot `json:"icons"`
	// Windows are ordered back to front.
	Windows []wm.Window  `json:"windows"`
	Focused string       `json:"focused,omitempty"`
	Menu    Menu         `json:"menu"`
	Gesture *GestureInfo `json:"gesture,omitempty"`
}

// Snapshot returns the current desktop state.
func (d *Desktop) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	mode := d.detector.Mode()
	snap := Snapshot{
		Mode:     mode.String(),
		Mobile:   mode == viewport.ModeMobile,
		Viewport: d.detector.Size(),
		Icons:    d.icons.Layout(mode),
		Windows:  d.windows.Ordered(),
		Menu:     d.menu,
	}
	if top, ok := d.windows.Top(); ok {
		snap.Focused = top.ID
	}
	if d.gesture != nil {
		info := d.gesture.info()
		snap.Gesture = &info
	}
	return snap
}

// minSize returns the resize floor configured for windows.
func (d *Desktop) minSize() geom.Size {
	return d.windows.Options().MinSize
}
