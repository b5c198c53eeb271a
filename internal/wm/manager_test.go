package wm

import (
	"math"
	"testing"

	"github.com/1broseidon/retroshell/internal/catalog"
	"github.com/1broseidon/retroshell/internal/geom"
)

var desktopViewport = geom.Size{Width: 1920, Height: 1080}

func desc(id string) catalog.Descriptor {
	return catalog.Descriptor{ID: id, Title: id, Glyph: "File", Kind: catalog.KindMarkdown}
}

func sized(id string, w, h float64) catalog.Descriptor {
	d := desc(id)
	d.DefaultSize = &geom.Size{Width: w, Height: h}
	return d
}

func TestOpen_AssignsBaseZAndDefaultSize(t *testing.T) {
	m := NewManager(DefaultOptions())

	w, created := m.Open(desc("about"), desktopViewport, false)
	if !created {
		t.Fatalf("expected window to be created")
	}
	if w.Z != BaseZ {
		t.Fatalf("expected z=%d, got %d", BaseZ, w.Z)
	}
	if w.Size != (geom.Size{Width: 640, Height: 480}) {
		t.Fatalf("expected default size, got %+v", w.Size)
	}
	if !w.Pending || w.Maximized || w.Position != (geom.Point{}) {
		t.Fatalf("unexpected initial state: %+v", w)
	}
}

func TestOpen_CapsSizeToViewportShare(t *testing.T) {
	tests := []struct {
		name     string
		request  *geom.Size
		viewport geom.Size
		want     geom.Size
	}{
		{"fits", &geom.Size{Width: 500, Height: 400}, desktopViewport, geom.Size{Width: 500, Height: 400}},
		{"width capped", &geom.Size{Width: 1200, Height: 400}, geom.Size{Width: 1000, Height: 1000}, geom.Size{Width: 500, Height: 400}},
		{"height capped", &geom.Size{Width: 400, Height: 900}, geom.Size{Width: 1000, Height: 1000}, geom.Size{Width: 400, Height: 600}},
		{"degenerate viewport", nil, geom.Size{Width: 0, Height: 0}, geom.Size{Width: 200, Height: 150}},
		{"negative viewport", nil, geom.Size{Width: -50, Height: -50}, geom.Size{Width: 200, Height: 150}},
		{"narrow viewport", nil, geom.Size{Width: 300, Height: 900}, geom.Size{Width: 150, Height: 480}},
		{"phone viewport", nil, geom.Size{Width: 360, Height: 640}, geom.Size{Width: 180, Height: 384}},
		{"zero width only", nil, geom.Size{Width: 0, Height: 1000}, geom.Size{Width: 200, Height: 480}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager(DefaultOptions())
			d := desc("w")
			d.DefaultSize = tt.request
			w, _ := m.Open(d, tt.viewport, false)
			if w.Size != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, w.Size)
			}
		})
	}
}

func TestOpen_ExistingIDRaisesInsteadOfDuplicating(t *testing.T) {
	m := NewManager(DefaultOptions())
	m.Open(desc("a"), desktopViewport, false)
	m.Open(desc("b"), desktopViewport, false)

	w, created := m.Open(desc("a"), desktopViewport, false)
	if created {
		t.Fatalf("expected existing window to be reused")
	}
	if m.Len() != 2 {
		t.Fatalf("expected 2 windows, got %d", m.Len())
	}
	top, _ := m.Top()
	if top.ID != "a" || w.Z != top.Z {
		t.Fatalf("expected a on top, got %+v", top)
	}
}

func TestOpen_SingleModeReplacesOpenSet(t *testing.T) {
	m := NewManager(DefaultOptions())
	m.Open(desc("a"), desktopViewport, false)
	m.Open(desc("b"), desktopViewport, false)

	m.Open(desc("c"), geom.Size{Width: 375, Height: 800}, true)
	snap := m.Snapshot()
	if len(snap) != 1 || snap[0].ID != "c" {
		t.Fatalf("expected only c open, got %+v", snap)
	}
}

func TestZOrder_UniqueAndMonotonic(t *testing.T) {
	m := NewManager(DefaultOptions())
	m.Open(desc("a"), desktopViewport, false)
	m.Open(desc("b"), desktopViewport, false)
	m.Open(desc("c"), desktopViewport, false)

	m.Close("c")
	d, _ := m.Open(desc("d"), desktopViewport, false)
	b, _ := m.Get("b")
	if d.Z <= b.Z {
		t.Fatalf("new window z=%d should exceed b z=%d", d.Z, b.Z)
	}

	m.Focus("a")
	seen := make(map[int]string)
	for _, w := range m.Snapshot() {
		if other, dup := seen[w.Z]; dup {
			t.Fatalf("z=%d shared by %s and %s", w.Z, other, w.ID)
		}
		seen[w.Z] = w.ID
	}
	top, _ := m.Top()
	if top.ID != "a" {
		t.Fatalf("expected a on top, got %s", top.ID)
	}

	for _, w := range m.Snapshot() {
		m.Close(w.ID)
	}
	e, _ := m.Open(desc("e"), desktopViewport, false)
	if e.Z != BaseZ {
		t.Fatalf("expected z to return to %d with nothing open, got %d", BaseZ, e.Z)
	}

	m.Open(desc("f"), desktopViewport, false)
	g, _ := m.Open(desc("g"), geom.Size{Width: 375, Height: 800}, true)
	if g.Z != BaseZ {
		t.Fatalf("expected single-mode replace to restart at %d, got %d", BaseZ, g.Z)
	}
}

func TestFocus_TopWindowIsIdempotent(t *testing.T) {
	m := NewManager(DefaultOptions())
	m.Open(desc("a"), desktopViewport, false)
	b, _ := m.Open(desc("b"), desktopViewport, false)

	if m.Focus("b") {
		t.Fatalf("focusing the top window should be a no-op")
	}
	after, _ := m.Get("b")
	if after.Z != b.Z {
		t.Fatalf("expected z to stay %d, got %d", b.Z, after.Z)
	}

	if !m.Focus("a") {
		t.Fatalf("expected a to be raised")
	}
	ordered := m.Ordered()
	if ordered[len(ordered)-1].ID != "a" {
		t.Fatalf("expected a last in z order, got %+v", ordered)
	}
}

func TestPlace_CentersPendingWindows(t *testing.T) {
	m := NewManager(DefaultOptions())
	m.Open(desc("a"), desktopViewport, false)

	placed := m.Place(desktopViewport)
	if len(placed) != 1 || placed[0] != "a" {
		t.Fatalf("expected a to be placed, got %v", placed)
	}
	w, _ := m.Get("a")
	want := geom.Point{X: 960 - 320, Y: 540 - 240 - 50}
	if w.Position != want || w.Pending {
		t.Fatalf("expected centered at %+v, got %+v pending=%v", want, w.Position, w.Pending)
	}

	m.Move("a", geom.Point{X: 10, Y: 10})
	if placed := m.Place(desktopViewport); len(placed) != 0 {
		t.Fatalf("placed windows should not be re-centered, got %v", placed)
	}
}

func TestMoveAndResize_ClearPending(t *testing.T) {
	m := NewManager(DefaultOptions())
	m.Open(desc("a"), desktopViewport, false)
	m.Open(desc("b"), desktopViewport, false)

	m.Move("a", geom.Point{X: 5, Y: 6})
	m.Resize("b", geom.Size{Width: 50, Height: 900})

	a, _ := m.Get("a")
	b, _ := m.Get("b")
	if a.Pending || a.Position != (geom.Point{X: 5, Y: 6}) {
		t.Fatalf("unexpected a: %+v", a)
	}
	if b.Pending || b.Size != (geom.Size{Width: 50, Height: 900}) {
		t.Fatalf("expected verbatim size and cleared pending, got %+v", b)
	}
}

func TestResize_DegenerateFallsBackToMinimum(t *testing.T) {
	tests := []struct {
		name string
		size geom.Size
		want geom.Size
	}{
		{"small but valid", geom.Size{Width: 100, Height: 100}, geom.Size{Width: 100, Height: 100}},
		{"zero", geom.Size{}, geom.Size{Width: 200, Height: 150}},
		{"negative width", geom.Size{Width: -10, Height: 300}, geom.Size{Width: 200, Height: 300}},
		{"nan height", geom.Size{Width: 300, Height: math.NaN()}, geom.Size{Width: 300, Height: 150}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager(DefaultOptions())
			m.Open(desc("a"), desktopViewport, false)
			m.Resize("a", tt.size)
			if w, _ := m.Get("a"); w.Size != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, w.Size)
			}
		})
	}
}

func TestZeroOptionsUseDefaults(t *testing.T) {
	m := NewManager(Options{})
	if m.Options() != DefaultOptions() {
		t.Fatalf("expected defaults, got %+v", m.Options())
	}
	m.Open(sized("a", 400, 300), desktopViewport, false)
	m.Place(desktopViewport)
	w, _ := m.Get("a")
	want := geom.Point{X: 960 - 200, Y: 540 - 150 - DefaultCenterOffset}
	if w.Position != want {
		t.Fatalf("expected %+v, got %+v", want, w.Position)
	}

	// An explicit zero offset alongside other settings is kept.
	opts := DefaultOptions()
	opts.CenterOffset = 0
	if got := NewManager(opts).Options().CenterOffset; got != 0 {
		t.Fatalf("expected explicit zero offset, got %v", got)
	}
}

func TestMaximize_RoundTripPreservesGeometry(t *testing.T) {
	m := NewManager(DefaultOptions())
	m.Open(sized("a", 400, 300), desktopViewport, false)
	m.Place(desktopViewport)
	before, _ := m.Get("a")

	if !m.SetMaximized("a", true) {
		t.Fatalf("expected maximize to apply")
	}
	if m.Resize("a", geom.Size{Width: 900, Height: 900}) || m.Move("a", geom.Point{X: 1, Y: 1}) {
		t.Fatalf("maximized windows should ignore move and resize")
	}
	m.SetMaximized("a", false)

	after, _ := m.Get("a")
	if after.Bounds() != before.Bounds() || after.Maximized {
		t.Fatalf("expected restore to %+v, got %+v", before.Bounds(), after.Bounds())
	}
}

func TestUnknownIDsAreNoOps(t *testing.T) {
	m := NewManager(DefaultOptions())
	m.Open(desc("a"), desktopViewport, false)
	before := m.Snapshot()

	if m.Close("x") || m.Focus("x") || m.Move("x", geom.Point{}) ||
		m.Resize("x", geom.Size{}) || m.SetMaximized("x", true) ||
		m.SetBounds("x", geom.Rect{}) {
		t.Fatalf("unknown ids must not report changes")
	}
	after := m.Snapshot()
	if len(after) != 1 || after[0].Z != before[0].Z {
		t.Fatalf("state changed: %+v -> %+v", before, after)
	}
}

func TestSnapshot_ReturnsCopies(t *testing.T) {
	m := NewManager(DefaultOptions())
	d := desc("a")
	d.Params = map[string]string{catalog.ParamFilePath: "a.md"}
	m.Open(d, desktopViewport, false)

	snap := m.Snapshot()
	snap[0].Params[catalog.ParamFilePath] = "changed"
	snap[0].Z = 999

	w, _ := m.Get("a")
	if w.Params[catalog.ParamFilePath] != "a.md" || w.Z == 999 {
		t.Fatalf("snapshot mutation leaked into manager: %+v", w)
	}
}

func TestReset_RestartsZ(t *testing.T) {
	m := NewManager(DefaultOptions())
	m.Open(desc("a"), desktopViewport, false)
	m.Open(desc("b"), desktopViewport, false)
	m.Reset()

	if m.Len() != 0 {
		t.Fatalf("expected no windows after reset")
	}
	w, _ := m.Open(desc("c"), desktopViewport, false)
	if w.Z != BaseZ {
		t.Fatalf("expected z to restart at %d, got %d", BaseZ, w.Z)
	}
}
