package main

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/retroshell/internal/config"
	"github.com/1broseidon/retroshell/internal/desktop"
	"github.com/1broseidon/retroshell/internal/geom"
	"github.com/1broseidon/retroshell/internal/ipc"
	"github.com/1broseidon/retroshell/internal/wm"
)

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" INFO ", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := slogLevel(tt.in); got != tt.want {
			t.Errorf("slogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDesktopOptionsFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Viewport.Width = 1024
	cfg.Viewport.Height = 700
	cfg.Viewport.Breakpoint = 900
	cfg.Interaction.MinWidth = 250
	cfg.Windows.CenterOffset = 0

	opts := desktopOptions(cfg, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if opts.Viewport != (geom.Size{Width: 1024, Height: 700}) {
		t.Errorf("viewport = %+v", opts.Viewport)
	}
	if opts.Breakpoint != 900 {
		t.Errorf("breakpoint = %d, want 900", opts.Breakpoint)
	}
	if opts.Windows.MinSize.Width != 250 || opts.Windows.MinSize.Height != config.DefaultMinHeight {
		t.Errorf("min size = %+v", opts.Windows.MinSize)
	}

	// A 900px breakpoint puts a 1024px viewport in desktop mode and a
	// zero center offset places windows exactly centered.
	cat, err := loadCatalog(cfg)
	if err != nil {
		t.Fatalf("loadCatalog: %v", err)
	}
	desk := desktop.New(cat, opts)
	defer desk.Close()

	w, err := desk.Open("resume")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	wantX := 1024/2 - w.Size.Width/2
	wantY := 700/2 - w.Size.Height/2
	if w.Position.X != wantX || w.Position.Y != wantY {
		t.Errorf("position = %+v, want (%v, %v)", w.Position, wantX, wantY)
	}
}

func TestCatalogSourcesExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := config.DefaultConfig()
	cfg.Catalog.PortfolioFile = "~/data/portfolio.json"

	src, err := catalogSources(cfg)
	if err != nil {
		t.Fatalf("catalogSources: %v", err)
	}
	if want := filepath.Join(home, "data", "portfolio.json"); src.PortfolioFile != want {
		t.Errorf("portfolio = %q, want %q", src.PortfolioFile, want)
	}
	if src.ArticlesFile != "" {
		t.Errorf("articles = %q, want empty (embedded)", src.ArticlesFile)
	}

	if _, err := loadCatalog(cfg); err == nil {
		t.Error("expected error for missing portfolio file")
	}
}

func TestFormatSource(t *testing.T) {
	tests := []struct {
		src  config.Source
		want string
	}{
		{config.Source{Kind: config.SourceFile, File: "/c.yaml", Line: 3, Column: 5}, "file:/c.yaml:3:5"},
		{config.Source{Kind: config.SourceFile, File: "/c.yaml"}, "file:/c.yaml"},
		{config.Source{Kind: config.SourceFile}, "file"},
		{config.Source{Kind: config.SourceEnv, Name: "RETROSHELL_LOG_LEVEL"}, "env:RETROSHELL_LOG_LEVEL"},
		{config.Source{Kind: config.SourceDefault}, "default"},
	}
	for _, tt := range tests {
		if got := formatSource(tt.src); got != tt.want {
			t.Errorf("formatSource(%+v) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestRunContact(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantOut  string
	}{
		{
			name:     "composes link",
			args:     []string{"--to", "me@example.com", "--from", "a@b.co", "--subject", "Hi there", "--body", "x&y"},
			wantCode: 0,
			wantOut:  "mailto:me@example.com?subject=Hi%20there&body=x%26y\n",
		},
		{
			name:     "missing body",
			args:     []string{"--to", "me@example.com", "--from", "a@b.co", "--subject", "Hi"},
			wantCode: 2,
		},
		{
			name:     "bad flag",
			args:     []string{"--nope"},
			wantCode: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if code := runContact(tt.args, &out); code != tt.wantCode {
				t.Fatalf("runContact() = %d, want %d", code, tt.wantCode)
			}
			if out.String() != tt.wantOut {
				t.Errorf("output = %q, want %q", out.String(), tt.wantOut)
			}
		})
	}
}

func TestParseFloats(t *testing.T) {
	got, err := parseFloats("10", "-2.5")
	if err != nil {
		t.Fatalf("parseFloats: %v", err)
	}
	if got[0] != 10 || got[1] != -2.5 {
		t.Errorf("parseFloats = %v", got)
	}
	if _, err := parseFloats("ten"); err == nil {
		t.Error("expected error for non-number")
	}
}

func TestWriteWindows(t *testing.T) {
	var buf bytes.Buffer
	writeWindows(&buf, &desktop.Snapshot{})
	if strings.TrimSpace(buf.String()) != "no open windows" {
		t.Errorf("empty output = %q", buf.String())
	}

	buf.Reset()
	writeWindows(&buf, &desktop.Snapshot{
		Windows: []wm.Window{
			{ID: "about", Title: "About", Z: 10, Size: geom.Size{Width: 640, Height: 480}},
			{ID: "resume", Title: "Resume", Z: 11, Maximized: true, Size: geom.Size{Width: 640, Height: 480}},
		},
		Focused: "resume",
	})
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %q", lines)
	}
	if !strings.HasPrefix(lines[1], "* resume") || !strings.HasSuffix(lines[1], "maximized") {
		t.Errorf("focused line = %q", lines[1])
	}
	if strings.HasPrefix(lines[0], "*") {
		t.Errorf("unfocused line marked: %q", lines[0])
	}
}

func TestWriteEnvKeysSorted(t *testing.T) {
	var buf bytes.Buffer
	writeEnvKeys(&buf, map[string]string{
		"viewport.width": "RETROSHELL_VIEWPORT_WIDTH",
		"log_level":      "RETROSHELL_LOG_LEVEL",
	})
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "RETROSHELL_LOG_LEVEL") {
		t.Errorf("env keys = %q", lines)
	}
}

func TestPIDFileRoundTrip(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	if pid, err := readPIDFile(); err != nil || pid != 0 {
		t.Fatalf("readPIDFile() before write = %d, %v", pid, err)
	}
	path, err := writePIDFile()
	if err != nil {
		t.Fatalf("writePIDFile: %v", err)
	}
	pid, err := readPIDFile()
	if err != nil {
		t.Fatalf("readPIDFile: %v", err)
	}
	if pid != os.Getpid() {
		t.Errorf("pid = %d, want %d", pid, os.Getpid())
	}

	if err := os.WriteFile(path, []byte("garbage"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := readPIDFile(); err == nil {
		t.Error("expected error for malformed pid file")
	}
}

func TestParsePath(t *testing.T) {
	got, err := parsePath([]string{"10,20", "15.5,-3"})
	if err != nil {
		t.Fatalf("parsePath: %v", err)
	}
	want := []geom.Point{{X: 10, Y: 20}, {X: 15.5, Y: -3}}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("parsePath = %v, want %v", got, want)
	}

	for _, bad := range []string{"10", "a,b", ""} {
		if _, err := parsePath([]string{bad}); err == nil {
			t.Errorf("parsePath(%q) expected error", bad)
		}
	}
}

func TestGestureEvents(t *testing.T) {
	target := desktop.Target{Kind: desktop.TargetTitleBar, ID: "about"}
	events := gestureEvents(target, []geom.Point{{X: 1, Y: 1}, {X: 5, Y: 5}, {X: 9, Y: 9}})

	phases := []ipc.PointerPhase{ipc.PointerDown, ipc.PointerMove, ipc.PointerMove, ipc.PointerUp}
	if len(events) != len(phases) {
		t.Fatalf("events = %d, want %d", len(events), len(phases))
	}
	for i, ev := range events {
		if ev.Phase != phases[i] {
			t.Errorf("event %d phase = %s, want %s", i, ev.Phase, phases[i])
		}
	}
	if events[0].Target != target {
		t.Errorf("down target = %+v", events[0].Target)
	}
	if events[1].Target != (desktop.Target{}) {
		t.Errorf("move carries target: %+v", events[1].Target)
	}
	if last := events[3]; last.X != 9 || last.Y != 9 {
		t.Errorf("up at (%v, %v), want (9, 9)", last.X, last.Y)
	}

	// A single point is a press and release in place.
	single := gestureEvents(target, []geom.Point{{X: 3, Y: 4}})
	if len(single) != 2 || single[1].Phase != ipc.PointerUp {
		t.Errorf("single-point events = %+v", single)
	}
}
