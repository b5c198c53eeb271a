package actionlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func fixedNow() time.Time {
	return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
}

func TestRecord_WritesSortedDetails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "actions.log")
	l, err := New(Config{Enabled: true, Level: LevelDebug, FilePath: path})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	l.now = fixedNow

	l.Record(ActionOpen, "about", map[string]any{"z": 10, "title": "About Me", "width": 640.0})
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := `2026-01-02 03:04:05 [OPEN] id=about title="About Me" width=640 z=10` + "\n"
	if string(data) != want {
		t.Fatalf("unexpected entry:\n got %q\nwant %q", string(data), want)
	}
}

func TestRecord_FiltersByLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actions.log")
	l, err := New(Config{Enabled: true, Level: LevelInfo, FilePath: path})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	l.Record(ActionMove, "about", nil)
	l.Record(ActionClose, "about", nil)
	l.Close()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "[MOVE]") {
		t.Fatalf("debug action should be filtered: %q", string(data))
	}
	if !strings.Contains(string(data), "[CLOSE] id=about") {
		t.Fatalf("expected close entry, got %q", string(data))
	}
}

func TestRecord_DisabledAndNilAreSafe(t *testing.T) {
	var nilLogger *Logger
	nilLogger.Record(ActionOpen, "x", nil)
	if err := nilLogger.Close(); err != nil {
		t.Fatalf("nil close: %v", err)
	}

	l, err := New(Config{Enabled: false, FilePath: filepath.Join(t.TempDir(), "never.log")})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	l.Record(ActionOpen, "x", nil)
	if _, err := os.Stat(l.config.FilePath); !os.IsNotExist(err) {
		t.Fatalf("disabled logger should not create a file")
	}
}

func TestRecord_Rotates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actions.log")
	l, err := New(Config{Enabled: true, Level: LevelDebug, FilePath: path, MaxFiles: 2})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	l.maxBytes = 10

	l.Record(ActionOpen, "first", nil)
	l.Record(ActionOpen, "second", nil)
	l.Record(ActionOpen, "third", nil)
	l.Close()

	current, _ := os.ReadFile(path)
	if !strings.Contains(string(current), "id=third") {
		t.Fatalf("expected newest entry in current file, got %q", string(current))
	}
	rotated, err := os.ReadFile(path + ".1")
	if err != nil || !strings.Contains(string(rotated), "id=second") {
		t.Fatalf("expected .1 to hold second entry, got %q (%v)", string(rotated), err)
	}
	oldest, err := os.ReadFile(path + ".2")
	if err != nil || !strings.Contains(string(oldest), "id=first") {
		t.Fatalf("expected .2 to hold first entry, got %q (%v)", string(oldest), err)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"warning": LevelWarn,
		"error":   LevelError,
		"bogus":   LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
