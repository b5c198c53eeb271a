package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.Viewport.Breakpoint != 768 || cfg.Interaction.DragThreshold != 5 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(res.Files) != 0 {
		t.Fatalf("expected no files, got %v", res.Files)
	}
	if res.Config.Windows.DefaultWidth != DefaultWindowWidth {
		t.Fatalf("expected default width, got %v", res.Config.Windows.DefaultWidth)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "# empty\n")
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.LogLevel != "info" {
		t.Fatalf("expected log_level info, got %q", res.Config.LogLevel)
	}
}

func TestLoadFromPath_PartialSectionKeepsDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "viewport:\n  breakpoint: 900\n")
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Viewport.Breakpoint != 900 {
		t.Fatalf("expected breakpoint 900, got %d", res.Config.Viewport.Breakpoint)
	}
	if res.Config.Viewport.Width != DefaultViewportWidth {
		t.Fatalf("expected default viewport width to survive, got %v", res.Config.Viewport.Width)
	}

	val, src, err := Explain(res, "viewport.breakpoint")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != 900 || src.Kind != SourceFile || src.Line != 2 {
		t.Fatalf("unexpected explain result: %#v %#v", val, src)
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "unknown_key: 1\n")
	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error to include file path, got %v", err)
	}
}

func TestLoadFromPath_ValidationErrorHasSource(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "log_level: info\nwindows:\n  width_ratio: 1.5\n")
	_, err := LoadFromPath(path)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Path != "windows.width_ratio" || verr.Source.Line != 3 {
		t.Fatalf("unexpected validation error: %+v", verr)
	}
	if !strings.Contains(err.Error(), path+":3:") {
		t.Fatalf("expected file:line prefix, got %v", err)
	}
}

func TestLoadFromPath_IncludeDirectoryOrderAndMainOverrides(t *testing.T) {
	dir := t.TempDir()
	configD := filepath.Join(dir, "config.d")
	if err := os.MkdirAll(configD, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeConfig(t, configD, "10-base.yaml", "viewport:\n  breakpoint: 500\n")
	writeConfig(t, configD, "20-override.yaml", "viewport:\n  breakpoint: 600\ncontact:\n  recipient: me@example.com\n")
	path := writeConfig(t, dir, "config.yaml", "include:\n  - config.d\nviewport:\n  breakpoint: 700\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Viewport.Breakpoint != 700 {
		t.Fatalf("expected main file to win, got %d", res.Config.Viewport.Breakpoint)
	}
	if res.Config.Contact.Recipient != "me@example.com" {
		t.Fatalf("expected included recipient, got %q", res.Config.Contact.Recipient)
	}
	if len(res.Files) != 3 {
		t.Fatalf("expected 3 files, got %v", res.Files)
	}
}

func TestLoadFromPath_IncludeCycleDetection(t *testing.T) {
	dir := t.TempDir()
	a := writeConfig(t, dir, "a.yaml", "include: b.yaml\n")
	writeConfig(t, dir, "b.yaml", "include: a.yaml\n")

	_, err := LoadFromPath(a)
	if err == nil || !strings.Contains(err.Error(), "include cycle") {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestLoadFromPath_IncludeMissingPathHasContext(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "include:\n  - missing.yaml\n")
	_, err := LoadFromPath(path)
	if err == nil || !strings.Contains(err.Error(), "missing.yaml") || !strings.Contains(err.Error(), path+":") {
		t.Fatalf("expected include error with location, got %v", err)
	}
}

func TestLoadFromPath_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "viewport:\n  breakpoint: 900\n")
	t.Setenv("RETROSHELL_VIEWPORT_BREAKPOINT", "1024")
	t.Setenv("RETROSHELL_LOGGING_ENABLED", "true")
	t.Setenv("RETROSHELL_CATALOG_PORTFOLIO_FILE", "/srv/portfolio-data.json")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Viewport.Breakpoint != 1024 {
		t.Fatalf("expected env to win, got %d", res.Config.Viewport.Breakpoint)
	}
	if !res.Config.Logging.Enabled || res.Config.Catalog.PortfolioFile != "/srv/portfolio-data.json" {
		t.Fatalf("unexpected env overlay: %+v", res.Config)
	}
	if src := res.Sources["viewport.breakpoint"]; src.Kind != SourceEnv || src.Name != "RETROSHELL_VIEWPORT_BREAKPOINT" {
		t.Fatalf("expected env source, got %+v", src)
	}
}

func TestLoadFromPath_InvalidEnvValue(t *testing.T) {
	t.Setenv("RETROSHELL_INTERACTION_DRAG_THRESHOLD", "-1")
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml"))

	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Source.Kind != SourceEnv {
		t.Fatalf("expected env-sourced validation error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"breakpoint", func(c *Config) { c.Viewport.Breakpoint = 0 }, "viewport.breakpoint"},
		{"threshold", func(c *Config) { c.Interaction.DragThreshold = 0 }, "interaction.drag_threshold"},
		{"default below min", func(c *Config) { c.Windows.DefaultWidth = 100 }, "windows.default_width"},
		{"height ratio", func(c *Config) { c.Windows.HeightRatio = 0 }, "windows.height_ratio"},
		{"recipient", func(c *Config) { c.Contact.Recipient = " " }, "contact.recipient"},
		{"logging level", func(c *Config) { c.Logging.Level = "chatty" }, "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			var verr *ValidationError
			if err := cfg.Validate(); !errors.As(err, &verr) || verr.Path != tt.path {
				t.Fatalf("expected validation error at %q, got %v", tt.path, err)
			}
		})
	}
}

func TestGetLoggingConfig_Defaults(t *testing.T) {
	cfg := DefaultConfig()
	lc := cfg.GetLoggingConfig()
	if lc.MaxSizeMB != 10 || lc.MaxFiles != 3 || lc.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", lc)
	}
	if !strings.HasSuffix(lc.File, filepath.Join("retroshell", "actions.log")) {
		t.Fatalf("unexpected log file %q", lc.File)
	}
}

func TestEnvKeys(t *testing.T) {
	keys := EnvKeys()
	want := map[string]string{
		"log_level":              "RETROSHELL_LOG_LEVEL",
		"viewport.breakpoint":    "RETROSHELL_VIEWPORT_BREAKPOINT",
		"windows.center_offset":  "RETROSHELL_WINDOWS_CENTER_OFFSET",
		"logging.max_files":      "RETROSHELL_LOGGING_MAX_FILES",
		"catalog.articles_file":  "RETROSHELL_CATALOG_ARTICLES_FILE",
		"contact.recipient":      "RETROSHELL_CONTACT_RECIPIENT",
		"interaction.min_height": "RETROSHELL_INTERACTION_MIN_HEIGHT",
	}
	for path, key := range want {
		if keys[path] != key {
			t.Fatalf("EnvKeys()[%q] = %q, want %q", path, keys[path], key)
		}
	}
	if _, ok := keys["include"]; ok {
		t.Fatalf("include must not be env-overridable")
	}
}

func TestMarshal_RoundTrips(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Include = IncludeList{"extra.yaml"}
	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "include") {
		t.Fatalf("include should not be printed:\n%s", data)
	}
	path := writeConfig(t, t.TempDir(), "config.yaml", string(data))
	if _, err := LoadFromPath(path); err != nil {
		t.Fatalf("printed config should load: %v", err)
	}
}
