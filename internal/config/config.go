package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Defaults shared with the desktop engine.
const (
	DefaultBreakpoint     = 768
	DefaultDragThreshold  = 5
	DefaultMinWidth       = 200
	DefaultMinHeight      = 150
	DefaultWindowWidth    = 640
	DefaultWindowHeight   = 480
	DefaultWidthRatio     = 0.5
	DefaultHeightRatio    = 0.6
	DefaultCenterOffset   = 50
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 800
)

// CatalogConfig names the catalog data files. Empty paths use the embedded
// sample data.
type CatalogConfig struct {
	PortfolioFile string `yaml:"portfolio_file,omitempty" env:"PORTFOLIO_FILE"`
	ArticlesFile  string `yaml:"articles_file,omitempty" env:"ARTICLES_FILE"`
}

// ViewportConfig sets the initial viewport and the mobile breakpoint.
type ViewportConfig struct {
	Width      float64 `yaml:"width" env:"WIDTH"`
	Height     float64 `yaml:"height" env:"HEIGHT"`
	Breakpoint int     `yaml:"breakpoint" env:"BREAKPOINT"`
}

// InteractionConfig tunes pointer gestures.
type InteractionConfig struct {
	DragThreshold float64 `yaml:"drag_threshold" env:"DRAG_THRESHOLD"`
	MinWidth      float64 `yaml:"min_width" env:"MIN_WIDTH"`
	MinHeight     float64 `yaml:"min_height" env:"MIN_HEIGHT"`
}

// WindowConfig tunes initial window sizing and placement.
type WindowConfig struct {
	DefaultWidth  float64 `yaml:"default_width" env:"DEFAULT_WIDTH"`
	DefaultHeight float64 `yaml:"default_height" env:"DEFAULT_HEIGHT"`
	WidthRatio    float64 `yaml:"width_ratio" env:"WIDTH_RATIO"`
	HeightRatio   float64 `yaml:"height_ratio" env:"HEIGHT_RATIO"`
	CenterOffset  float64 `yaml:"center_offset" env:"CENTER_OFFSET"`
}

// ContactConfig configures the contact form.
type ContactConfig struct {
	Recipient string `yaml:"recipient" env:"RECIPIENT"`
}

// LoggingConfig configures desktop action logging.
type LoggingConfig struct {
	// Enabled turns action logging on/off
	Enabled bool `yaml:"enabled,omitempty" env:"ENABLED"`
	// Level controls logging verbosity: debug, info, warn, error
	Level string `yaml:"level,omitempty" env:"LEVEL"`
	// File is the log file path (default: ~/.local/share/retroshell/actions.log)
	File      string `yaml:"file,omitempty" env:"FILE"`
	MaxSizeMB int    `yaml:"max_size_mb,omitempty" env:"MAX_SIZE_MB"`
	MaxFiles  int    `yaml:"max_files,omitempty" env:"MAX_FILES"`
}

type Config struct {
	Include     IncludeList       `yaml:"include,omitempty"`
	SocketPath  string            `yaml:"socket_path,omitempty" env:"SOCKET"`
	LogLevel    string            `yaml:"log_level" env:"LOG_LEVEL"`
	Catalog     CatalogConfig     `yaml:"catalog" envPrefix:"CATALOG_"`
	Viewport    ViewportConfig    `yaml:"viewport" envPrefix:"VIEWPORT_"`
	Interaction InteractionConfig `yaml:"interaction" envPrefix:"INTERACTION_"`
	Windows     WindowConfig      `yaml:"windows" envPrefix:"WINDOWS_"`
	Contact     ContactConfig     `yaml:"contact" envPrefix:"CONTACT_"`
	Logging     LoggingConfig     `yaml:"logging,omitempty" envPrefix:"LOGGING_"`
}

// IncludeList accepts a single path or a list of paths.
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*l = IncludeList{value.Value}
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := value.Decode(&items); err != nil {
			return err
		}
		*l = IncludeList(items)
		return nil
	default:
		return fmt.Errorf("include must be a string or a list of strings")
	}
}

func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "retroshell", "config.yaml"), nil
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Viewport: ViewportConfig{
			Width:      DefaultViewportWidth,
			Height:     DefaultViewportHeight,
			Breakpoint: DefaultBreakpoint,
		},
		Interaction: InteractionConfig{
			DragThreshold: DefaultDragThreshold,
			MinWidth:      DefaultMinWidth,
			MinHeight:     DefaultMinHeight,
		},
		Windows: WindowConfig{
			DefaultWidth:  DefaultWindowWidth,
			DefaultHeight: DefaultWindowHeight,
			WidthRatio:    DefaultWidthRatio,
			HeightRatio:   DefaultHeightRatio,
			CenterOffset:  DefaultCenterOffset,
		},
		Contact: ContactConfig{
			Recipient: "your-email@example.com",
		},
	}
}

// GetLoggingConfig returns the logging configuration with defaults applied.
func (c *Config) GetLoggingConfig() LoggingConfig {
	if c == nil {
		return LoggingConfig{}
	}
	cfg := c.Logging
	if cfg.File == "" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			home = os.Getenv("HOME")
		}
		if home == "" {
			home = "."
		}
		cfg.File = filepath.Join(home, ".local/share/retroshell/actions.log")
	}
	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxFiles == 0 {
		cfg.MaxFiles = 3
	}
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	return cfg
}

// Marshal renders the effective configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	out := *c
	out.Include = nil
	data, err := yaml.Marshal(&out)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

func (c *Config) Validate() error {
	if !validLevel(c.LogLevel) {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	if c.Viewport.Width < 0 || c.Viewport.Height < 0 {
		return &ValidationError{Path: "viewport", Err: fmt.Errorf("viewport width/height must be >= 0")}
	}
	if c.Viewport.Breakpoint <= 0 {
		return &ValidationError{Path: "viewport.breakpoint", Err: fmt.Errorf("breakpoint must be > 0")}
	}
	if c.Interaction.DragThreshold <= 0 {
		return &ValidationError{Path: "interaction.drag_threshold", Err: fmt.Errorf("drag_threshold must be > 0")}
	}
	if c.Interaction.MinWidth <= 0 {
		return &ValidationError{Path: "interaction.min_width", Err: fmt.Errorf("min_width must be > 0")}
	}
	if c.Interaction.MinHeight <= 0 {
		return &ValidationError{Path: "interaction.min_height", Err: fmt.Errorf("min_height must be > 0")}
	}
	if c.Windows.DefaultWidth < c.Interaction.MinWidth {
		return &ValidationError{Path: "windows.default_width", Err: fmt.Errorf("default_width must be >= min_width (%g)", c.Interaction.MinWidth)}
	}
	if c.Windows.DefaultHeight < c.Interaction.MinHeight {
		return &ValidationError{Path: "windows.default_height", Err: fmt.Errorf("default_height must be >= min_height (%g)", c.Interaction.MinHeight)}
	}
	if c.Windows.WidthRatio <= 0 || c.Windows.WidthRatio > 1 {
		return &ValidationError{Path: "windows.width_ratio", Err: fmt.Errorf("width_ratio must be in (0, 1]")}
	}
	if c.Windows.HeightRatio <= 0 || c.Windows.HeightRatio > 1 {
		return &ValidationError{Path: "windows.height_ratio", Err: fmt.Errorf("height_ratio must be in (0, 1]")}
	}
	if c.Windows.CenterOffset < 0 {
		return &ValidationError{Path: "windows.center_offset", Err: fmt.Errorf("center_offset must be >= 0")}
	}
	if strings.TrimSpace(c.Contact.Recipient) == "" {
		return &ValidationError{Path: "contact.recipient", Err: fmt.Errorf("recipient is required")}
	}
	if c.Logging.Level != "" && !validLevel(c.Logging.Level) {
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("level must be one of: debug, info, warn, error")}
	}
	if c.Logging.MaxSizeMB < 0 {
		return &ValidationError{Path: "logging.max_size_mb", Err: fmt.Errorf("max_size_mb must be >= 0")}
	}
	if c.Logging.MaxFiles < 0 {
		return &ValidationError{Path: "logging.max_files", Err: fmt.Errorf("max_files must be >= 0")}
	}
	return nil
}

func validLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}
