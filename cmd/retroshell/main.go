package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/retroshell/internal/actionlog"
	"github.com/1broseidon/retroshell/internal/catalog"
	"github.com/1broseidon/retroshell/internal/config"
	"github.com/1broseidon/retroshell/internal/desktop"
	"github.com/1broseidon/retroshell/internal/geom"
	"github.com/1broseidon/retroshell/internal/ipc"
	"github.com/1broseidon/retroshell/internal/runtimepath"
	"github.com/1broseidon/retroshell/internal/tui"
	"github.com/1broseidon/retroshell/internal/wm"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "windows":
		os.Exit(runWindows(os.Args[2:]))
	case "icons":
		os.Exit(runIcons(os.Args[2:]))
	case "catalog":
		os.Exit(runCatalog(os.Args[2:]))
	case "open":
		os.Exit(runOpen(os.Args[2:]))
	case "article":
		os.Exit(runArticle(os.Args[2:]))
	case "close":
		os.Exit(runByID("close", os.Args[2:], (*ipc.Client).Close))
	case "focus":
		os.Exit(runByID("focus", os.Args[2:], (*ipc.Client).Focus))
	case "move":
		os.Exit(runMove(os.Args[2:]))
	case "resize":
		os.Exit(runResize(os.Args[2:]))
	case "maximize":
		os.Exit(runMaximize(os.Args[2:]))
	case "viewport":
		os.Exit(runViewport(os.Args[2:]))
	case "gesture":
		os.Exit(runGesture(os.Args[2:]))
	case "menu":
		os.Exit(runMenu(os.Args[2:]))
	case "reload":
		os.Exit(runReload(os.Args[2:]))
	case "contact":
		os.Exit(runContact(os.Args[2:], os.Stdout))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: retroshell <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the retroshell daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "  reload              Reload catalog files")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  windows             List open windows")
	fmt.Fprintln(w, "  icons               List desktop icons")
	fmt.Fprintln(w, "  catalog             List launchable items and article topics")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  open <id>           Open or raise a window")
	fmt.Fprintln(w, "  article <t> <a>     Open an article window")
	fmt.Fprintln(w, "  close <id>          Close a window")
	fmt.Fprintln(w, "  focus <id>          Bring a window to front")
	fmt.Fprintln(w, "  move <id> <x> <y>   Move a window")
	fmt.Fprintln(w, "  resize <id> <w> <h> Resize a window")
	fmt.Fprintln(w, "  maximize <id>       Maximize, restore or toggle a window")
	fmt.Fprintln(w, "  viewport <w> <h>    Report a viewport size")
	fmt.Fprintln(w, "  gesture x,y ...     Replay a pointer gesture")
	fmt.Fprintln(w, "  menu show|hide|select  Drive the context menu")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  contact             Compose a mailto link")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  tui                 Open interactive TUI")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'retroshell <command> --help' for command-specific options.")
}

// loadConfigOrDefault is used by client commands: a broken config should not
// stop them from reaching a daemon on the default socket.
func loadConfigOrDefault() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}

func newClient() *ipc.Client {
	cfg := loadConfigOrDefault()
	socketPath, err := runtimepath.ResolveSocketPath(cfg.SocketPath)
	if err != nil {
		return ipc.NewClient()
	}
	return ipc.NewClientWithSocket(socketPath)
}

func newSlogLogger(level string, w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slogLevel(level),
	}))
}

func slogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func catalogSources(cfg *config.Config) (catalog.Sources, error) {
	portfolio, err := config.ExpandHome(cfg.Catalog.PortfolioFile)
	if err != nil {
		return catalog.Sources{}, err
	}
	articles, err := config.ExpandHome(cfg.Catalog.ArticlesFile)
	if err != nil {
		return catalog.Sources{}, err
	}
	return catalog.Sources{PortfolioFile: portfolio, ArticlesFile: articles}, nil
}

func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	src, err := catalogSources(cfg)
	if err != nil {
		return nil, err
	}
	return catalog.Load(src)
}

func desktopOptions(cfg *config.Config, rec desktop.Recorder, logger *slog.Logger) desktop.Options {
	return desktop.Options{
		Viewport:      geom.Size{Width: cfg.Viewport.Width, Height: cfg.Viewport.Height},
		Breakpoint:    cfg.Viewport.Breakpoint,
		DragThreshold: cfg.Interaction.DragThreshold,
		Windows: wm.Options{
			DefaultSize:  geom.Size{Width: cfg.Windows.DefaultWidth, Height: cfg.Windows.DefaultHeight},
			MinSize:      geom.Size{Width: cfg.Interaction.MinWidth, Height: cfg.Interaction.MinHeight},
			WidthRatio:   cfg.Windows.WidthRatio,
			HeightRatio:  cfg.Windows.HeightRatio,
			CenterOffset: cfg.Windows.CenterOffset,
		},
		Recorder: rec,
		Logger:   logger,
	}
}

func newActionLogger(cfg *config.Config) (*actionlog.Logger, error) {
	logCfg := cfg.GetLoggingConfig()
	return actionlog.New(actionlog.Config{
		Enabled:   logCfg.Enabled,
		Level:     actionlog.ParseLevel(logCfg.Level),
		FilePath:  logCfg.File,
		MaxSizeMB: logCfg.MaxSizeMB,
		MaxFiles:  logCfg.MaxFiles,
	})
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseNoArgs(name, usage, summary string, args []string) (jsonOut bool, code int, ok bool) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "Print JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: "+usage)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, summary)
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return false, 0, false
		}
		return false, 2, false
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "%s takes no arguments\n", name)
		fs.Usage()
		return false, 2, false
	}
	return *asJSON, 0, true
}

func runStatus(args []string) int {
	asJSON, code, ok := parseNoArgs("status", "retroshell status [--json]", "Show daemon status via IPC.", args)
	if !ok {
		return code
	}

	status, err := newClient().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if asJSON {
		if err := printJSON(os.Stdout, status); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}
	fmt.Printf("daemon_running: %v\n", status.DaemonRunning)
	if pid, err := readPIDFile(); err == nil && pid > 0 {
		fmt.Printf("pid:            %d\n", pid)
	}
	fmt.Printf("mode:           %s\n", status.Mode)
	fmt.Printf("viewport:       %.0fx%.0f\n", status.Viewport.Width, status.Viewport.Height)
	fmt.Printf("window_count:   %d\n", status.WindowCount)
	fmt.Printf("focused:        %s\n", status.Focused)
	fmt.Printf("catalog_size:   %d\n", status.CatalogSize)
	fmt.Printf("uptime_seconds: %d\n", status.UptimeSeconds)
	return 0
}

func runWindows(args []string) int {
	asJSON, code, ok := parseNoArgs("windows", "retroshell windows [--json]", "List open windows back to front.", args)
	if !ok {
		return code
	}

	snap, err := newClient().Snapshot()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if asJSON {
		if err := printJSON(os.Stdout, snap.Windows); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}
	writeWindows(os.Stdout, snap)
	return 0
}

func writeWindows(w io.Writer, snap *desktop.Snapshot) {
	if len(snap.Windows) == 0 {
		fmt.Fprintln(w, "no open windows")
		return
	}
	for _, win := range snap.Windows {
		marker := " "
		if win.ID == snap.Focused {
			marker = "*"
		}
		state := ""
		if win.Maximized {
			state = " maximized"
		}
		fmt.Fprintf(w, "%s %-20s z=%-3d %5.0f,%-5.0f %4.0fx%-4.0f %s%s\n",
			marker, win.ID, win.Z, win.Position.X, win.Position.Y, win.Size.Width, win.Size.Height, win.Title, state)
	}
}

func runIcons(args []string) int {
	asJSON, code, ok := parseNoArgs("icons", "retroshell icons [--json]", "List desktop icons and their positions.", args)
	if !ok {
		return code
	}

	snap, err := newClient().Snapshot()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if asJSON {
		if err := printJSON(os.Stdout, snap.Icons); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}
	if snap.Icons.Reflow {
		fmt.Println("# mobile reflow: icons flow as a grid")
	}
	for _, icon := range snap.Icons.Icons {
		moved := ""
		if icon.Moved {
			moved = " (moved)"
		}
		fmt.Printf("%-20s %5.0f,%-5.0f %s%s\n", icon.ID, icon.Position.X, icon.Position.Y, icon.Title, moved)
	}
	return 0
}

func runCatalog(args []string) int {
	asJSON, code, ok := parseNoArgs("catalog", "retroshell catalog [--json]", "List launchable items and article topics.", args)
	if !ok {
		return code
	}

	data, err := newClient().ListCatalog()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if asJSON {
		if err := printJSON(os.Stdout, data); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}
	for _, d := range data.Items {
		fmt.Printf("%-20s %-16s %s\n", d.ID, d.Kind, d.Title)
	}
	for _, t := range data.Topics {
		fmt.Printf("\n[%s] %s\n", t.ID, t.Title)
		for _, a := range t.Articles {
			fmt.Printf("  %-18s %s\n", a.ID, a.Title)
		}
	}
	return 0
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  retroshell config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  retroshell config print [--path PATH] [--effective|--defaults]")
		fmt.Fprintln(os.Stderr, "  retroshell config explain [--path PATH] <yaml.path>")
		fmt.Fprintln(os.Stderr, "  retroshell config env")
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/retroshell/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		res, err := loadConfigResult(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if _, err := loadCatalog(res.Config); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/retroshell/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		printEffective := fs.Bool("effective", false, "Print effective config (default)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		cfg := config.DefaultConfig()
		if !*printDefaults {
			_ = printEffective // default
			res, err := loadConfigResult(*path)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			for _, f := range res.Files {
				fmt.Printf("# loaded: %s\n", f)
			}
			cfg = res.Config
		}
		data, err := cfg.Marshal()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	case "explain":
		fs := flag.NewFlagSet("explain", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/retroshell/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() < 1 {
			fmt.Fprintln(os.Stderr, "explain requires <yaml.path>")
			return 2
		}
		queryPath := fs.Arg(0)

		res, err := loadConfigResult(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		value, src, err := config.Explain(res, queryPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		out, err := yaml.Marshal(value)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		fmt.Printf("path: %s\n", queryPath)
		fmt.Printf("source: %s\n", formatSource(src))
		fmt.Printf("value:\n%s", string(out))
		return 0

	case "env":
		keys := config.EnvKeys()
		writeEnvKeys(os.Stdout, keys)
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}

func loadConfigResult(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

func writeEnvKeys(w io.Writer, keys map[string]string) {
	names := make([]string, 0, len(keys))
	for yamlPath := range keys {
		names = append(names, yamlPath)
	}
	sort.Strings(names)
	for _, yamlPath := range names {
		fmt.Fprintf(w, "%-36s %s\n", keys[yamlPath], yamlPath)
	}
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		if src.File == "" {
			return "file"
		}
		if src.Line > 0 {
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		}
		return "file:" + src.File
	case config.SourceEnv:
		if src.Name != "" {
			return "env:" + src.Name
		}
		return "env"
	case config.SourceDefault:
		if src.Name != "" {
			return "default:" + src.Name
		}
		return "default"
	default:
		return string(src.Kind)
	}
}

func runTUI(args []string) int {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/retroshell/config.yaml)")

	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stderr, "Usage: retroshell tui [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Interactive TUI for the desktop: open windows, launch items, contact form.")
		fmt.Fprintln(os.Stderr, "Runs a local desktop session when the daemon is not running.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  tab, 1-3   Switch tabs")
		fmt.Fprintln(os.Stderr, "  j/k, ↑/↓   Navigate lists")
		fmt.Fprintln(os.Stderr, "  Enter      Focus window / open item / write message")
		fmt.Fprintln(os.Stderr, "  x, m       Close / maximize window")
		fmt.Fprintln(os.Stderr, "  q, Ctrl+C  Quit")
		return 0
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}

	res, err := loadConfigResult(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cfg := res.Config

	var backend tui.Backend
	connected := false
	socketPath, err := runtimepath.ResolveSocketPath(cfg.SocketPath)
	if err == nil {
		client := ipc.NewClientWithSocket(socketPath)
		if client.Ping() == nil {
			backend = client
			connected = true
		}
	}
	if backend == nil {
		cat, err := loadCatalog(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		opts := desktopOptions(cfg, nil, newSlogLogger("error", io.Discard))
		opts.Viewport = tui.TerminalViewport()
		desk := desktop.New(cat, opts)
		defer desk.Close()
		backend = tui.NewLocalBackend(desk)
	}

	t := tui.New(backend, tui.Options{Recipient: cfg.Contact.Recipient, Connected: connected})
	if err := t.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
