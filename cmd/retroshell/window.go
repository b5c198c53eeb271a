package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/1broseidon/retroshell/internal/ipc"
	"github.com/1broseidon/retroshell/internal/tui"
)

// parsePositional parses flags on fs and requires exactly n positional args.
func parsePositional(fs *flag.FlagSet, args []string, n int) ([]string, int, bool) {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, 0, false
		}
		return nil, 2, false
	}
	if fs.NArg() != n {
		fmt.Fprintf(os.Stderr, "%s requires %d argument(s), got %d\n", fs.Name(), n, fs.NArg())
		fs.Usage()
		return nil, 2, false
	}
	return fs.Args(), 0, true
}

func newFlagSet(name, usage, summary string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: "+usage)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, summary)
	}
	return fs
}

func parseFloats(values ...string) ([]float64, error) {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", v)
		}
		out = append(out, f)
	}
	return out, nil
}

func reportChanged(verb, id string, changed bool) int {
	if changed {
		fmt.Printf("%s: %s\n", verb, id)
	} else {
		fmt.Printf("no change: %s\n", id)
	}
	return 0
}

func runOpen(args []string) int {
	fs := newFlagSet("open", "retroshell open <id>", "Open the catalog item <id>, or raise it if already open.")
	pos, code, ok := parsePositional(fs, args, 1)
	if !ok {
		return code
	}

	w, err := newClient().Open(pos[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("opened: %s (z=%d, %.0fx%.0f at %.0f,%.0f)\n", w.ID, w.Z, w.Size.Width, w.Size.Height, w.Position.X, w.Position.Y)
	return 0
}

func runArticle(args []string) int {
	fs := newFlagSet("article", "retroshell article <topic-id> <article-id>", "Open an article in its own window.")
	pos, code, ok := parsePositional(fs, args, 2)
	if !ok {
		return code
	}

	w, err := newClient().OpenArticle(pos[0], pos[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("opened: %s (%s)\n", w.ID, w.Title)
	return 0
}

func runByID(name string, args []string, fn func(*ipc.Client, string) (bool, error)) int {
	fs := newFlagSet(name, "retroshell "+name+" <id>", "Run "+name+" on an open window.")
	pos, code, ok := parsePositional(fs, args, 1)
	if !ok {
		return code
	}

	changed, err := fn(newClient(), pos[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return reportChanged(name, pos[0], changed)
}

func runMove(args []string) int {
	fs := newFlagSet("move", "retroshell move <id> <x> <y>", "Move a window's top-left corner to (x, y).")
	pos, code, ok := parsePositional(fs, args, 3)
	if !ok {
		return code
	}
	nums, err := parseFloats(pos[1], pos[2])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	changed, err := newClient().Move(pos[0], nums[0], nums[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return reportChanged("moved", pos[0], changed)
}

func runResize(args []string) int {
	fs := newFlagSet("resize", "retroshell resize <id> <width> <height>", "Resize a window. Sizes below the minimum are clamped.")
	pos, code, ok := parsePositional(fs, args, 3)
	if !ok {
		return code
	}
	nums, err := parseFloats(pos[1], pos[2])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	changed, err := newClient().Resize(pos[0], nums[0], nums[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return reportChanged("resized", pos[0], changed)
}

func runMaximize(args []string) int {
	fs := newFlagSet("maximize", "retroshell maximize [--on|--off] <id>", "Maximize or restore a window. Without flags the state is toggled.")
	on := fs.Bool("on", false, "Maximize")
	off := fs.Bool("off", false, "Restore")
	pos, code, ok := parsePositional(fs, args, 1)
	if !ok {
		return code
	}
	if *on && *off {
		fmt.Fprintln(os.Stderr, "--on and --off are mutually exclusive")
		return 2
	}

	var target *bool
	switch {
	case *on:
		v := true
		target = &v
	case *off:
		v := false
		target = &v
	}

	changed, err := newClient().Maximize(pos[0], target)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return reportChanged("maximize", pos[0], changed)
}

func runViewport(args []string) int {
	fs := newFlagSet("viewport", "retroshell viewport [--fit] [<width> <height>]", "Report a viewport size. --fit derives it from this terminal.")
	fit := fs.Bool("fit", false, "Use the current terminal size")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	var width, height float64
	switch {
	case *fit && fs.NArg() == 0:
		size := tui.TerminalViewport()
		width, height = size.Width, size.Height
	case !*fit && fs.NArg() == 2:
		nums, err := parseFloats(fs.Arg(0), fs.Arg(1))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		width, height = nums[0], nums[1]
	default:
		fs.Usage()
		return 2
	}

	data, err := newClient().SetViewport(width, height)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("viewport: %.0fx%.0f mode=%s", width, height, data.Mode)
	if data.ModeChanged {
		fmt.Print(" (changed)")
	}
	fmt.Println()
	return 0
}

func runReload(args []string) int {
	_, code, ok := parseNoArgs("reload", "retroshell reload", "Reload catalog files in the running daemon.", args)
	if !ok {
		return code
	}

	items, err := newClient().Reload()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("catalog reloaded: %d items\n", items)
	return 0
}
