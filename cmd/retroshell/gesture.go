package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/1broseidon/retroshell/internal/desktop"
	"github.com/1broseidon/retroshell/internal/geom"
	"github.com/1broseidon/retroshell/internal/ipc"
	"github.com/1broseidon/retroshell/internal/resize"
)

// parsePath parses "x,y" pairs into points.
func parsePath(args []string) ([]geom.Point, error) {
	points := make([]geom.Point, 0, len(args))
	for _, arg := range args {
		x, y, ok := strings.Cut(arg, ",")
		if !ok {
			return nil, fmt.Errorf("invalid point %q (want x,y)", arg)
		}
		nums, err := parseFloats(x, y)
		if err != nil {
			return nil, err
		}
		points = append(points, geom.Point{X: nums[0], Y: nums[1]})
	}
	return points, nil
}

// gestureEvents turns a pointer path into a down, move..., up sequence.
func gestureEvents(target desktop.Target, path []geom.Point) []ipc.PointerPayload {
	events := make([]ipc.PointerPayload, 0, len(path)+1)
	for i, p := range path {
		phase := ipc.PointerMove
		if i == 0 {
			phase = ipc.PointerDown
		}
		ev := ipc.PointerPayload{Phase: phase, X: p.X, Y: p.Y}
		if i == 0 {
			ev.Target = target
		}
		events = append(events, ev)
	}
	last := path[len(path)-1]
	return append(events, ipc.PointerPayload{Phase: ipc.PointerUp, X: last.X, Y: last.Y})
}

func runGesture(args []string) int {
	fs := newFlagSet("gesture",
		"retroshell gesture --target KIND [--id ID] [--handle H] x,y [x,y ...]",
		"Replay a pointer gesture: press at the first point, move through the rest, release at the last.")
	kind := fs.String("target", "", "Target kind: icon, title-bar, resize-handle, window-body, background")
	id := fs.String("id", "", "Icon or window id")
	handle := fs.String("handle", "", "Resize handle for resize-handle targets")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	tk, err := desktop.ParseTargetKind(*kind)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	target := desktop.Target{Kind: tk, ID: *id}
	if tk == desktop.TargetResizeHandle {
		h, err := resize.ParseHandle(*handle)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		target.Handle = h
	}
	path, err := parsePath(fs.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	client := newClient()
	for _, ev := range gestureEvents(target, path) {
		data, err := client.Pointer(ev)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if ev.Phase == ipc.PointerDown && !data.Started {
			fmt.Println("no gesture started")
			return 0
		}
		if ev.Phase == ipc.PointerUp && data.Result != nil {
			fmt.Printf("gesture: %s", data.Result.Result)
			if data.Result.Opened != "" {
				fmt.Printf(" (opened %s)", data.Result.Opened)
			}
			fmt.Println()
		}
	}
	return 0
}

func printMenuUsage() {
	fmt.Fprintln(os.Stderr, "Usage: retroshell menu show <x> <y> | hide | select <label>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Drive the desktop context menu.")
}

func runMenu(args []string) int {
	if len(args) == 0 {
		printMenuUsage()
		return 2
	}

	client := newClient()
	switch args[0] {
	case "show":
		if len(args) != 3 {
			printMenuUsage()
			return 2
		}
		nums, err := parseFloats(args[1], args[2])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		menu, err := client.ShowContextMenu(nums[0], nums[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if !menu.Visible {
			fmt.Println("context menu unavailable")
			return 0
		}
		for _, item := range menu.Items {
			suffix := ""
			if item.Disabled {
				suffix = " (disabled)"
			}
			fmt.Printf("  %s%s\n", item.Label, suffix)
		}
		return 0

	case "hide":
		if err := client.HideContextMenu(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	case "select":
		if len(args) < 2 {
			printMenuUsage()
			return 2
		}
		label := strings.Join(args[1:], " ")
		if err := client.SelectMenuItem(label); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("selected: %s\n", label)
		return 0

	case "help", "-h", "--help":
		printMenuUsage()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown menu command: %s\n\n", args[0])
		printMenuUsage()
		return 2
	}
}
