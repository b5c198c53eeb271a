package tui

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/1broseidon/retroshell/internal/desktop"
	"github.com/1broseidon/retroshell/internal/geom"
)

type canvasFrame struct {
	h, v           rune
	tl, tr, bl, br rune
}

var (
	plainFrame   = canvasFrame{h: '─', v: '│', tl: '┌', tr: '┐', bl: '└', br: '┘'}
	focusedFrame = canvasFrame{h: '━', v: '┃', tl: '┏', tr: '┓', bl: '┗', br: '┛'}
)

func summarizeDesktop(snap *desktop.Snapshot) string {
	if snap == nil {
		return ""
	}
	size := fmt.Sprintf("%s • %.0f×%.0f", snap.Mode, snap.Viewport.Width, snap.Viewport.Height)
	switch len(snap.Windows) {
	case 0:
		return size + " • no windows"
	case 1:
		return fmt.Sprintf("%s • 1 window • focused: %s", size, snap.Focused)
	default:
		return fmt.Sprintf("%s • %d windows • focused: %s", size, len(snap.Windows), snap.Focused)
	}
}

// renderDesktopPreview draws icons and windows, back to front, scaled onto
// a character canvas.
func renderDesktopPreview(snap *desktop.Snapshot, width, height int) []string {
	if snap == nil || width < 5 || height < 3 {
		return emptyCanvas(width, height)
	}
	vw, vh := snap.Viewport.Width, snap.Viewport.Height
	if vw <= 0 || vh <= 0 {
		return emptyCanvas(width, height)
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	for _, icon := range snap.Icons.Icons {
		x := int(icon.Position.X*float64(width)/vw) + 1
		y := int(icon.Position.Y*float64(height)/vh) + 1
		if x < width-1 && y < height-1 {
			canvas[y][x] = iconRune(icon.Title)
		}
	}

	for _, w := range snap.Windows {
		bounds := w.Bounds()
		if w.Maximized || snap.Mobile {
			bounds = geom.Rect{Width: vw, Height: vh}
		}
		frame := plainFrame
		if w.ID == snap.Focused {
			frame = focusedFrame
		}
		drawWindow(canvas, bounds, w.Title, frame, vw, vh, width, height)
	}

	drawBorder(canvas, width, height)

	lines := make([]string, height)
	for i, row := range canvas {
		lines[i] = string(row)
	}
	return lines
}

func iconRune(title string) rune {
	for _, r := range title {
		return unicode.ToUpper(r)
	}
	return '?'
}

func drawWindow(canvas [][]rune, rect geom.Rect, title string, frame canvasFrame, vw, vh float64, canvasW, canvasH int) {
	x1 := int(rect.X * float64(canvasW) / vw)
	y1 := int(rect.Y * float64(canvasH) / vh)
	x2 := int((rect.X + rect.Width) * float64(canvasW) / vw)
	y2 := int((rect.Y + rect.Height) * float64(canvasH) / vh)

	if x1 < 1 {
		x1 = 1
	}
	if y1 < 1 {
		y1 = 1
	}
	if x2 >= canvasW-1 {
		x2 = canvasW - 2
	}
	if y2 >= canvasH-1 {
		y2 = canvasH - 2
	}

	// Need at least 2x2 for a window
	if x2 <= x1 || y2 <= y1 {
		return
	}

	// Clear the interior so windows further back are hidden.
	for y := y1 + 1; y < y2; y++ {
		for x := x1 + 1; x < x2; x++ {
			canvas[y][x] = ' '
		}
	}

	for x := x1; x <= x2; x++ {
		canvas[y1][x] = frame.h
		canvas[y2][x] = frame.h
	}
	for y := y1; y <= y2; y++ {
		canvas[y][x1] = frame.v
		canvas[y][x2] = frame.v
	}
	canvas[y1][x1] = frame.tl
	canvas[y1][x2] = frame.tr
	canvas[y2][x1] = frame.bl
	canvas[y2][x2] = frame.br

	// Title sits in the top edge, truncated to fit.
	label := []rune(" " + title + " ")
	room := x2 - x1 - 2
	if room < 1 {
		return
	}
	if len(label) > room {
		label = label[:room]
	}
	for i, r := range label {
		canvas[y1][x1+1+i] = r
	}
}

func drawBorder(canvas [][]rune, width, height int) {
	// Top and bottom borders
	for x := 0; x < width; x++ {
		canvas[0][x] = '═'
		canvas[height-1][x] = '═'
	}

	// Left and right borders
	for y := 0; y < height; y++ {
		canvas[y][0] = '║'
		canvas[y][width-1] = '║'
	}

	// Corners
	canvas[0][0] = '╔'
	canvas[0][width-1] = '╗'
	canvas[height-1][0] = '╚'
	canvas[height-1][width-1] = '╝'
}

func emptyCanvas(width, height int) []string {
	if height < 0 {
		height = 0
	}
	if width < 0 {
		width = 0
	}
	lines := make([]string, height)
	empty := strings.Repeat(" ", width)
	for i := range lines {
		lines[i] = empty
	}
	return lines
}
