package layout

import (
	"strconv"
	"strings"
)

// RenderCanvas draws preview rects as numbered boxes on a width x height
// character grid framed by a double border. The rect at index selected is
// drawn with a heavy outline; pass -1 for no selection.
//
// Terminal cells are roughly twice as tall as they are wide, so the square
// preview space is stretched horizontally by the cell aspect.
func RenderCanvas(rects []PreviewRect, selected, width, height int) []string {
	if width < 5 || height < 3 {
		return emptyCanvas(width, height)
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	innerW := width - 2
	innerH := height - 2
	// Fit a square (in screen terms) into the inner area.
	side := float64(min(innerW, innerH*2))
	originX := 1 + (float64(innerW)-side)/2
	originY := 1 + (float64(innerH)-side/2)/2

	for i, r := range rects {
		x1 := int(originX + r.Left*side)
		y1 := int(originY + r.Top*side/2)
		x2 := int(originX+r.Right*side) - 1
		y2 := int(originY+r.Bottom*side/2) - 1
		drawBox(canvas, x1, y1, x2, y2, i+1, i == selected)
	}

	drawBorder(canvas, width, height)

	lines := make([]string, height)
	for i, row := range canvas {
		lines[i] = string(row)
	}
	return lines
}

type boxStyle struct {
	h, v, tl, tr, bl, br rune
}

var (
	lightBox = boxStyle{'─', '│', '┌', '┐', '└', '┘'}
	heavyBox = boxStyle{'━', '┃', '┏', '┓', '┗', '┛'}
)

func drawBox(canvas [][]rune, x1, y1, x2, y2, num int, selected bool) {
	canvasH := len(canvas)
	canvasW := len(canvas[0])

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
	if x2 <= x1 || y2 <= y1 {
		return
	}

	style := lightBox
	if selected {
		style = heavyBox
	}

	for x := x1; x <= x2; x++ {
		canvas[y1][x] = style.h
		canvas[y2][x] = style.h
	}
	for y := y1; y <= y2; y++ {
		canvas[y][x1] = style.v
		canvas[y][x2] = style.v
	}
	canvas[y1][x1] = style.tl
	canvas[y1][x2] = style.tr
	canvas[y2][x1] = style.bl
	canvas[y2][x2] = style.br

	centerY := (y1 + y2) / 2
	centerX := (x1 + x2) / 2
	if centerY > y1 && centerY < y2 && centerX > x1 && centerX < x2 {
		label := strconv.Itoa(num)
		startX := centerX - len(label)/2
		for i, r := range label {
			if startX+i > x1 && startX+i < x2 {
				canvas[centerY][startX+i] = r
			}
		}
	}
}

func drawBorder(canvas [][]rune, width, height int) {
	for x := 0; x < width; x++ {
		canvas[0][x] = '═'
		canvas[height-1][x] = '═'
	}
	for y := 0; y < height; y++ {
		canvas[y][0] = '║'
		canvas[y][width-1] = '║'
	}
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
