package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Cell is one terminal cell. A zero Rune lets the braille layer show through.
type Cell struct {
	Rune rune
	Fg   lipgloss.Color
	Bg   lipgloss.Color
	Bold bool
}

// Canvas is a cell grid with a braille dot layer (2×4 dots per cell).
type Canvas struct {
	w, h  int
	cells [][]Cell
	dots  [][]uint8
	dotFg [][]lipgloss.Color
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{w: w, h: h}
	c.cells = make([][]Cell, h)
	c.dots = make([][]uint8, h)
	c.dotFg = make([][]lipgloss.Color, h)
	for y := 0; y < h; y++ {
		c.cells[y] = make([]Cell, w)
		c.dots[y] = make([]uint8, w)
		c.dotFg[y] = make([]lipgloss.Color, w)
	}
	return c
}

func (c *Canvas) Size() (int, int) { return c.w, c.h }

func (c *Canvas) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < c.w && y < c.h
}

func (c *Canvas) SetBg(x, y int, col lipgloss.Color) {
	if c.inside(x, y) {
		c.cells[y][x].Bg = col
	}
}

// Put writes a glyph, hiding any braille dots of that cell.
func (c *Canvas) Put(x, y int, r rune, fg lipgloss.Color, bold bool) {
	if !c.inside(x, y) {
		return
	}
	cell := &c.cells[y][x]
	cell.Rune, cell.Fg, cell.Bold = r, fg, bold
}

// Text writes s starting at (x, y), one line per row, clipped to the canvas.
func (c *Canvas) Text(x, y int, s string, fg, bg lipgloss.Color) {
	for i, line := range strings.Split(s, "\n") {
		for j, r := range []rune(line) {
			c.Put(x+j, y+i, r, fg, false)
			c.SetBg(x+j, y+i, bg)
		}
	}
}

var brailleBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// Dot sets a braille dot at dot coordinates (2×4 per cell).
func (c *Canvas) Dot(mx, my int, col lipgloss.Color) {
	if mx < 0 || my < 0 {
		return
	}
	cx, cy := mx/2, my/4
	if !c.inside(cx, cy) {
		return
	}
	c.dots[cy][cx] |= brailleBits[mx%2][my%4]
	c.dotFg[cy][cx] = col
}

// Line draws a dot line with Bresenham. thick doubles it horizontally.
// Callers clip first; see clipSegment.
func (c *Canvas) Line(x0, y0, x1, y1 int, col lipgloss.Color, thick bool) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		c.Dot(x0, y0, col)
		if thick {
			c.Dot(x0+1, y0, col)
		}
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// At returns the composited cell: glyph first, then braille dots, else blank.
func (c *Canvas) At(x, y int) Cell {
	if !c.inside(x, y) {
		return Cell{}
	}
	cell := c.cells[y][x]
	if cell.Rune != 0 {
		return cell
	}
	if mask := c.dots[y][x]; mask != 0 {
		cell.Rune = rune(0x2800 + int(mask))
		cell.Fg = c.dotFg[y][x]
		return cell
	}
	cell.Rune = ' '
	return cell
}

// Plain is the canvas text without colors.
func (c *Canvas) Plain() string {
	lines := make([]string, c.h)
	for y := 0; y < c.h; y++ {
		row := make([]rune, c.w)
		for x := 0; x < c.w; x++ {
			row[x] = c.At(x, y).Rune
		}
		lines[y] = string(row)
	}
	return strings.Join(lines, "\n")
}

// Render styles the canvas, one lipgloss render per run of equal style.
func (c *Canvas) Render() string {
	lines := make([]string, c.h)
	for y := 0; y < c.h; y++ {
		lines[y] = c.RenderRow(y, 0, c.w)
	}
	return strings.Join(lines, "\n")
}

// RenderRow styles columns [x0, x1) of row y.
func (c *Canvas) RenderRow(y, x0, x1 int) string {
	var b strings.Builder
	var run []rune
	var cur Cell
	flush := func() {
		if len(run) == 0 {
			return
		}
		b.WriteString(cellStyle(cur).Render(string(run)))
		run = run[:0]
	}
	for x := max(0, x0); x < min(x1, c.w); x++ {
		cell := c.At(x, y)
		if len(run) > 0 && (cell.Fg != cur.Fg || cell.Bg != cur.Bg || cell.Bold != cur.Bold) {
			flush()
		}
		cur = cell
		run = append(run, cell.Rune)
	}
	flush()
	return b.String()
}

func cellStyle(c Cell) lipgloss.Style {
	s := lipgloss.NewStyle()
	if c.Fg != "" {
		s = s.Foreground(c.Fg)
	}
	if c.Bg != "" {
		s = s.Background(c.Bg)
	}
	if c.Bold {
		s = s.Bold(true)
	}
	return s
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
