package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = rune(0x2800)

// Class selects the style of a cell. When several layers touch the same
// cell, the highest class wins.
type Class uint8

const (
	ClassNone Class = iota
	ClassBackground
	ClassOutline
	ClassAmbient
	ClassInteractive
	ClassHighlight
)

type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Classes       [][]Class
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:   w,
		Height:  h,
		Grid:    make([][]rune, h),
		Classes: make([][]Class, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Classes[i] = make([]Class, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
	return c
}

// SubWidth and SubHeight are the canvas size in sub-pixels.
func (c *Canvas) SubWidth() int  { return c.Width * 2 }
func (c *Canvas) SubHeight() int { return c.Height * 4 }

// Set sets a pixel at (x, y) where x,y are in "sub-pixel" coordinates.
func (c *Canvas) Set(x, y int) { c.Plot(x, y, ClassAmbient) }

// Plot sets a sub-pixel and raises its cell to class cl.
func (c *Canvas) Plot(x, y int, cl Class) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	if cl > c.Classes[row][col] {
		c.Classes[row][col] = cl
	}
}

// Unset clears a pixel
func (c *Canvas) Unset(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	mask := ^rune(pixelMap[y%4][x%2])
	c.Grid[row][col] &= mask
	if c.Grid[row][col] < blank {
		c.Grid[row][col] = blank
	}
	if c.Grid[row][col] == blank {
		c.Classes[row][col] = ClassNone
	}
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Classes[i][j] = ClassNone
		}
	}
}

// Disc fills the sub-pixels within r of (cx, cy). Radii below one sub-pixel
// still light the center.
func (c *Canvas) Disc(cx, cy int, r float64, cl Class) {
	c.Plot(cx, cy, cl)
	ri := int(r)
	for dy := -ri; dy <= ri; dy++ {
		for dx := -ri; dx <= ri; dx++ {
			if float64(dx*dx+dy*dy) <= r*r {
				c.Plot(cx+dx, cy+dy, cl)
			}
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, cl Class) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Plot(x0, y0, cl)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// RenderRow styles cells [from, to) of row, grouping runs of equal class.
func (c *Canvas) RenderRow(row, from, to int, styles map[Class]lipgloss.Style) string {
	if row < 0 || row >= c.Height {
		return ""
	}
	from = max(from, 0)
	to = min(to, c.Width)

	var b strings.Builder
	for start := from; start < to; {
		cl := c.Classes[row][start]
		end := start + 1
		for end < to && c.Classes[row][end] == cl {
			end++
		}
		run := string(c.Grid[row][start:end])
		if st, ok := styles[cl]; ok && cl != ClassNone {
			run = st.Render(run)
		}
		b.WriteString(run)
		start = end
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
