package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Canvas is an off-screen grid of styled cells the map is drawn into before blitting
type Canvas struct {
	width  int
	height int
	cells  []Cell
}

// Cell represents a single character cell with style.
// Char 0 marks the right half of a wide rune.
type Cell struct {
	Char  rune
	Style tcell.Style
}

var blank = Cell{Char: ' ', Style: tcell.StyleDefault}

// NewCanvas creates a new blank canvas
func NewCanvas(width, height int) *Canvas {
	width, height = max(width, 0), max(height, 0)

	c := &Canvas{
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
	}
	c.Clear()

	return c
}

func (c *Canvas) inside(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}

// Set sets the cell at x, y; positions off the canvas are ignored
func (c *Canvas) Set(x, y int, char rune, style tcell.Style) {
	if c.inside(x, y) {
		c.cells[y*c.width+x] = Cell{Char: char, Style: style}
	}
}

// Get returns the cell at x, y, or a blank cell off the canvas
func (c *Canvas) Get(x, y int) Cell {
	if c.inside(x, y) {
		return c.cells[y*c.width+x]
	}
	return blank
}

// Clear blanks every cell
func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = blank
	}
}

// DrawText draws a string at the given position and returns the number of columns used
func (c *Canvas) DrawText(x, y int, text string, style tcell.Style) int {
	col := 0
	for _, char := range text {
		c.Set(x+col, y, char, style)
		w := runewidth.RuneWidth(char)
		if w == 2 {
			c.Set(x+col+1, y, 0, style)
		}
		col += w
	}
	return col
}

// DrawTextClipped draws text truncated to maxWidth columns with an ellipsis
func (c *Canvas) DrawTextClipped(x, y int, text string, maxWidth int, style tcell.Style) int {
	if maxWidth <= 0 {
		return 0
	}
	return c.DrawText(x, y, runewidth.Truncate(text, maxWidth, "…"), style)
}

// Width returns the canvas width
func (c *Canvas) Width() int {
	return c.width
}

// Height returns the canvas height
func (c *Canvas) Height() int {
	return c.height
}

// Blit copies the canvas onto the screen at the given offset
func (c *Canvas) Blit(screen tcell.Screen, offsetX, offsetY int) {
	for i, cell := range c.cells {
		if cell.Char == 0 {
			continue
		}
		screen.SetContent(offsetX+i%c.width, offsetY+i/c.width, cell.Char, nil, cell.Style)
	}
}
