package ui

import (
	"riskmap/internal/render"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

const (
	detailMinWidth = 28
	detailMaxWidth = 56
)

// DetailView displays the popup for the selected feature next to where it was picked
type DetailView struct {
	popup         *Popup
	anchorX       int
	anchorY       int
	x, y          int
	width, height int
	areaX, areaY  int
	areaW, areaH  int
}

// NewDetailView creates a detail view constrained to the given area
func NewDetailView(x, y, width, height int) *DetailView {
	return &DetailView{
		areaX: x,
		areaY: y,
		areaW: width,
		areaH: height,
	}
}

// Show opens a popup anchored at a screen position, replacing any open popup
func (d *DetailView) Show(popup Popup, anchorX, anchorY int) {
	d.popup = &popup
	d.anchorX = anchorX
	d.anchorY = anchorY
	d.layout()
}

// Close hides the popup
func (d *DetailView) Close() {
	d.popup = nil
}

// Visible returns true while a popup is open
func (d *DetailView) Visible() bool {
	return d.popup != nil
}

// layout sizes the box to its content and places it beside the anchor, kept inside the area
func (d *DetailView) layout() {
	if d.popup == nil {
		return
	}

	lines := d.popup.Lines()
	width := runewidth.StringWidth(d.popup.Title) + 4
	for _, line := range lines {
		width = max(width, runewidth.StringWidth(line)+4)
	}
	width = max(detailMinWidth, min(width, detailMaxWidth, d.areaW))

	height := len(lines) + 3
	height = min(height, d.areaH)

	x := d.anchorX + 2
	if x+width > d.areaX+d.areaW {
		x = d.anchorX - width - 1
	}
	x = max(d.areaX, min(x, d.areaX+d.areaW-width))

	y := d.anchorY - height/2
	y = max(d.areaY, min(y, d.areaY+d.areaH-height))

	d.x, d.y, d.width, d.height = x, y, width, height
}

// Draw renders the detail view to the screen
func (d *DetailView) Draw(screen tcell.Screen) {
	if d.popup == nil || d.width < 4 || d.height < 3 {
		return
	}

	// Clear the entire panel area first (make it opaque)
	for row := d.y + 1; row < d.y+d.height-1; row++ {
		for col := d.x + 1; col < d.x+d.width-1; col++ {
			screen.SetContent(col, row, ' ', nil, tcell.StyleDefault)
		}
	}

	drawBorder(screen, d.x, d.y, d.width, d.height, render.StyleLabel)

	title := runewidth.Truncate(" "+d.popup.Title+" ", d.width-2, "…")
	drawText(screen, d.x+(d.width-runewidth.StringWidth(title))/2, d.y, title, d.width-2, render.StyleHeader)

	for i, line := range d.popup.Lines() {
		row := d.y + 1 + i
		if row >= d.y+d.height-2 {
			break
		}
		drawText(screen, d.x+2, row, line, d.width-4, render.StyleLabel)
	}

	instructions := "Esc to close"
	instX := d.x + (d.width-len(instructions))/2
	drawText(screen, instX, d.y+d.height-1, instructions, d.width-2, render.StyleDim)
}

// UpdateDimensions updates the area the popup must stay inside
func (d *DetailView) UpdateDimensions(x, y, width, height int) {
	d.areaX = x
	d.areaY = y
	d.areaW = width
	d.areaH = height
	d.layout()
}

// drawText writes text clipped to maxWidth columns and returns the columns used
func drawText(screen tcell.Screen, x, y int, text string, maxWidth int, style tcell.Style) int {
	if maxWidth <= 0 {
		return 0
	}

	col := 0
	for _, ch := range runewidth.Truncate(text, maxWidth, "…") {
		screen.SetContent(x+col, y, ch, nil, style)
		col += runewidth.RuneWidth(ch)
	}
	return col
}

// drawBorder draws a box outline using box-drawing characters
func drawBorder(screen tcell.Screen, x, y, width, height int, style tcell.Style) {
	screen.SetContent(x, y, '┌', nil, style)
	screen.SetContent(x+width-1, y, '┐', nil, style)
	screen.SetContent(x, y+height-1, '└', nil, style)
	screen.SetContent(x+width-1, y+height-1, '┘', nil, style)

	for i := 1; i < width-1; i++ {
		screen.SetContent(x+i, y, '─', nil, style)
		screen.SetContent(x+i, y+height-1, '─', nil, style)
	}

	for i := 1; i < height-1; i++ {
		screen.SetContent(x, y+i, '│', nil, style)
		screen.SetContent(x+width-1, y+i, '│', nil, style)
	}
}

// clearRect blanks a rectangle
func clearRect(screen tcell.Screen, x, y, width, height int) {
	for row := y; row < y+height; row++ {
		for col := x; col < x+width; col++ {
			screen.SetContent(col, row, ' ', nil, tcell.StyleDefault)
		}
	}
}
