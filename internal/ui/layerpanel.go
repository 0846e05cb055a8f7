package ui

import (
	"fmt"

	"riskmap/internal/layer"
	"riskmap/internal/lifecycle"
	"riskmap/internal/render"

	"github.com/gdamore/tcell/v2"
)

// Tab is the active page of the layer panel
type Tab int

const (
	TabLayers Tab = iota
	TabLegend
)

const (
	rowsPerLayer  = 2
	summaryHeight = 3
)

// LayerState is what the panel needs to know about each layer's data
type LayerState interface {
	Query(id string) lifecycle.Query
	ToggleAllowed(id string) bool
}

// LayerPanel shows the layer toggles and the legend
type LayerPanel struct {
	configs       []layer.Config
	tab           Tab
	selectedIndex int
	scrollOffset  int
	maxVisible    int
	x, y          int
	width, height int
}

// NewLayerPanel creates a new layer panel
func NewLayerPanel(x, y, width, height int) *LayerPanel {
	p := &LayerPanel{}
	p.UpdateDimensions(x, y, width, height)
	return p
}

// SetConfigs sets the configured layers
func (p *LayerPanel) SetConfigs(configs []layer.Config) {
	p.configs = configs
	if p.selectedIndex >= len(configs) {
		p.selectedIndex = max(len(configs)-1, 0)
	}
	p.adjustScroll()
}

// Tab returns the active tab
func (p *LayerPanel) Tab() Tab {
	return p.tab
}

// SwitchTab flips between the layers and legend tabs
func (p *LayerPanel) SwitchTab() {
	if p.tab == TabLayers {
		p.tab = TabLegend
	} else {
		p.tab = TabLayers
	}
}

// SelectNext moves selection down
func (p *LayerPanel) SelectNext() {
	if p.selectedIndex < len(p.configs)-1 {
		p.selectedIndex++
		p.adjustScroll()
	}
}

// SelectPrev moves selection up
func (p *LayerPanel) SelectPrev() {
	if p.selectedIndex > 0 {
		p.selectedIndex--
		p.adjustScroll()
	}
}

// GetSelected returns the highlighted layer
func (p *LayerPanel) GetSelected() (layer.Config, bool) {
	if p.selectedIndex >= 0 && p.selectedIndex < len(p.configs) {
		return p.configs[p.selectedIndex], true
	}
	return layer.Config{}, false
}

// adjustScroll adjusts scroll offset to keep selected item visible
func (p *LayerPanel) adjustScroll() {
	if p.selectedIndex >= p.scrollOffset+p.maxVisible {
		p.scrollOffset = p.selectedIndex - p.maxVisible + 1
	}

	if p.selectedIndex < p.scrollOffset {
		p.scrollOffset = p.selectedIndex
	}

	if p.scrollOffset < 0 {
		p.scrollOffset = 0
	}
}

// Contains returns true if the screen position is inside the panel
func (p *LayerPanel) Contains(x, y int) bool {
	return x >= p.x && x < p.x+p.width && y >= p.y && y < p.y+p.height
}

// Click handles a mouse click: tab headers switch tabs, layer rows select the layer.
// Returns the clicked layer when a row was hit.
func (p *LayerPanel) Click(x, y int) (layer.Config, bool) {
	if !p.Contains(x, y) {
		return layer.Config{}, false
	}

	if y == p.y+1 {
		if x < p.x+p.width/2 {
			p.tab = TabLayers
		} else {
			p.tab = TabLegend
		}
		return layer.Config{}, false
	}

	if p.tab != TabLayers {
		return layer.Config{}, false
	}

	row := y - p.listTop()
	if row < 0 {
		return layer.Config{}, false
	}

	index := p.scrollOffset + row/rowsPerLayer
	if row/rowsPerLayer >= p.maxVisible || index >= len(p.configs) {
		return layer.Config{}, false
	}

	p.selectedIndex = index
	return p.configs[index], true
}

func (p *LayerPanel) listTop() int {
	return p.y + 3
}

// Draw renders the panel to the screen
func (p *LayerPanel) Draw(screen tcell.Screen, visible *layer.Visibility, state LayerState) {
	if p.width < 4 || p.height < 4 {
		return
	}

	clearRect(screen, p.x+1, p.y+1, p.width-2, p.height-2)
	drawBorder(screen, p.x, p.y, p.width, p.height, render.StyleLabel)

	p.drawTabs(screen)

	switch p.tab {
	case TabLayers:
		p.drawLayers(screen, visible, state)
	case TabLegend:
		p.drawLegend(screen, visible)
	}
}

func (p *LayerPanel) drawTabs(screen tcell.Screen) {
	half := (p.width - 2) / 2
	tabs := []struct {
		label string
		tab   Tab
		x     int
	}{
		{"Layers", TabLayers, p.x + 1},
		{"Legend", TabLegend, p.x + 1 + half},
	}

	for _, t := range tabs {
		style := render.StyleDim
		if p.tab == t.tab {
			style = render.StyleTabActive
		}
		drawText(screen, t.x+(half-len(t.label))/2, p.y+1, t.label, half, style)
	}

	for i := 1; i < p.width-1; i++ {
		screen.SetContent(p.x+i, p.y+2, '─', nil, render.StyleDim)
	}
}

func (p *LayerPanel) drawLayers(screen tcell.Screen, visible *layer.Visibility, state LayerState) {
	inner := p.width - 4
	top := p.listTop()

	if len(p.configs) == 0 {
		drawText(screen, p.x+2, top, "No layers configured", inner, render.StyleDim)
	}

	end := min(p.scrollOffset+p.maxVisible, len(p.configs))
	for i := p.scrollOffset; i < end; i++ {
		cfg := p.configs[i]
		row := top + (i-p.scrollOffset)*rowsPerLayer
		q := state.Query(cfg.ID)
		enabled := state.ToggleAllowed(cfg.ID)

		nameStyle := render.StyleListItem
		if i == p.selectedIndex {
			nameStyle = render.StyleListSelected
			for col := p.x + 1; col < p.x+p.width-1; col++ {
				screen.SetContent(col, row, ' ', nil, nameStyle)
			}
		}

		swatch := render.NewLayerStyle(cfg.Color).Swatch
		screen.SetContent(p.x+2, row, '●', nil, swatch)

		toggle := switchLabel(visible.Has(cfg.ID))
		toggleStyle := render.StyleLabel
		if !enabled {
			toggleStyle = render.StyleDim
		}
		drawText(screen, p.x+p.width-2-len(toggle), row, toggle, len(toggle), toggleStyle)
		drawText(screen, p.x+4, row, cfg.Name, inner-len(toggle)-3, nameStyle)

		col := p.x + 4
		col += drawText(screen, col, row+1, string(cfg.Type), inner-2, render.StyleDim)
		col++

		switch q.Status {
		case lifecycle.StatusLoading:
			drawText(screen, col, row+1, "Loading...", p.x+p.width-2-col, render.StyleLoading)
		case lifecycle.StatusFailed:
			drawText(screen, col, row+1, "Error", p.x+p.width-2-col, render.StyleError)
		case lifecycle.StatusReady:
			if q.Data != nil {
				drawText(screen, col, row+1, fmt.Sprintf("%d features", len(q.Data.Features)), p.x+p.width-2-col, render.StyleDim)
			}
		}
	}

	if len(p.configs) > p.maxVisible {
		screen.SetContent(p.x+p.width-1, top, '↕', nil, render.StyleLabel)
	}

	p.drawSummary(screen, visible)
}

func switchLabel(on bool) string {
	if on {
		return "[ on]"
	}
	return "[off]"
}

func (p *LayerPanel) drawSummary(screen tcell.Screen, visible *layer.Visibility) {
	inner := p.width - 4
	y := p.y + p.height - 1 - summaryHeight

	for i := 1; i < p.width-1; i++ {
		screen.SetContent(p.x+i, y, '─', nil, render.StyleDim)
	}

	drawText(screen, p.x+2, y+1, fmt.Sprintf("%d of %d layers visible", visible.Len(), len(p.configs)), inner, render.StyleLabel)

	counts := fmt.Sprintf("%d CSV datasets, %d GeoJSON datasets",
		layer.CountByType(p.configs, layer.TypeCSV),
		layer.CountByType(p.configs, layer.TypeGeoJSON))
	if n := layer.CountByType(p.configs, layer.TypeShapefile); n > 0 {
		counts += fmt.Sprintf(", %d shapefiles", n)
	}
	drawText(screen, p.x+2, y+2, counts, inner, render.StyleDim)
}

var legendHints = []string{
	"• Click on features for details",
	"• +/- zoom, h/j/k/l pan, 0 reset",
	"• Space toggles a layer",
}

func (p *LayerPanel) drawLegend(screen tcell.Screen, visible *layer.Visibility) {
	inner := p.width - 4
	row := p.y + 3

	shown := 0
	for _, cfg := range p.configs {
		if !visible.Has(cfg.ID) {
			continue
		}
		if row >= p.y+p.height-len(legendHints)-2 {
			break
		}

		screen.SetContent(p.x+2, row, '●', nil, render.NewLayerStyle(cfg.Color).Swatch)
		drawText(screen, p.x+4, row, cfg.Name, inner-2, render.StyleLabel)
		row++
		shown++
	}

	if shown == 0 {
		drawText(screen, p.x+2, row, "No visible layers", inner, render.StyleDim)
	}

	hintTop := p.y + p.height - 1 - len(legendHints)
	for i := 1; i < p.width-1; i++ {
		screen.SetContent(p.x+i, hintTop-1, '─', nil, render.StyleDim)
	}
	for i, hint := range legendHints {
		drawText(screen, p.x+2, hintTop+i, hint, inner, render.StyleDim)
	}
}

// UpdateDimensions updates the view dimensions
func (p *LayerPanel) UpdateDimensions(x, y, width, height int) {
	p.x = x
	p.y = y
	p.width = width
	p.height = height

	// border, tabs, separator and summary take the rest
	p.maxVisible = (height - 4 - summaryHeight - 1) / rowsPerLayer
	if p.maxVisible < 1 {
		p.maxVisible = 1
	}
	p.adjustScroll()
}
