package render

import (
	"riskmap/internal/debug"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// DefaultLayerColor is used when a layer's configured color cannot be parsed
const DefaultLayerColor = "#9ca3af"

// fillOpacity approximates a translucent area fill on a dark terminal
const fillOpacity = 0.6

// Style definitions for the map chrome and panels
var (
	StyleGraticule    = tcell.StyleDefault.Foreground(tcell.ColorDarkSlateGray)
	StyleBasemap      = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	StyleLabel        = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	StyleHeader       = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	StyleDim          = tcell.StyleDefault.Foreground(tcell.ColorGray)
	StyleLoading      = tcell.StyleDefault.Foreground(tcell.ColorDodgerBlue)
	StyleError        = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	StyleCursor       = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	StyleListItem     = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	StyleListSelected = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
	StyleTabActive    = tcell.StyleDefault.Foreground(tcell.ColorDodgerBlue).Bold(true).Underline(true)
)

// LayerStyle is the drawing treatment derived from a layer's color
type LayerStyle struct {
	Color  colorful.Color
	Marker tcell.Style
	Line   tcell.Style
	Fill   tcell.Style
	Swatch tcell.Style
}

// ParseColor parses a CSS hex color (#rgb or #rrggbb)
func ParseColor(hex string) (colorful.Color, error) {
	return colorful.Hex(hex)
}

// NewLayerStyle builds the styles for a layer color, falling back to DefaultLayerColor
func NewLayerStyle(hex string) LayerStyle {
	c, err := ParseColor(hex)
	if err != nil {
		debug.Warn("invalid layer color", "color", hex, "error", err)
		c, _ = ParseColor(DefaultLayerColor)
	}

	fill := c.BlendRgb(colorful.Color{}, 1-fillOpacity).Clamped()

	return LayerStyle{
		Color:  c,
		Marker: tcell.StyleDefault.Foreground(tcellColor(c)).Bold(true),
		Line:   tcell.StyleDefault.Foreground(tcellColor(c)),
		Fill:   tcell.StyleDefault.Foreground(tcellColor(fill)),
		Swatch: tcell.StyleDefault.Foreground(tcellColor(c)),
	}
}

func tcellColor(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
