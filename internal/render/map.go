package render

import (
	"math"

	"riskmap/internal/debug"
	"riskmap/internal/geo"
	"riskmap/internal/layer"

	"github.com/gdamore/tcell/v2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

const (
	markerRune = '●'
	fillRune   = '░'
	lineRune   = '•'
)

// mountedLayer is one data source plus its drawing treatment
type mountedLayer struct {
	cfg   layer.Config
	data  *geojson.FeatureCollection
	kind  geo.Kind
	style LayerStyle
}

// Selection identifies a feature picked on the map
type Selection struct {
	Layer   layer.Config
	Feature *geojson.Feature
}

// MapRenderer renders the basemap and the mounted risk layers to a canvas
type MapRenderer struct {
	projection *geo.Projection
	canvas     *Canvas
	basemap    []*geojson.FeatureCollection
	layers     []*mountedLayer
	graticule  bool
}

// NewMapRenderer creates a new map renderer
func NewMapRenderer(projection *geo.Projection, canvas *Canvas) *MapRenderer {
	return &MapRenderer{
		projection: projection,
		canvas:     canvas,
		graticule:  true,
	}
}

// SetBasemap sets the background features drawn beneath every layer
func (m *MapRenderer) SetBasemap(basemap []*geojson.FeatureCollection) {
	m.basemap = basemap
}

// AddLayer mounts a layer, replacing its data and moving it on top if already present.
// A layer with no features keeps its data registered but draws nothing.
func (m *MapRenderer) AddLayer(cfg layer.Config, data *geojson.FeatureCollection) {
	m.RemoveLayer(cfg)

	m.layers = append(m.layers, &mountedLayer{
		cfg:   cfg,
		data:  data,
		kind:  geo.PrimaryKind(data),
		style: NewLayerStyle(cfg.Color),
	})
}

// RemoveLayer unmounts a layer; removing an absent layer does nothing
func (m *MapRenderer) RemoveLayer(cfg layer.Config) {
	for i, l := range m.layers {
		if l.cfg.ID == cfg.ID {
			m.layers = append(m.layers[:i], m.layers[i+1:]...)
			return
		}
	}
}

// HasLayer returns true if the layer is mounted
func (m *MapRenderer) HasLayer(id string) bool {
	for _, l := range m.layers {
		if l.cfg.ID == id {
			return true
		}
	}
	return false
}

// LayerIDs returns the mounted layer ids, bottom first
func (m *MapRenderer) LayerIDs() []string {
	ids := make([]string, len(m.layers))
	for i, l := range m.layers {
		ids[i] = l.cfg.ID
	}
	return ids
}

// RenderMap draws the graticule, basemap and every mounted layer
func (m *MapRenderer) RenderMap() {
	bounds := m.projection.GetBounds()

	if m.graticule {
		m.renderGraticule(bounds)
	}

	for _, fc := range m.basemap {
		for _, feature := range geo.FilterByBounds(fc.Features, bounds) {
			m.strokeFeature(feature.Geometry, '·', StyleBasemap)
		}
	}

	for _, l := range m.layers {
		if l.kind == geo.KindNone {
			continue
		}

		visible := geo.FilterByBounds(l.data.Features, bounds)
		for _, feature := range visible {
			m.renderFeature(l, feature, false)
		}

		if debug.Enabled() {
			debug.Log("rendered layer %s: %d of %d features in view", l.cfg.ID, len(visible), len(l.data.Features))
		}
	}
}

// RenderSelection redraws the selected feature highlighted
func (m *MapRenderer) RenderSelection(sel *Selection) {
	if sel == nil || sel.Feature == nil {
		return
	}

	for _, l := range m.layers {
		if l.cfg.ID == sel.Layer.ID {
			m.renderFeature(l, sel.Feature, true)
			return
		}
	}
}

// renderFeature draws one feature following its layer's treatment
func (m *MapRenderer) renderFeature(l *mountedLayer, feature *geojson.Feature, selected bool) {
	switch l.kind {
	case geo.KindPolygon:
		fill, line := l.style.Fill, l.style.Line
		if selected {
			fill, line = fill.Reverse(true), line.Reverse(true)
		}
		m.fillFeature(feature.Geometry, fill)
		m.strokeFeature(feature.Geometry, fillRune, line)

	case geo.KindLine:
		style := l.style.Line
		if selected {
			style = style.Reverse(true)
		}
		m.strokeFeature(feature.Geometry, lineRune, style)

	case geo.KindPoint:
		style := l.style.Marker
		if selected {
			style = style.Reverse(true)
		}
		for _, p := range geo.Points(feature.Geometry) {
			point := m.projection.Project(p.Lat(), p.Lon())
			m.canvas.Set(point.X, point.Y, markerRune, style)
		}
	}
}

// strokeFeature draws the outlines of a geometry
func (m *MapRenderer) strokeFeature(g orb.Geometry, char rune, style tcell.Style) {
	for _, line := range geo.Lines(g) {
		for i := 0; i < len(line)-1; i++ {
			p1 := m.projection.Project(line[i].Lat(), line[i].Lon())
			p2 := m.projection.Project(line[i+1].Lat(), line[i+1].Lon())
			m.DrawLine(p1.X, p1.Y, p2.X, p2.Y, char, style)
		}
	}

	for _, p := range geo.Points(g) {
		point := m.projection.Project(p.Lat(), p.Lon())
		m.canvas.Set(point.X, point.Y, char, style)
	}
}

// fillFeature shades every cell whose center lies inside an area geometry
func (m *MapRenderer) fillFeature(g orb.Geometry, style tcell.Style) {
	bound := g.Bound()
	topLeft := m.projection.Project(bound.Max.Lat(), bound.Min.Lon())
	bottomRight := m.projection.Project(bound.Min.Lat(), bound.Max.Lon())

	minX := max(topLeft.X, 0)
	maxX := min(bottomRight.X, m.canvas.Width()-1)
	minY := max(topLeft.Y, 0)
	maxY := min(bottomRight.Y, m.canvas.Height()-1)

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			lat, lon := m.projection.Unproject(x, y)
			if geo.Hit(g, orb.Point{lon, lat}, 0) {
				m.canvas.Set(x, y, fillRune, style)
			}
		}
	}
}

// renderGraticule draws faint meridians and parallels at a spacing that suits the zoom
func (m *MapRenderer) renderGraticule(bounds *geo.Bounds) {
	step := graticuleStep(bounds.MaxLat - bounds.MinLat)

	for lat := math.Ceil(bounds.MinLat/step) * step; lat <= bounds.MaxLat; lat += step {
		p := m.projection.Project(lat, bounds.MinLon)
		for x := 0; x < m.canvas.Width(); x++ {
			m.canvas.Set(x, p.Y, '┈', StyleGraticule)
		}
	}

	for lon := math.Ceil(bounds.MinLon/step) * step; lon <= bounds.MaxLon; lon += step {
		p := m.projection.Project(bounds.MinLat, lon)
		for y := 0; y < m.canvas.Height(); y++ {
			m.canvas.Set(p.X, y, '┊', StyleGraticule)
		}
	}
}

// graticuleStep picks a round spacing giving a handful of lines across span degrees
func graticuleStep(span float64) float64 {
	for _, step := range []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30} {
		if span/step <= 8 {
			return step
		}
	}
	return 60
}

// FeatureAt returns the topmost mounted feature at lat/lon
func (m *MapRenderer) FeatureAt(lat, lon, tolerance float64) *Selection {
	for i := len(m.layers) - 1; i >= 0; i-- {
		l := m.layers[i]
		if l.kind == geo.KindNone {
			continue
		}
		if f := geo.FeatureAt(l.data, lat, lon, tolerance); f != nil {
			return &Selection{Layer: l.cfg, Feature: f}
		}
	}
	return nil
}

// DrawLine implements Bresenham's line algorithm for drawing lines on the canvas.
// Segments are clipped to the canvas first so far-off vertices cost nothing.
func (m *MapRenderer) DrawLine(x0, y0, x1, y1 int, char rune, style tcell.Style) {
	var ok bool
	x0, y0, x1, y1, ok = clipSegment(x0, y0, x1, y1, m.canvas.Width(), m.canvas.Height())
	if !ok {
		return
	}

	dx := abs(x1 - x0)
	dy := abs(y1 - y0)

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
		m.canvas.Set(x0, y0, char, style)

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

// clipSegment clips a segment to [-1, width] x [-1, height] (Liang-Barsky)
func clipSegment(x0, y0, x1, y1, width, height int) (int, int, int, int, bool) {
	fx0, fy0 := float64(x0), float64(y0)
	dx, dy := float64(x1-x0), float64(y1-y0)
	t0, t1 := 0.0, 1.0

	edges := [4][2]float64{
		{-dx, fx0 + 1},
		{dx, float64(width) - fx0},
		{-dy, fy0 + 1},
		{dy, float64(height) - fy0},
	}

	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}

		r := q / p
		if p < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = math.Max(t0, r)
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = math.Min(t1, r)
		}
	}

	return int(math.Round(fx0 + t0*dx)), int(math.Round(fy0 + t0*dy)),
		int(math.Round(fx0 + t1*dx)), int(math.Round(fy0 + t1*dy)), true
}

// abs returns the absolute value of an integer
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// UpdateProjection updates the renderer's projection
func (m *MapRenderer) UpdateProjection(projection *geo.Projection) {
	m.projection = projection
}

// UpdateCanvas updates the renderer's canvas
func (m *MapRenderer) UpdateCanvas(canvas *Canvas) {
	m.canvas = canvas
}
