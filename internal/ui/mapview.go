package ui

import (
	"math"

	"riskmap/internal/debug"
	"riskmap/internal/geo"
	"riskmap/internal/render"

	"github.com/gdamore/tcell/v2"
	"github.com/paulmach/orb/geojson"
)

// Initial view over the Kathmandu valley
const (
	DefaultCenterLat = 27.7
	DefaultCenterLon = 85.3
	DefaultRadiusKm  = 25.0

	minRadiusKm = 0.5
	maxRadiusKm = 2000.0
)

// MapView displays the map and the mounted risk layers
type MapView struct {
	renderer    *render.MapRenderer
	projection  *geo.Projection
	canvas      *render.Canvas
	offsetX     int
	offsetY     int
	width       int
	height      int
	radiusKm    float64
	aspectRatio float64
	initialKm   float64
	selection   *render.Selection
	cursorMode  bool
	cursorX     int
	cursorY     int
}

// NewMapView creates a new map view drawn at the given screen offset
func NewMapView(offsetX, offsetY, width, height int, radiusKm float64, aspectRatio float64) *MapView {
	projection := geo.NewProjection(DefaultCenterLat, DefaultCenterLon, radiusKm, width, height, aspectRatio)
	canvas := render.NewCanvas(width, height)
	renderer := render.NewMapRenderer(projection, canvas)

	return &MapView{
		renderer:    renderer,
		projection:  projection,
		canvas:      canvas,
		offsetX:     offsetX,
		offsetY:     offsetY,
		width:       width,
		height:      height,
		radiusKm:    radiusKm,
		aspectRatio: aspectRatio,
		initialKm:   radiusKm,
		cursorX:     width / 2,
		cursorY:     height / 2,
	}
}

// Renderer returns the renderer that layers are mounted on
func (m *MapView) Renderer() *render.MapRenderer {
	return m.renderer
}

// SetBasemap sets the background features
func (m *MapView) SetBasemap(basemap []*geojson.FeatureCollection) {
	m.renderer.SetBasemap(basemap)
}

// Draw renders the map view to the screen with an optional status badge
func (m *MapView) Draw(screen tcell.Screen, status []StatusLine) {
	m.canvas.Clear()

	m.renderer.RenderMap()

	if m.selection != nil && !m.renderer.HasLayer(m.selection.Layer.ID) {
		m.selection = nil
	}
	m.renderer.RenderSelection(m.selection)

	if m.cursorMode {
		m.canvas.Set(m.cursorX, m.cursorY, '✛', render.StyleCursor)
	}

	for i, line := range status {
		m.canvas.DrawTextClipped(1, i, " "+line.Text+" ", m.width-2, line.Style)
	}

	m.canvas.Blit(screen, m.offsetX, m.offsetY)
}

// StatusLine is one line of the badge in the top-left corner of the map
type StatusLine struct {
	Text  string
	Style tcell.Style
}

// Contains returns true if the screen position is on the map
func (m *MapView) Contains(x, y int) bool {
	return x >= m.offsetX && x < m.offsetX+m.width && y >= m.offsetY && y < m.offsetY+m.height
}

// Select picks the topmost feature under a screen position.
// Returns nil and clears the selection when nothing is there.
func (m *MapView) Select(screenX, screenY int) *render.Selection {
	lat, lon := m.projection.Unproject(screenX-m.offsetX, screenY-m.offsetY)
	dLat, dLon := m.projection.CellSize()

	m.selection = m.renderer.FeatureAt(lat, lon, math.Max(dLat, dLon))
	if m.selection != nil {
		debug.Log("selected feature in layer %s at %.4f, %.4f", m.selection.Layer.ID, lat, lon)
	}
	return m.selection
}

// SelectAtCursor picks the feature under the keyboard cursor
func (m *MapView) SelectAtCursor() *render.Selection {
	return m.Select(m.CursorScreenPos())
}

// Selection returns the selected feature, or nil
func (m *MapView) Selection() *render.Selection {
	return m.selection
}

// ClearSelection drops the highlighted feature
func (m *MapView) ClearSelection() {
	m.selection = nil
}

// CursorScreenPos returns the cursor position in screen coordinates
func (m *MapView) CursorScreenPos() (int, int) {
	return m.offsetX + m.cursorX, m.offsetY + m.cursorY
}

// ToggleCursor turns keyboard cursor mode on or off
func (m *MapView) ToggleCursor() bool {
	m.cursorMode = !m.cursorMode
	if m.cursorMode {
		m.cursorX = m.width / 2
		m.cursorY = m.height / 2
	}
	return m.cursorMode
}

// CursorMode returns true while the keyboard cursor is shown
func (m *MapView) CursorMode() bool {
	return m.cursorMode
}

// Move pans the map, or moves the cursor while in cursor mode
func (m *MapView) Move(dx, dy int) {
	if !m.cursorMode {
		m.Pan(dx*4, dy*2)
		return
	}

	m.cursorX = max(0, min(m.cursorX+dx, m.width-1))
	m.cursorY = max(0, min(m.cursorY+dy, m.height-1))
}

// Pan moves the map center by a number of cells
func (m *MapView) Pan(dx, dy int) {
	m.projection.Pan(dx, dy)
}

// ZoomIn decreases the radius (zooms in)
func (m *MapView) ZoomIn() {
	m.SetRadius(math.Max(m.radiusKm*0.75, minRadiusKm))
}

// ZoomOut increases the radius (zooms out)
func (m *MapView) ZoomOut() {
	m.SetRadius(math.Min(m.radiusKm*1.33, maxRadiusKm))
}

// Reset returns to the initial center and radius
func (m *MapView) Reset() {
	m.setView(DefaultCenterLat, DefaultCenterLon, m.initialKm)
}

// FitBounds centers the map on a bounding box and zooms so it fits
func (m *MapView) FitBounds(b *geo.Bounds) {
	if b == nil {
		return
	}

	centerLat := (b.MinLat + b.MaxLat) / 2
	centerLon := (b.MinLon + b.MaxLon) / 2

	spanLat := (b.MaxLat - b.MinLat) / 2 * geo.KmPerDegreeLat
	spanLon := (b.MaxLon - b.MinLon) / 2 * geo.KmPerDegreeLat * math.Cos(centerLat*math.Pi/180.0)

	radius := math.Max(spanLat, spanLon) * 1.1
	radius = math.Max(minRadiusKm, math.Min(radius, maxRadiusKm))

	m.setView(centerLat, centerLon, radius)
}

// SetRadius updates the map radius and recalculates the projection
func (m *MapView) SetRadius(radiusKm float64) {
	centerLat, centerLon := m.projection.GetCenter()
	m.setView(centerLat, centerLon, radiusKm)
}

func (m *MapView) setView(centerLat, centerLon, radiusKm float64) {
	m.radiusKm = radiusKm
	m.projection = geo.NewProjection(centerLat, centerLon, radiusKm, m.width, m.height, m.aspectRatio)
	m.renderer.UpdateProjection(m.projection)
	debug.Log("Map view %.4f, %.4f radius %.1f km", centerLat, centerLon, radiusKm)
}

// GetRadius returns the current map radius
func (m *MapView) GetRadius() float64 {
	return m.radiusKm
}

// GetProjection returns the current projection
func (m *MapView) GetProjection() *geo.Projection {
	return m.projection
}

// UpdateDimensions updates the view dimensions when the screen is resized
func (m *MapView) UpdateDimensions(offsetX, offsetY, width, height int) {
	m.offsetX = offsetX
	m.offsetY = offsetY
	m.width = width
	m.height = height

	m.projection.UpdateDimensions(width, height)

	m.canvas = render.NewCanvas(width, height)
	m.renderer.UpdateCanvas(m.canvas)

	m.cursorX = min(m.cursorX, max(width-1, 0))
	m.cursorY = min(m.cursorY, max(height-1, 0))
}
