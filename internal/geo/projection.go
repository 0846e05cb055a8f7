package geo

import (
	"math"
)

// KmPerDegreeLat is the length of one degree of latitude
const KmPerDegreeLat = 111.32

// Point represents a screen coordinate
type Point struct {
	X int
	Y int
}

// Projection handles conversion from lat/lon to screen coordinates
type Projection struct {
	centerLat    float64
	centerLon    float64
	radiusKm     float64
	screenWidth  int
	screenHeight int
	aspectRatio  float64
	scaleX       float64
	scaleY       float64
}

// NewProjection creates an equirectangular projection for a given center point and radius
// The projection will fit a circle of radiusKm around the center point into the screen dimensions
// aspectRatio compensates for character dimensions (typically 2.0 for characters twice as tall as wide)
func NewProjection(centerLat, centerLon, radiusKm float64, screenWidth, screenHeight int, aspectRatio float64) *Projection {
	p := &Projection{
		centerLat:    centerLat,
		centerLon:    centerLon,
		radiusKm:     radiusKm,
		screenWidth:  screenWidth,
		screenHeight: screenHeight,
		aspectRatio:  aspectRatio,
	}

	p.calculateScale()
	return p
}

// calculateScale computes the cells-per-degree scaling factors.
// A circle of radiusKm must fit both across and down the screen, where one row
// covers aspectRatio times the ground of one column.
func (p *Projection) calculateScale() {
	kmPerDegreeLon := KmPerDegreeLat * math.Cos(p.centerLat*math.Pi/180.0)

	width := math.Max(float64(p.screenWidth), 1)
	effectiveHeight := math.Max(float64(p.screenHeight), 1) * p.aspectRatio

	kmPerColumn := math.Max(2*p.radiusKm/width, 2*p.radiusKm/effectiveHeight)

	p.scaleX = kmPerDegreeLon / kmPerColumn
	p.scaleY = KmPerDegreeLat / (kmPerColumn * p.aspectRatio)
}

// Project converts lat/lon to screen coordinates
// Returns screen coordinates with (0, 0) at top-left
func (p *Projection) Project(lat, lon float64) Point {
	deltaLat := lat - p.centerLat
	deltaLon := lon - p.centerLon

	// Y is inverted: positive lat goes up, positive screen Y goes down
	x := int(math.Round(deltaLon * p.scaleX))
	y := int(math.Round(-deltaLat * p.scaleY))

	x += p.screenWidth / 2
	y += p.screenHeight / 2

	return Point{X: x, Y: y}
}

// Unproject converts screen coordinates back to lat/lon
func (p *Projection) Unproject(x, y int) (lat, lon float64) {
	x -= p.screenWidth / 2
	y -= p.screenHeight / 2

	deltaLon := float64(x) / p.scaleX
	deltaLat := -float64(y) / p.scaleY

	return p.centerLat + deltaLat, p.centerLon + deltaLon
}

// CellSize returns the size of one screen cell in degrees
func (p *Projection) CellSize() (dLat, dLon float64) {
	return 1 / p.scaleY, 1 / p.scaleX
}

// IsInBounds checks if a lat/lon point would be visible on screen
func (p *Projection) IsInBounds(lat, lon float64) bool {
	point := p.Project(lat, lon)
	return point.X >= 0 && point.X < p.screenWidth &&
		point.Y >= 0 && point.Y < p.screenHeight
}

// UpdateCenter recalculates the projection with a new center point
func (p *Projection) UpdateCenter(lat, lon float64) {
	p.centerLat = math.Max(-85, math.Min(85, lat))
	p.centerLon = math.Mod(lon+540, 360) - 180
	p.calculateScale()
}

// Pan moves the center by a number of screen cells
func (p *Projection) Pan(dx, dy int) {
	lat, lon := p.Unproject(p.screenWidth/2+dx, p.screenHeight/2+dy)
	p.UpdateCenter(lat, lon)
}

// UpdateDimensions updates the screen dimensions and recalculates scaling
func (p *Projection) UpdateDimensions(width, height int) {
	p.screenWidth = width
	p.screenHeight = height
	p.calculateScale()
}

// GetCenter returns the current center point
func (p *Projection) GetCenter() (lat, lon float64) {
	return p.centerLat, p.centerLon
}

// Radius returns the radius in kilometres fitted into the screen
func (p *Projection) Radius() float64 {
	return p.radiusKm
}

// GetBounds returns the geographic bounds visible on screen
func (p *Projection) GetBounds() *Bounds {
	topLeftLat, topLeftLon := p.Unproject(0, 0)
	bottomRightLat, bottomRightLon := p.Unproject(p.screenWidth-1, p.screenHeight-1)

	return &Bounds{
		MinLat: math.Min(topLeftLat, bottomRightLat),
		MaxLat: math.Max(topLeftLat, bottomRightLat),
		MinLon: math.Min(topLeftLon, bottomRightLon),
		MaxLon: math.Max(topLeftLon, bottomRightLon),
	}
}
