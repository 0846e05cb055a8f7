package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Bounds represents a geographic bounding box
type Bounds struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// NewBounds creates a bounding box from center point and radius
func NewBounds(centerLat, centerLon, radiusKm float64) *Bounds {
	latDegrees := radiusKm / KmPerDegreeLat
	lonDegrees := radiusKm / (KmPerDegreeLat * math.Cos(centerLat*math.Pi/180.0))

	return &Bounds{
		MinLat: centerLat - latDegrees,
		MaxLat: centerLat + latDegrees,
		MinLon: centerLon - lonDegrees,
		MaxLon: centerLon + lonDegrees,
	}
}

// Contains checks if a point is within the bounds
func (b *Bounds) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat &&
		lon >= b.MinLon && lon <= b.MaxLon
}

// Bound converts to an orb bound (x = lon, y = lat)
func (b *Bounds) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.MinLon, b.MinLat},
		Max: orb.Point{b.MaxLon, b.MaxLat},
	}
}

// FilterByBounds returns the features whose bounding box intersects the bounds
func FilterByBounds(features []*geojson.Feature, bounds *Bounds) []*geojson.Feature {
	view := bounds.Bound()
	filtered := make([]*geojson.Feature, 0, len(features))

	for _, feature := range features {
		if feature.Geometry == nil {
			continue
		}
		if feature.Geometry.Bound().Intersects(view) {
			filtered = append(filtered, feature)
		}
	}

	return filtered
}

// CollectionBounds returns the extent of every feature in fc, or false when fc is empty
func CollectionBounds(fc *geojson.FeatureCollection) (*Bounds, bool) {
	if fc == nil || len(fc.Features) == 0 {
		return nil, false
	}

	bound := fc.Features[0].Geometry.Bound()
	for _, f := range fc.Features[1:] {
		bound = bound.Union(f.Geometry.Bound())
	}

	return &Bounds{
		MinLat: bound.Min.Lat(),
		MaxLat: bound.Max.Lat(),
		MinLon: bound.Min.Lon(),
		MaxLon: bound.Max.Lon(),
	}, true
}
