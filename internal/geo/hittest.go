package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// FeatureAt returns the topmost feature of fc at lat/lon, or nil.
// Areas match when they contain the point; points and lines match within tolerance degrees.
func FeatureAt(fc *geojson.FeatureCollection, lat, lon, tolerance float64) *geojson.Feature {
	if fc == nil {
		return nil
	}

	target := orb.Point{lon, lat}

	// later features are drawn on top
	for i := len(fc.Features) - 1; i >= 0; i-- {
		f := fc.Features[i]
		if f.Geometry == nil {
			continue
		}
		if Hit(f.Geometry, target, tolerance) {
			return f
		}
	}

	return nil
}

// Hit reports whether target falls on g
func Hit(g orb.Geometry, target orb.Point, tolerance float64) bool {
	switch geom := g.(type) {
	case orb.Polygon:
		if planar.PolygonContains(geom, target) {
			return true
		}
	case orb.MultiPolygon:
		if planar.MultiPolygonContains(geom, target) {
			return true
		}
	case orb.Ring:
		if planar.RingContains(geom, target) {
			return true
		}
	case orb.Bound:
		if geom.Contains(target) {
			return true
		}
	}

	return planar.DistanceFrom(g, target) <= tolerance
}
