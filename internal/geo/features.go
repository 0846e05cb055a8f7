package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Kind is the drawing treatment a geometry gets on the map
type Kind int

const (
	KindNone Kind = iota
	KindPoint
	KindLine
	KindPolygon
)

// String returns a string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "Point"
	case KindLine:
		return "Line"
	case KindPolygon:
		return "Polygon"
	default:
		return "None"
	}
}

// KindOf classifies a geometry
func KindOf(g orb.Geometry) Kind {
	switch g.(type) {
	case orb.Point, orb.MultiPoint:
		return KindPoint
	case orb.LineString, orb.MultiLineString:
		return KindLine
	case orb.Ring, orb.Polygon, orb.MultiPolygon, orb.Bound:
		return KindPolygon
	default:
		return KindNone
	}
}

// PrimaryKind returns the kind of the first feature, which decides how the whole layer is drawn
func PrimaryKind(fc *geojson.FeatureCollection) Kind {
	if fc == nil || len(fc.Features) == 0 {
		return KindNone
	}
	return KindOf(fc.Features[0].Geometry)
}

// Sanitize drops features without geometry or with non-finite coordinates and
// gives every remaining feature a properties map. Returns the number dropped.
func Sanitize(fc *geojson.FeatureCollection) int {
	if fc == nil {
		return 0
	}

	kept := fc.Features[:0]
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil || !Finite(f.Geometry) {
			continue
		}
		if f.Properties == nil {
			f.Properties = make(geojson.Properties)
		}
		kept = append(kept, f)
	}

	dropped := len(fc.Features) - len(kept)
	for i := len(kept); i < len(fc.Features); i++ {
		fc.Features[i] = nil
	}
	fc.Features = kept

	return dropped
}

// Finite reports whether every coordinate of g is a finite number
func Finite(g orb.Geometry) bool {
	ok := true
	eachPoint(g, func(p orb.Point) bool {
		if !finite(p[0]) || !finite(p[1]) {
			ok = false
		}
		return ok
	})
	return ok
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// eachPoint walks every vertex of g until fn returns false
func eachPoint(g orb.Geometry, fn func(orb.Point) bool) bool {
	switch geom := g.(type) {
	case orb.Point:
		return fn(geom)
	case orb.MultiPoint:
		for _, p := range geom {
			if !fn(p) {
				return false
			}
		}
	case orb.LineString:
		for _, p := range geom {
			if !fn(p) {
				return false
			}
		}
	case orb.Ring:
		for _, p := range geom {
			if !fn(p) {
				return false
			}
		}
	case orb.Polygon:
		for _, r := range geom {
			if !eachPoint(r, fn) {
				return false
			}
		}
	case orb.MultiLineString:
		for _, ls := range geom {
			if !eachPoint(ls, fn) {
				return false
			}
		}
	case orb.MultiPolygon:
		for _, p := range geom {
			if !eachPoint(p, fn) {
				return false
			}
		}
	case orb.Collection:
		for _, c := range geom {
			if !eachPoint(c, fn) {
				return false
			}
		}
	case orb.Bound:
		return fn(geom.Min) && fn(geom.Max)
	}
	return true
}

// Lines returns the vertex sequences to stroke for g (rings closed, points skipped)
func Lines(g orb.Geometry) [][]orb.Point {
	switch geom := g.(type) {
	case orb.LineString:
		return [][]orb.Point{geom}
	case orb.MultiLineString:
		lines := make([][]orb.Point, 0, len(geom))
		for _, ls := range geom {
			lines = append(lines, ls)
		}
		return lines
	case orb.Ring:
		return [][]orb.Point{geom}
	case orb.Polygon:
		lines := make([][]orb.Point, 0, len(geom))
		for _, r := range geom {
			lines = append(lines, r)
		}
		return lines
	case orb.MultiPolygon:
		var lines [][]orb.Point
		for _, p := range geom {
			lines = append(lines, Lines(p)...)
		}
		return lines
	case orb.Bound:
		return Lines(geom.ToPolygon())
	case orb.Collection:
		var lines [][]orb.Point
		for _, c := range geom {
			lines = append(lines, Lines(c)...)
		}
		return lines
	default:
		return nil
	}
}

// Points returns the marker positions for point geometries
func Points(g orb.Geometry) []orb.Point {
	switch geom := g.(type) {
	case orb.Point:
		return []orb.Point{geom}
	case orb.MultiPoint:
		return geom
	default:
		return nil
	}
}
