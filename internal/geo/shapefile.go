package geo

import (
	"fmt"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// LoadShapefile reads an ESRI shapefile (plus its .dbf attributes) into a feature collection
func LoadShapefile(path string) (*geojson.FeatureCollection, error) {
	shape, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open shapefile: %w", err)
	}
	defer shape.Close()

	fields := shape.Fields()
	names := make([]string, len(fields))
	for i, field := range fields {
		// Field names in shapefiles are byte arrays padded with nulls
		names[i] = strings.TrimRight(string(field.Name[:]), "\x00 ")
	}

	fc := geojson.NewFeatureCollection()

	for shape.Next() {
		n, p := shape.Shape()

		geometry := shapeGeometry(p)
		if geometry == nil {
			continue
		}

		feature := geojson.NewFeature(geometry)
		for i, name := range names {
			feature.Properties[name] = strings.TrimSpace(shape.ReadAttribute(n, i))
		}

		fc.Append(feature)
	}

	Sanitize(fc)

	return fc, nil
}

func shapeGeometry(p shp.Shape) orb.Geometry {
	switch geom := p.(type) {
	case *shp.Point:
		return orb.Point{geom.X, geom.Y}

	case *shp.MultiPoint:
		if len(geom.Points) == 0 {
			return nil
		}
		points := make(orb.MultiPoint, len(geom.Points))
		for i, point := range geom.Points {
			points[i] = orb.Point{point.X, point.Y}
		}
		return points

	case *shp.PolyLine:
		parts := splitParts(geom.Parts, geom.Points)
		lines := make(orb.MultiLineString, 0, len(parts))
		for _, part := range parts {
			if len(part) > 1 {
				lines = append(lines, orb.LineString(part))
			}
		}
		switch len(lines) {
		case 0:
			return nil
		case 1:
			return lines[0]
		default:
			return lines
		}

	case *shp.Polygon:
		return polygonFromRings(splitParts(geom.Parts, geom.Points))
	}

	return nil
}

// splitParts cuts a shapefile point array at the part offsets
func splitParts(parts []int32, points []shp.Point) [][]orb.Point {
	out := make([][]orb.Point, 0, len(parts))

	for i, start := range parts {
		end := int32(len(points))
		if i+1 < len(parts) {
			end = parts[i+1]
		}
		if start < 0 || end > int32(len(points)) || start >= end {
			continue
		}

		part := make([]orb.Point, 0, end-start)
		for _, point := range points[start:end] {
			part = append(part, orb.Point{point.X, point.Y})
		}
		out = append(out, part)
	}

	return out
}

// polygonFromRings groups rings into polygons: shapefile outer rings are
// clockwise, holes counter-clockwise and follow their outer ring.
func polygonFromRings(rings [][]orb.Point) orb.Geometry {
	var polygons orb.MultiPolygon

	for _, points := range rings {
		if len(points) < 3 {
			continue
		}

		ring := orb.Ring(points)
		if ring.Orientation() == orb.CCW && len(polygons) > 0 {
			last := len(polygons) - 1
			polygons[last] = append(polygons[last], ring)
			continue
		}

		polygons = append(polygons, orb.Polygon{ring})
	}

	switch len(polygons) {
	case 0:
		return nil
	case 1:
		return polygons[0]
	default:
		return polygons
	}
}
