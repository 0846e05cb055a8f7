package geo

import (
	"path/filepath"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
)

func TestLoadShapefile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zones.shp")

	writer, err := shp.Create(path, shp.POLYGON)
	if err != nil {
		t.Fatalf("shp.Create: %v", err)
	}

	if err := writer.SetFields([]shp.Field{shp.StringField("Damage", 16)}); err != nil {
		t.Fatalf("SetFields: %v", err)
	}

	// clockwise outer ring
	outer := []shp.Point{{X: 85.0, Y: 27.5}, {X: 85.0, Y: 28.0}, {X: 85.5, Y: 28.0}, {X: 85.5, Y: 27.5}, {X: 85.0, Y: 27.5}}
	polygon := shp.Polygon(*shp.NewPolyLine([][]shp.Point{outer}))
	n := writer.Write(&polygon)
	if err := writer.WriteAttribute(int(n), 0, "High"); err != nil {
		t.Fatalf("WriteAttribute: %v", err)
	}
	writer.Close()

	fc, err := LoadShapefile(path)
	if err != nil {
		t.Fatalf("LoadShapefile() error = %v", err)
	}
	if len(fc.Features) != 1 {
		t.Fatalf("LoadShapefile() = %d features, want 1", len(fc.Features))
	}

	f := fc.Features[0]
	if _, ok := f.Geometry.(orb.Polygon); !ok {
		t.Errorf("geometry = %T, want orb.Polygon", f.Geometry)
	}
	if got := f.Properties["Damage"]; got != "High" {
		t.Errorf("Damage = %#v, want High", got)
	}
	if FeatureAt(fc, 27.75, 85.25, 0) != f {
		t.Error("FeatureAt() inside shapefile polygon = nil")
	}
}

func TestLoadShapefileMissing(t *testing.T) {
	if _, err := LoadShapefile(filepath.Join(t.TempDir(), "missing.shp")); err == nil {
		t.Error("LoadShapefile() on missing file succeeded")
	}
}

func TestPolygonFromRings(t *testing.T) {
	outerA := []orb.Point{{0, 0}, {0, 2}, {2, 2}, {2, 0}, {0, 0}}
	hole := []orb.Point{{0.5, 0.5}, {1.5, 0.5}, {1.5, 1.5}, {0.5, 1.5}, {0.5, 0.5}}
	outerB := []orb.Point{{5, 5}, {5, 6}, {6, 6}, {6, 5}, {5, 5}}

	got, ok := polygonFromRings([][]orb.Point{outerA, hole, outerB}).(orb.MultiPolygon)
	if !ok {
		t.Fatal("polygonFromRings() is not a MultiPolygon")
	}
	if len(got) != 2 || len(got[0]) != 2 || len(got[1]) != 1 {
		t.Errorf("polygonFromRings() shape = %d polygons (%d, %d rings)", len(got), len(got[0]), len(got[1]))
	}
}
