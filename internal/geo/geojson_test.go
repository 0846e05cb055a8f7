package geo

import (
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func TestDecodeGeoJSON(t *testing.T) {
	var cases = []struct {
		intention string
		input     string
		wantCount int
		wantErr   error
	}{
		{
			"polygons",
			`{"type":"FeatureCollection","features":[
				{"type":"Feature","geometry":{"type":"Polygon","coordinates":[[[85.2,27.6],[85.4,27.6],[85.4,27.8],[85.2,27.6]]]},"properties":{"Damage":"High","Source":"USGS"}},
				{"type":"Feature","geometry":{"type":"Point","coordinates":[85.3,27.7]},"properties":null}
			]}`,
			2,
			nil,
		},
		{
			"drops features without geometry",
			`{"type":"FeatureCollection","features":[
				{"type":"Feature","geometry":null,"properties":{"Damage":"Low"}},
				{"type":"Feature","geometry":{"type":"Point","coordinates":[85.3,27.7]},"properties":{}}
			]}`,
			1,
			nil,
		},
		{
			"drops coordinates too large for float64",
			`{"type":"FeatureCollection","features":[
				{"type":"Feature","geometry":{"type":"Point","coordinates":[85.3,27.7]},"properties":{}},
				{"type":"Feature","geometry":{"type":"Point","coordinates":[1e400,27.7]},"properties":{}}
			]}`,
			1,
			nil,
		},
		{
			"drops non-numeric coordinates",
			`{"type":"FeatureCollection","features":[
				{"type":"Feature","geometry":{"type":"Point","coordinates":["85.3",null]},"properties":{}},
				{"type":"Feature","geometry":{"type":"Point","coordinates":[85.3,27.7]},"properties":{"Damage":"Low"}}
			]}`,
			1,
			nil,
		},
		{
			"empty collection",
			`{"type":"FeatureCollection","features":[]}`,
			0,
			nil,
		},
		{
			"not a collection",
			`{"type":"Feature","geometry":{"type":"Point","coordinates":[85.3,27.7]},"properties":{}}`,
			0,
			ErrNotFeatureCollection,
		},
	}

	for _, tc := range cases {
		t.Run(tc.intention, func(t *testing.T) {
			fc, err := DecodeGeoJSON([]byte(tc.input))
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("DecodeGeoJSON() error = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeGeoJSON() error = %v", err)
			}
			if len(fc.Features) != tc.wantCount {
				t.Fatalf("DecodeGeoJSON() = %d features, want %d", len(fc.Features), tc.wantCount)
			}
			for _, f := range fc.Features {
				if f.Properties == nil {
					t.Error("feature has nil properties")
				}
			}
		})
	}
}

func TestDecodeGeoJSONInvalid(t *testing.T) {
	if _, err := DecodeGeoJSON([]byte("not json")); err == nil {
		t.Error("DecodeGeoJSON() on garbage succeeded")
	}
}

func TestSanitize(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(orb.Point{85.3, 27.7}))
	fc.Append(geojson.NewFeature(orb.Point{math.NaN(), 27.7}))
	fc.Append(geojson.NewFeature(orb.LineString{{85.3, 27.7}, {math.Inf(1), 27.8}}))
	fc.Append(&geojson.Feature{Type: "Feature"})
	fc.Append(&geojson.Feature{Type: "Feature", Geometry: orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}})

	if dropped := Sanitize(fc); dropped != 3 {
		t.Errorf("Sanitize() dropped %d, want 3", dropped)
	}
	if len(fc.Features) != 2 {
		t.Fatalf("Sanitize() kept %d, want 2", len(fc.Features))
	}
	if fc.Features[1].Properties == nil {
		t.Error("Sanitize() left nil properties")
	}
}

func TestPrimaryKind(t *testing.T) {
	var cases = []struct {
		intention string
		geometry  orb.Geometry
		want      Kind
	}{
		{"point", orb.Point{1, 2}, KindPoint},
		{"multipoint", orb.MultiPoint{{1, 2}}, KindPoint},
		{"line", orb.LineString{{1, 2}, {3, 4}}, KindLine},
		{"polygon", orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}, KindPolygon},
		{"multipolygon", orb.MultiPolygon{{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}}, KindPolygon},
	}

	for _, tc := range cases {
		t.Run(tc.intention, func(t *testing.T) {
			fc := geojson.NewFeatureCollection()
			fc.Append(geojson.NewFeature(tc.geometry))
			if got := PrimaryKind(fc); got != tc.want {
				t.Errorf("PrimaryKind() = %s, want %s", got, tc.want)
			}
		})
	}

	if got := PrimaryKind(geojson.NewFeatureCollection()); got != KindNone {
		t.Errorf("PrimaryKind(empty) = %s, want None", got)
	}
}
