package geo

import (
	"encoding/json"
	"errors"
	"fmt"

	"riskmap/internal/debug"

	"github.com/paulmach/orb/geojson"
)

// ErrNotFeatureCollection is returned for GeoJSON documents of any other type
var ErrNotFeatureCollection = errors.New("not a GeoJSON FeatureCollection")

// DecodeGeoJSON decodes a FeatureCollection and drops features that cannot be drawn.
// A feature that does not decode (a coordinate that is not a number or does not fit
// a float64) is dropped on its own; only a malformed document fails.
func DecodeGeoJSON(data []byte) (*geojson.FeatureCollection, error) {
	var doc struct {
		Type     string            `json:"type"`
		Features []json.RawMessage `json:"features"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode GeoJSON: %w", err)
	}

	if doc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("%w: type %q", ErrNotFeatureCollection, doc.Type)
	}

	fc := geojson.NewFeatureCollection()
	for i, raw := range doc.Features {
		f, err := geojson.UnmarshalFeature(raw)
		if err != nil {
			debug.Warn("dropping undecodable GeoJSON feature", "index", i, "error", err)
			continue
		}
		fc.Append(f)
	}

	if dropped := Sanitize(fc); dropped > 0 {
		debug.Log("dropped %d GeoJSON features without finite geometry", dropped)
	}

	return fc, nil
}
