package layer

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"riskmap/internal/geo"

	"github.com/paulmach/orb/geojson"
)

// ErrUnsupportedType is returned for layers whose type has no loader
var ErrUnsupportedType = errors.New("unsupported layer type")

// Source resolves and reads layer data resources
type Source interface {
	Get(ctx context.Context, path string) ([]byte, error)
	LocalPath(path string) (string, bool)
}

// LoadData fetches a layer's resource and normalizes it into a feature collection
func LoadData(ctx context.Context, src Source, cfg Config) (*geojson.FeatureCollection, error) {
	switch cfg.Type {
	case TypeCSV:
		data, err := src.Get(ctx, cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch CSV data: %w", err)
		}
		fc, err := geo.ParseCSV(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV data: %w", err)
		}
		return fc, nil

	case TypeGeoJSON:
		data, err := src.Get(ctx, cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch GeoJSON data: %w", err)
		}
		return geo.DecodeGeoJSON(data)

	case TypeShapefile:
		path, ok := src.LocalPath(cfg.Path)
		if !ok {
			return nil, fmt.Errorf("shapefile layer %q needs a local data directory", cfg.ID)
		}
		return geo.LoadShapefile(path)

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, cfg.Type)
	}
}
