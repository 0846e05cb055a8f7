package layer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Type names the format of a layer's data resource
type Type string

const (
	TypeCSV       Type = "csv"
	TypeGeoJSON   Type = "geojson"
	TypeShapefile Type = "shapefile"
)

// ErrInvalidConfig is returned when the layer configuration cannot be used
var ErrInvalidConfig = errors.New("invalid layer configuration")

// Config identifies one dataset and its display treatment
type Config struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Type   Type   `json:"type"`
	Path   string `json:"path"`
	Color  string `json:"color"`
	Region string `json:"region,omitempty"`
}

// SourceID is the id the layer's data is registered under on the map
func (c Config) SourceID() string {
	return c.ID + "-source"
}

// LayerID is the id the layer's drawing is registered under on the map
func (c Config) LayerID() string {
	return c.ID + "-layer"
}

// Fetcher reads a resource without caching
type Fetcher interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// LoadConfigs reads the JSON array of layer configurations at path
func LoadConfigs(ctx context.Context, fetcher Fetcher, path string) ([]Config, error) {
	data, err := fetcher.Fetch(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load layer configuration: %w", err)
	}

	return ParseConfigs(data)
}

// ParseConfigs decodes and validates a JSON array of layer configurations
func ParseConfigs(data []byte) ([]Config, error) {
	var configs []Config
	if err := json.Unmarshal(data, &configs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if err := Validate(configs); err != nil {
		return nil, err
	}

	return configs, nil
}

// Validate checks ids are present and unique and every layer has a path.
// Unknown types are left to fail when their data is loaded.
func Validate(configs []Config) error {
	seen := make(map[string]bool, len(configs))

	for i, c := range configs {
		if c.ID == "" {
			return fmt.Errorf("%w: layer %d has no id", ErrInvalidConfig, i)
		}
		if seen[c.ID] {
			return fmt.Errorf("%w: duplicate layer id %q", ErrInvalidConfig, c.ID)
		}
		seen[c.ID] = true

		if c.Path == "" {
			return fmt.Errorf("%w: layer %q has no path", ErrInvalidConfig, c.ID)
		}
	}

	return nil
}

// CountByType returns how many configurations have the given type
func CountByType(configs []Config, t Type) int {
	count := 0
	for _, c := range configs {
		if c.Type == t {
			count++
		}
	}
	return count
}
