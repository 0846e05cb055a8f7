package geo

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Column names read from tabular risk exports
const (
	ColumnLongitude   = "Longitude"
	ColumnLatitude    = "Latitude"
	ColumnBuildingTIV = "BuildingTIV"
)

// ParseCSV converts a tabular export with Longitude/Latitude columns into point features.
// Rows with missing or non-numeric coordinates are skipped.
func ParseCSV(r io.Reader) (*geojson.FeatureCollection, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return geojson.NewFeatureCollection(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	colIndices := make(map[string]int, len(header))
	for i, col := range header {
		colIndices[col] = i
	}

	fc := geojson.NewFeatureCollection()

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				continue
			}
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}

		lon, ok := coordinate(record, colIndices, ColumnLongitude)
		if !ok {
			continue
		}
		lat, ok := coordinate(record, colIndices, ColumnLatitude)
		if !ok {
			continue
		}

		feature := geojson.NewFeature(orb.Point{lon, lat})
		for i, col := range header {
			if i < len(record) {
				feature.Properties[col] = record[i]
			}
		}

		if raw, ok := feature.Properties[ColumnBuildingTIV].(string); ok {
			feature.Properties[ColumnBuildingTIV] = number(raw)
		}

		fc.Append(feature)
	}

	return fc, nil
}

func coordinate(record []string, colIndices map[string]int, column string) (float64, bool) {
	idx, ok := colIndices[column]
	if !ok || idx >= len(record) || record[idx] == "" {
		return 0, false
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(record[idx]), 64)
	if err != nil || !finite(v) {
		return 0, false
	}

	return v, true
}

// number returns raw as a float64, or nil when it is empty or not numeric
func number(raw string) interface{} {
	if raw == "" {
		return nil
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || !finite(v) {
		return nil
	}

	return v
}
