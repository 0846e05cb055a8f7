package ui

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"riskmap/internal/geo"
	"riskmap/internal/layer"

	"github.com/paulmach/orb/geojson"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const notAvailable = "N/A"

var printer = message.NewPrinter(language.English)

// Field is one labelled line of a popup
type Field struct {
	Label string
	Value string
}

// Popup is the detail shown for a selected feature
type Popup struct {
	Title  string
	Fields []Field
}

// PopupContent builds the detail for a feature of the given layer.
// Known risk layers get curated fields, anything else lists its properties.
func PopupContent(props geojson.Properties, cfg layer.Config) Popup {
	popup := Popup{Title: cfg.Name}
	if popup.Title == "" {
		popup.Title = cfg.ID
	}

	switch cfg.ID {
	case "flood":
		popup.Fields = []Field{
			{"Location Group", text(props["LocGroup"])},
			{"Peril Type", text(props["LocPerilsCovered"])},
			{"Building TIV", currency(props[geo.ColumnBuildingTIV])},
		}

	case "earthquake":
		popup.Fields = []Field{
			{"Damage Level", text(props["Damage"])},
			{"Source", text(props["Source"])},
		}

	default:
		keys := make([]string, 0, len(props))
		for key := range props {
			if key == geo.ColumnLongitude || key == geo.ColumnLatitude {
				continue
			}
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			popup.Fields = append(popup.Fields, Field{key, text(props[key])})
		}
	}

	return popup
}

// text renders a property value, using N/A for missing or empty values
func text(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return notAvailable
	case string:
		if value == "" {
			return notAvailable
		}
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	default:
		raw, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprint(value)
		}
		return string(raw)
	}
}

// currency renders an insured value with thousands separators
func currency(v interface{}) string {
	switch value := v.(type) {
	case float64:
		if value == 0 || math.IsNaN(value) || math.IsInf(value, 0) {
			return notAvailable
		}
		return "$" + grouped(value)
	case string:
		if value == "" {
			return notAvailable
		}
		return "$" + value
	default:
		return notAvailable
	}
}

func grouped(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return printer.Sprintf("%d", int64(v))
	}

	s := printer.Sprintf("%.3f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// Lines returns the popup fields formatted as aligned text lines
func (p Popup) Lines() []string {
	width := 0
	for _, f := range p.Fields {
		width = max(width, len(f.Label))
	}

	lines := make([]string, len(p.Fields))
	for i, f := range p.Fields {
		lines[i] = fmt.Sprintf("%-*s  %s", width+1, f.Label+":", f.Value)
	}
	return lines
}
