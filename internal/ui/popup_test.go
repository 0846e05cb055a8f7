package ui

import (
	"math"
	"reflect"
	"testing"

	"riskmap/internal/layer"

	"github.com/paulmach/orb/geojson"
)

func TestPopupContent(t *testing.T) {
	var cases = []struct {
		intention string
		props     geojson.Properties
		cfg       layer.Config
		want      Popup
	}{
		{
			"flood point",
			geojson.Properties{"LocGroup": "Ward 4", "LocPerilsCovered": "Flood", "BuildingTIV": 1250000.0, "Longitude": "85.3"},
			layer.Config{ID: "flood", Name: "Flood Risk Points"},
			Popup{
				Title: "Flood Risk Points",
				Fields: []Field{
					{"Location Group", "Ward 4"},
					{"Peril Type", "Flood"},
					{"Building TIV", "$1,250,000"},
				},
			},
		},
		{
			"flood point without values",
			geojson.Properties{"LocGroup": "", "BuildingTIV": nil},
			layer.Config{ID: "flood", Name: "Flood Risk Points"},
			Popup{
				Title: "Flood Risk Points",
				Fields: []Field{
					{"Location Group", "N/A"},
					{"Peril Type", "N/A"},
					{"Building TIV", "N/A"},
				},
			},
		},
		{
			"earthquake zone",
			geojson.Properties{"Damage": "High", "Source": "USGS"},
			layer.Config{ID: "earthquake", Name: "Earthquake Risk Zones"},
			Popup{
				Title: "Earthquake Risk Zones",
				Fields: []Field{
					{"Damage Level", "High"},
					{"Source", "USGS"},
				},
			},
		},
		{
			"generic layer",
			geojson.Properties{"zone": "B", "Longitude": "85.3", "Latitude": "27.7", "depth": 2.5, "note": ""},
			layer.Config{ID: "landslide", Name: "Landslide"},
			Popup{
				Title: "Landslide",
				Fields: []Field{
					{"depth", "2.5"},
					{"note", "N/A"},
					{"zone", "B"},
				},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.intention, func(t *testing.T) {
			if got := PopupContent(tc.props, tc.cfg); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("PopupContent() = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestCurrency(t *testing.T) {
	var cases = []struct {
		intention string
		input     interface{}
		want      string
	}{
		{"integral", 987654321.0, "$987,654,321"},
		{"fractional", 1234.5, "$1,234.5"},
		{"string", "1.2M", "$1.2M"},
		{"missing", nil, "N/A"},
		{"zero", 0.0, "N/A"},
		{"negative zero", math.Copysign(0, -1), "N/A"},
	}

	for _, tc := range cases {
		t.Run(tc.intention, func(t *testing.T) {
			if got := currency(tc.input); got != tc.want {
				t.Errorf("currency() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPopupLines(t *testing.T) {
	p := Popup{Fields: []Field{{"Source", "USGS"}, {"Damage Level", "High"}}}
	want := []string{"Source:        USGS", "Damage Level:  High"}

	if got := p.Lines(); !reflect.DeepEqual(got, want) {
		t.Errorf("Lines() = %q, want %q", got, want)
	}
}
