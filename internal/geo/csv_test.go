package geo

import (
	"strings"
	"testing"

	"github.com/paulmach/orb"
)

func TestParseCSV(t *testing.T) {
	var cases = []struct {
		intention string
		input     string
		want      []orb.Point
	}{
		{
			"empty input",
			"",
			nil,
		},
		{
			"header only",
			"Longitude,Latitude,LocGroup\n",
			nil,
		},
		{
			"valid rows",
			"Longitude,Latitude,LocGroup\n85.31,27.71,A\n85.32,27.69,B\n",
			[]orb.Point{{85.31, 27.71}, {85.32, 27.69}},
		},
		{
			"skips blank lines and missing coordinates",
			"Longitude,Latitude\n\n85.3,27.7\n,27.7\n85.3,\n\n",
			[]orb.Point{{85.3, 27.7}},
		},
		{
			"skips non numeric and non finite coordinates",
			"Longitude,Latitude\nabc,27.7\n85.3,NaN\nInf,27.7\n85.4,27.6\n",
			[]orb.Point{{85.4, 27.6}},
		},
		{
			"missing coordinate columns",
			"Lon,Lat\n85.3,27.7\n",
			nil,
		},
		{
			"short rows",
			"LocGroup,Longitude,Latitude\nA,85.3\nB,85.3,27.7\n",
			[]orb.Point{{85.3, 27.7}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.intention, func(t *testing.T) {
			fc, err := ParseCSV(strings.NewReader(tc.input))
			if err != nil {
				t.Fatalf("ParseCSV() error = %v", err)
			}

			if len(fc.Features) != len(tc.want) {
				t.Fatalf("ParseCSV() = %d features, want %d", len(fc.Features), len(tc.want))
			}
			for i, f := range fc.Features {
				if got := f.Geometry.(orb.Point); !got.Equal(tc.want[i]) {
					t.Errorf("feature %d = %v, want %v", i, got, tc.want[i])
				}
			}
		})
	}
}

func TestParseCSVProperties(t *testing.T) {
	input := "\ufeffLongitude,Latitude,LocGroup,LocPerilsCovered,BuildingTIV\n" +
		"85.3,27.7,Group 1,Flood,1250000\n" +
		"85.4,27.6,Group 2,Flood,\n" +
		"85.5,27.5,Group 3,Flood,unknown\n"

	fc, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseCSV() error = %v", err)
	}
	if len(fc.Features) != 3 {
		t.Fatalf("ParseCSV() = %d features, want 3", len(fc.Features))
	}

	props := fc.Features[0].Properties
	if props["LocGroup"] != "Group 1" || props["LocPerilsCovered"] != "Flood" {
		t.Errorf("string properties = %v", props)
	}
	if props["Longitude"] != "85.3" {
		t.Errorf("Longitude property = %#v, want raw string", props["Longitude"])
	}
	if props[ColumnBuildingTIV] != 1250000.0 {
		t.Errorf("BuildingTIV = %#v, want 1250000.0", props[ColumnBuildingTIV])
	}

	for _, f := range fc.Features[1:] {
		if v, ok := f.Properties[ColumnBuildingTIV]; !ok || v != nil {
			t.Errorf("BuildingTIV = %#v (present %t), want nil", v, ok)
		}
	}
}
