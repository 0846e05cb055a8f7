package layer

import (
	"reflect"
	"testing"
)

func TestVisibility(t *testing.T) {
	configs := []Config{{ID: "flood"}, {ID: "earthquake"}, {ID: "landslide"}}
	v := NewVisibility(configs)

	if v.Len() != 3 {
		t.Fatalf("Len() = %d, want all layers visible", v.Len())
	}

	v.Set("earthquake", false)
	if v.Has("earthquake") {
		t.Error("Has(earthquake) after hide = true")
	}

	if got := v.Toggle("flood"); got {
		t.Error("Toggle(flood) = true, want hidden")
	}
	if got := v.Toggle("flood"); !got {
		t.Error("second Toggle(flood) = false, want shown")
	}

	v.Set("unknown", true)
	if v.Has("unknown") {
		t.Error("Set() accepted an unknown id")
	}

	if got, want := v.IDs(), []string{"flood", "landslide"}; !reflect.DeepEqual(got, want) {
		t.Errorf("IDs() = %v, want %v", got, want)
	}
	if v.Len() != 2 {
		t.Errorf("Len() = %d, want 2", v.Len())
	}
}
