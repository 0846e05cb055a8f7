package debug

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestSetOutput(t *testing.T) {
	defer SetOutput(io.Discard)

	var cases = []struct {
		intention string
		level     string
		wantDebug bool
	}{
		{"default level logs debug", "", true},
		{"info level drops debug", "info", false},
	}

	for _, tc := range cases {
		t.Run(tc.intention, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", tc.level)
			t.Setenv("LOG_FORMAT", "")

			var buf bytes.Buffer
			SetOutput(&buf)

			Log("loaded %d layers", 2)
			Warn("layer failed", "layer", "flood")

			out := buf.String()
			if got := strings.Contains(out, "loaded 2 layers"); got != tc.wantDebug {
				t.Errorf("debug line present = %t, want %t (%q)", got, tc.wantDebug, out)
			}
			if !strings.Contains(out, "layer=flood") {
				t.Errorf("warn line missing: %q", out)
			}
		})
	}
}

func TestDisabledByDefault(t *testing.T) {
	SetOutput(io.Discard)
	if Enabled() {
		t.Error("Enabled() = true, want false")
	}
}
