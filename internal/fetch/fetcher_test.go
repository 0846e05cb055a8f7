package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"riskmap/internal/cache"

	"github.com/cenkalti/backoff/v4"
)

func fastRetry() Option {
	return WithRetry(3, time.Millisecond, 5*time.Millisecond)
}

func TestResolve(t *testing.T) {
	var cases = []struct {
		intention string
		base      string
		path      string
		want      string
	}{
		{"remote base", "https://example.com/civic-layers", "/data/flood.csv", "https://example.com/civic-layers/data/flood.csv"},
		{"remote base trailing slash", "https://example.com/", "config/layers.json", "https://example.com/config/layers.json"},
		{"absolute url wins", "/srv/data", "https://cdn.example.com/eq.geojson", "https://cdn.example.com/eq.geojson"},
		{"local base", "/srv/public", "/data/flood.csv", filepath.Join("/srv/public", "data", "flood.csv")},
	}

	for _, tc := range cases {
		t.Run(tc.intention, func(t *testing.T) {
			if got := New(tc.base).Resolve(tc.path); got != tc.want {
				t.Errorf("Resolve() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestFetchStatus(t *testing.T) {
	var cases = []struct {
		intention string
		codes     []int
		wantCalls int32
		wantErr   bool
	}{
		{"ok", []int{http.StatusOK}, 1, false},
		{"not found is not retried", []int{http.StatusNotFound}, 1, true},
		{"server error is retried", []int{http.StatusInternalServerError}, 4, true},
		{"recovers after transient failure", []int{http.StatusServiceUnavailable, http.StatusOK}, 2, false},
	}

	for _, tc := range cases {
		t.Run(tc.intention, func(t *testing.T) {
			var calls int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := atomic.AddInt32(&calls, 1)
				code := tc.codes[len(tc.codes)-1]
				if int(n) <= len(tc.codes) {
					code = tc.codes[n-1]
				}
				w.WriteHeader(code)
				_, _ = w.Write([]byte("payload"))
			}))
			defer server.Close()

			data, err := New(server.URL, fastRetry(), WithClient(server.Client())).Fetch(context.Background(), "/data/flood.csv")
			if (err != nil) != tc.wantErr {
				t.Fatalf("Fetch() error = %v, wantErr %t", err, tc.wantErr)
			}
			if err != nil && !errors.Is(err, ErrHTTPStatus) {
				t.Errorf("Fetch() error = %v, want ErrHTTPStatus", err)
			}
			if err == nil && string(data) != "payload" {
				t.Errorf("Fetch() = %q", data)
			}
			if got := atomic.LoadInt32(&calls); got != tc.wantCalls {
				t.Errorf("server calls = %d, want %d", got, tc.wantCalls)
			}
		})
	}
}

func TestFetchCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New(server.URL, WithRetry(3, time.Hour, time.Hour)).Fetch(ctx, "x.csv"); err == nil {
		t.Error("Fetch() with cancelled context succeeded")
	}
}

func TestGetUsesCache(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`{"type":"FeatureCollection","features":[]}`))
	}))
	defer server.Close()

	store, err := cache.NewFileStore(t.TempDir(), time.Minute)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	f := New(server.URL, WithCache(store), fastRetry())
	for i := 0; i < 3; i++ {
		if _, err := f.Get(context.Background(), "/data/earthquake.geojson"); err != nil {
			t.Fatalf("Get #%d: %v", i, err)
		}
	}

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("server calls = %d, want 1", got)
	}
}

func TestGetLocal(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config", "layers.json"), []byte("[]"), 0o644); err != nil {
		t.Fatal(err)
	}

	f := New(dir, fastRetry())

	data, err := f.Get(context.Background(), "/config/layers.json")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("Get = %q", data)
	}

	if _, err := f.Get(context.Background(), "missing.json"); err == nil {
		t.Error("Get on missing file succeeded")
	}

	if _, ok := f.LocalPath("data/zones.shp"); !ok {
		t.Error("LocalPath() on directory base = false")
	}
	if _, ok := New("https://example.com").LocalPath("data/zones.shp"); ok {
		t.Error("LocalPath() on url base = true")
	}
}

func TestRetryDelays(t *testing.T) {
	var cases = []struct {
		intention string
		opts      []Option
		want      []time.Duration
	}{
		{
			"defaults double from one second",
			nil,
			[]time.Duration{time.Second, 2 * time.Second, 4 * time.Second},
		},
		{
			"delays stop growing at thirty seconds",
			[]Option{WithRetry(7, time.Second, 30*time.Second)},
			[]time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second, 16 * time.Second, 30 * time.Second, 30 * time.Second},
		},
		{
			"small cap",
			[]Option{WithRetry(5, time.Second, 3*time.Second)},
			[]time.Duration{time.Second, 2 * time.Second, 3 * time.Second, 3 * time.Second, 3 * time.Second},
		},
	}

	for _, tc := range cases {
		t.Run(tc.intention, func(t *testing.T) {
			policy := New("https://example.com", tc.opts...).policy(context.Background())

			for i, want := range tc.want {
				if got := policy.NextBackOff(); got != want {
					t.Errorf("delay %d = %s, want %s", i, got, want)
				}
			}

			if got := policy.NextBackOff(); got != backoff.Stop {
				t.Errorf("delay after %d retries = %s, want Stop", len(tc.want), got)
			}
		})
	}
}

func TestRetryStopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	policy := New("https://example.com").policy(ctx)
	cancel()

	if got := policy.NextBackOff(); got != backoff.Stop {
		t.Errorf("NextBackOff() after cancel = %s, want Stop", got)
	}
}
