package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFileStore(t *testing.T) {
	ctx := context.Background()

	store, err := NewFileStore(t.TempDir(), time.Minute)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	if _, err := store.Get(ctx, "layers/flood.csv"); !errors.Is(err, ErrMiss) {
		t.Fatalf("Get on empty store = %v, want ErrMiss", err)
	}

	if err := store.Set(ctx, "layers/flood.csv", []byte("Longitude,Latitude")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := store.Get(ctx, "layers/flood.csv")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "Longitude,Latitude" {
		t.Errorf("Get = %q", got)
	}

	store.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if _, err := store.Get(ctx, "layers/flood.csv"); !errors.Is(err, ErrMiss) {
		t.Errorf("Get on stale entry = %v, want ErrMiss", err)
	}
}

func TestNew(t *testing.T) {
	var cases = []struct {
		intention string
		opts      Options
		wantErr   bool
	}{
		{"file", Options{Backend: BackendFile, Dir: t.TempDir()}, false},
		{"none", Options{Backend: BackendNone}, false},
		{"redis", Options{Backend: BackendRedis, RedisAddr: "127.0.0.1:0"}, false},
		{"unknown", Options{Backend: "memcached"}, true},
	}

	for _, tc := range cases {
		t.Run(tc.intention, func(t *testing.T) {
			store, err := New(tc.opts)
			if (err != nil) != tc.wantErr {
				t.Fatalf("New() error = %v, wantErr %t", err, tc.wantErr)
			}
			if err == nil && store == nil {
				t.Error("New() returned nil store")
			}
			if rs, ok := store.(*RedisStore); ok {
				rs.Close()
			}
		})
	}
}
