package layer

import (
	"context"
	"time"

	"riskmap/internal/debug"

	"github.com/paulmach/orb/geojson"
	"golang.org/x/sync/errgroup"
)

const defaultParallelism = 4

// Result is the outcome of loading one layer
type Result struct {
	ID   string
	Data *geojson.FeatureCollection
	Err  error
}

// Loader loads every layer's data concurrently
type Loader struct {
	source      Source
	parallelism int
}

// NewLoader creates a loader reading from source
func NewLoader(source Source, parallelism int) *Loader {
	if parallelism <= 0 {
		parallelism = defaultParallelism
	}

	return &Loader{
		source:      source,
		parallelism: parallelism,
	}
}

// Load fetches every layer, calling start before and done after each one.
// A failing layer is reported through done and does not stop the others.
// Callbacks run on loader goroutines.
func (l *Loader) Load(ctx context.Context, configs []Config, start func(id string), done func(Result)) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.parallelism)

	if start != nil {
		for _, cfg := range configs {
			start(cfg.ID)
		}
	}

	for _, cfg := range configs {
		cfg := cfg

		g.Go(func() error {
			began := time.Now()
			data, err := LoadData(ctx, l.source, cfg)

			if err != nil {
				debug.Warn("layer load failed", "layer", cfg.ID, "path", cfg.Path, "error", err)
			} else {
				debug.Log("layer %s loaded %d features in %s", cfg.ID, len(data.Features), time.Since(began))
			}

			done(Result{ID: cfg.ID, Data: data, Err: err})

			return ctx.Err()
		})
	}

	return g.Wait()
}
