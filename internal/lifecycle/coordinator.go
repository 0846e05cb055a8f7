// Package lifecycle mirrors layer data state and the visibility set onto a map.
package lifecycle

import (
	"riskmap/internal/debug"
	"riskmap/internal/layer"

	"github.com/paulmach/orb/geojson"
)

// Status is the data-loading state of one layer
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusFailed
)

// String returns a string representation of the status
func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "Loading"
	case StatusReady:
		return "Ready"
	case StatusFailed:
		return "Failed"
	default:
		return "Idle"
	}
}

// Query is the data state of one layer
type Query struct {
	Status  Status
	Data    *geojson.FeatureCollection
	Err     error
	Version uint64
}

// Target is the map layers are mounted on.
// AddLayer either adds the layer or replaces the data of an existing one.
type Target interface {
	AddLayer(cfg layer.Config, data *geojson.FeatureCollection)
	RemoveLayer(cfg layer.Config)
}

// Coordinator tracks per-layer queries and which data version is mounted on the target
type Coordinator struct {
	queries map[string]*Query
	mounted map[string]uint64
	version uint64
}

// New creates an empty coordinator
func New() *Coordinator {
	return &Coordinator{
		queries: make(map[string]*Query),
		mounted: make(map[string]uint64),
	}
}

func (c *Coordinator) query(id string) *Query {
	q, ok := c.queries[id]
	if !ok {
		q = &Query{}
		c.queries[id] = q
	}
	return q
}

// Query returns a copy of the layer's state
func (c *Coordinator) Query(id string) Query {
	if q, ok := c.queries[id]; ok {
		return *q
	}
	return Query{}
}

// Begin marks a layer as loading. Previously loaded data stays available.
func (c *Coordinator) Begin(id string) {
	q := c.query(id)
	q.Status = StatusLoading
	q.Err = nil
}

// Resolve stores freshly loaded data under a new version
func (c *Coordinator) Resolve(id string, data *geojson.FeatureCollection) {
	c.version++

	q := c.query(id)
	q.Status = StatusReady
	q.Data = data
	q.Err = nil
	q.Version = c.version
}

// Fail records a load error and discards any data
func (c *Coordinator) Fail(id string, err error) {
	q := c.query(id)
	q.Status = StatusFailed
	q.Data = nil
	q.Err = err
}

// Apply records a loader result
func (c *Coordinator) Apply(r layer.Result) {
	if r.Err != nil {
		c.Fail(r.ID, r.Err)
		return
	}
	c.Resolve(r.ID, r.Data)
}

// Pending returns the layers that still need a fetch. Nothing is fetched before the map is ready.
func (c *Coordinator) Pending(mapLoaded bool, configs []layer.Config) []layer.Config {
	if !mapLoaded {
		return nil
	}

	var pending []layer.Config
	for _, cfg := range configs {
		if c.Query(cfg.ID).Status == StatusIdle {
			pending = append(pending, cfg)
		}
	}
	return pending
}

// Reconcile adds, updates or removes every configured layer on target.
// Visible layers with ready data are mounted, hidden layers are removed, and a
// visible layer without ready data is left as it is.
func (c *Coordinator) Reconcile(target Target, configs []layer.Config, visible *layer.Visibility) {
	for _, cfg := range configs {
		q := c.Query(cfg.ID)
		isVisible := visible.Has(cfg.ID)
		version, isMounted := c.mounted[cfg.ID]

		switch {
		case q.Status == StatusReady && q.Data != nil && isVisible:
			if isMounted && version == q.Version {
				continue
			}
			debug.Log("mount layer %s on source %s (version %d, %d features)", cfg.LayerID(), cfg.SourceID(), q.Version, len(q.Data.Features))
			target.AddLayer(cfg, q.Data)
			c.mounted[cfg.ID] = q.Version

		case !isVisible:
			if !isMounted {
				continue
			}
			debug.Log("unmount layer %s", cfg.LayerID())
			target.RemoveLayer(cfg)
			delete(c.mounted, cfg.ID)
		}
	}
}

// Mounted returns true if the layer is currently on the target
func (c *Coordinator) Mounted(id string) bool {
	_, ok := c.mounted[id]
	return ok
}

// IsLoading returns true while any layer is loading
func (c *Coordinator) IsLoading() bool {
	for _, q := range c.queries {
		if q.Status == StatusLoading {
			return true
		}
	}
	return false
}

// IsError returns true if any layer failed to load
func (c *Coordinator) IsError() bool {
	for _, q := range c.queries {
		if q.Status == StatusFailed {
			return true
		}
	}
	return false
}

// Errors returns the load errors in configuration order
func (c *Coordinator) Errors(configs []layer.Config) []error {
	var errs []error
	for _, cfg := range configs {
		if q := c.Query(cfg.ID); q.Status == StatusFailed {
			errs = append(errs, q.Err)
		}
	}
	return errs
}

// ToggleAllowed returns false while the layer is loading or after it failed
func (c *Coordinator) ToggleAllowed(id string) bool {
	switch c.Query(id).Status {
	case StatusLoading, StatusFailed:
		return false
	default:
		return true
	}
}
