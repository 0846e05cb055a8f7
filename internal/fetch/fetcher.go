package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"riskmap/internal/cache"
	"riskmap/internal/debug"

	"github.com/cenkalti/backoff/v4"
)

// ErrHTTPStatus marks a non-2xx response
var ErrHTTPStatus = errors.New("unexpected status")

// StatusError carries the response status of a failed fetch
type StatusError struct {
	Location string
	Code     int
	Status   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %s", e.Location, e.Status)
}

// Unwrap lets callers test with errors.Is(err, ErrHTTPStatus)
func (e *StatusError) Unwrap() error {
	return ErrHTTPStatus
}

const (
	defaultRetries = 3
	userAgent      = "Mozilla/5.0 (compatible; riskmap/1.0)"
)

// Fetcher resolves dataset paths against a base (URL or local directory) and reads them
type Fetcher struct {
	base       string
	remote     bool
	client     *http.Client
	store      cache.Store
	retries    uint64
	initial    time.Duration
	maxBackoff time.Duration
}

// Option tweaks a Fetcher
type Option func(*Fetcher)

// WithCache stores successful payloads in store
func WithCache(store cache.Store) Option {
	return func(f *Fetcher) {
		f.store = store
	}
}

// WithRetry overrides the retry count and delay bounds
func WithRetry(retries uint64, initial, max time.Duration) Option {
	return func(f *Fetcher) {
		f.retries = retries
		f.initial = initial
		f.maxBackoff = max
	}
}

// WithClient overrides the HTTP client
func WithClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// New creates a Fetcher for base, which is either an http(s) URL or a directory
func New(base string, opts ...Option) *Fetcher {
	f := &Fetcher{
		base:       base,
		remote:     isURL(base),
		client:     &http.Client{Timeout: 30 * time.Second},
		store:      cache.Nop{},
		retries:    defaultRetries,
		initial:    time.Second,
		maxBackoff: 30 * time.Second,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Resolve returns the location p refers to
func (f *Fetcher) Resolve(p string) string {
	if isURL(p) {
		return p
	}

	if f.remote {
		u, err := url.Parse(f.base)
		if err != nil {
			return f.base + "/" + strings.TrimPrefix(p, "/")
		}
		u.Path = path.Join(u.Path, p)
		return u.String()
	}

	// leading slashes are site-root relative, like the paths in layers.json
	return filepath.Join(f.base, filepath.FromSlash(strings.TrimPrefix(p, "/")))
}

// LocalPath returns the filesystem path for p, or false when p resolves to a URL
func (f *Fetcher) LocalPath(p string) (string, bool) {
	loc := f.Resolve(p)
	if isURL(loc) {
		return "", false
	}
	return loc, true
}

// Get returns the payload at p, serving it from the cache while fresh
func (f *Fetcher) Get(ctx context.Context, p string) ([]byte, error) {
	loc := f.Resolve(p)

	data, err := f.store.Get(ctx, loc)
	if err == nil {
		debug.Log("cache hit for %s", loc)
		return data, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		debug.Warn("cache read failed", "location", loc, "error", err)
	}

	data, err = f.Fetch(ctx, p)
	if err != nil {
		return nil, err
	}

	if err := f.store.Set(ctx, loc, data); err != nil {
		debug.Warn("cache write failed", "location", loc, "error", err)
	}

	return data, nil
}

// Fetch reads the payload at p, retrying transient failures with exponential delay
func (f *Fetcher) Fetch(ctx context.Context, p string) ([]byte, error) {
	loc := f.Resolve(p)

	var data []byte
	operation := func() error {
		var err error
		data, err = f.read(ctx, loc)
		return err
	}

	notify := func(err error, wait time.Duration) {
		debug.Log("fetch %s failed, retrying in %s: %v", loc, wait, err)
	}

	if err := backoff.RetryNotify(operation, f.policy(ctx), notify); err != nil {
		return nil, err
	}

	return data, nil
}

func (f *Fetcher) policy(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = f.initial
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = f.maxBackoff
	b.MaxElapsedTime = 0
	b.Reset()

	return backoff.WithContext(backoff.WithMaxRetries(b, f.retries), ctx)
}

func (f *Fetcher) read(ctx context.Context, loc string) ([]byte, error) {
	if !isURL(loc) {
		data, err := os.ReadFile(loc)
		if err != nil {
			return nil, backoff.Permanent(fmt.Errorf("failed to read %s: %w", loc, err))
		}
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", loc, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)

		statusErr := &StatusError{Location: loc, Code: resp.StatusCode, Status: resp.Status}
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, backoff.Permanent(statusErr)
		}
		return nil, statusErr
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", loc, err)
	}

	return data, nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
