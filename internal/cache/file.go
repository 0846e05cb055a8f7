package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// FileStore caches payloads as files in a directory, using file mtime for freshness
type FileStore struct {
	cacheDir string
	ttl      time.Duration
	now      func() time.Time
}

// NewFileStore creates a new on-disk store
// If cacheDir is empty, uses ~/.riskmap/cache
func NewFileStore(cacheDir string, ttl time.Duration) (*FileStore, error) {
	if cacheDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		cacheDir = filepath.Join(home, ".riskmap", "cache")
	}

	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	return &FileStore{
		cacheDir: cacheDir,
		ttl:      ttl,
		now:      time.Now,
	}, nil
}

// Get returns the cached payload if it was written less than ttl ago
func (f *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	path := f.path(key)

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat cache entry: %w", err)
	}

	if f.now().Sub(info.ModTime()) >= f.ttl {
		return nil, ErrMiss
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache entry: %w", err)
	}

	return data, nil
}

// Set writes the payload through a temp file so readers never see partial data
func (f *FileStore) Set(_ context.Context, key string, data []byte) error {
	tmpFile, err := os.CreateTemp(f.cacheDir, "entry_*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write cache entry: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close cache entry: %w", err)
	}

	if err := os.Rename(tmpFile.Name(), f.path(key)); err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}

	return nil
}

// Dir returns the cache directory
func (f *FileStore) Dir() string {
	return f.cacheDir
}

func (f *FileStore) path(key string) string {
	sum := sha1.Sum([]byte(key))
	return filepath.Join(f.cacheDir, hex.EncodeToString(sum[:])+".cache")
}
