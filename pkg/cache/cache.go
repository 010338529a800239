// Package cache is a file-backed TTL cache for registry metadata. Entries
// are keyed by URL and stored under a single directory, so concurrent
// readers are safe and offline runs can fall back to whatever was fetched
// before.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"time"
)

// DefaultTTL is how long a cached entry is considered fresh.
const DefaultTTL = 24 * time.Hour

// Cache stores fetched metadata on disk with a freshness window.
type Cache struct {
	Dir string
	TTL time.Duration
}

// DefaultDir returns the per-user cache directory for the named tool.
func DefaultDir(appName string) (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appName), nil
}

// New creates a cache rooted at dir, creating the directory if needed.
func New(dir string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &Cache{Dir: dir, TTL: ttl}, nil
}

func (c *Cache) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(c.Dir, hex.EncodeToString(sum[:16]))
}

// Get returns the cached data for key if it exists and is still fresh.
func (c *Cache) Get(key string) ([]byte, bool) {
	data, age, ok := c.GetAny(key)
	if !ok || age > c.TTL {
		return nil, false
	}
	return data, true
}

// GetAny returns the cached data for key regardless of age, along with how
// old it is. Offline mode uses this and reports staleness to the caller
// instead of discarding the entry.
func (c *Cache) GetAny(key string) (data []byte, age time.Duration, ok bool) {
	path := c.path(key)
	info, err := os.Stat(path)
	if err != nil {
		return nil, 0, false
	}
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, 0, false
	}
	return data, time.Since(info.ModTime()), true
}

// Set stores data under key.
func (c *Cache) Set(key string, data []byte) error {
	return os.WriteFile(c.path(key), data, 0o644)
}

// Clear removes every cached entry.
func (c *Cache) Clear() error {
	entries, err := os.ReadDir(c.Dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			os.Remove(filepath.Join(c.Dir, entry.Name()))
		}
	}
	return nil
}
