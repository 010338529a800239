// Package config loads the optional .capgrade.toml tool configuration.
// Flags always override file values; the file covers settings that rarely
// change per invocation, like the registry chain and cache policy.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// FileName is the config file looked up next to the manifest.
const FileName = ".capgrade.toml"

// Config is the tool-level configuration.
type Config struct {
	// Registries overrides the registry fallback chain.
	Registries []string `toml:"registries"`
	// CacheDir overrides the metadata cache location.
	CacheDir string `toml:"cache_dir"`
	// CacheTTLHours is how long cached metadata stays fresh.
	CacheTTLHours int `toml:"cache_ttl_hours"`
	// Concurrency bounds the probe fan-out. Zero means the default.
	Concurrency int `toml:"concurrency"`
}

// DefaultConcurrency bounds concurrent registry lookups when the config
// does not say otherwise.
const DefaultConcurrency = 8

// Load reads the config file in dir. A missing file yields a zero Config.
func Load(dir string) (*Config, error) {
	var cfg Config
	path := filepath.Join(dir, FileName)
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return &cfg, nil
}

// CacheTTL returns the configured TTL, or zero when unset so the cache
// applies its own default.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLHours) * time.Hour
}

// ProbeConcurrency returns the configured fan-out bound or the default.
func (c *Config) ProbeConcurrency() int {
	if c.Concurrency > 0 {
		return c.Concurrency
	}
	return DefaultConcurrency
}
