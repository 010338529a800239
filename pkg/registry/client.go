// Package registry talks to hosted package registries. A registry serves
// two endpoints per package: "<base>/<name>/@v/list" (newline-separated
// published versions) and "<base>/<name>/@v/<version>.info" (a JSON
// descriptor naming the language features that version supports).
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/emenda-labs/capgrade/core/source"
	"github.com/emenda-labs/capgrade/pkg/cache"
)

const (
	defaultRegistry   = "https://pkg.emenda.dev"
	httpClientTimeout = 30 * time.Second
	defaultUserAgent  = "capgrade/0.1.0"
)

// Options configures a Client.
type Options struct {
	// Registries is the fallback chain of registry base URLs. Empty falls
	// back to the CAPGRADE_REGISTRY environment variable, then to the
	// default registry. The entry "off" stops the chain.
	Registries []string
	// Cache, when set, stores fetched responses and serves fresh hits.
	Cache *cache.Cache
	// Offline restricts the client to the cache. Misses fail; stale hits
	// are reported on Warn rather than returned silently.
	Offline bool
	// Warn receives degraded-data notices. Defaults to os.Stderr.
	Warn    io.Writer
	Timeout time.Duration
}

// Client fetches package metadata from a chain of registries.
type Client struct {
	httpClient *http.Client
	userAgent  string
	registries []string
	cache      *cache.Cache
	offline    bool
	warn       io.Writer
}

var (
	_ source.VersionLister = (*Client)(nil)
	_ source.Describer     = (*Client)(nil)
)

// NewClient creates a Client. The registry chain is a comma- or
// pipe-separated list, the same convention the CAPGRADE_REGISTRY
// environment variable uses.
func NewClient(opts Options) *Client {
	registries := opts.Registries
	if len(registries) == 0 {
		raw := os.Getenv("CAPGRADE_REGISTRY")
		if strings.TrimSpace(raw) == "" {
			raw = defaultRegistry
		}
		registries = SplitChain(raw)
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = httpClientTimeout
	}
	warn := opts.Warn
	if warn == nil {
		warn = os.Stderr
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  defaultUserAgent,
		registries: registries,
		cache:      opts.Cache,
		offline:    opts.Offline,
		warn:       warn,
	}
}

// SplitChain parses a comma- or pipe-separated registry list.
func SplitChain(raw string) []string {
	normalized := strings.NewReplacer("|", ",").Replace(raw)
	parts := strings.Split(normalized, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, strings.TrimSuffix(trimmed, "/"))
		}
	}
	return out
}

// ListVersions fetches the published versions of the named package, sorted
// ascending.
func (c *Client) ListVersions(ctx context.Context, name string) ([]*semver.Version, error) {
	body, err := c.get(ctx, name, "list")
	if err != nil {
		return nil, err
	}

	var versions []*semver.Version
	for _, line := range strings.Split(string(body), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		v, err := semver.StrictNewVersion(line)
		if err != nil {
			return nil, fmt.Errorf("registry returned bad version %q for %s: %w", line, name, err)
		}
		versions = append(versions, v)
	}
	sort.Sort(semver.Collection(versions))
	return versions, nil
}

type infoResponse struct {
	Version  string   `json:"version"`
	Features []string `json:"features"`
}

// Describe fetches the descriptor for one hosted package version.
func (c *Client) Describe(ctx context.Context, id source.PackageID) (source.Descriptor, error) {
	if id.Version == nil {
		return source.Descriptor{}, fmt.Errorf("describe %s: no version", id.Name)
	}
	body, err := c.get(ctx, id.Name, id.Version.String()+".info")
	if err != nil {
		return source.Descriptor{}, err
	}

	var info infoResponse
	if err := json.Unmarshal(body, &info); err != nil {
		return source.Descriptor{}, fmt.Errorf("registry returned bad descriptor for %s %s: %w", id.Name, id.Version, err)
	}
	return source.Descriptor{ID: id, Features: info.Features}, nil
}

// validName matches registry package names: lowercase alphanumerics joined
// by '.', '-', or '_'. Every accepted name is URL-safe as-is, so paths are
// built without further escaping.
var validName = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9._-]*[a-z0-9])?$`)

// get fetches "<name>/@v/<suffix>" through the cache and the registry
// chain.
func (c *Client) get(ctx context.Context, name, suffix string) ([]byte, error) {
	if !validName.MatchString(name) {
		return nil, fmt.Errorf("invalid package name %q", name)
	}
	key := name + "/@v/" + suffix

	if c.offline {
		if c.cache == nil {
			return nil, fmt.Errorf("offline mode with no cache configured")
		}
		data, age, ok := c.cache.GetAny(key)
		if !ok {
			return nil, fmt.Errorf("offline mode: %s not in cache", key)
		}
		if age > c.cache.TTL {
			fmt.Fprintf(c.warn, "warning: using stale cached metadata for %s (offline mode, %s old)\n", key, age.Round(time.Minute))
		}
		return data, nil
	}

	if c.cache != nil {
		if data, ok := c.cache.Get(key); ok {
			return data, nil
		}
	}

	for i, base := range c.registries {
		if base == "off" {
			return nil, fmt.Errorf("registry chain contains 'off': %s unavailable", key)
		}

		url := fmt.Sprintf("%s/%s", base, key)
		data, tryNext, fetchErr := c.fetch(ctx, url)
		if fetchErr == nil {
			if c.cache != nil {
				if err := c.cache.Set(key, data); err != nil {
					fmt.Fprintf(c.warn, "warning: failed to cache %s: %v\n", key, err)
				}
			}
			return data, nil
		}

		if tryNext && i < len(c.registries)-1 {
			continue
		}
		return nil, fetchErr
	}

	return nil, fmt.Errorf("%s not found on any registry", key)
}

// fetch performs a single HTTP GET. tryNext signals that the caller should
// attempt the next registry in the chain.
func (c *Client) fetch(ctx context.Context, url string) (data []byte, tryNext bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("building request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Network-level error; the next registry may still answer.
		return nil, true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
		return nil, true, fmt.Errorf("registry returned %d for %s", resp.StatusCode, url)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	data, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("reading response body from %s: %w", url, err)
	}
	return data, false, nil
}
