package upgrade

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/Masterminds/semver/v3"

	"github.com/emenda-labs/capgrade/core/manifest"
	"github.com/emenda-labs/capgrade/core/solver"
	"github.com/emenda-labs/capgrade/core/source"
)

// fakeRegistry scripts both the version lister and the describer: published
// versions per package, and the minimum version at which each package
// declares the feature (empty string means never).
type fakeRegistry struct {
	versions     map[string][]string
	featureSince map[string]string

	mu        sync.Mutex
	describes int
}

var (
	_ source.VersionLister = (*fakeRegistry)(nil)
	_ source.Describer     = (*fakeRegistry)(nil)
)

func (f *fakeRegistry) ListVersions(ctx context.Context, name string) ([]*semver.Version, error) {
	raw, ok := f.versions[name]
	if !ok {
		return nil, fmt.Errorf("unknown package %s", name)
	}
	out := make([]*semver.Version, len(raw))
	for i, s := range raw {
		v, err := semver.StrictNewVersion(s)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (f *fakeRegistry) Describe(ctx context.Context, id source.PackageID) (source.Descriptor, error) {
	f.mu.Lock()
	f.describes++
	f.mu.Unlock()

	since, ok := f.featureSince[id.Name]
	if !ok || since == "" || id.Version == nil {
		return source.Descriptor{ID: id}, nil
	}
	floor, err := semver.StrictNewVersion(since)
	if err != nil {
		return source.Descriptor{}, err
	}
	if id.Version.Compare(floor) >= 0 {
		return source.Descriptor{ID: id, Features: []string{testFeature}}, nil
	}
	return source.Descriptor{ID: id}, nil
}

const testFeature = "strict-nullability"

// scriptedSolver returns a fixed resolution or error and records how often
// it ran.
type scriptedSolver struct {
	result map[string]source.PackageID
	err    error
	calls  int
}

var _ solver.Solver = (*scriptedSolver)(nil)

func (s *scriptedSolver) Resolve(ctx context.Context, m *manifest.Manifest, mode solver.Mode) (map[string]source.PackageID, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func mustVersion(t *testing.T, s string) *semver.Version {
	t.Helper()
	v, err := semver.StrictNewVersion(s)
	if err != nil {
		t.Fatalf("parse version %q: %v", s, err)
	}
	return v
}

func hostedID(t *testing.T, name, version string) source.PackageID {
	t.Helper()
	return source.PackageID{Name: name, Version: mustVersion(t, version), Source: manifest.SourceHosted}
}

func parseManifest(t *testing.T, doc string) *manifest.Manifest {
	t.Helper()
	m, err := manifest.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parse manifest: %v", err)
	}
	return m
}
