package upgrade

import (
	"context"
	"fmt"
	"sort"

	"github.com/Masterminds/semver/v3"
	"golang.org/x/sync/errgroup"

	"github.com/emenda-labs/capgrade/core/manifest"
	"github.com/emenda-labs/capgrade/core/source"
)

// ProbeResult is the outcome of probing one hosted target: either the
// earliest published version declaring the feature, or a finding that no
// such version exists.
type ProbeResult struct {
	Name       string
	Capable    bool
	Constraint manifest.Constraint
}

// ProbeTargets finds, for every hosted dependency in the target set, the
// first published version (scanning ascending) whose descriptor declares
// the feature, and derives a lower-bound-only constraint from it.
//
// Non-hosted dependencies and names outside the target set are never
// probed. Probes for distinct names run concurrently; results are merged at
// the join into declaration order, so output never depends on completion
// order. Probing continues across incapable targets: the returned incapable
// list covers every target without a capable version, which the caller
// needs to report them all at once.
func ProbeTargets(ctx context.Context, lister source.VersionLister, describer source.Describer, m *manifest.Manifest, targets map[string]bool, feature string, concurrency int) (probed map[string]manifest.Constraint, incapable []string, err error) {
	var hosted []manifest.PackageRange
	for _, pr := range append(append([]manifest.PackageRange(nil), m.Dependencies...), m.DevDependencies...) {
		if pr.Source == manifest.SourceHosted && targets[pr.Name] {
			hosted = append(hosted, pr)
		}
	}

	results := make([]ProbeResult, len(hosted))
	g, gctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, pr := range hosted {
		i, pr := i, pr
		g.Go(func() error {
			res, err := probeOne(gctx, lister, describer, pr.Name, feature)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	probed = make(map[string]manifest.Constraint, len(results))
	for _, res := range results {
		if res.Capable {
			probed[res.Name] = res.Constraint
		} else {
			incapable = append(incapable, res.Name)
		}
	}
	return probed, incapable, nil
}

func probeOne(ctx context.Context, lister source.VersionLister, describer source.Describer, name, feature string) (ProbeResult, error) {
	versions, err := lister.ListVersions(ctx, name)
	if err != nil {
		return ProbeResult{}, fmt.Errorf("listing versions of %s: %w", name, err)
	}
	ordered := append([]*semver.Version(nil), versions...)
	sort.Sort(semver.Collection(ordered))

	for _, v := range ordered {
		desc, err := describer.Describe(ctx, source.PackageID{Name: name, Version: v, Source: manifest.SourceHosted})
		if err != nil {
			return ProbeResult{}, fmt.Errorf("describing %s %s: %w", name, v, err)
		}
		if desc.HasFeature(feature) {
			return ProbeResult{Name: name, Capable: true, Constraint: manifest.AtLeast(v)}, nil
		}
	}
	return ProbeResult{Name: name, Capable: false}, nil
}
