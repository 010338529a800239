// Package resolve is the default whole-graph solver wired into the CLI: a
// maximal-satisfying assignment over the manifest's declared dependencies.
// The engine depends only on the solver interface, so richer solvers can
// replace this one without touching the upgrade pipeline.
package resolve

import (
	"context"

	"github.com/Masterminds/semver/v3"

	"github.com/emenda-labs/capgrade/core/manifest"
	"github.com/emenda-labs/capgrade/core/solver"
	"github.com/emenda-labs/capgrade/core/source"
	"github.com/emenda-labs/capgrade/pkg/lockfile"
)

// Resolver assigns each hosted dependency the highest published version its
// effective constraint admits. Dependency overrides take precedence over
// declared constraints. Non-hosted dependencies pass through with their
// source binding and no registry lookup.
type Resolver struct {
	Lister source.VersionLister

	// Lock pins locked-mode resolution: a hosted dependency whose recorded
	// version still satisfies its effective constraint keeps that version
	// instead of floating to the newest. Nil resolves every mode fresh.
	Lock *lockfile.Lockfile
}

var _ solver.Solver = (*Resolver)(nil)

func (r *Resolver) Resolve(ctx context.Context, m *manifest.Manifest, mode solver.Mode) (map[string]source.PackageID, error) {
	out := make(map[string]source.PackageID)
	for _, section := range [][]manifest.PackageRange{m.Dependencies, m.DevDependencies} {
		for _, pr := range section {
			id, err := r.resolveOne(ctx, m, pr, mode)
			if err != nil {
				return nil, err
			}
			out[pr.Name] = id
		}
	}
	return out, nil
}

func (r *Resolver) resolveOne(ctx context.Context, m *manifest.Manifest, pr manifest.PackageRange, mode solver.Mode) (source.PackageID, error) {
	effective := pr
	if override, ok := m.Override(pr.Name); ok {
		effective = override
		effective.Name = pr.Name
		if effective.Source == "" {
			effective.Source = pr.Source
		}
	}

	if effective.Source != manifest.SourceHosted {
		return source.PackageID{Name: pr.Name, Source: effective.Source, Ref: effective.Ref}, nil
	}

	if mode == solver.ModeLocked {
		if v := r.lockedVersion(pr.Name); v != nil && effective.Constraint.Allows(v) {
			return source.PackageID{Name: pr.Name, Version: v, Source: manifest.SourceHosted}, nil
		}
	}

	versions, err := r.Lister.ListVersions(ctx, pr.Name)
	if err != nil {
		return source.PackageID{}, err
	}
	best := maxSatisfying(effective.Constraint, versions)
	if best == nil {
		return source.PackageID{}, &solver.ResolutionError{
			Name:       pr.Name,
			Constraint: effective.Constraint,
			Reason:     "no published version satisfies the constraint",
		}
	}
	return source.PackageID{Name: pr.Name, Version: best, Source: manifest.SourceHosted}, nil
}

// lockedVersion returns the recorded hosted version for name, or nil when
// the lockfile has no usable entry for it.
func (r *Resolver) lockedVersion(name string) *semver.Version {
	if r.Lock == nil {
		return nil
	}
	pkg, ok := r.Lock.Packages[name]
	if !ok || pkg.Source != string(manifest.SourceHosted) || pkg.Version == "" {
		return nil
	}
	v, err := semver.StrictNewVersion(pkg.Version)
	if err != nil {
		return nil
	}
	return v
}

// maxSatisfying returns the highest candidate the constraint admits, or nil.
func maxSatisfying(c manifest.Constraint, candidates []*semver.Version) *semver.Version {
	var best *semver.Version
	for _, v := range candidates {
		if !c.Allows(v) {
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best = v
		}
	}
	return best
}
