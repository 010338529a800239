package upgrade

import (
	"github.com/emenda-labs/capgrade/core/manifest"
)

// BuildCandidate returns a manifest identical to m except that targeted
// dependencies with a probed constraint get that constraint substituted.
// Name, version, SDK constraints, and dependency overrides are copied
// verbatim. The candidate only drives trial resolution; it is never
// written to disk.
func BuildCandidate(m *manifest.Manifest, probed map[string]manifest.Constraint) *manifest.Manifest {
	candidate := m.Clone()
	substitute(candidate.Dependencies, probed)
	substitute(candidate.DevDependencies, probed)
	return candidate
}

func substitute(section []manifest.PackageRange, probed map[string]manifest.Constraint) {
	for i, pr := range section {
		if c, ok := probed[pr.Name]; ok {
			section[i] = pr.WithConstraint(c)
		}
	}
}
