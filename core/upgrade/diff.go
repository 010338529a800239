package upgrade

import (
	"github.com/emenda-labs/capgrade/core/manifest"
	"github.com/emenda-labs/capgrade/core/source"
)

// Change is one constraint replacement: the dependency's original declared
// range and the range that should take its place.
type Change struct {
	Old manifest.PackageRange
	New manifest.PackageRange
}

// ChangeSet is the ordered list of constraint replacements to apply,
// ordered by declaration: dependencies before dev_dependencies, each in
// manifest order. Every entry was a probed target whose new constraint
// differs materially from the declared one.
type ChangeSet []Change

// Diff derives the constraint changes implied by a resolution result. For
// each hosted target present in the resolution, the new constraint is the
// safe-upgrade range of the resolved version; entries equivalent to the
// declared constraint (admitting exactly the same versions, however
// spelled) are dropped.
func Diff(m *manifest.Manifest, targets map[string]bool, resolution map[string]source.PackageID) ChangeSet {
	var cs ChangeSet
	for _, section := range [][]manifest.PackageRange{m.Dependencies, m.DevDependencies} {
		for _, pr := range section {
			if pr.Source != manifest.SourceHosted || !targets[pr.Name] {
				continue
			}
			id, ok := resolution[pr.Name]
			if !ok || id.Version == nil {
				continue
			}
			next := manifest.CompatibleWith(id.Version)
			if next.Equivalent(pr.Constraint) {
				continue
			}
			cs = append(cs, Change{Old: pr, New: pr.WithConstraint(next)})
		}
	}
	return cs
}

// Edits converts the change set into the structural edits the manifest
// patcher consumes.
func (cs ChangeSet) Edits() []manifest.ConstraintEdit {
	edits := make([]manifest.ConstraintEdit, 0, len(cs))
	for _, ch := range cs {
		edits = append(edits, manifest.ConstraintEdit{
			Name:   ch.Old.Name,
			Line:   ch.Old.Line,
			Column: ch.Old.Column,
			Old:    ch.Old.RawConstraint,
			New:    ch.New.Constraint.String(),
		})
	}
	return edits
}
