// Package upgrade implements the capability-gated dependency upgrade
// engine: select targets, probe each hosted target for the first published
// version supporting a language feature, trial-resolve a candidate
// manifest, diff the outcome against the declared constraints, and apply
// the surviving changes in one atomic manifest patch.
package upgrade

import (
	"context"
	"fmt"
	"io"

	"github.com/emenda-labs/capgrade/core/manifest"
	"github.com/emenda-labs/capgrade/core/solver"
	"github.com/emenda-labs/capgrade/core/source"
)

// Acquirer performs the real dependency acquisition after the manifest has
// been patched (re-resolving and recording the lockfile). It is skipped on
// dry runs.
type Acquirer interface {
	Acquire(ctx context.Context, m *manifest.Manifest) error
}

// Engine wires the upgrade pipeline to its collaborators. All external
// work goes through the narrow Lister/Describer/Solver interfaces, so the
// pipeline can run against scripted fakes in tests.
type Engine struct {
	Lister    source.VersionLister
	Describer source.Describer
	Solver    solver.Solver
	Acquirer  Acquirer

	// Out receives the change summary; Log receives progress and warnings.
	Out io.Writer
	Log io.Writer

	// Concurrency bounds the probe and recheck fan-outs. Zero means
	// unbounded.
	Concurrency int
}

// Options are the caller-supplied parameters of one upgrade invocation.
type Options struct {
	ManifestPath string
	// Packages restricts the upgrade to the named direct dependencies.
	// Empty means every direct and dev dependency.
	Packages []string
	// Feature is the language feature every upgraded dependency must
	// support.
	Feature string
	// DryRun computes and reports the change set without touching the
	// manifest or acquiring anything.
	DryRun bool
}

// Run executes one upgrade invocation. Failures are all-or-nothing: if any
// target has no capable version, or the candidate manifest does not
// resolve, the manifest file is left byte-identical to how it was found.
func (e *Engine) Run(ctx context.Context, opts Options) error {
	m, err := manifest.Load(opts.ManifestPath)
	if err != nil {
		return err
	}

	targets, err := SelectTargets(m, opts.Packages)
	if err != nil {
		return err
	}

	fmt.Fprintf(e.Log, "Probing %d packages for %s support...\n", countHostedTargets(m, targets), opts.Feature)
	probed, incapable, err := ProbeTargets(ctx, e.Lister, e.Describer, m, targets, opts.Feature, e.Concurrency)
	if err != nil {
		return err
	}
	if len(incapable) > 0 {
		return &CapabilityUnavailableError{
			Feature:   opts.Feature,
			Incapable: incapable,
			Capable:   capableTargets(m, targets, probed),
		}
	}

	candidate := BuildCandidate(m, probed)
	resolution, err := e.Solver.Resolve(ctx, candidate, solver.ModeUpgrade)
	if err != nil {
		return err
	}

	changes := Diff(m, targets, resolution)

	if !opts.DryRun {
		if err := manifest.PatchConstraints(opts.ManifestPath, changes.Edits()); err != nil {
			return err
		}
		if e.Acquirer != nil {
			applied := applyChanges(m, changes)
			if err := e.Acquirer.Acquire(ctx, applied); err != nil {
				return err
			}
		}
	}

	ReportChanges(e.Out, changes, opts.DryRun)

	lacking, err := CheckMigration(ctx, e.Describer, m.DirectNames(), resolution, opts.Feature, e.Concurrency)
	if err != nil {
		return err
	}
	WriteMigrationWarning(e.Log, opts.Feature, lacking)
	return nil
}

func countHostedTargets(m *manifest.Manifest, targets map[string]bool) int {
	n := 0
	for _, section := range [][]manifest.PackageRange{m.Dependencies, m.DevDependencies} {
		for _, pr := range section {
			if pr.Source == manifest.SourceHosted && targets[pr.Name] {
				n++
			}
		}
	}
	return n
}

// capableTargets lists the probed targets that did find a capable version,
// in declaration order, for the narrower retry suggestion.
func capableTargets(m *manifest.Manifest, targets map[string]bool, probed map[string]manifest.Constraint) []string {
	var capable []string
	for _, name := range m.DirectNames() {
		if targets[name] {
			if _, ok := probed[name]; ok {
				capable = append(capable, name)
			}
		}
	}
	return capable
}

// applyChanges returns a copy of m with the change set's new constraints in
// place, mirroring what the patched file now declares.
func applyChanges(m *manifest.Manifest, cs ChangeSet) *manifest.Manifest {
	next := make(map[string]manifest.Constraint, len(cs))
	for _, ch := range cs {
		next[ch.Old.Name] = ch.New.Constraint
	}
	return BuildCandidate(m, next)
}
