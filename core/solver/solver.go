// Package solver defines the contract with the whole-graph version solver.
// The upgrade engine treats the solver as a black box: it hands over a
// manifest and gets back one concrete version per package, or a
// ResolutionError it propagates verbatim.
package solver

import (
	"context"
	"fmt"

	"github.com/emenda-labs/capgrade/core/manifest"
	"github.com/emenda-labs/capgrade/core/source"
)

// Mode selects how the solver treats previously locked versions.
type Mode int

const (
	// ModeLocked prefers versions recorded in the lockfile.
	ModeLocked Mode = iota
	// ModeUpgrade ignores the lockfile and picks the best versions the
	// constraints admit.
	ModeUpgrade
)

// Solver computes a consistent version assignment for every package in the
// manifest's dependency graph. Resolution is in-memory only; no lockfile is
// written.
type Solver interface {
	Resolve(ctx context.Context, m *manifest.Manifest, mode Mode) (map[string]source.PackageID, error)
}

// ResolutionError reports that no consistent assignment exists.
type ResolutionError struct {
	Name       string
	Constraint manifest.Constraint
	Reason     string
}

func (e *ResolutionError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("version solving failed: %s", e.Reason)
	}
	return fmt.Sprintf("version solving failed: no version of %s matches %s (%s)", e.Name, e.Constraint, e.Reason)
}
