package resolve

import (
	"context"

	"github.com/emenda-labs/capgrade/core/manifest"
	"github.com/emenda-labs/capgrade/core/solver"
	"github.com/emenda-labs/capgrade/core/upgrade"
	"github.com/emenda-labs/capgrade/pkg/lockfile"
)

// Acquirer performs the real acquisition step after the manifest has been
// patched: resolve the patched manifest and record the result in the
// lockfile.
type Acquirer struct {
	Solver   solver.Solver
	LockPath string
}

var _ upgrade.Acquirer = (*Acquirer)(nil)

func (a *Acquirer) Acquire(ctx context.Context, m *manifest.Manifest) error {
	resolution, err := a.Solver.Resolve(ctx, m, solver.ModeUpgrade)
	if err != nil {
		return err
	}
	return lockfile.FromResolution(resolution).Write(a.LockPath)
}
