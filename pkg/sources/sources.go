// Package sources provides describers for non-hosted dependency kinds, so
// the engine can run its capability checks through one Describer regardless
// of where a package lives.
package sources

import (
	"context"
	"path/filepath"

	"github.com/emenda-labs/capgrade/core/manifest"
	"github.com/emenda-labs/capgrade/core/source"
)

// Dir describes path dependencies by reading the manifest inside the
// dependency's directory. Relative paths resolve against Root, the
// directory of the project manifest.
type Dir struct {
	Root string
}

var _ source.Describer = (*Dir)(nil)

func (d *Dir) Describe(ctx context.Context, id source.PackageID) (source.Descriptor, error) {
	dir := id.Ref
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(d.Root, dir)
	}
	m, err := manifest.Load(filepath.Join(dir, "project.yaml"))
	if err != nil {
		return source.Descriptor{}, err
	}
	return source.Descriptor{ID: id, Features: m.Features}, nil
}

// Static answers every Describe with a fixed feature list. Git and sdk
// dependencies use an empty Static: their metadata is not reachable
// locally, so they surface in the migration warning and its manual-upgrade
// guidance.
type Static struct {
	Features []string
}

var _ source.Describer = (*Static)(nil)

func (s *Static) Describe(ctx context.Context, id source.PackageID) (source.Descriptor, error) {
	return source.Descriptor{ID: id, Features: s.Features}, nil
}
