package source

import (
	"context"
	"fmt"

	"github.com/emenda-labs/capgrade/core/manifest"
)

// Mux dispatches Describe calls to per-source-kind describers, the way each
// dependency's bound source would answer them.
type Mux struct {
	describers map[manifest.SourceKind]Describer
}

// NewMux builds a Mux over the given describers.
func NewMux(describers map[manifest.SourceKind]Describer) *Mux {
	return &Mux{describers: describers}
}

var _ Describer = (*Mux)(nil)

func (m *Mux) Describe(ctx context.Context, id PackageID) (Descriptor, error) {
	d, ok := m.describers[id.Source]
	if !ok {
		return Descriptor{}, fmt.Errorf("no describer for %s source (package %s)", id.Source, id.Name)
	}
	return d.Describe(ctx, id)
}
