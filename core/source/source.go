package source

import (
	"context"

	"github.com/Masterminds/semver/v3"

	"github.com/emenda-labs/capgrade/core/manifest"
)

// PackageID names one concrete package: a resolved name, version, and the
// source it is bound to. Ref carries source-specific location data (path
// directory, git URL, SDK name); it is empty for hosted packages.
type PackageID struct {
	Name    string
	Version *semver.Version
	Source  manifest.SourceKind
	Ref     string
}

// Descriptor is the published metadata for one concrete package version.
type Descriptor struct {
	ID       PackageID
	Features []string
}

// HasFeature reports whether the described version declares support for the
// named language feature.
func (d Descriptor) HasFeature(name string) bool {
	for _, f := range d.Features {
		if f == name {
			return true
		}
	}
	return false
}

// VersionLister fetches the published versions of a hosted package.
// Implementations may be offline-restricted; a cache miss in offline mode
// must surface as an error rather than a silently stale answer.
type VersionLister interface {
	// ListVersions returns all published versions of the named package in
	// ascending order.
	ListVersions(ctx context.Context, name string) ([]*semver.Version, error)
}

// Describer fetches the descriptor for one concrete package through its
// bound source.
type Describer interface {
	Describe(ctx context.Context, id PackageID) (Descriptor, error)
}
