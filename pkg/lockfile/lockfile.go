// Package lockfile reads and writes the resolved-dependency snapshot that
// acquisition records next to the manifest.
package lockfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/emenda-labs/capgrade/core/source"
)

// FormatVersion is the current lockfile schema version.
const FormatVersion = 1

// Lockfile is the on-disk snapshot of one resolution.
type Lockfile struct {
	Version  int                `yaml:"version"`
	Packages map[string]Package `yaml:"packages"`
}

// Package records where one resolved package came from.
type Package struct {
	Version string `yaml:"version,omitempty"`
	Source  string `yaml:"source"`
	Ref     string `yaml:"ref,omitempty"`
}

// FromResolution builds a Lockfile from a solver result.
func FromResolution(resolution map[string]source.PackageID) *Lockfile {
	packages := make(map[string]Package, len(resolution))
	for name, id := range resolution {
		pkg := Package{Source: string(id.Source), Ref: id.Ref}
		if id.Version != nil {
			pkg.Version = id.Version.String()
		}
		packages[name] = pkg
	}
	return &Lockfile{Version: FormatVersion, Packages: packages}
}

// Write marshals the lockfile to path. Package keys marshal sorted, so
// rewrites of the same resolution are byte-identical.
func (l *Lockfile) Write(path string) error {
	data, err := yaml.Marshal(l)
	if err != nil {
		return fmt.Errorf("failed to marshal lockfile: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write lockfile: %w", err)
	}
	return nil
}

// Read loads the lockfile at path.
func Read(path string) (*Lockfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lockfile: %w", err)
	}
	var l Lockfile
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &l, nil
}
