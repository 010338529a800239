package manifest

// SourceKind identifies where a dependency's packages come from.
type SourceKind string

const (
	SourceHosted SourceKind = "hosted"
	SourcePath   SourceKind = "path"
	SourceGit    SourceKind = "git"
	SourceSDK    SourceKind = "sdk"
)

// PackageRange is one declared dependency: a name, the source its packages
// come from, and the version constraint it must satisfy.
type PackageRange struct {
	Name       string
	Source     SourceKind
	Constraint Constraint

	// Ref carries source-specific location data: the relative directory for
	// path dependencies, the repository URL for git dependencies, the SDK
	// name for sdk dependencies. Empty for hosted dependencies.
	Ref string

	// Line and Column locate the constraint scalar in the manifest text
	// (1-based). Zero for ranges built in memory; such ranges cannot be
	// patched back to disk.
	Line   int
	Column int

	// RawConstraint is the constraint's original scalar text, unquoted.
	RawConstraint string
}

// WithConstraint returns a copy of pr with the constraint replaced.
// Position fields are kept so the original scalar can still be located.
func (pr PackageRange) WithConstraint(c Constraint) PackageRange {
	pr.Constraint = c
	pr.RawConstraint = ""
	return pr
}

// Manifest is the in-memory form of a project manifest. Dependency sections
// preserve declaration order.
type Manifest struct {
	Name     string
	Version  string
	SDK      Constraint
	Features []string

	Dependencies    []PackageRange
	DevDependencies []PackageRange
	Overrides       []PackageRange

	// Path is the file the manifest was loaded from; empty for manifests
	// built in memory.
	Path string
}

// DirectNames returns the names of all direct dependencies, dependencies
// before dev dependencies, each section in declaration order.
func (m *Manifest) DirectNames() []string {
	names := make([]string, 0, len(m.Dependencies)+len(m.DevDependencies))
	for _, pr := range m.Dependencies {
		names = append(names, pr.Name)
	}
	for _, pr := range m.DevDependencies {
		names = append(names, pr.Name)
	}
	return names
}

// Lookup finds the declared range for name in either dependency section.
// The second result reports whether the name was found under dev_dependencies.
func (m *Manifest) Lookup(name string) (PackageRange, bool, bool) {
	for _, pr := range m.Dependencies {
		if pr.Name == name {
			return pr, false, true
		}
	}
	for _, pr := range m.DevDependencies {
		if pr.Name == name {
			return pr, true, true
		}
	}
	return PackageRange{}, false, false
}

// Override returns the override constraint for name, if one is declared.
func (m *Manifest) Override(name string) (PackageRange, bool) {
	for _, pr := range m.Overrides {
		if pr.Name == name {
			return pr, true
		}
	}
	return PackageRange{}, false
}

// Clone returns a deep copy of m. The copy shares no slice storage with the
// original, so substituting constraints in the copy leaves m untouched.
func (m *Manifest) Clone() *Manifest {
	out := *m
	out.Features = append([]string(nil), m.Features...)
	out.Dependencies = append([]PackageRange(nil), m.Dependencies...)
	out.DevDependencies = append([]PackageRange(nil), m.DevDependencies...)
	out.Overrides = append([]PackageRange(nil), m.Overrides...)
	return &out
}
