package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no manifest found at %s", path)
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	m.Path = path
	return m, nil
}

// Parse decodes manifest YAML. Dependency order follows the document, and
// each constraint scalar's position is recorded for later patching.
func Parse(data []byte) (*Manifest, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, fmt.Errorf("empty manifest")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("manifest root must be a mapping")
	}

	m := &Manifest{SDK: Any()}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		switch key.Value {
		case "name":
			m.Name = val.Value
		case "version":
			m.Version = val.Value
		case "sdk":
			c, err := ParseConstraint(val.Value)
			if err != nil {
				return nil, fmt.Errorf("sdk: %w", err)
			}
			m.SDK = c
		case "features":
			if err := val.Decode(&m.Features); err != nil {
				return nil, fmt.Errorf("features: %w", err)
			}
		case "dependencies":
			deps, err := parseSection(val)
			if err != nil {
				return nil, fmt.Errorf("dependencies: %w", err)
			}
			m.Dependencies = deps
		case "dev_dependencies":
			deps, err := parseSection(val)
			if err != nil {
				return nil, fmt.Errorf("dev_dependencies: %w", err)
			}
			m.DevDependencies = deps
		case "dependency_overrides":
			deps, err := parseSection(val)
			if err != nil {
				return nil, fmt.Errorf("dependency_overrides: %w", err)
			}
			m.Overrides = deps
		}
	}

	if m.Name == "" {
		return nil, fmt.Errorf("manifest is missing a name")
	}
	seen := make(map[string]bool, len(m.Dependencies))
	for _, pr := range m.Dependencies {
		seen[pr.Name] = true
	}
	for _, pr := range m.DevDependencies {
		if seen[pr.Name] {
			return nil, fmt.Errorf("dependency %s declared in both dependencies and dev_dependencies", pr.Name)
		}
	}
	return m, nil
}

func parseSection(node *yaml.Node) ([]PackageRange, error) {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("section must be a mapping")
	}
	var out []PackageRange
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		pr, err := parseEntry(key.Value, val)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key.Value, err)
		}
		out = append(out, pr)
	}
	return out, nil
}

// parseEntry handles the two dependency spellings: a bare constraint scalar
// for hosted packages, or a mapping naming another source kind with an
// optional version key.
func parseEntry(name string, val *yaml.Node) (PackageRange, error) {
	pr := PackageRange{Name: name, Source: SourceHosted, Constraint: Any()}

	if val.Kind == yaml.ScalarNode {
		c, err := ParseConstraint(val.Value)
		if err != nil {
			return PackageRange{}, err
		}
		pr.Constraint = c
		pr.Line, pr.Column = val.Line, val.Column
		pr.RawConstraint = val.Value
		return pr, nil
	}

	if val.Kind != yaml.MappingNode {
		return PackageRange{}, fmt.Errorf("must be a constraint or a source mapping")
	}
	for i := 0; i+1 < len(val.Content); i += 2 {
		key, sub := val.Content[i], val.Content[i+1]
		switch key.Value {
		case "path":
			pr.Source = SourcePath
			pr.Ref = sub.Value
		case "git":
			pr.Source = SourceGit
			pr.Ref = sub.Value
		case "sdk":
			pr.Source = SourceSDK
			pr.Ref = sub.Value
		case "hosted":
			pr.Source = SourceHosted
			pr.Ref = sub.Value
		case "version":
			c, err := ParseConstraint(sub.Value)
			if err != nil {
				return PackageRange{}, err
			}
			pr.Constraint = c
			pr.Line, pr.Column = sub.Line, sub.Column
			pr.RawConstraint = sub.Value
		default:
			return PackageRange{}, fmt.Errorf("unknown source key %q", key.Value)
		}
	}
	return pr, nil
}
