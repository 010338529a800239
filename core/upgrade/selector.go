package upgrade

import (
	"github.com/emenda-labs/capgrade/core/manifest"
)

// SelectTargets derives the set of dependency names to upgrade. An empty
// request selects every direct and dev dependency. A non-empty request must
// name only direct dependencies; any other name is a UsageError, with all
// offenders collected before failing.
func SelectTargets(m *manifest.Manifest, requested []string) (map[string]bool, error) {
	direct := make(map[string]bool)
	for _, name := range m.DirectNames() {
		direct[name] = true
	}

	if len(requested) == 0 {
		return direct, nil
	}

	targets := make(map[string]bool, len(requested))
	var unknown []string
	for _, name := range requested {
		if !direct[name] {
			unknown = append(unknown, name)
			continue
		}
		targets[name] = true
	}
	if len(unknown) > 0 {
		return nil, &UsageError{Unknown: unknown}
	}
	return targets, nil
}
