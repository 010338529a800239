package upgrade

import (
	"fmt"
	"strings"
)

// UsageError reports caller mistakes: requested upgrade targets that are not
// direct dependencies of the project. It is raised before any network or
// solver work.
type UsageError struct {
	// Unknown holds every offending name, in the order requested.
	Unknown []string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("cannot upgrade %s: not in the manifest's dependencies or dev_dependencies",
		strings.Join(e.Unknown, ", "))
}

// CapabilityUnavailableError reports that one or more upgrade targets have
// no published version declaring the required feature. It is raised only
// after every target has been probed, so it can name all incapable targets
// and suggest a retry over the capable remainder.
type CapabilityUnavailableError struct {
	Feature   string
	Incapable []string
	Capable   []string
}

func (e *CapabilityUnavailableError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "no published version of %s supports %s",
		strings.Join(e.Incapable, ", "), e.Feature)
	if len(e.Capable) > 0 {
		fmt.Fprintf(&b, "\nTo upgrade only the packages that support %s, run:\n  capgrade upgrade --feature %s %s",
			e.Feature, e.Feature, strings.Join(e.Capable, " "))
	}
	return b.String()
}
