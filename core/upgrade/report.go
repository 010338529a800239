package upgrade

import (
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/emenda-labs/capgrade/core/source"
)

// ReportChanges writes the change summary: a single no-change line when the
// set is empty, otherwise a count-qualified header followed by one line per
// change in change-set order. Dry runs phrase the summary as a hypothetical.
func ReportChanges(w io.Writer, cs ChangeSet, dryRun bool) {
	if len(cs) == 0 {
		if dryRun {
			fmt.Fprintln(w, "No dependencies would change.")
		} else {
			fmt.Fprintln(w, "No dependencies changed.")
		}
		return
	}

	noun := "constraints"
	if len(cs) == 1 {
		noun = "constraint"
	}
	if dryRun {
		fmt.Fprintf(w, "Would change %d %s:\n", len(cs), noun)
	} else {
		fmt.Fprintf(w, "Changed %d %s:\n", len(cs), noun)
	}
	for _, ch := range cs {
		fmt.Fprintf(w, "  %s: %s -> %s\n", ch.Old.Name, ch.Old.Constraint, ch.New.Constraint)
	}
}

// CheckMigration re-describes every direct dependency through its resolved
// package and returns the names whose resolved version still does not
// declare the feature, in declaration order. The check covers the full
// direct set, not just the upgrade targets, since resolution can move
// versions the caller never asked about.
func CheckMigration(ctx context.Context, describer source.Describer, names []string, resolution map[string]source.PackageID, feature string, concurrency int) ([]string, error) {
	type outcome struct {
		checked bool
		lacking bool
	}
	results := make([]outcome, len(names))

	g, gctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, name := range names {
		i, name := i, name
		id, ok := resolution[name]
		if !ok {
			continue
		}
		g.Go(func() error {
			desc, err := describer.Describe(gctx, id)
			if err != nil {
				return fmt.Errorf("describing %s: %w", name, err)
			}
			results[i] = outcome{checked: true, lacking: !desc.HasFeature(feature)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var lacking []string
	for i, res := range results {
		if res.checked && res.lacking {
			lacking = append(lacking, names[i])
		}
	}
	return lacking, nil
}

// WriteMigrationWarning emits one aggregated warning for the dependencies
// still lacking the feature after resolution. No output when the list is
// empty.
func WriteMigrationWarning(w io.Writer, feature string, names []string) {
	if len(names) == 0 {
		return
	}
	if len(names) == 1 {
		fmt.Fprintf(w, "Warning: 1 dependency still lacks %s support after resolving:\n", feature)
	} else {
		fmt.Fprintf(w, "Warning: %d dependencies still lack %s support after resolving:\n", len(names), feature)
	}
	fmt.Fprintf(w, "  %s\n", strings.Join(names, ", "))
	fmt.Fprintln(w, "Upgrade git and path dependencies manually, upgrade your SDK for sdk")
	fmt.Fprintln(w, "dependencies, remove dependency_overrides pinning old versions, or look")
	fmt.Fprintln(w, "for alternative packages.")
}
