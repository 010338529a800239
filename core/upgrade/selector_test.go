package upgrade

import (
	"errors"
	"reflect"
	"sort"
	"testing"
)

const selectorManifest = `name: myapp
dependencies:
  foo: ^1.0.0
  bar:
    path: ../bar
dev_dependencies:
  lint: ^2.0.0
`

func TestSelectTargets_DefaultsToAllDirect(t *testing.T) {
	m := parseManifest(t, selectorManifest)
	targets, err := SelectTargets(m, nil)
	if err != nil {
		t.Fatalf("SelectTargets: %v", err)
	}
	var got []string
	for name := range targets {
		got = append(got, name)
	}
	sort.Strings(got)
	want := []string{"bar", "foo", "lint"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("targets = %v, want %v", got, want)
	}
}

func TestSelectTargets_ExplicitSubset(t *testing.T) {
	m := parseManifest(t, selectorManifest)
	targets, err := SelectTargets(m, []string{"foo", "lint"})
	if err != nil {
		t.Fatalf("SelectTargets: %v", err)
	}
	if len(targets) != 2 || !targets["foo"] || !targets["lint"] {
		t.Errorf("targets = %v", targets)
	}
}

func TestSelectTargets_ExplicitFullUnionMatchesDefault(t *testing.T) {
	m := parseManifest(t, selectorManifest)
	byDefault, err := SelectTargets(m, nil)
	if err != nil {
		t.Fatalf("SelectTargets(nil): %v", err)
	}
	explicit, err := SelectTargets(m, []string{"foo", "bar", "lint"})
	if err != nil {
		t.Fatalf("SelectTargets(full): %v", err)
	}
	if !reflect.DeepEqual(byDefault, explicit) {
		t.Errorf("full explicit list should equal the default universe: %v vs %v", explicit, byDefault)
	}
}

func TestSelectTargets_CollectsAllUnknownNames(t *testing.T) {
	m := parseManifest(t, selectorManifest)
	_, err := SelectTargets(m, []string{"foo", "nope", "lint", "missing"})
	var usageErr *UsageError
	if !errors.As(err, &usageErr) {
		t.Fatalf("want UsageError, got %v", err)
	}
	want := []string{"nope", "missing"}
	if !reflect.DeepEqual(usageErr.Unknown, want) {
		t.Errorf("Unknown = %v, want %v", usageErr.Unknown, want)
	}
}

func TestSelectTargets_OverrideOnlyNameIsUnknown(t *testing.T) {
	m := parseManifest(t, `name: myapp
dependencies:
  foo: ^1.0.0
dependency_overrides:
  pinned: 1.0.0
`)
	_, err := SelectTargets(m, []string{"pinned"})
	var usageErr *UsageError
	if !errors.As(err, &usageErr) {
		t.Fatalf("override-only names are not upgrade targets, got %v", err)
	}
}
