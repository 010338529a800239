package manifest

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Constraint is a set of admissible versions: every version ("any"), a
// single version, or a range with optional inclusive/exclusive bounds.
//
// Comparison semantics come from github.com/Masterminds/semver/v3; the
// range algebra (superset tests, safe-upgrade ranges) lives here because
// the library's Constraints type cannot answer superset questions.
type Constraint struct {
	min, max               *semver.Version
	includeMin, includeMax bool

	// raw is the constraint's source text, kept so reports and patches can
	// echo the author's spelling. Empty for constructed constraints.
	raw string
}

// Any returns the constraint that admits every version.
func Any() Constraint {
	return Constraint{}
}

// Exact returns the constraint admitting only v.
func Exact(v *semver.Version) Constraint {
	return Constraint{min: v, max: v, includeMin: true, includeMax: true}
}

// AtLeast returns the constraint ">=v" with no upper bound.
func AtLeast(v *semver.Version) Constraint {
	return Constraint{min: v, includeMin: true}
}

// CompatibleWith returns the conventional safe-upgrade range for v: an
// inclusive lower bound at v and an exclusive upper bound at the next
// breaking version. For 1.2.3 that is ">=1.2.3 <2.0.0"; pre-1.0 versions
// treat minor (or patch, below 0.1.0) bumps as breaking.
func CompatibleWith(v *semver.Version) Constraint {
	return Constraint{min: v, max: nextBreaking(v), includeMin: true}
}

func nextBreaking(v *semver.Version) *semver.Version {
	switch {
	case v.Major() > 0:
		next := v.IncMajor()
		return &next
	case v.Minor() > 0:
		next := v.IncMinor()
		return &next
	default:
		next := v.IncPatch()
		return &next
	}
}

// ParseConstraint parses a constraint scalar: "any" (or empty), a caret
// range like "^1.2.3", a comparator list like ">=1.0.0 <2.0.0", or a bare
// version meaning exactly that version.
func ParseConstraint(s string) (Constraint, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || trimmed == "any" {
		c := Any()
		c.raw = trimmed
		return c, nil
	}

	if rest, ok := strings.CutPrefix(trimmed, "^"); ok {
		v, err := semver.StrictNewVersion(rest)
		if err != nil {
			return Constraint{}, fmt.Errorf("parse constraint %q: %w", s, err)
		}
		c := CompatibleWith(v)
		c.raw = trimmed
		return c, nil
	}

	if strings.ContainsAny(trimmed, "<>=") {
		c, err := parseComparators(trimmed)
		if err != nil {
			return Constraint{}, fmt.Errorf("parse constraint %q: %w", s, err)
		}
		c.raw = trimmed
		return c, nil
	}

	v, err := semver.StrictNewVersion(trimmed)
	if err != nil {
		return Constraint{}, fmt.Errorf("parse constraint %q: %w", s, err)
	}
	c := Exact(v)
	c.raw = trimmed
	return c, nil
}

// MustParseConstraint is ParseConstraint that panics on error. Intended for
// tests and literals.
func MustParseConstraint(s string) Constraint {
	c, err := ParseConstraint(s)
	if err != nil {
		panic(err)
	}
	return c
}

func parseComparators(s string) (Constraint, error) {
	var c Constraint
	for _, part := range strings.Fields(s) {
		op := ""
		for _, candidate := range []string{">=", "<=", ">", "<", "="} {
			if strings.HasPrefix(part, candidate) {
				op = candidate
				break
			}
		}
		if op == "" {
			return Constraint{}, fmt.Errorf("comparator %q missing operator", part)
		}
		v, err := semver.StrictNewVersion(part[len(op):])
		if err != nil {
			return Constraint{}, err
		}
		switch op {
		case ">=":
			c.min, c.includeMin = v, true
		case ">":
			c.min, c.includeMin = v, false
		case "<=":
			c.max, c.includeMax = v, true
		case "<":
			c.max, c.includeMax = v, false
		case "=":
			c.min, c.includeMin = v, true
			c.max, c.includeMax = v, true
		}
	}
	if c.min != nil && c.max != nil {
		if cmp := c.min.Compare(c.max); cmp > 0 || (cmp == 0 && !(c.includeMin && c.includeMax)) {
			return Constraint{}, fmt.Errorf("empty range %q", s)
		}
	}
	return c, nil
}

// IsAny reports whether c admits every version.
func (c Constraint) IsAny() bool {
	return c.min == nil && c.max == nil
}

// Allows reports whether v is inside the constraint.
func (c Constraint) Allows(v *semver.Version) bool {
	if c.min != nil {
		cmp := v.Compare(c.min)
		if cmp < 0 || (cmp == 0 && !c.includeMin) {
			return false
		}
	}
	if c.max != nil {
		cmp := v.Compare(c.max)
		if cmp > 0 || (cmp == 0 && !c.includeMax) {
			return false
		}
	}
	return true
}

// AllowsAll reports whether c admits every version that other admits, i.e.
// whether c is a superset of other.
func (c Constraint) AllowsAll(other Constraint) bool {
	if c.min != nil {
		if other.min == nil {
			return false
		}
		cmp := other.min.Compare(c.min)
		if cmp < 0 || (cmp == 0 && other.includeMin && !c.includeMin) {
			return false
		}
	}
	if c.max != nil {
		if other.max == nil {
			return false
		}
		cmp := other.max.Compare(c.max)
		if cmp > 0 || (cmp == 0 && other.includeMax && !c.includeMax) {
			return false
		}
	}
	return true
}

// Equivalent reports whether c and other admit exactly the same versions,
// regardless of how either is spelled.
func (c Constraint) Equivalent(other Constraint) bool {
	return c.AllowsAll(other) && other.AllowsAll(c)
}

// String renders the constraint. Parsed constraints echo their source text;
// constructed ones render canonically ("any", "1.2.3", "^1.2.3" for
// safe-upgrade ranges, ">=1.0.0 <2.0.0" otherwise).
func (c Constraint) String() string {
	if c.raw != "" {
		return c.raw
	}
	switch {
	case c.IsAny():
		return "any"
	case c.min != nil && c.max != nil && c.includeMin && c.includeMax && c.min.Equal(c.max):
		return c.min.String()
	case c.min != nil && c.max != nil && c.includeMin && !c.includeMax && c.max.Equal(nextBreaking(c.min)):
		return "^" + c.min.String()
	}
	var parts []string
	if c.min != nil {
		op := ">"
		if c.includeMin {
			op = ">="
		}
		parts = append(parts, op+c.min.String())
	}
	if c.max != nil {
		op := "<"
		if c.includeMax {
			op = "<="
		}
		parts = append(parts, op+c.max.String())
	}
	return strings.Join(parts, " ")
}
