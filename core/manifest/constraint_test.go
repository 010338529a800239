package manifest

import (
	"testing"

	"github.com/Masterminds/semver/v3"
)

func v(t *testing.T, s string) *semver.Version {
	t.Helper()
	version, err := semver.StrictNewVersion(s)
	if err != nil {
		t.Fatalf("parse version %q: %v", s, err)
	}
	return version
}

func TestParseConstraint_Forms(t *testing.T) {
	tests := []struct {
		in      string
		allows  []string
		rejects []string
	}{
		{"any", []string{"0.0.1", "99.0.0"}, nil},
		{"", []string{"1.0.0"}, nil},
		{"1.2.3", []string{"1.2.3"}, []string{"1.2.2", "1.2.4"}},
		{"^1.2.3", []string{"1.2.3", "1.9.0"}, []string{"1.2.2", "2.0.0"}},
		{"^0.4.0", []string{"0.4.0", "0.4.9"}, []string{"0.5.0", "1.0.0"}},
		{">=1.0.0 <2.0.0", []string{"1.0.0", "1.9.9"}, []string{"0.9.9", "2.0.0"}},
		{">1.0.0", []string{"1.0.1"}, []string{"1.0.0"}},
		{"<=2.0.0", []string{"2.0.0"}, []string{"2.0.1"}},
	}
	for _, tt := range tests {
		c, err := ParseConstraint(tt.in)
		if err != nil {
			t.Errorf("ParseConstraint(%q): %v", tt.in, err)
			continue
		}
		for _, s := range tt.allows {
			if !c.Allows(v(t, s)) {
				t.Errorf("%q should allow %s", tt.in, s)
			}
		}
		for _, s := range tt.rejects {
			if c.Allows(v(t, s)) {
				t.Errorf("%q should reject %s", tt.in, s)
			}
		}
	}
}

func TestParseConstraint_Invalid(t *testing.T) {
	for _, in := range []string{"^", "abc", ">=2.0.0 <1.0.0", "==>1.0.0x"} {
		if _, err := ParseConstraint(in); err == nil {
			t.Errorf("ParseConstraint(%q) should fail", in)
		}
	}
}

func TestCompatibleWith(t *testing.T) {
	tests := []struct {
		version string
		allows  []string
		rejects []string
	}{
		{"1.2.3", []string{"1.2.3", "1.99.0"}, []string{"1.2.2", "2.0.0"}},
		{"0.4.2", []string{"0.4.2", "0.4.9"}, []string{"0.5.0"}},
		{"0.0.7", []string{"0.0.7"}, []string{"0.0.8"}},
	}
	for _, tt := range tests {
		c := CompatibleWith(v(t, tt.version))
		for _, s := range tt.allows {
			if !c.Allows(v(t, s)) {
				t.Errorf("CompatibleWith(%s) should allow %s", tt.version, s)
			}
		}
		for _, s := range tt.rejects {
			if c.Allows(v(t, s)) {
				t.Errorf("CompatibleWith(%s) should reject %s", tt.version, s)
			}
		}
	}
}

func TestAllowsAll(t *testing.T) {
	tests := []struct {
		outer, inner string
		want         bool
	}{
		{"any", "^1.0.0", true},
		{"^1.0.0", "any", false},
		{">=1.0.0 <3.0.0", "^1.0.0", true},
		{"^1.0.0", ">=1.0.0 <3.0.0", false},
		{"^1.0.0", ">=1.0.0 <2.0.0", true},
		{">=1.0.0 <2.0.0", "^1.0.0", true},
		{">1.0.0", ">=1.0.0", false},
		{">=1.0.0", ">1.0.0", true},
		{"1.2.3", "1.2.3", true},
		{"1.2.3", "1.2.4", false},
	}
	for _, tt := range tests {
		outer := MustParseConstraint(tt.outer)
		inner := MustParseConstraint(tt.inner)
		if got := outer.AllowsAll(inner); got != tt.want {
			t.Errorf("(%q).AllowsAll(%q) = %v, want %v", tt.outer, tt.inner, got, tt.want)
		}
	}
}

func TestEquivalent_IgnoresSpelling(t *testing.T) {
	caret := MustParseConstraint("^1.0.0")
	spelled := MustParseConstraint(">=1.0.0 <2.0.0")
	if !caret.Equivalent(spelled) {
		t.Error("^1.0.0 and >=1.0.0 <2.0.0 should be equivalent")
	}
	if caret.String() == spelled.String() {
		t.Error("spellings should differ even though the sets match")
	}
}

func TestConstraintString(t *testing.T) {
	tests := []struct {
		c    Constraint
		want string
	}{
		{Any(), "any"},
		{Exact(v(t, "1.2.3")), "1.2.3"},
		{AtLeast(v(t, "2.0.0")), ">=2.0.0"},
		{CompatibleWith(v(t, "2.3.1")), "^2.3.1"},
		{CompatibleWith(v(t, "0.4.2")), "^0.4.2"},
		{MustParseConstraint(">=1.0.0 <2.0.0"), ">=1.0.0 <2.0.0"},
	}
	for _, tt := range tests {
		if got := tt.c.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
