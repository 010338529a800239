package manifest

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// ConstraintEdit replaces one constraint scalar in the manifest text.
// Line and Column locate the scalar (1-based, as recorded at parse time);
// Old is its unquoted text and New the replacement.
type ConstraintEdit struct {
	Name   string
	Line   int
	Column int
	Old    string
	New    string
}

// PatchConstraints applies edits to the manifest file at path. The rewrite
// touches only the constraint scalars named by the edits; comments, key
// order, surrounding formatting, and the file's line-ending convention are
// preserved byte for byte. Either every edit applies or the file is left
// untouched.
func PatchConstraints(path string, edits []ConstraintEdit) error {
	if len(edits) == 0 {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat manifest: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read manifest: %w", err)
	}
	patched, err := applyEdits(data, edits)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, patched, info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

type resolvedEdit struct {
	start int
	end   int
	text  string
}

// applyEdits splices the edits into data. All edits are located and
// validated before any byte is changed, so a bad edit leaves nothing
// half-applied.
func applyEdits(data []byte, edits []ConstraintEdit) ([]byte, error) {
	starts := lineStarts(data)
	resolved := make([]resolvedEdit, 0, len(edits))
	for _, e := range edits {
		if e.Line < 1 || e.Line > len(starts) {
			return nil, fmt.Errorf("edit for %s: line %d out of range", e.Name, e.Line)
		}
		start := starts[e.Line-1] + e.Column - 1
		if start < 0 || start > len(data) {
			return nil, fmt.Errorf("edit for %s: column %d out of range", e.Name, e.Column)
		}
		re, err := resolveEdit(data, start, e)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, re)
	}

	sort.Slice(resolved, func(i, j int) bool { return resolved[i].start > resolved[j].start })
	for i := 1; i < len(resolved); i++ {
		if resolved[i].end > resolved[i-1].start {
			return nil, fmt.Errorf("overlapping manifest edits")
		}
	}

	out := append([]byte(nil), data...)
	for _, re := range resolved {
		out = append(out[:re.start], append([]byte(re.text), out[re.end:]...)...)
	}
	return out, nil
}

// resolveEdit matches the old scalar at start, accepting the author's
// quoting style, and carries that style over to the replacement when the
// new text still needs it.
func resolveEdit(data []byte, start int, e ConstraintEdit) (resolvedEdit, error) {
	candidates := []struct {
		text  string
		quote string
	}{
		{e.Old, ""},
		{"'" + e.Old + "'", "'"},
		{`"` + e.Old + `"`, `"`},
	}
	for _, cand := range candidates {
		end := start + len(cand.text)
		if end <= len(data) && string(data[start:end]) == cand.text {
			text := e.New
			if cand.quote != "" || needsQuote(e.New) {
				quote := cand.quote
				if quote == "" {
					quote = "'"
				}
				text = quote + e.New + quote
			}
			return resolvedEdit{start: start, end: end, text: text}, nil
		}
	}
	return resolvedEdit{}, fmt.Errorf("edit for %s: constraint %q not found at %d:%d", e.Name, e.Old, e.Line, e.Column)
}

// needsQuote reports whether a plain YAML scalar would misparse the text.
// Comparator constraints start with '>' or '<', both YAML indicators.
func needsQuote(s string) bool {
	if s == "" {
		return true
	}
	if strings.ContainsAny(s[:1], "><=!&*?|%@`\"'[]{}#,") {
		return true
	}
	return strings.Contains(s, ": ") || strings.Contains(s, " #")
}

func lineStarts(data []byte) []int {
	starts := []int{0}
	for i, b := range data {
		if b == '\n' && i+1 < len(data) {
			starts = append(starts, i+1)
		}
	}
	return starts
}
