package assemble

import (
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/stencilworks/stencil/internal/domain"
)

// comparator is one parsed term of a constraint, e.g. ">=1.5". The original
// text is retained so merged output preserves the author's spelling.
type comparator struct {
	op  string
	ver *semver.Version
	raw string
}

// constraintSet is one constraint string parsed into comparators. A string
// that does not parse as comma-separated semver comparators is opaque: it
// can only merge with a textually identical constraint.
type constraintSet struct {
	raw    string
	opaque bool
	comps  []comparator
}

var comparatorOps = []string{">=", "<=", ">", "<", "="}

func parseConstraint(s string) constraintSet {
	set := constraintSet{raw: strings.TrimSpace(s)}
	if set.raw == "" {
		return set
	}

	for _, part := range strings.Split(set.raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			set.opaque = true
			return set
		}

		op := "="
		rest := part
		for _, candidate := range comparatorOps {
			if strings.HasPrefix(part, candidate) {
				op = candidate
				rest = strings.TrimSpace(part[len(candidate):])
				break
			}
		}

		ver, err := semver.NewVersion(rest)
		if err != nil {
			set.opaque = true
			return set
		}
		set.comps = append(set.comps, comparator{op: op, ver: ver, raw: part})
	}

	return set
}

// mergeConstraints intersects every constraint declared for name. The
// narrowest comparators win; an empty intersection is a conflict. Empty
// constraint strings mean "any version" and never narrow the result.
func mergeConstraints(name string, constraints []string) (string, error) {
	sets := make([]constraintSet, 0, len(constraints))
	for _, c := range constraints {
		set := parseConstraint(c)
		if set.raw == "" {
			continue
		}
		sets = append(sets, set)
	}
	if len(sets) == 0 {
		return "", nil
	}
	if len(sets) == 1 {
		return sets[0].raw, nil
	}

	conflict := func() error {
		return &domain.DependencyConflictError{Name: name, Constraints: nonEmpty(constraints)}
	}

	// Opaque constraints merge only by textual identity.
	for _, set := range sets {
		if !set.opaque {
			continue
		}
		for _, other := range sets {
			if other.raw != set.raw {
				return "", conflict()
			}
		}
		return set.raw, nil
	}

	var pin, lower, upper *comparator
	for i := range sets {
		for j := range sets[i].comps {
			c := &sets[i].comps[j]
			switch c.op {
			case "=":
				if pin != nil && !pin.ver.Equal(c.ver) {
					return "", conflict()
				}
				if pin == nil {
					pin = c
				}
			case ">=", ">":
				if lower == nil || strictlyLower(lower, c) {
					lower = c
				}
			case "<=", "<":
				if upper == nil || strictlyUpper(upper, c) {
					upper = c
				}
			}
		}
	}

	if pin != nil {
		if lower != nil && !satisfiesLower(pin.ver, lower) {
			return "", conflict()
		}
		if upper != nil && !satisfiesUpper(pin.ver, upper) {
			return "", conflict()
		}
		return pin.raw, nil
	}

	if lower != nil && upper != nil {
		cmp := lower.ver.Compare(upper.ver)
		if cmp > 0 {
			return "", conflict()
		}
		if cmp == 0 && (lower.op == ">" || upper.op == "<") {
			return "", conflict()
		}
	}

	parts := make([]string, 0, 2)
	if lower != nil {
		parts = append(parts, lower.raw)
	}
	if upper != nil {
		parts = append(parts, upper.raw)
	}
	return strings.Join(parts, ","), nil
}

// strictlyLower reports whether candidate is a tighter lower bound than cur.
func strictlyLower(cur, candidate *comparator) bool {
	cmp := candidate.ver.Compare(cur.ver)
	if cmp != 0 {
		return cmp > 0
	}
	return candidate.op == ">" && cur.op == ">="
}

// strictlyUpper reports whether candidate is a tighter upper bound than cur.
func strictlyUpper(cur, candidate *comparator) bool {
	cmp := candidate.ver.Compare(cur.ver)
	if cmp != 0 {
		return cmp < 0
	}
	return candidate.op == "<" && cur.op == "<="
}

func satisfiesLower(v *semver.Version, lower *comparator) bool {
	cmp := v.Compare(lower.ver)
	if lower.op == ">" {
		return cmp > 0
	}
	return cmp >= 0
}

func satisfiesUpper(v *semver.Version, upper *comparator) bool {
	cmp := v.Compare(upper.ver)
	if upper.op == "<" {
		return cmp < 0
	}
	return cmp <= 0
}

func nonEmpty(constraints []string) []string {
	out := make([]string, 0, len(constraints))
	for _, c := range constraints {
		if strings.TrimSpace(c) != "" {
			out = append(out, c)
		}
	}
	return out
}
