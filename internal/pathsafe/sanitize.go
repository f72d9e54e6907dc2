// Package pathsafe validates declared template paths against sandbox rules.
//
// Sanitize is a pure function: it never touches the filesystem, so it can be
// exercised against adversarial inputs without side effects. Separator and
// drive-letter handling lives here once, centrally, instead of being patched
// per call site.
package pathsafe

import (
	"path"
	"strings"

	"github.com/stencilworks/stencil/internal/domain"
)

// nominalRoot is the sandbox root used for the lexical containment check.
// The concrete target directory is irrelevant: containment is a property of
// the relative path alone.
const nominalRoot = "/sandbox"

// windowsReserved are device names that cannot be used as file names on
// Windows regardless of extension. Generated trees must stay portable.
var windowsReserved = map[string]bool{
	"con": true, "prn": true, "aux": true, "nul": true,
	"com1": true, "com2": true, "com3": true, "com4": true, "com5": true,
	"com6": true, "com7": true, "com8": true, "com9": true,
	"lpt1": true, "lpt2": true, "lpt3": true, "lpt4": true, "lpt5": true,
	"lpt6": true, "lpt7": true, "lpt8": true, "lpt9": true,
}

// Sanitize validates a declared relative file path and returns its normalized
// form (forward-slash separated, cleaned). Rules are applied in a fixed
// order; the first violation is returned as *domain.InvalidPathError.
func Sanitize(declared string) (string, error) {
	if declared == "" {
		return "", &domain.InvalidPathError{Path: declared, Rule: domain.PathRuleEmpty}
	}

	// Canonical separator form before any structural checks.
	slashed := strings.ReplaceAll(declared, `\`, "/")
	norm := path.Clean(slashed)

	for _, seg := range strings.Split(norm, "/") {
		if seg == ".." {
			return "", &domain.InvalidPathError{Path: declared, Rule: domain.PathRuleParentSegment}
		}
	}

	if strings.HasPrefix(norm, "/") || hasDrivePrefix(norm) {
		return "", &domain.InvalidPathError{Path: declared, Rule: domain.PathRuleAbsolute}
	}

	// Defense in depth against encoded traversal: joining to the sandbox
	// root must stay lexically inside it.
	joined := path.Join(nominalRoot, norm)
	if joined != nominalRoot && !strings.HasPrefix(joined, nominalRoot+"/") {
		return "", &domain.InvalidPathError{Path: declared, Rule: domain.PathRuleEscapesSandbox}
	}

	if strings.HasSuffix(slashed, "/") {
		return "", &domain.InvalidPathError{Path: declared, Rule: domain.PathRuleTrailingSep}
	}
	if norm == "." || norm == "" {
		return "", &domain.InvalidPathError{Path: declared, Rule: domain.PathRuleEmpty}
	}

	for _, seg := range strings.Split(norm, "/") {
		stem := seg
		if i := strings.IndexByte(stem, '.'); i >= 0 {
			stem = stem[:i]
		}
		if windowsReserved[strings.ToLower(stem)] {
			return "", &domain.InvalidPathError{Path: declared, Rule: domain.PathRuleReservedName}
		}
	}

	return norm, nil
}

// SanitizeAll sanitizes every path in order and rejects two declared paths
// that normalize to the same file. The returned slice preserves input order.
func SanitizeAll(declared []string) ([]string, error) {
	out := make([]string, 0, len(declared))
	seen := make(map[string]bool, len(declared))
	for _, p := range declared {
		norm, err := Sanitize(p)
		if err != nil {
			return nil, err
		}
		if seen[norm] {
			return nil, &domain.InvalidPathError{Path: p, Rule: domain.PathRuleDuplicate}
		}
		seen[norm] = true
		out = append(out, norm)
	}
	return out, nil
}

func hasDrivePrefix(p string) bool {
	if len(p) < 2 || p[1] != ':' {
		return false
	}
	c := p[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
