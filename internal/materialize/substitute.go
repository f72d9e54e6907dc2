package materialize

import (
	"regexp"

	"github.com/stencilworks/stencil/internal/domain"
)

// placeholderPattern matches {{name}} placeholders. Names are
// identifier-like; anything else (stray braces, JSX, Go templates in
// generated files) passes through untouched.
var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// Substitute replaces every {{name}} placeholder in content with its
// binding. A placeholder with no matching binding fails with
// *domain.UnboundVariableError before any replacement happens, so literal
// placeholder text never leaks into generated artifacts.
func Substitute(content, path string, bindings map[string]string) (string, error) {
	for _, match := range placeholderPattern.FindAllStringSubmatch(content, -1) {
		name := match[1]
		if _, ok := bindings[name]; !ok {
			return "", &domain.UnboundVariableError{Name: name, Path: path}
		}
	}

	return placeholderPattern.ReplaceAllStringFunc(content, func(m string) string {
		name := placeholderPattern.FindStringSubmatch(m)[1]
		return bindings[name]
	}), nil
}
