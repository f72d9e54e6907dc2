package materialize

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stencilworks/stencil/internal/domain"
)

func TestSubstitute_ReplacesPlaceholders(t *testing.T) {
	cases := []struct {
		name     string
		content  string
		bindings map[string]string
		want     string
	}{
		{
			name:     "single placeholder",
			content:  "Hello {{name}}",
			bindings: map[string]string{"name": "World"},
			want:     "Hello World",
		},
		{
			name:     "repeated placeholder",
			content:  "{{app}}-{{app}}",
			bindings: map[string]string{"app": "web"},
			want:     "web-web",
		},
		{
			name:     "whitespace inside braces",
			content:  "title={{ project_name }}",
			bindings: map[string]string{"project_name": "demo"},
			want:     "title=demo",
		},
		{
			name:     "no placeholders",
			content:  "static content",
			bindings: nil,
			want:     "static content",
		},
		{
			name:     "empty binding value",
			content:  "x{{gap}}y",
			bindings: map[string]string{"gap": ""},
			want:     "xy",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Substitute(tc.content, "f.txt", tc.bindings)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSubstitute_UnboundVariableFails(t *testing.T) {
	_, err := Substitute("Hello {{name}}, from {{missing}}", "greeting.txt",
		map[string]string{"name": "World"})
	require.Error(t, err)

	var unbound *domain.UnboundVariableError
	require.True(t, errors.As(err, &unbound))
	assert.Equal(t, "missing", unbound.Name)
	assert.Equal(t, "greeting.txt", unbound.Path)
}

func TestSubstitute_NonIdentifierBracesPassThrough(t *testing.T) {
	// Generated source files legitimately contain brace pairs that are not
	// placeholders; they must survive untouched.
	cases := []string{
		"fn() { return {}; }",
		"{{ 1 + 2 }}",
		"css { color: red }",
		"{{not-an-identifier}}",
	}
	for _, content := range cases {
		got, err := Substitute(content, "f.txt", map[string]string{})
		require.NoErrorf(t, err, "content %q", content)
		assert.Equal(t, content, got)
	}
}
