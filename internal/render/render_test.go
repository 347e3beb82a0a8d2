package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_HTML(t *testing.T) {
	r := New()

	t.Run("headings and code fences", func(t *testing.T) {
		out, err := r.HTML([]byte("# Title\n\n```js\nconst a = 1\n```\n"))
		require.NoError(t, err)
		html := string(out)
		assert.Contains(t, html, "<h1 id=\"title\">Title</h1>")
		assert.Contains(t, html, "<pre><code class=\"language-js\">")
		assert.Contains(t, html, "const a = 1")
	})

	t.Run("gfm table", func(t *testing.T) {
		out, err := r.HTML([]byte("| a | b |\n|---|---|\n| 1 | 2 |\n"))
		require.NoError(t, err)
		assert.Contains(t, string(out), "<table>")
	})

	t.Run("jsx passes through escaped", func(t *testing.T) {
		out, err := r.HTML([]byte("<MyComponent prop={1} />\n"))
		require.NoError(t, err)
		// Raw JSX must never reach the output unescaped.
		assert.NotContains(t, string(out), "<MyComponent")
	})
}
