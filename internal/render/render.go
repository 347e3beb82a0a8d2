package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer converts a markdown post body to HTML. It is safe for concurrent
// use; goldmark.Markdown instances are stateless after construction.
//
// MDX import/export statements and JSX blocks are not evaluated here. They
// reach the renderer as plain text and come out HTML-escaped, which is the
// desired behavior for a system that stores but does not execute components.
type Renderer struct {
	md goldmark.Markdown
}

// New builds a Renderer with GitHub-flavored tables, strikethrough and
// autolinks enabled, matching what the posts in the corpus actually use.
func New() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.Table,
				extension.Strikethrough,
				extension.Linkify,
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				html.WithHardWraps(),
			),
		),
	}
}

// HTML renders body (front matter already stripped) to HTML.
func (r *Renderer) HTML(body []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(body, &buf); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	return buf.Bytes(), nil
}
