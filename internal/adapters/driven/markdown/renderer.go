// Package markdown renders section bodies to HTML with goldmark.
package markdown

import (
	"bytes"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/custodia-labs/sercha-docs/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.MarkdownRenderer = (*Renderer)(nil)

// Renderer converts CommonMark plus GitHub extensions to HTML.
// Raw HTML in the source is omitted from the output.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer creates a new Renderer
func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(gmhtml.WithXHTML()),
		),
	}
}

// Render converts markdown to HTML. On a conversion error the source is
// returned escaped inside a <pre> block.
func (r *Renderer) Render(markdown string) string {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "<pre>" + html.EscapeString(markdown) + "</pre>\n"
	}
	return buf.String()
}
