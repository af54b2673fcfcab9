// Package goldmark renders note markdown with goldmark and indexes its
// headings.
package goldmark

import (
	"bytes"
	"context"
	"fmt"

	"github.com/fwojciec/mdclip"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Ensure Renderer implements mdclip.Renderer at compile time.
var _ mdclip.Renderer = (*Renderer)(nil)

// Renderer converts note markdown to HTML. Line breaks inside paragraphs
// are kept and raw HTML passes through, as in the note editor preview.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer creates a new Renderer.
func NewRenderer() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM, Notes),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithUnsafe(),
		),
	)
	return &Renderer{md: md}
}

// Render converts markdown to an HTML fragment. Every call gets its own
// parser context carrying path, so concurrent renders never share state.
func (r *Renderer) Render(ctx context.Context, markdown, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	pc := parser.NewContext()
	pc.Set(pathKey, path)

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf, parser.WithContext(pc)); err != nil {
		return "", fmt.Errorf("render %s: %w", path, err)
	}
	return buf.String(), nil
}
