package goldmark

import (
	"bytes"
	"path"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Notes adds note syntax to goldmark: inline #tags, [[internal links]] and
// ![[embeds]]. Headings get a data-heading attribute holding their plain
// title, and headings and paragraphs get dir="auto".
var Notes goldmark.Extender = &notes{}

var pathKey = parser.NewContextKey()

type notes struct{}

func (e *notes) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithInlineParsers(
			// Before the standard link parser (200).
			util.Prioritized(&internalLinkParser{}, 199),
			util.Prioritized(&tagParser{}, 999),
		),
		parser.WithASTTransformers(
			util.Prioritized(&blockAttributes{}, 999),
		),
	)
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(
			util.Prioritized(&noteRenderer{}, 500),
		),
	)
}

// KindTag is the NodeKind of Tag nodes.
var KindTag = ast.NewNodeKind("Tag")

// Tag is an inline #tag.
type Tag struct {
	ast.BaseInline

	// Name is the tag without the leading '#'.
	Name []byte
}

// Kind implements ast.Node.
func (n *Tag) Kind() ast.NodeKind {
	return KindTag
}

// Dump implements ast.Node.
func (n *Tag) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Name": string(n.Name)}, nil)
}

// KindInternalLink is the NodeKind of InternalLink nodes.
var KindInternalLink = ast.NewNodeKind("InternalLink")

// InternalLink is a [[link]] or ![[embed]] to another note or to a heading
// or block of the current one.
type InternalLink struct {
	ast.BaseInline

	// Target is the link target as written.
	Target []byte

	// Href is Target resolved against the current note: targets starting
	// with '#' are prefixed with the note name.
	Href []byte

	// Label is the display text.
	Label []byte

	Embed bool
}

// Kind implements ast.Node.
func (n *InternalLink) Kind() ast.NodeKind {
	return KindInternalLink
}

// Dump implements ast.Node.
func (n *InternalLink) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Target": string(n.Target),
		"Label":  string(n.Label),
	}, nil)
}

type tagParser struct{}

func (p *tagParser) Trigger() []byte {
	return []byte{'#'}
}

func (p *tagParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	if !unicode.IsSpace(block.PrecendingCharacter()) {
		return nil
	}
	line, _ := block.PeekLine()
	n := tagLength(line[1:])
	if n == 0 {
		return nil
	}
	name := slices.Clone(line[1 : 1+n])
	block.Advance(1 + n)
	return &Tag{Name: name}
}

// tagLength returns the length of the tag name at the start of b. Names
// consist of letters, digits, '_', '-' and '/', and are not all digits.
func tagLength(b []byte) int {
	n := 0
	named := false
	for n < len(b) {
		r, size := utf8.DecodeRune(b[n:])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-' && r != '/' {
			break
		}
		if !unicode.IsDigit(r) {
			named = true
		}
		n += size
	}
	if !named {
		return 0
	}
	return n
}

var (
	linkOpen  = []byte("[[")
	linkClose = []byte("]]")
)

type internalLinkParser struct{}

func (p *internalLinkParser) Trigger() []byte {
	return []byte{'!', '['}
}

func (p *internalLinkParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, _ := block.PeekLine()

	embed := line[0] == '!'
	consumed := 0
	if embed {
		line = line[1:]
		consumed++
	}
	if !bytes.HasPrefix(line, linkOpen) {
		return nil
	}
	end := bytes.Index(line[len(linkOpen):], linkClose)
	if end < 0 {
		return nil
	}

	inner := line[len(linkOpen) : len(linkOpen)+end]
	target, label, hasLabel := bytes.Cut(inner, []byte{'|'})
	target = bytes.TrimSpace(target)
	if len(target) == 0 {
		return nil
	}
	if label = bytes.TrimSpace(label); !hasLabel || len(label) == 0 {
		label = target
	}

	block.Advance(consumed + len(linkOpen) + end + len(linkClose))

	note, _ := pc.Get(pathKey).(string)
	return &InternalLink{
		Target: slices.Clone(target),
		Href:   resolveHref(target, note),
		Label:  slices.Clone(label),
		Embed:  embed,
	}
}

// resolveHref prefixes same-note references with the note name.
func resolveHref(target []byte, note string) []byte {
	if target[0] != '#' || note == "" {
		return slices.Clone(target)
	}
	name := strings.TrimSuffix(path.Base(note), path.Ext(note))
	return append([]byte(name), target...)
}

type blockAttributes struct{}

func (t *blockAttributes) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Heading:
			n.SetAttributeString("data-heading", []byte(plainText(n, source)))
			n.SetAttributeString("dir", []byte("auto"))
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph:
			n.SetAttributeString("dir", []byte("auto"))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
}

// plainText returns the text of an inline container as the reader sees it.
func plainText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch c := c.(type) {
		case *ast.Text:
			b.Write(c.Segment.Value(source))
			if c.SoftLineBreak() || c.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(c.Value)
		case *ast.AutoLink:
			b.Write(c.Label(source))
		case *Tag:
			b.WriteByte('#')
			b.Write(c.Name)
		case *InternalLink:
			b.Write(c.Label)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

type noteRenderer struct{}

func (r *noteRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindTag, r.renderTag)
	reg.Register(KindInternalLink, r.renderInternalLink)
}

func (r *noteRenderer) renderTag(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*Tag)
	name := util.EscapeHTML(n.Name)
	_, _ = w.WriteString(`<a href="#`)
	_, _ = w.Write(name)
	_, _ = w.WriteString(`" class="tag" target="_blank" rel="noopener">#`)
	_, _ = w.Write(name)
	_, _ = w.WriteString("</a>")
	return ast.WalkContinue, nil
}

func (r *noteRenderer) renderInternalLink(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*InternalLink)
	href := util.EscapeHTML(n.Href)
	if n.Embed {
		_, _ = w.WriteString(`<span alt="`)
		_, _ = w.Write(util.EscapeHTML(n.Label))
		_, _ = w.WriteString(`" src="`)
		_, _ = w.Write(href)
		_, _ = w.WriteString(`" class="internal-embed"></span>`)
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString(`<a data-href="`)
	_, _ = w.Write(href)
	_, _ = w.WriteString(`" href="`)
	_, _ = w.Write(href)
	_, _ = w.WriteString(`" class="internal-link" target="_blank" rel="noopener">`)
	_, _ = w.Write(util.EscapeHTML(n.Label))
	_, _ = w.WriteString("</a>")
	return ast.WalkContinue, nil
}
