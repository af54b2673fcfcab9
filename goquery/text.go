package goquery

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/mdclip"
	"golang.org/x/net/html"
)

// Text returns the flattened text content of the tree, trimmed.
// Paragraphs are separated by a blank line, other blocks and <br> by a
// line break; whitespace outside <pre> is collapsed.
func (t *Tree) Text() string {
	return flatten(t.root)
}

// ListItems returns the flattened text of every list item in the tree,
// nested ones included, joined with separator in document order.
// Returns ENOTFOUND if the tree contains no list items.
func (t *Tree) ListItems(separator string) (string, error) {
	items := t.root.Find("li").Map(func(_ int, s *goquery.Selection) string {
		return flatten(s)
	})
	if len(items) == 0 {
		return "", mdclip.Errorf(mdclip.ENOTFOUND, "no list items could be located")
	}
	return strings.Join(items, separator), nil
}

func flatten(s *goquery.Selection) string {
	f := &flattener{}
	for _, n := range s.Nodes {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f.walk(c, false)
		}
	}
	return strings.TrimSpace(f.b.String())
}

// flattener accumulates text with line breaks owed between blocks.
type flattener struct {
	b         strings.Builder
	pending   int
	space     bool
	lineStart bool
}

func (f *flattener) walk(n *html.Node, pre bool) {
	switch n.Type {
	case html.TextNode:
		if pre {
			f.raw(n.Data)
		} else {
			f.inline(n.Data)
		}
		return
	case html.ElementNode:
	default:
		return
	}

	switch n.Data {
	case "br":
		f.raw("\n")
		return
	case "script", "style", "template":
		return
	}

	breaks := lineBreaks(n.Data)
	f.breakLines(breaks)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		f.walk(c, pre || n.Data == "pre")
	}
	f.breakLines(breaks)

	if (n.Data == "td" || n.Data == "th") && nextElement(n) != nil {
		f.raw("\t")
	}
}

func (f *flattener) breakLines(n int) {
	if n > f.pending {
		f.pending = n
	}
}

func (f *flattener) inline(s string) {
	words := strings.Fields(s)
	if len(words) == 0 {
		if s != "" {
			f.space = true
		}
		return
	}
	if unicode.IsSpace(rune(s[0])) {
		f.space = true
	}
	f.emit(strings.Join(words, " "), true)
	f.space = unicode.IsSpace(rune(s[len(s)-1]))
}

func (f *flattener) raw(s string) {
	if s == "" {
		return
	}
	f.emit(s, false)
}

func (f *flattener) emit(s string, spaced bool) {
	if f.b.Len() > 0 {
		if f.pending > 0 {
			f.b.WriteString(strings.Repeat("\n", f.pending))
			f.lineStart = true
		} else if spaced && f.space && !f.lineStart {
			f.b.WriteByte(' ')
		}
	}
	f.pending = 0
	f.space = false
	f.b.WriteString(s)
	f.lineStart = strings.HasSuffix(s, "\n")
}

// lineBreaks returns the line breaks required around an element.
func lineBreaks(tag string) int {
	switch tag {
	case "p":
		return 2
	case "address", "article", "aside", "blockquote", "dd", "details", "div",
		"dl", "dt", "figcaption", "figure", "footer", "h1", "h2", "h3", "h4",
		"h5", "h6", "header", "hr", "li", "main", "nav", "ol", "pre",
		"section", "summary", "table", "tr", "ul":
		return 1
	}
	return 0
}

func nextElement(n *html.Node) *html.Node {
	for c := n.NextSibling; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return c
		}
	}
	return nil
}
