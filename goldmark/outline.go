package goldmark

import (
	"regexp"
	"slices"

	"github.com/fwojciec/mdclip"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Ensure Outline implements mdclip.HeadingIndex at compile time.
var _ mdclip.HeadingIndex = (*Outline)(nil)

// Outline indexes the top-level headings of a markdown document.
type Outline struct {
	parser parser.Parser
}

// NewOutline creates a new Outline.
func NewOutline() *Outline {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM, Notes))
	return &Outline{parser: md.Parser()}
}

var atxLineRe = regexp.MustCompile(`^ {0,3}#{1,6}(?:[ \t]|$)`)

// Headings returns the ATX and setext headings of markdown in document
// order. Headings inside code blocks, quotes and lists are not included,
// nor are ATX headings without text.
func (o *Outline) Headings(markdown string) ([]mdclip.Heading, error) {
	source := []byte(markdown)
	doc := o.parser.Parse(text.NewReader(source))
	starts := lineStarts(source)

	var headings []mdclip.Heading
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok {
			continue
		}
		lines := h.Lines()
		if lines.Len() == 0 {
			continue
		}

		start := lineOf(starts, lines.At(0).Start)
		end := lineOf(starts, lines.At(lines.Len()-1).Start)
		if !atxLineRe.Match(source[starts[start]:lines.At(0).Start]) {
			// Setext underline.
			end++
		}

		headings = append(headings, mdclip.Heading{
			Text:      plainText(h, source),
			Level:     h.Level,
			StartLine: start,
			EndLine:   end,
		})
	}
	return headings, nil
}

func lineStarts(source []byte) []int {
	starts := []int{0}
	for i, c := range source {
		if c == '\n' && i+1 < len(source) {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func lineOf(starts []int, offset int) int {
	i, found := slices.BinarySearch(starts, offset)
	if !found {
		i--
	}
	return i
}
