// Package goquery implements the exported document tree on top of goquery:
// sanitizing, locating sections among top-level blocks, pruning, and
// serializing to HTML, text, or joined list items.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/mdclip"
)

// Tree is a rendered document. Its root is a synthetic container whose
// element children are the top-level blocks (headings, paragraphs, lists).
type Tree struct {
	root *goquery.Selection

	// pruned is the range of the last Prune, in the indices of the tree
	// before that call.
	pruned *mdclip.Range
}

// Parse builds a Tree from an HTML fragment.
func Parse(html string) (*Tree, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, mdclip.Errorf(mdclip.EINVALID, "failed to parse HTML: %v", err)
	}
	return &Tree{root: doc.Find("body").First()}, nil
}

// Blocks returns the top-level block elements in document order.
func (t *Tree) Blocks() *goquery.Selection {
	return t.root.Children()
}

// Len returns the number of top-level blocks.
func (t *Tree) Len() int {
	return t.Blocks().Length()
}

// Prune removes every top-level block outside r. Blocks are removed from the
// high end first, then the low end. An inverted range removes everything.
//
// r is read against the blocks as they are when Prune is called, so after a
// prune the kept blocks are renumbered from zero. Repeating the range of the
// last prune is a no-op: the tree already holds exactly that section.
func (t *Tree) Prune(r mdclip.Range) {
	if t.pruned != nil && *t.pruned == r {
		return
	}
	t.pruned = &r

	blocks := t.Blocks()
	n := blocks.Length()

	for i := n - 1; i > r.End && i >= 0; i-- {
		blocks.Eq(i).Remove()
	}
	for i := min(r.Start, n) - 1; i >= 0; i-- {
		blocks.Eq(i).Remove()
	}
}

// RemoveLeadingHeading removes the first block if it is a heading.
func (t *Tree) RemoveLeadingHeading() {
	first := t.Blocks().First()
	if headingLevel(goquery.NodeName(first)) > 0 {
		first.Remove()
		t.pruned = nil
	}
}

// HTML returns the inner HTML of the root, trimmed.
func (t *Tree) HTML() (string, error) {
	html, err := t.root.Html()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(html), nil
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}
