package goquery

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/mdclip"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// HeadingAttr holds the raw heading title on rendered headings.
const HeadingAttr = "data-heading"

// TagLinkSelector matches links rendered for inline #tags.
const TagLinkSelector = "a.tag"

var tagLink = cascadia.MustCompile(TagLinkSelector)

// Locate finds the range of top-level blocks that make up the section
// described by p. The returned range always satisfies
// 0 <= Start <= End < Len(). Returns ENOTFOUND when no non-empty section
// exists, after trying p.Fallback if set.
func (t *Tree) Locate(p mdclip.SectionPolicy) (mdclip.Range, error) {
	var r mdclip.Range
	var err error

	switch p.Kind {
	case mdclip.SectionSummary:
		r, err = locateSummary(t.Blocks())
	default:
		r, err = locateNamed(t.Blocks(), p.DelimiterTags, p.Title)
	}

	if mdclip.ErrorCode(err) == mdclip.ENOTFOUND && p.Fallback != nil {
		return t.Locate(*p.Fallback)
	}
	return r, err
}

// locateNamed returns the blocks after the first delimiter titled title, up
// to but excluding the next delimiter.
func locateNamed(blocks *goquery.Selection, tags []string, title string) (mdclip.Range, error) {
	target := normalizeTitle(title)
	start, end := -1, blocks.Length()-1

	blocks.EachWithBreak(func(i int, s *goquery.Selection) bool {
		if !isDelimiter(goquery.NodeName(s), tags) {
			return true
		}
		if start >= 0 {
			end = i - 1
			return false
		}
		if headingTitle(s) == target {
			start = i + 1
		}
		return true
	})

	if start < 0 {
		return mdclip.Range{}, mdclip.Errorf(mdclip.ENOTFOUND, "no %s section could be identified", title)
	}
	if end < start {
		return mdclip.Range{}, mdclip.Errorf(mdclip.ENOTFOUND, "the %s section is empty", title)
	}
	return mdclip.Range{Start: start, End: end}, nil
}

// locateSummary returns the leading run of paragraphs that contain no tag
// link. The run must be ended by some other block; a document made only of
// untagged paragraphs has no identifiable summary.
func locateSummary(blocks *goquery.Selection) (mdclip.Range, error) {
	end := -1

	blocks.EachWithBreak(func(i int, s *goquery.Selection) bool {
		if goquery.NodeName(s) != "p" || s.FindMatcher(tagLink).Length() > 0 {
			end = i - 1
			return false
		}
		return true
	})

	if end < 0 {
		return mdclip.Range{}, mdclip.Errorf(mdclip.ENOTFOUND, "no summary section could be identified")
	}
	return mdclip.Range{Start: 0, End: end}, nil
}

func isDelimiter(name string, tags []string) bool {
	for _, tag := range tags {
		if strings.EqualFold(name, tag) {
			return true
		}
	}
	return false
}

// headingTitle returns the normalized title of a heading block, preferring
// the raw title attribute added by the renderer over the text content.
func headingTitle(s *goquery.Selection) string {
	if v, ok := s.Attr(HeadingAttr); ok {
		return normalizeTitle(v)
	}
	return normalizeTitle(s.Text())
}

// normalizeTitle strips invisible format characters (zero-width spaces and
// joiners, byte order marks, direction marks), trims and case-folds.
func normalizeTitle(s string) string {
	visible, _, err := transform.String(runes.Remove(runes.In(unicode.Cf)), s)
	if err != nil {
		visible = s
	}
	return cases.Fold().String(strings.TrimSpace(visible))
}
