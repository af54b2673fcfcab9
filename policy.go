package mdclip

import "strings"

// Source selects the part of a document that is rendered for an export.
type Source int

const (
	SourceDocument Source = iota
	SourceSelection
	SourceHeading
)

// String returns the source name.
func (s Source) String() string {
	switch s {
	case SourceSelection:
		return "selection"
	case SourceHeading:
		return "heading"
	default:
		return "document"
	}
}

// Transform is the final serialization applied to an exported tree.
type Transform string

// Transform constants.
const (
	TransformHTML     Transform = "html"
	TransformText     Transform = "text"
	TransformList     Transform = "list"
	TransformMarkdown Transform = "markdown"
)

// Transforms lists every transform in menu order.
var Transforms = []Transform{TransformHTML, TransformText, TransformList, TransformMarkdown}

// ParseTransform returns the transform with the given name.
// An empty name returns an empty transform, meaning the policy default.
func ParseTransform(name string) (Transform, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "", nil
	}
	for _, t := range Transforms {
		if string(t) == name {
			return t, nil
		}
	}
	return "", Errorf(EINVALID, "unknown transform %q", name)
}

// SectionKind selects how a section is located among the top-level blocks.
type SectionKind int

const (
	// SectionNamed is delimited by headings and starts after the heading
	// whose title matches.
	SectionNamed SectionKind = iota

	// SectionSummary is the leading run of paragraphs without tag links.
	SectionSummary
)

// SectionPolicy describes how to find a section in a rendered tree.
type SectionPolicy struct {
	Kind SectionKind

	// DelimiterTags are the element names of section headings (SectionNamed).
	DelimiterTags []string

	// Title is the heading title that starts the section (SectionNamed).
	Title string

	// Fallback is tried when this policy finds nothing.
	Fallback *SectionPolicy
}

// Range is an inclusive range of indices into the top-level blocks of a tree.
type Range struct {
	Start int
	End   int
}

// Len returns the number of blocks in the range.
func (r Range) Len() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start + 1
}

// Policy is a named export variant.
type Policy struct {
	Name  string
	Title string
	Icon  string

	Source Source

	// Section trims the rendered tree. Nil exports everything rendered.
	Section *SectionPolicy

	// Transform is the default serialization.
	Transform Transform

	// Applies reports whether the policy makes sense for the editor state.
	// Nil means always.
	Applies func(ed Editor) bool
}

// Policy names.
const (
	PolicySelection   = "selection"
	PolicyHeading     = "heading"
	PolicyHeadingList = "heading-list"
	PolicyDocument    = "document"
	PolicySummary     = "summary"
	PolicyStory       = "story"
	PolicyTags        = "tags"
)

// Policies returns the export variants configured by s.
func Policies(s *Settings) []Policy {
	tags := s.DelimiterTags()

	summary := &SectionPolicy{Kind: SectionSummary}
	if title := strings.TrimSpace(s.SectionNames.Summary); title != "" {
		summary = &SectionPolicy{Kind: SectionNamed, DelimiterTags: tags, Title: title, Fallback: summary}
	}

	return []Policy{
		{
			Name:      PolicySelection,
			Title:     "Copy selection",
			Icon:      "text-select",
			Source:    SourceSelection,
			Transform: TransformHTML,
			Applies:   hasSelection,
		},
		{
			Name:      PolicyHeading,
			Title:     "Copy heading",
			Icon:      "heading",
			Source:    SourceHeading,
			Transform: TransformHTML,
			Applies:   atHeading,
		},
		{
			Name:      PolicyHeadingList,
			Title:     "Copy heading as list",
			Icon:      "list",
			Source:    SourceHeading,
			Transform: TransformList,
			Applies:   atHeading,
		},
		{
			Name:      PolicyDocument,
			Title:     "Entire document",
			Icon:      "document",
			Source:    SourceDocument,
			Transform: TransformHTML,
		},
		{
			Name:      PolicySummary,
			Title:     "Summary",
			Icon:      "sigma",
			Source:    SourceDocument,
			Section:   summary,
			Transform: TransformHTML,
		},
		{
			Name:      PolicyStory,
			Title:     "Story",
			Icon:      "align-left",
			Source:    SourceDocument,
			Section:   &SectionPolicy{Kind: SectionNamed, DelimiterTags: tags, Title: s.SectionNames.Story},
			Transform: TransformHTML,
		},
		{
			Name:      PolicyTags,
			Title:     "Tags",
			Icon:      "tags",
			Source:    SourceDocument,
			Section:   &SectionPolicy{Kind: SectionNamed, DelimiterTags: tags, Title: s.SectionNames.Tags},
			Transform: TransformList,
		},
	}
}

// FindPolicy returns the policy with the given name.
// Returns ENOTFOUND for unknown names.
func FindPolicy(s *Settings, name string) (Policy, error) {
	for _, p := range Policies(s) {
		if p.Name == name {
			return p, nil
		}
	}
	return Policy{}, Errorf(ENOTFOUND, "unknown export %q", name)
}

func hasSelection(ed Editor) bool {
	return ed.Selection() != ""
}

func atHeading(ed Editor) bool {
	return IsHeadingLine(ed.Line(ed.CursorLine()))
}
