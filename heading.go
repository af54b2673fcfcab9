package mdclip

import (
	"regexp"
	"strings"
)

// Heading represents a heading in a markdown document.
// Lines are zero-based and inclusive.
type Heading struct {
	Text      string `json:"text"`
	Level     int    `json:"level"`
	StartLine int    `json:"startLine"`
	EndLine   int    `json:"endLine"`
}

// HeadingIndex builds the outline of a markdown document.
type HeadingIndex interface {
	// Headings returns all headings in document order.
	// Levels are not necessarily monotonic.
	Headings(markdown string) ([]Heading, error)
}

// LineRange is an inclusive range of zero-based lines.
type LineRange struct {
	Start int
	End   int
}

var headingLineRe = regexp.MustCompile(`^#{1,6} (.*)`)

// IsHeadingLine reports whether line opens an ATX heading.
func IsHeadingLine(line string) bool {
	return headingLineRe.MatchString(line)
}

// FindHeadingSection returns the lines belonging to the heading that starts
// at cursorLine: the heading itself and everything up to the next heading
// of the same or a higher level. Blank lines before that next heading are
// excluded. Without a next heading the section runs to the end of the document.
// Returns ENOTFOUND if no heading starts at cursorLine.
func FindHeadingSection(headings []Heading, cursorLine int, lines Lines) (LineRange, error) {
	current := -1
	next := -1

	for i, h := range headings {
		if current >= 0 && h.Level <= headings[current].Level {
			next = i
			break
		}
		if current < 0 && h.StartLine == cursorLine {
			current = i
		}
	}

	if current < 0 {
		return LineRange{}, Errorf(ENOTFOUND, "no heading found at line %d", cursorLine+1)
	}

	var end int
	if next >= 0 {
		end = headings[next].StartLine - 1
		for end > cursorLine && strings.TrimSpace(lines.Line(end)) == "" {
			end--
		}
	} else {
		end = lines.LineCount() - 1
	}

	return LineRange{Start: cursorLine, End: end}, nil
}
