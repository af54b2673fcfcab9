package mdclip

// Position is a location in a document. Line is zero-based and Ch is a
// byte offset within the line.
type Position struct {
	Line int
	Ch   int
}

// Lines provides line-level access to a document.
type Lines interface {
	// Line returns the text of line n without its terminator.
	// Out of range lines are empty.
	Line(n int) string

	// LineCount returns the number of lines in the document.
	LineCount() int
}

// Editor is an open markdown document with a cursor and an optional selection.
type Editor interface {
	Lines

	// Path identifies the document. Renderers resolve embeds relative to it.
	Path() string

	// Text returns the whole document.
	Text() string

	// Range returns the text between from (inclusive) and to (exclusive).
	Range(from, to Position) string

	// Selection returns the selected text, or an empty string.
	Selection() string

	// CursorLine returns the zero-based line of the cursor.
	CursorLine() int
}
