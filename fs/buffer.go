// Package fs provides file-backed documents, settings storage, and an
// io.Writer sink.
package fs

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fwojciec/mdclip"
)

// Ensure Buffer implements mdclip.Editor at compile time.
var _ mdclip.Editor = (*Buffer)(nil)

// Buffer is a markdown document held in memory, with a cursor line and an
// optional selection. Line endings are normalized to "\n".
type Buffer struct {
	path  string
	lines []string

	cursor int
	from   mdclip.Position
	to     mdclip.Position
}

// NewBuffer creates a Buffer for text identified by path.
func NewBuffer(path, text string) *Buffer {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return &Buffer{
		path:  path,
		lines: strings.Split(text, "\n"),
	}
}

// ReadBuffer reads the markdown file at path.
// Returns ENOTFOUND if the file does not exist.
func ReadBuffer(path string) (*Buffer, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, mdclip.Errorf(mdclip.ENOTFOUND, "no active document: %s does not exist", path)
	} else if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return NewBuffer(path, string(data)), nil
}

// SetCursor moves the cursor to the zero-based line.
// Returns EINVALID if the line is outside the document.
func (b *Buffer) SetCursor(line int) error {
	if line < 0 || line >= len(b.lines) {
		return mdclip.Errorf(mdclip.EINVALID, "line %d is outside the document (1-%d)", line+1, len(b.lines))
	}
	b.cursor = line
	return nil
}

// Select selects the text between two positions, in either order.
// Positions are clamped to the document.
func (b *Buffer) Select(from, to mdclip.Position) {
	from, to = b.clamp(from), b.clamp(to)
	if to.Line < from.Line || (to.Line == from.Line && to.Ch < from.Ch) {
		from, to = to, from
	}
	b.from, b.to = from, to
}

// SelectLines selects whole lines from first to last, both zero-based and
// inclusive.
func (b *Buffer) SelectLines(first, last int) error {
	if first < 0 || last >= len(b.lines) || last < first {
		return mdclip.Errorf(mdclip.EINVALID, "invalid line range %d-%d (document has %d lines)", first+1, last+1, len(b.lines))
	}
	b.Select(mdclip.Position{Line: first}, mdclip.Position{Line: last, Ch: len(b.lines[last])})
	return nil
}

func (b *Buffer) Path() string {
	return b.path
}

func (b *Buffer) Text() string {
	return strings.Join(b.lines, "\n")
}

func (b *Buffer) Line(n int) string {
	if n < 0 || n >= len(b.lines) {
		return ""
	}
	return b.lines[n]
}

func (b *Buffer) LineCount() int {
	return len(b.lines)
}

func (b *Buffer) Range(from, to mdclip.Position) string {
	start, end := b.offset(b.clamp(from)), b.offset(b.clamp(to))
	if end <= start {
		return ""
	}
	return b.Text()[start:end]
}

func (b *Buffer) Selection() string {
	return b.Range(b.from, b.to)
}

func (b *Buffer) CursorLine() int {
	return b.cursor
}

func (b *Buffer) clamp(p mdclip.Position) mdclip.Position {
	p.Line = max(0, min(p.Line, len(b.lines)-1))
	p.Ch = max(0, min(p.Ch, len(b.lines[p.Line])))
	return p
}

// offset returns the byte offset of p in Text.
func (b *Buffer) offset(p mdclip.Position) int {
	n := 0
	for _, line := range b.lines[:p.Line] {
		n += len(line) + 1
	}
	return n + p.Ch
}
