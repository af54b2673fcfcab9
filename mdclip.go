// Package mdclip copies sections of markdown notes as sanitized HTML or
// plain text. A note is rendered into an HTML tree, stripped of excluded
// elements and attributes, trimmed to the requested section (a heading,
// a named section such as "story" or "tags", or the leading summary) and
// serialized for the clipboard.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, goldmark/, sqlite/).
package mdclip
