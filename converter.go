package mdclip

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	// The input should be sanitized HTML (e.g., an exported tree).
	// Returns the Markdown representation of the content.
	Convert(html string) (string, error)
}
