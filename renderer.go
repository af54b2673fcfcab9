package mdclip

import "context"

// Renderer renders markdown into HTML.
type Renderer interface {
	// Render converts markdown belonging to the document at path into an
	// HTML fragment of block elements. Rendering state is scoped to the call.
	Render(ctx context.Context, markdown, path string) (string, error)
}
