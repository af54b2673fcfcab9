package mdclip

import "context"

// Sink receives the final export text, e.g. the system clipboard.
type Sink interface {
	WriteText(ctx context.Context, text string) error
}
