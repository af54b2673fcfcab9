// Package clipboard writes exports to the system clipboard.
package clipboard

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/fwojciec/mdclip"
)

// Ensure Sink implements mdclip.Sink at compile time.
var _ mdclip.Sink = (*Sink)(nil)

// Sink copies text to the system clipboard.
type Sink struct{}

// NewSink creates a new Sink.
func NewSink() *Sink {
	return &Sink{}
}

// Available reports whether a clipboard utility was found.
func Available() bool {
	return !clipboard.Unsupported
}

// WriteText replaces the clipboard contents with text.
// Returns EINVALID if no clipboard utility is available.
func (s *Sink) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if clipboard.Unsupported {
		return mdclip.Errorf(mdclip.EINVALID, "no clipboard available; use --stdout")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}
