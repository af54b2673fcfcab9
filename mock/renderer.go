package mock

import (
	"context"

	"github.com/fwojciec/mdclip"
)

var _ mdclip.Renderer = (*Renderer)(nil)

// Renderer is a mock implementation of mdclip.Renderer.
type Renderer struct {
	RenderFn func(ctx context.Context, markdown, path string) (string, error)
}

func (r *Renderer) Render(ctx context.Context, markdown, path string) (string, error) {
	return r.RenderFn(ctx, markdown, path)
}
