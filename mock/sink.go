package mock

import (
	"context"

	"github.com/fwojciec/mdclip"
)

var _ mdclip.Sink = (*Sink)(nil)

// Sink is a mock implementation of mdclip.Sink.
type Sink struct {
	WriteTextFn func(ctx context.Context, text string) error
}

func (s *Sink) WriteText(ctx context.Context, text string) error {
	return s.WriteTextFn(ctx, text)
}
