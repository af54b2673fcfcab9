package fs

import (
	"context"
	"io"

	"github.com/fwojciec/mdclip"
)

// Ensure WriterSink implements mdclip.Sink at compile time.
var _ mdclip.Sink = (*WriterSink)(nil)

// WriterSink writes exports to an io.Writer, each followed by a newline.
type WriterSink struct {
	w io.Writer
}

// NewWriterSink creates a WriterSink writing to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := io.WriteString(s.w, text+"\n")
	return err
}
