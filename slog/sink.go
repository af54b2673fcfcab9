package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/mdclip"
)

// Ensure LoggingSink implements mdclip.Sink.
var _ mdclip.Sink = (*LoggingSink)(nil)

// LoggingSink wraps a Sink with logging.
type LoggingSink struct {
	next   mdclip.Sink
	name   string
	logger *slog.Logger
}

// NewLoggingSink creates a new LoggingSink. Name identifies the sink in logs.
func NewLoggingSink(next mdclip.Sink, name string, logger *slog.Logger) *LoggingSink {
	return &LoggingSink{next: next, name: name, logger: logger}
}

// WriteText delegates to the wrapped sink and logs the operation.
func (s *LoggingSink) WriteText(ctx context.Context, text string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("write",
			"sink", s.name,
			"bytes", len(text),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.WriteText(ctx, text)
}
