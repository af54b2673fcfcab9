package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/mdclip"
)

// Ensure LoggingExportService implements mdclip.ExportService.
var _ mdclip.ExportService = (*LoggingExportService)(nil)

// LoggingExportService wraps an ExportService with logging of recorded
// exports. Lookups are delegated without logging.
type LoggingExportService struct {
	next   mdclip.ExportService
	logger *slog.Logger
}

// NewLoggingExportService creates a new LoggingExportService.
func NewLoggingExportService(next mdclip.ExportService, logger *slog.Logger) *LoggingExportService {
	return &LoggingExportService{next: next, logger: logger}
}

// CreateExport delegates to the wrapped service and logs the operation.
func (s *LoggingExportService) CreateExport(ctx context.Context, e *mdclip.Export) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("record export",
			"id", e.ID,
			"policy", e.Policy,
			"path", e.Path,
			"characters", e.Characters,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateExport(ctx, e)
}

func (s *LoggingExportService) FindExportByID(ctx context.Context, id string) (*mdclip.Export, error) {
	return s.next.FindExportByID(ctx, id)
}

func (s *LoggingExportService) FindExports(ctx context.Context, filter mdclip.ExportFilter) ([]*mdclip.Export, error) {
	return s.next.FindExports(ctx, filter)
}
