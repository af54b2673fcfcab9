package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/mdclip"
)

// Ensure LoggingSettingsService implements mdclip.SettingsService.
var _ mdclip.SettingsService = (*LoggingSettingsService)(nil)

// LoggingSettingsService wraps a SettingsService with logging.
type LoggingSettingsService struct {
	next   mdclip.SettingsService
	logger *slog.Logger
}

// NewLoggingSettingsService creates a new LoggingSettingsService.
func NewLoggingSettingsService(next mdclip.SettingsService, logger *slog.Logger) *LoggingSettingsService {
	return &LoggingSettingsService{next: next, logger: logger}
}

// LoadSettings delegates to the wrapped service and logs the operation.
func (s *LoggingSettingsService) LoadSettings(ctx context.Context) (settings *mdclip.Settings, err error) {
	defer func(begin time.Time) {
		attrs := []any{"duration", time.Since(begin), "err", err}
		if settings != nil {
			attrs = append(attrs,
				"selectors", len(settings.RemovedSelectors),
				"attributes", len(settings.RemovedAttributes),
			)
		}
		s.logger.Info("load settings", attrs...)
	}(time.Now())
	return s.next.LoadSettings(ctx)
}

// SaveSettings delegates to the wrapped service and logs the operation.
func (s *LoggingSettingsService) SaveSettings(ctx context.Context, settings *mdclip.Settings) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("save settings",
			"selectors", len(settings.RemovedSelectors),
			"attributes", len(settings.RemovedAttributes),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SaveSettings(ctx, settings)
}
