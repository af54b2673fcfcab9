package mock

import (
	"context"

	"github.com/fwojciec/mdclip"
)

var _ mdclip.SettingsService = (*SettingsService)(nil)

// SettingsService is a mock implementation of mdclip.SettingsService.
type SettingsService struct {
	LoadSettingsFn func(ctx context.Context) (*mdclip.Settings, error)
	SaveSettingsFn func(ctx context.Context, s *mdclip.Settings) error
}

func (m *SettingsService) LoadSettings(ctx context.Context) (*mdclip.Settings, error) {
	return m.LoadSettingsFn(ctx)
}

func (m *SettingsService) SaveSettings(ctx context.Context, s *mdclip.Settings) error {
	return m.SaveSettingsFn(ctx, s)
}
