package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fwojciec/mdclip"
	"gopkg.in/yaml.v3"
)

// Ensure SettingsStore implements mdclip.SettingsService at compile time.
var _ mdclip.SettingsService = (*SettingsStore)(nil)

// SettingsStore keeps settings in a single YAML file, or JSON when the file
// name ends in .json. Saves replace the file atomically.
type SettingsStore struct {
	path string
}

// NewSettingsStore creates a SettingsStore for the file at path.
func NewSettingsStore(path string) *SettingsStore {
	return &SettingsStore{path: path}
}

// Path returns the settings file path.
func (s *SettingsStore) Path() string {
	return s.path
}

// LoadSettings reads the settings file over the defaults; keys missing from
// the file keep their default values. A missing file yields the defaults.
func (s *SettingsStore) LoadSettings(ctx context.Context) (*mdclip.Settings, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	settings := mdclip.DefaultSettings()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return settings, nil
	} else if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	if s.isJSON() {
		err = json.Unmarshal(data, settings)
	} else {
		err = yaml.Unmarshal(data, settings)
	}
	if err != nil {
		return nil, mdclip.Errorf(mdclip.EINVALID, "invalid settings file %s: %v", s.path, err)
	}

	return settings, nil
}

// SaveSettings validates settings and replaces the settings file.
// The file is written to a temporary sibling first and then renamed.
func (s *SettingsStore) SaveSettings(ctx context.Context, settings *mdclip.Settings) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	var data []byte
	var err error
	if s.isJSON() {
		data, err = json.MarshalIndent(settings, "", "  ")
	} else {
		data, err = yaml.Marshal(settings)
	}
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".settings-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp settings: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace settings: %w", err)
	}
	return nil
}

func (s *SettingsStore) isJSON() bool {
	return filepath.Ext(s.path) == ".json"
}
