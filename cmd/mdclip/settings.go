package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/mdclip"
	"github.com/fwojciec/mdclip/goquery"
	"gopkg.in/yaml.v3"
)

// Run executes the settings show command.
func (c *SettingsShowCmd) Run(deps *Dependencies) error {
	settings, err := deps.Settings.LoadSettings(deps.Ctx)
	if err != nil {
		return printError(deps, err)
	}

	var data []byte
	if c.JSON {
		data, err = json.MarshalIndent(settings, "", "  ")
		data = append(data, '\n')
	} else {
		data, err = yaml.Marshal(settings)
	}
	if err != nil {
		return printError(deps, fmt.Errorf("encode settings: %w", err))
	}

	_, err = deps.Stdout.Write(data)
	return err
}

// Run executes the settings reset command.
func (c *SettingsResetCmd) Run(deps *Dependencies) error {
	if err := deps.Settings.SaveSettings(deps.Ctx, mdclip.DefaultSettings()); err != nil {
		return printError(deps, err)
	}
	fmt.Fprintln(deps.Stdout, "Settings restored to defaults.")
	return nil
}

// Run executes the settings set command.
func (c *SettingsSetCmd) Run(deps *Dependencies) error {
	return updateSettings(deps, func(s *mdclip.Settings) error {
		return s.Set(c.Key, c.Value)
	})
}

// Run executes the settings add-selector command.
func (c *SettingsAddSelectorCmd) Run(deps *Dependencies) error {
	return updateSettings(deps, func(s *mdclip.Settings) error {
		s.AddSelector(c.Selector)
		return nil
	})
}

// Run executes the settings remove-selector command.
func (c *SettingsRemoveSelectorCmd) Run(deps *Dependencies) error {
	return updateSettings(deps, func(s *mdclip.Settings) error {
		return s.RemoveSelector(c.Selector)
	})
}

// Run executes the settings add-attribute command.
func (c *SettingsAddAttributeCmd) Run(deps *Dependencies) error {
	return updateSettings(deps, func(s *mdclip.Settings) error {
		s.AddAttribute(c.Name)
		return nil
	})
}

// Run executes the settings remove-attribute command.
func (c *SettingsRemoveAttributeCmd) Run(deps *Dependencies) error {
	return updateSettings(deps, func(s *mdclip.Settings) error {
		return s.RemoveAttribute(c.Name)
	})
}

// updateSettings loads the settings, applies fn and saves the result.
// Nothing is saved if fn fails or the selectors do not compile.
func updateSettings(deps *Dependencies, fn func(s *mdclip.Settings) error) error {
	settings, err := deps.Settings.LoadSettings(deps.Ctx)
	if err != nil {
		return printError(deps, err)
	}

	if err := fn(settings); err != nil {
		return printError(deps, err)
	}

	if _, err := goquery.RulesFromSettings(settings); err != nil {
		return printError(deps, err)
	}

	if err := deps.Settings.SaveSettings(deps.Ctx, settings); err != nil {
		return printError(deps, err)
	}

	fmt.Fprintln(deps.Stdout, "Settings saved.")
	return nil
}
