package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/fwojciec/mdclip"
	"github.com/fwojciec/mdclip/export"
	"github.com/fwojciec/mdclip/fs"
)

// Export targets reported after a copy.
const (
	TargetClipboard = "clipboard"
	TargetStdout    = "stdout"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	Settings mdclip.SettingsService
	Exports  mdclip.ExportService
	Exporter *export.Exporter

	// Target names where exports are written.
	Target string
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool   `short:"v" help:"Log operations to stderr"`
	Config  string `type:"path" env:"MDCLIP_CONFIG" help:"Settings file (default ~/.mdclip/settings.yaml)"`
	DB      string `name:"db" type:"path" env:"MDCLIP_DB" help:"Export history database (default ~/.mdclip/history.db)"`

	Copy     CopyCmd     `cmd:"" help:"Export part of one or more notes"`
	Policies PoliciesCmd `cmd:"" help:"List the exports available for a note"`
	Settings SettingsCmd `cmd:"" help:"Show or change export settings"`
	History  HistoryCmd  `cmd:"" help:"Show recorded exports"`
}

// EditorFlags position the cursor and selection in an opened note.
type EditorFlags struct {
	Line int `short:"l" help:"Cursor line, 1-based (heading exports)"`
	From int `help:"First selected line, 1-based (selection exports)"`
	To   int `help:"Last selected line, 1-based (defaults to --from)"`
}

// open reads the note at path and applies the cursor and selection.
func (f *EditorFlags) open(path string) (*fs.Buffer, error) {
	buf, err := fs.ReadBuffer(path)
	if err != nil {
		return nil, err
	}
	if f.Line > 0 {
		if err := buf.SetCursor(f.Line - 1); err != nil {
			return nil, err
		}
	}
	if f.From > 0 {
		to := f.To
		if to == 0 {
			to = f.From
		}
		if err := buf.SelectLines(f.From-1, to-1); err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// CopyCmd is the "copy" subcommand.
type CopyCmd struct {
	Files     []string `arg:"" name:"file" help:"Markdown notes to export"`
	Policy    string   `short:"p" default:"document" help:"Export to run (see 'mdclip policies')"`
	Transform string   `short:"t" help:"Override the output format: html, text, list or markdown"`
	Stdout    bool     `help:"Write to stdout instead of the clipboard"`
	NoHistory bool     `help:"Do not record the export"`

	EditorFlags `embed:""`
}

// PoliciesCmd is the "policies" subcommand.
type PoliciesCmd struct {
	File string `arg:"" optional:"" help:"Note to check; lists every export when omitted"`

	EditorFlags `embed:""`
}

// SettingsCmd is the "settings" subcommand group.
type SettingsCmd struct {
	Show            SettingsShowCmd            `cmd:"" default:"withargs" help:"Print the current settings"`
	Reset           SettingsResetCmd           `cmd:"" help:"Restore the default settings"`
	Set             SettingsSetCmd             `cmd:"" help:"Change a setting"`
	AddSelector     SettingsAddSelectorCmd     `cmd:"" help:"Exclude elements matching a CSS selector"`
	RemoveSelector  SettingsRemoveSelectorCmd  `cmd:"" help:"Stop excluding a CSS selector"`
	AddAttribute    SettingsAddAttributeCmd    `cmd:"" help:"Strip an attribute from exported elements"`
	RemoveAttribute SettingsRemoveAttributeCmd `cmd:"" help:"Stop stripping an attribute"`
}

// SettingsShowCmd is the "settings show" subcommand.
type SettingsShowCmd struct {
	JSON bool `name:"json" help:"Print JSON instead of YAML"`
}

// SettingsResetCmd is the "settings reset" subcommand.
type SettingsResetCmd struct{}

// SettingsSetCmd is the "settings set" subcommand.
type SettingsSetCmd struct {
	Key   string `arg:"" help:"Setting key, e.g. sectionNames.story"`
	Value string `arg:"" help:"New value"`
}

// SettingsAddSelectorCmd is the "settings add-selector" subcommand.
type SettingsAddSelectorCmd struct {
	Selector string `arg:"" help:"CSS selector"`
}

// SettingsRemoveSelectorCmd is the "settings remove-selector" subcommand.
type SettingsRemoveSelectorCmd struct {
	Selector string `arg:"" help:"CSS selector"`
}

// SettingsAddAttributeCmd is the "settings add-attribute" subcommand.
type SettingsAddAttributeCmd struct {
	Name string `arg:"" help:"Attribute name"`
}

// SettingsRemoveAttributeCmd is the "settings remove-attribute" subcommand.
type SettingsRemoveAttributeCmd struct {
	Name string `arg:"" help:"Attribute name"`
}

// HistoryCmd is the "history" subcommand group.
type HistoryCmd struct {
	List HistoryListCmd `cmd:"" default:"withargs" help:"List recent exports"`
	Show HistoryShowCmd `cmd:"" help:"Print the content of a recorded export"`
}

// HistoryListCmd is the "history list" subcommand.
type HistoryListCmd struct {
	Limit  int    `short:"n" default:"20" help:"Maximum number of exports to list"`
	Policy string `help:"Only list exports of this policy"`
	Path   string `help:"Only list exports of this note"`
}

// HistoryShowCmd is the "history show" subcommand.
type HistoryShowCmd struct {
	ID string `arg:"" help:"Export ID"`
}

// printError reports err on stderr and returns it.
func printError(deps *Dependencies, err error) error {
	fmt.Fprintf(deps.Stderr, "error: %s\n", mdclip.ErrorMessage(err))
	return err
}
