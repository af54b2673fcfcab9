package main

import (
	"fmt"

	"github.com/fwojciec/mdclip"
)

// Run executes the history list command.
func (c *HistoryListCmd) Run(deps *Dependencies) error {
	filter := mdclip.ExportFilter{Limit: c.Limit}
	if c.Policy != "" {
		filter.Policy = &c.Policy
	}
	if c.Path != "" {
		filter.Path = &c.Path
	}

	exports, err := deps.Exports.FindExports(deps.Ctx, filter)
	if err != nil {
		return printError(deps, err)
	}

	if len(exports) == 0 {
		fmt.Fprintln(deps.Stdout, "No exports recorded yet. Use 'mdclip copy' to export a note.")
		return nil
	}

	fmt.Fprintln(deps.Stdout, mdclip.FormatExports(exports))
	return nil
}

// Run executes the history show command.
func (c *HistoryShowCmd) Run(deps *Dependencies) error {
	e, err := deps.Exports.FindExportByID(deps.Ctx, c.ID)
	if err != nil {
		return printError(deps, err)
	}

	fmt.Fprintln(deps.Stdout, e.Content)
	return nil
}
